// SPDX-FileCopyrightText: 2025 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package xsettings

import (
	dbus "github.com/godbus/dbus/v5"
	ddeSysDaemon "github.com/linuxdeepin/go-dbus-factory/system/org.deepin.dde.daemon1"
	greeter "github.com/linuxdeepin/go-dbus-factory/system/org.deepin.dde.greeter1"
	gio "github.com/linuxdeepin/go-gir/gio-2.0"
	"github.com/linuxdeepin/go-lib/dbusutil"
	x "github.com/linuxdeepin/go-x11-client"
	"golang.org/x/xerrors"
)

// Start wires the production sinks together, runs the startup
// synchronization and exports the manager on the session bus.
func Start(conn *x.Conn, recommendedScaleFactor float64, service *dbusutil.Service) (*XSManager, error) {
	prop, err := newX11PropertySink(conn)
	if err != nil {
		return nil, err
	}

	systemBus, err := dbus.SystemBus()
	if err != nil {
		return nil, err
	}

	store, err := newDConfigStore()
	if err != nil {
		return nil, xerrors.Errorf("new dconfig failed: %w", err)
	}

	m := NewXSManager(store, prop, newX11ResourceSink(conn),
		newGreeterSink(systemBus), newPlymouthSink(systemBus),
		newWMCursorSink(service.Conn()), service)
	m.start(recommendedScaleFactor)

	err = service.Export(xsDBusPath, m)
	if err != nil {
		return nil, err
	}

	err = service.RequestName(xsDBusService)
	if err != nil {
		return nil, err
	}

	store.ConnectValueChanged(m.handleConfigChanged)
	return m, nil
}

type greeterSink struct {
	greeter greeter.Greeter
}

func newGreeterSink(systemBus *dbus.Conn) *greeterSink {
	return &greeterSink{
		greeter: greeter.NewGreeter(systemBus),
	}
}

func (s *greeterSink) UpdateQtTheme(fd uintptr) error {
	return s.greeter.UpdateGreeterQtTheme(0, dbus.UnixFD(fd))
}

type plymouthSink struct {
	daemon ddeSysDaemon.Daemon
}

func newPlymouthSink(systemBus *dbus.Conn) *plymouthSink {
	return &plymouthSink{
		daemon: ddeSysDaemon.NewDaemon(systemBus),
	}
}

func (s *plymouthSink) Scale(factor uint32) error {
	return s.daemon.ScalePlymouth(0, factor)
}

// wmCursorSink pushes the scaled cursor size to deepin-metacity through
// GSettings and to deepin-kwin through the wm D-Bus property.
type wmCursorSink struct {
	sessionBus *dbus.Conn
}

func newWMCursorSink(sessionBus *dbus.Conn) *wmCursorSink {
	return &wmCursorSink{sessionBus: sessionBus}
}

func (s *wmCursorSink) SetCursorSize(size int32) error {
	gsWrapGDI := gio.NewSettings("com.deepin.wrap.gnome.desktop.interface")
	gsWrapGDI.SetInt("cursor-size", size)
	gsWrapGDI.Unref()

	if s.sessionBus == nil {
		return nil
	}
	return s.sessionBus.Object("com.deepin.wm", "/com/deepin/wm").
		SetProperty("com.deepin.wm.cursorSize", dbus.MakeVariant(size))
}
