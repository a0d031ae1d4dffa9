// SPDX-FileCopyrightText: 2025 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package xsettings

import (
	"fmt"
	"os"

	x "github.com/linuxdeepin/go-x11-client"
	"github.com/linuxdeepin/go-x11-client/util/wm/ewmh"
)

const (
	settingPropScreen   = "_XSETTINGS_S0"
	settingPropSettings = "_XSETTINGS_SETTINGS"

	xsDataOrder  = 0
	xsDataSerial = 0
	xsDataFormat = 8
)

// x11PropertySink owns the _XSETTINGS_S0 selection and stores the wire
// blob in the _XSETTINGS_SETTINGS property on the owner window.
type x11PropertySink struct {
	conn  *x.Conn
	owner x.Window
}

func newX11PropertySink(conn *x.Conn) (*x11PropertySink, error) {
	owner, err := createSettingWindow(conn)
	if err != nil {
		return nil, err
	}
	logger.Debug("selection owner:", owner)

	if !isSelectionOwned(settingPropScreen, owner, conn) {
		return nil, fmt.Errorf("own selection '%s' failed", settingPropScreen)
	}

	return &x11PropertySink{
		conn:  conn,
		owner: owner,
	}, nil
}

func (s *x11PropertySink) Read() ([]byte, error) {
	atom, err := s.conn.GetAtom(settingPropSettings)
	if err != nil {
		return nil, err
	}

	reply, err := x.GetProperty(s.conn, false, s.owner,
		atom, atom, 0, 10240).Reply(s.conn)
	if err != nil {
		return nil, err
	}

	return reply.Value, nil
}

func (s *x11PropertySink) Write(data []byte) error {
	atom, err := s.conn.GetAtom(settingPropSettings)
	if err != nil {
		return err
	}

	return x.ChangePropertyChecked(s.conn, x.PropModeReplace,
		s.owner, atom, atom,
		xsDataFormat, data).Check(s.conn)
}

func getSelectionOwner(prop string, conn *x.Conn) (x.Window, error) {
	atom, err := conn.GetAtom(prop)
	if err != nil {
		return 0, err
	}

	reply, err := x.GetSelectionOwner(conn, atom).Reply(conn)
	if err != nil {
		return 0, err
	}

	return reply.Owner, nil
}

func isSelectionOwned(prop string, wid x.Window, conn *x.Conn) bool {
	owner, err := getSelectionOwner(prop, conn)
	if err != nil {
		return false
	}

	return owner != 0 && owner == wid
}

func createSettingWindow(conn *x.Conn) (x.Window, error) {
	screenAtom, err := conn.GetAtom(settingPropScreen)
	if err != nil {
		return 0, err
	}

	xid, err := conn.AllocID()
	if err != nil {
		return 0, err
	}
	wid := x.Window(xid)

	root := conn.GetDefaultScreen().Root
	err = x.CreateWindowChecked(conn, 0, wid, root,
		0, 0, 1, 1, 0,
		x.WindowClassInputOnly, x.CopyFromParent,
		0, nil).Check(conn)
	if err != nil {
		return 0, err
	}

	err = changeWindowPid(conn, wid)
	if err != nil {
		return 0, err
	}

	err = x.SetSelectionOwnerChecked(conn, wid, screenAtom,
		x.CurrentTime).Check(conn)
	if err != nil {
		return 0, err
	}

	return wid, nil
}

func changeWindowPid(conn *x.Conn, wid x.Window) error {
	pid := uint32(os.Getpid())
	return ewmh.SetWMPidChecked(conn, wid, pid).Check(conn)
}
