// SPDX-FileCopyrightText: 2025 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package xsettings

// The manager owns no durable state of its own: everything it maintains
// lives behind one of these interfaces. Production implementations talk to
// the X server, dconfig and D-Bus services; tests supply fakes.

// propertySink is the durable home of the xsettings wire blob,
// the _XSETTINGS_SETTINGS property on the selection owner window.
type propertySink interface {
	Read() ([]byte, error)
	Write(data []byte) error
}

// resourceSink merges key/value pairs into the RESOURCE_MANAGER property.
type resourceSink interface {
	WritePairs(changes xresourceInfos) error
}

// settingsStore is the typed configuration backend (dconfig in production).
// An invalid store turns all writes into no-ops, not errors.
type settingsStore interface {
	IsValid() bool
	ListKeys() ([]string, error)
	GetValueBool(key string) (bool, error)
	GetValueInt(key string) (int, error)
	GetValueFloat64(key string) (float64, error)
	GetValueString(key string) (string, error)
	SetValue(key string, value interface{}) error
	ConnectValueChanged(cb func(key string))
}

// greeterProxy receives the qt theme block over a handed-off readable fd.
type greeterProxy interface {
	UpdateQtTheme(fd uintptr) error
}

// splashScaler rescales the boot splash; factor is already clamped to [1,2].
type splashScaler interface {
	Scale(factor uint32) error
}

// cursorSink propagates the scaled cursor size to the window manager side.
type cursorSink interface {
	SetCursorSize(size int32) error
}
