// SPDX-FileCopyrightText: 2025 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package xsettings

import (
	"github.com/linuxdeepin/go-gir/gio-2.0"
	"github.com/linuxdeepin/go-lib/strv"
)

const xsSchema = "com.deepin.xsettings"

// GSConfig mirrors configuration writes into the legacy GSettings schema,
// old readers still watch it.
type GSConfig struct {
	gs      *gio.Settings
	keyList strv.Strv
}

func NewGSConfig() *GSConfig {
	gs := gio.NewSettings(xsSchema)
	return &GSConfig{
		gs:      gs,
		keyList: gs.ListKeys(),
	}
}

func (gc *GSConfig) hasKey(key string) bool {
	return gc.keyList.Contains(key)
}

func (gc *GSConfig) SetString(key string, value string) bool {
	if !gc.hasKey(key) {
		return false
	}
	return gc.gs.SetString(key, value)
}

func (gc *GSConfig) SetInt(key string, value int32) bool {
	if !gc.hasKey(key) {
		return false
	}
	return gc.gs.SetInt(key, value)
}

func (gc *GSConfig) SetBoolean(key string, value bool) bool {
	if !gc.hasKey(key) {
		return false
	}
	return gc.gs.SetBoolean(key, value)
}

func (gc *GSConfig) SetDouble(key string, value float64) bool {
	if !gc.hasKey(key) {
		return false
	}
	return gc.gs.SetDouble(key, value)
}
