// SPDX-FileCopyrightText: 2025 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package dconfig

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
	DConfigManager "github.com/linuxdeepin/go-dbus-factory/org.desktopspec.ConfigManager"
	"github.com/linuxdeepin/go-lib/dbusutil"
	"github.com/linuxdeepin/go-lib/log"
)

var logger = log.NewLogger("common/dconfig")

// DConfig wraps one acquired org.desktopspec.ConfigManager manager.
type DConfig struct {
	systemConn *dbus.Conn
	dbusPath   dbus.ObjectPath
	manager    DConfigManager.Manager

	sigLoopOnce sync.Once
}

func NewDConfig(appid, name, subPath string) (*DConfig, error) {
	var dConfig DConfig
	var err error
	dConfig.systemConn, err = dbus.SystemBus()
	if err != nil {
		return nil, err
	}

	dConfigManager := DConfigManager.NewConfigManager(dConfig.systemConn)
	dConfig.dbusPath, err = dConfigManager.AcquireManager(0, appid, name, subPath)
	if err != nil {
		return nil, err
	}
	dConfig.manager, err = DConfigManager.NewManager(dConfig.systemConn, dConfig.dbusPath)
	if err != nil {
		return nil, err
	}

	return &dConfig, nil
}

// IsValid reports whether the underlying manager was acquired. Writes on an
// invalid config are expected to be skipped by the caller.
func (dConfig *DConfig) IsValid() bool {
	return dConfig != nil && dConfig.manager != nil
}

func (dConfig *DConfig) ListKeys() ([]string, error) {
	if !dConfig.IsValid() {
		return nil, fmt.Errorf("dconfig not inited")
	}
	return dConfig.manager.KeyList().Get(0)
}

func (dConfig *DConfig) GetValue(key string) (interface{}, error) {
	if !dConfig.IsValid() {
		return nil, fmt.Errorf("dconfig not inited")
	}
	v, err := dConfig.manager.Value(0, key)
	if err != nil {
		return nil, err
	}
	return v.Value(), nil
}

func (dConfig *DConfig) GetValueString(key string) (string, error) {
	value, err := dConfig.GetValue(key)
	if err != nil {
		return "", err
	}
	v, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("dconfig key %q: value %T is not string", key, value)
	}
	return v, nil
}

func (dConfig *DConfig) GetValueBool(key string) (bool, error) {
	value, err := dConfig.GetValue(key)
	if err != nil {
		return false, err
	}
	v, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("dconfig key %q: value %T is not bool", key, value)
	}
	return v, nil
}

// GetValueInt accepts every integer width the config service hands out.
func (dConfig *DConfig) GetValueInt(key string) (int, error) {
	value, err := dConfig.GetValue(key)
	if err != nil {
		return 0, err
	}
	switch v := value.(type) {
	case int64:
		return int(v), nil
	case int32:
		return int(v), nil
	case int:
		return v, nil
	case float64:
		return int(v), nil
	}
	return 0, fmt.Errorf("dconfig key %q: value %T is not an integer", key, value)
}

func (dConfig *DConfig) GetValueFloat64(key string) (float64, error) {
	value, err := dConfig.GetValue(key)
	if err != nil {
		return 0, err
	}
	switch v := value.(type) {
	case float64:
		return v, nil
	case int64:
		// the config service stores whole doubles as int64
		return float64(v), nil
	}
	return 0, fmt.Errorf("dconfig key %q: value %T is not float64", key, value)
}

func (dConfig *DConfig) SetValue(key string, value interface{}) error {
	if !dConfig.IsValid() {
		return fmt.Errorf("dconfig not inited")
	}
	return dConfig.manager.SetValue(0, key, dbus.MakeVariant(value))
}

// ConnectValueChanged registers cb for every value change of this config.
func (dConfig *DConfig) ConnectValueChanged(cb func(key string)) {
	if !dConfig.IsValid() {
		return
	}
	dConfig.sigLoopOnce.Do(func() {
		systemSigLoop := dbusutil.NewSignalLoop(dConfig.systemConn, 10)
		systemSigLoop.Start()
		dConfig.manager.InitSignalExt(systemSigLoop, true)
	})
	_, err := dConfig.manager.ConnectValueChanged(cb)
	if err != nil {
		logger.Warning("connect value changed failed:", err)
	}
}
