// SPDX-FileCopyrightText: 2025 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package xsettings

import (
	"github.com/linuxdeepin/dde-xsettings/common/dconfig"
)

// dconfigStore is the production settingsStore: dconfig as the source of
// truth, with writes mirrored into the legacy GSettings schema.
type dconfigStore struct {
	dc *dconfig.DConfig
	gs *GSConfig
}

func newDConfigStore() (*dconfigStore, error) {
	dc, err := dconfig.NewDConfig(dsettingsAppID, dsettingsXSettingsName, "")
	if err != nil {
		return nil, err
	}
	return &dconfigStore{
		dc: dc,
		gs: NewGSConfig(),
	}, nil
}

func (s *dconfigStore) IsValid() bool {
	return s.dc.IsValid()
}

func (s *dconfigStore) ListKeys() ([]string, error) {
	return s.dc.ListKeys()
}

func (s *dconfigStore) GetValueBool(key string) (bool, error) {
	return s.dc.GetValueBool(key)
}

func (s *dconfigStore) GetValueInt(key string) (int, error) {
	return s.dc.GetValueInt(key)
}

func (s *dconfigStore) GetValueFloat64(key string) (float64, error) {
	return s.dc.GetValueFloat64(key)
}

func (s *dconfigStore) GetValueString(key string) (string, error) {
	return s.dc.GetValueString(key)
}

func (s *dconfigStore) SetValue(key string, value interface{}) error {
	if !s.IsValid() {
		// an invalid store turns writes into no-ops
		return nil
	}
	err := s.dc.SetValue(key, value)
	if err != nil {
		return err
	}
	s.mirrorToGSettings(key, value)
	return nil
}

func (s *dconfigStore) mirrorToGSettings(key string, value interface{}) {
	if s.gs == nil {
		return
	}
	switch v := value.(type) {
	case bool:
		s.gs.SetBoolean(key, v)
	case int32:
		s.gs.SetInt(key, v)
	case string:
		s.gs.SetString(key, v)
	case float64:
		s.gs.SetDouble(key, v)
	default:
		logger.Warningf("cannot mirror key %q value %T to gsettings", key, value)
	}
}

func (s *dconfigStore) ConnectValueChanged(cb func(key string)) {
	s.dc.ConnectValueChanged(cb)
}
