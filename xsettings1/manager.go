// SPDX-FileCopyrightText: 2025 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package xsettings

import (
	"os"
	"sync"

	"github.com/linuxdeepin/go-lib/dbusutil"
	"github.com/linuxdeepin/go-lib/log"
)

//go:generate dbusutil-gen em -type XSManager

var logger = log.NewLogger("daemon/xsettings")

// DBusServiceName is the well known name the manager claims on the
// session bus.
const DBusServiceName = "org.deepin.dde.XSettings1"

const (
	defaultScaleFactor = 1.0

	xsDBusService = DBusServiceName
	xsDBusPath    = "/org/deepin/dde/XSettings1"
	xsDBusIFC     = xsDBusService

	dsettingsAppID         = "org.deepin.dde.daemon"
	dsettingsXSettingsName = "org.deepin.XSettings"
)

// XSManager keeps the _XSETTINGS_SETTINGS property in sync with the
// configuration store and fans the scale factor out to the secondary sinks.
type XSManager struct {
	service *dbusutil.Service
	prop    propertySink
	res     resourceSink
	cfg     settingsStore
	greeter greeterProxy
	splash  splashScaler
	cursor  cursorSink

	// serializes the read-decode-merge-encode-publish sequence; two
	// interleaved merges against the same property lose updates.
	settingsLocker sync.RWMutex

	//nolint
	signals *struct {
		SetScaleFactorStarted, SetScaleFactorDone struct{}
	}
}

type xsSetting struct {
	sType uint8
	prop  string
	value interface{} // int32, string, [4]uint16
}

func NewXSManager(cfg settingsStore, prop propertySink, res resourceSink,
	greeter greeterProxy, splash splashScaler, cursor cursorSink,
	service *dbusutil.Service) *XSManager {
	return &XSManager{
		service: service,
		prop:    prop,
		res:     res,
		cfg:     cfg,
		greeter: greeter,
		splash:  splash,
		cursor:  cursor,
	}
}

func (m *XSManager) GetInterfaceName() string {
	return xsDBusIFC
}

func (m *XSManager) getScaleFactor() float64 {
	scale, err := m.cfg.GetValueFloat64(gsKeyScaleFactor)
	if err != nil {
		logger.Warning(err)
		return 0
	}
	return scale
}

// start performs the startup synchronization: re-derive the scale state
// from the persisted factors, then merge every known key into the wire blob
// with a single publish.
func (m *XSManager) start(recommendedScaleFactor float64) {
	err := m.setScreenScaleFactors(m.getScreenScaleFactors(), false)
	if err != nil {
		logger.Warning(err)
	}
	m.adjustScaleFactor(recommendedScaleFactor)
	err = m.setSettings(m.getSettingsInSchema())
	if err != nil {
		logger.Warning("Change xsettings property failed:", err)
	}

	m.updateDPI()
	m.updateXResources()
	go m.updateFirefoxDPI()
}

func (m *XSManager) adjustScaleFactor(recommendedScaleFactor float64) {
	logger.Debug("recommended scale factor:", recommendedScaleFactor)
	var err error
	if value, _ := m.cfg.GetValueFloat64(gsKeyScaleFactor); value <= 0 {
		err = m.setScaleFactorWithoutNotify(recommendedScaleFactor)
		if err != nil {
			logger.Warning("failed to set scale factor:", err)
		}
	}

	// migrate old configuration
	if os.Getenv("STARTDDE_MIGRATE_SCALE_FACTOR") != "" {
		scaleFactor := m.getScaleFactor()
		if scaleFactor > 0 {
			err = m.setScreenScaleFactorsForQt(map[string]float64{"": scaleFactor})
			if err != nil {
				logger.Warning("failed to set scale factor for qt:", err)
			}
		}

		err = cleanUpDdeEnv()
		if err != nil {
			logger.Warning("failed to clean up dde env:", err)
		}
		return
	}

	_, err = os.Stat(greeterQtThemeFile)
	if err != nil {
		if os.IsNotExist(err) {
			// the greeter does not have its qt-theme.ini yet
			scaleFactor := m.getScaleFactor()
			if scaleFactor > 0 {
				err = m.setScreenScaleFactorsForQt(map[string]float64{"": scaleFactor})
				if err != nil {
					logger.Warning("failed to set scale factor for qt:", err)
				}
			}
		} else {
			logger.Warning(err)
		}
	}
}

// setSettings merges settings into the current wire blob and publishes it.
// The global serial increments once per publish, no matter how many items
// the batch carries.
func (m *XSManager) setSettings(settings []xsSetting) error {
	m.settingsLocker.Lock()
	defer m.settingsLocker.Unlock()
	datas, err := m.prop.Read()
	if err != nil {
		return err
	}

	xsInfo := unmarshalSettingData(datas)
	xsInfo.serial++ // auto increment
	for _, s := range settings {
		item := xsInfo.getPropItem(s.prop)
		if item != nil {
			xsInfo.modifyProperty(s)
			continue
		}

		if s.value == nil {
			continue
		}

		var tmp *xsItemInfo
		switch s.sType {
		case settingTypeInteger:
			tmp = newXSItemInteger(s.prop, s.value.(int32))
		case settingTypeString:
			tmp = newXSItemString(s.prop, s.value.(string))
		case settingTypeColor:
			tmp = newXSItemColor(s.prop, s.value.([4]uint16))
		}

		xsInfo.items = append(xsInfo.items, *tmp)
		xsInfo.numSettings++
	}

	data, err := marshalSettingData(xsInfo)
	if err != nil {
		return err
	}
	return m.prop.Write(data)
}

func (m *XSManager) getSettingsInSchema() []xsSetting {
	var settings []xsSetting
	keys, err := m.cfg.ListKeys()
	if err != nil {
		logger.Warning(err)
		return settings
	}
	for _, key := range keys {
		info := gsInfos.getByGSKey(key)
		if info == nil {
			logger.Debug("no xsettings info for key:", key)
			continue
		}

		value, err := info.getValue(m.cfg)
		if err != nil {
			logger.Warning(err)
			continue
		}

		settings = append(settings, xsSetting{
			sType: info.getKeySType(),
			prop:  info.xsKey,
			value: value,
		})
	}
	return settings
}

func (m *XSManager) handleConfigChanged(key string) {
	switch key {
	case gsKeyXftDpi, gsKeyScaleFactor, gsKeyWindowScale:
		// derived keys, changed only through the scale factor path
		return
	case gsKeyGtkCursorThemeName, gsKeyGtkCursorThemeSize:
		m.updateXResources()
	case gsKeyGtkCursorThemeSizeBase:
		base, err := m.cfg.GetValueInt(key)
		if err != nil || base <= 0 {
			logger.Warning("invalid cursor size base:", base, err)
			return
		}
		scale := m.getScaleFactor()
		if scale <= 0 {
			scale = defaultScaleFactor
		}
		err = m.cfg.SetValue(gsKeyGtkCursorThemeSize, int32(float64(base)*scale))
		if err != nil {
			logger.Warning(err)
		}
		return
	}
	info := gsInfos.getByGSKey(key)
	if info == nil {
		return
	}

	value, err := info.getValue(m.cfg)
	if err != nil {
		logger.Warning(err)
		return
	}
	err = m.setSettings([]xsSetting{
		{
			sType: info.getKeySType(),
			prop:  info.xsKey,
			value: value,
		},
	})
	if err != nil {
		logger.Warning(err)
	}
}
