// SPDX-FileCopyrightText: 2025 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package xsettings

import (
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/linuxdeepin/dde-api/userenv"
	"github.com/linuxdeepin/go-lib/keyfile"
	"github.com/linuxdeepin/go-lib/xdg/basedir"
	"golang.org/x/xerrors"
)

const (
	EnvDeepinWineScale          = "DEEPIN_WINE_SCALE"
	gsKeyScaleFactor            = "scale-factor"
	gsKeyWindowScale            = "window-scale"
	gsKeyXftDpi                 = "xft-dpi"
	gsKeyGtkCursorThemeSize     = "gtk-cursor-theme-size"
	gsKeyGtkCursorThemeName     = "gtk-cursor-theme-name"
	gsKeyGtkCursorThemeSizeBase = "gtk-cursor-theme-size-base"
	gsKeyIndividualScaling      = "individual-scaling"

	qtThemeSection               = "Theme"
	qtThemeKeyScreenScaleFactors = "ScreenScaleFactors"
	qtThemeKeyScaleFactor        = "ScaleFactor"
	qtThemeKeyScaleLogicalDpi    = "ScaleLogicalDpi"

	baseCursorSize = 24
	scaleFactorAll = "All"
)

var (
	plymouthConfigFile = "/etc/plymouth/plymouthd.conf"
	greeterQtThemeFile = "/etc/lightdm/deepin/qt-theme.ini"
)

// setScreenScaleFactors is the single entry point of the scale factor
// policy. The scalar persist is the primary state transition; every
// propagation step after it is best effort and must not roll it back.
func (m *XSManager) setScreenScaleFactors(factors map[string]float64, emitSignal bool) error {
	logger.Debug("setScreenScaleFactors", factors)
	if len(factors) == 0 {
		return errors.New("factors is empty")
	}
	for _, f := range factors {
		if f < 0 {
			return errors.New("invalid value")
		}
	}

	m.emitSignalSetScaleFactor(false, emitSignal)

	singleFactor := getSingleScaleFactor(factors)
	err := m.setScaleFactor(singleFactor, emitSignal)
	if err != nil {
		return err
	}

	factorsJoined := joinScreenScaleFactors(factors)
	if !reflect.DeepEqual(factors, m.getScreenScaleFactors()) {
		err = m.cfg.SetValue(gsKeyIndividualScaling, factorsJoined)
		if err != nil {
			logger.Warning(err)
		}
	}

	m.updateDPI()
	m.updateXResources()

	err = m.setScreenScaleFactorsForQt(factors)
	if err != nil {
		logger.Warning("failed to set scale factors for qt:", err)
	}

	err = cleanUpDdeEnv()
	if err != nil {
		logger.Warning("failed to clean up dde env:", err)
	}

	go m.updateFirefoxDPI()

	return nil
}

// setScaleFactor persists the scalar and the quantities derived from it.
// window scale: if 1.7 <= scale < 2, window scale is 2.
func (m *XSManager) setScaleFactor(scale float64, emitSignal bool) error {
	logger.Debug("setScaleFactor", scale)
	err := m.cfg.SetValue(gsKeyScaleFactor, scale)
	if err != nil {
		return xerrors.Errorf("persist scale factor: %w", err)
	}

	windowScale := int32(math.Trunc((scale+0.3)*10) / 10)
	if windowScale < 1 {
		windowScale = 1
	}
	oldWindowScale, _ := m.cfg.GetValueInt(gsKeyWindowScale)
	if int32(oldWindowScale) != windowScale {
		err = m.cfg.SetValue(gsKeyWindowScale, windowScale)
		if err != nil {
			logger.Warning(err)
		}
	}

	// the cursor scales together with the rest of the session
	baseCursorSizeInt, err := m.cfg.GetValueInt(gsKeyGtkCursorThemeSizeBase)
	if err != nil || baseCursorSizeInt <= 0 {
		baseCursorSizeInt = baseCursorSize
	}

	cursorSize := int32(float64(baseCursorSizeInt) * scale)
	err = m.cfg.SetValue(gsKeyGtkCursorThemeSize, cursorSize)
	if err != nil {
		logger.Warning(err)
	}
	if m.cursor != nil {
		err = m.cursor.SetCursorSize(cursorSize)
		if err != nil {
			logger.Warning("failed to propagate cursor size:", err)
		}
	}

	m.setScaleFactorForPlymouth(int(windowScale), emitSignal)
	return nil
}

// 不发送通知版本, 设置流程会转到 setScreenScaleFactors
func (m *XSManager) setScaleFactorWithoutNotify(scale float64) error {
	return m.setScreenScaleFactors(singleToMapSF(scale), false)
}

func getSingleScaleFactor(factors map[string]float64) float64 {
	if len(factors) == 1 {
		return getMapFirstValueSF(factors)
	}
	v, ok := factors[scaleFactorAll]
	if ok {
		return v
	}
	return defaultScaleFactor
}

func singleToMapSF(value float64) map[string]float64 {
	return map[string]float64{
		scaleFactorAll: value,
	}
}

func getMapFirstValueSF(m map[string]float64) float64 {
	for _, value := range m {
		return value
	}
	return 0
}

func parseScreenFactors(str string) map[string]float64 {
	pairs := strings.Split(str, ";")
	result := make(map[string]float64)
	for _, value := range pairs {
		kv := strings.SplitN(value, "=", 2)
		if len(kv) != 2 {
			continue
		}

		value, err := strconv.ParseFloat(kv[1], 64)
		if err != nil {
			logger.Warning(err)
			continue
		}

		result[kv[0]] = value
	}

	return result
}

// joinScreenScaleFactors serializes the factors as "name=value;" pairs,
// sorted so the output is stable across publishes.
func joinScreenScaleFactors(v map[string]float64) string {
	keys := make([]string, 0, len(v))
	for key := range v {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, key := range keys {
		sb.WriteString(key)
		sb.WriteByte('=')
		sb.WriteString(strconv.FormatFloat(v[key], 'f', 2, 64))
		sb.WriteByte(';')
	}
	return sb.String()
}

func (m *XSManager) getScreenScaleFactors() map[string]float64 {
	factorsJoined, _ := m.cfg.GetValueString(gsKeyIndividualScaling)
	return parseScreenFactors(factorsJoined)
}

func getQtThemeFile() string {
	return filepath.Join(basedir.GetUserConfigDir(), "deepin/qt-theme.ini")
}

func (m *XSManager) setScreenScaleFactorsForQt(factors map[string]float64) error {
	filename := getQtThemeFile()
	kf := keyfile.NewKeyFile()
	err := kf.LoadFromFile(filename)
	if err != nil && !os.IsNotExist(err) {
		logger.Warning("failed to load qt-theme.ini:", err)
	}

	var value string
	switch len(factors) {
	case 0:
		return errors.New("factors is empty")
	case 1:
		value = strconv.FormatFloat(getMapFirstValueSF(factors), 'f', -1, 64)
	default:
		value = joinScreenScaleFactors(factors)
		value = strconv.Quote(value)
	}
	kf.SetValue(qtThemeSection, qtThemeKeyScreenScaleFactors, value)
	kf.DeleteKey(qtThemeSection, qtThemeKeyScaleFactor)
	kf.SetValue(qtThemeSection, qtThemeKeyScaleLogicalDpi, "-1,-1")

	err = os.MkdirAll(filepath.Dir(filename), 0755)
	if err != nil {
		return err
	}

	err = kf.SaveToFile(filename)
	if err != nil {
		return err
	}

	return m.updateGreeterQtTheme(kf)
}

// updateGreeterQtTheme hands the theme block to the greeter through a
// readable fd; the greeter side always renders at logical dpi 96,96.
func (m *XSManager) updateGreeterQtTheme(kf *keyfile.KeyFile) error {
	if m.greeter == nil {
		return nil
	}
	tempFile, err := os.CreateTemp("", "dde-xsettings-qt-theme-")
	if err != nil {
		return err
	}
	defer func() {
		err := tempFile.Close()
		if err != nil {
			logger.Warning(err)
		}
		err = os.Remove(tempFile.Name())
		if err != nil {
			logger.Warning(err)
		}
	}()

	kf.SetValue(qtThemeSection, qtThemeKeyScaleLogicalDpi, "96,96")
	err = kf.SaveToWriter(tempFile)
	if err != nil {
		return err
	}

	_, err = tempFile.Seek(0, io.SeekStart)
	if err != nil {
		return err
	}

	return m.greeter.UpdateQtTheme(tempFile.Fd())
}

// setScaleFactorForPlymouth rescales the boot splash. When the current
// plymouth theme already implies the wanted factor the call short-circuits,
// but the done signal is still raised: callers await completion, not work.
func (m *XSManager) setScaleFactorForPlymouth(factor int, emitSignal bool) {
	logger.Debug("setScaleFactorForPlymouth", factor)
	if factor > 2 {
		factor = 2
	}
	if factor < 1 {
		factor = 1
	}

	theme, err := getPlymouthTheme(plymouthConfigFile)
	if err != nil {
		logger.Debug("failed to get plymouth theme:", err)
	}
	if getPlymouthThemeScaleFactor(theme) == factor {
		m.emitSignalSetScaleFactor(true, emitSignal)
		return
	}

	if m.splash != nil {
		err = m.splash.Scale(uint32(factor))
		if err != nil {
			logger.Warning("failed to scale plymouth:", err)
		}
	}
	m.emitSignalSetScaleFactor(true, emitSignal)
}

func getPlymouthTheme(file string) (string, error) {
	var kf = keyfile.NewKeyFile()
	err := kf.LoadFromFile(file)
	if err != nil {
		return "", err
	}

	return kf.GetString("Daemon", "Theme")
}

func getPlymouthThemeScaleFactor(theme string) int {
	switch theme {
	case "deepin-logo", "deepin-ssd-logo", "uos-ssd-logo":
		return 1
	case "deepin-hidpi-logo", "deepin-hidpi-ssd-logo", "uos-hidpi-ssd-logo":
		return 2
	default:
		return 0
	}
}

func (m *XSManager) emitSignalSetScaleFactor(done, emitSignal bool) {
	if !emitSignal || m.service == nil {
		return
	}
	signalName := "SetScaleFactorStarted"
	if done {
		signalName = "SetScaleFactorDone"
	}
	err := m.service.Emit(m, signalName)
	if err != nil {
		logger.Warning(err)
	}
}

func cleanUpDdeEnv() error {
	ue, err := userenv.Load()
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	needSave := false
	for _, key := range []string{
		"QT_SCALE_FACTOR",
		"QT_SCREEN_SCALE_FACTORS",
		"QT_AUTO_SCREEN_SCALE_FACTOR",
		"QT_FONT_DPI",
		EnvDeepinWineScale,
	} {
		if _, ok := ue[key]; ok {
			delete(ue, key)
			needSave = true
		}
	}

	if needSave {
		err = userenv.Save(ue)
	}
	return err
}
