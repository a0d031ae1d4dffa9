// SPDX-FileCopyrightText: 2025 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package xsettings

import (
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/linuxdeepin/go-lib/utils"
)

const (
	DPI_FALLBACK = 96
	HIDPI_LIMIT  = DPI_FALLBACK * 2

	ffKeyPixels = `user_pref("layout.css.devPixelsPerPx",`
)

// updateDPI republishes the DPI-dependent wire items derived from the
// current scale factor.
func (m *XSManager) updateDPI() {
	scale := m.getScaleFactor()
	if scale <= 0 {
		scale = 1
	}

	var infos []xsSetting
	scaledDPI := int32(float64(DPI_FALLBACK*1024) * scale)
	dpiValueInt, _ := m.cfg.GetValueInt(gsKeyXftDpi)
	if scaledDPI != int32(dpiValueInt) {
		err := m.cfg.SetValue(gsKeyXftDpi, scaledDPI)
		if err != nil {
			logger.Warning(err)
		}
		infos = append(infos, xsSetting{
			sType: settingTypeInteger,
			prop:  "Xft/DPI",
			value: scaledDPI,
		})
	}

	// update window scale and cursor size
	windowScaleValue, _ := m.cfg.GetValueInt(gsKeyWindowScale)
	windowScale := int32(windowScaleValue)
	cursorSizeValue, _ := m.cfg.GetValueInt(gsKeyGtkCursorThemeSize)
	cursorSize := int32(cursorSizeValue)

	if windowScale > 1 {
		scaledDPI = int32(DPI_FALLBACK * 1024)
	}
	v, _ := m.GetInteger("Gdk/WindowScalingFactor")
	if v != windowScale {
		infos = append(infos, xsSetting{
			sType: settingTypeInteger,
			prop:  "Gdk/WindowScalingFactor",
			value: windowScale,
		}, xsSetting{
			sType: settingTypeInteger,
			prop:  "Gdk/UnscaledDPI",
			value: scaledDPI,
		}, xsSetting{
			sType: settingTypeInteger,
			prop:  "Gtk/CursorThemeSize",
			value: cursorSize,
		})
	}

	if len(infos) != 0 {
		err := m.setSettings(infos)
		if err != nil {
			logger.Warning("Failed to update dpi:", err)
		}
		m.updateXResources()
	}
}

// updateXResources keeps Xcursor and Xft.dpi resources consistent with the
// current scale state. With a window scale above 1 the base Xft.dpi stays
// at 96 so GTK sees the same base DPI as Gdk/UnscaledDPI.
func (m *XSManager) updateXResources() {
	windowScaleValue, _ := m.cfg.GetValueInt(gsKeyWindowScale)
	scaleFactor := m.getScaleFactor()

	var xftDpi int
	if int32(windowScaleValue) > 1 {
		xftDpi = DPI_FALLBACK
	} else {
		xftDpi = int(DPI_FALLBACK * scaleFactor)
	}
	if xftDpi <= 0 {
		xftDpi = DPI_FALLBACK
	}

	cursorTheme, _ := m.cfg.GetValueString(gsKeyGtkCursorThemeName)
	cursorSize, _ := m.cfg.GetValueInt(gsKeyGtkCursorThemeSize)

	err := m.res.WritePairs(xresourceInfos{
		&xresourceInfo{
			key:   "Xcursor.theme",
			value: cursorTheme,
		},
		&xresourceInfo{
			key:   "Xcursor.size",
			value: fmt.Sprintf("%d", int32(cursorSize)),
		},
		&xresourceInfo{
			key:   "Xft.dpi",
			value: strconv.Itoa(xftDpi),
		},
	})
	if err != nil {
		logger.Warning("failed to update xresources:", err)
	}
}

var ffDir = path.Join(os.Getenv("HOME"), ".mozilla/firefox")

// updateFirefoxDPI is best effort and runs off the main startup path; a
// missing browser profile is not an error.
func (m *XSManager) updateFirefoxDPI() {
	scale := m.getScaleFactor()
	if scale <= 0 {
		// firefox default value: -1
		scale = -1
	}

	configs, err := getFirefoxConfigs(ffDir)
	if err != nil {
		logger.Debug("Failed to get firefox configs:", err)
		return
	}

	for _, config := range configs {
		err = setFirefoxDPI(scale, config, config)
		if err != nil {
			logger.Warning("Failed to set firefox dpi:", config, err)
		}
	}
}

func getFirefoxConfigs(dir string) ([]string, error) {
	finfos, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var configs []string
	for _, finfo := range finfos {
		config := path.Join(dir, finfo.Name(), "prefs.js")
		if !utils.IsFileExist(config) {
			continue
		}
		configs = append(configs, config)
	}
	return configs, nil
}

func setFirefoxDPI(value float64, src, dest string) error {
	contents, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	lines := strings.Split(string(contents), "\n")
	target := fmt.Sprintf("%s \"%.2f\");", ffKeyPixels, value)
	found := false
	for i, line := range lines {
		if line == "" || line[0] == '#' {
			continue
		}
		if !strings.Contains(line, ffKeyPixels) {
			continue
		}

		if line == target {
			return nil
		}

		tmp := strings.Split(ffKeyPixels, ",")[0] + ", " +
			fmt.Sprintf("\"%.2f\");", value)
		lines[i] = tmp
		found = true
		break
	}
	if !found {
		if value == -1 {
			return nil
		}
		tmp := lines[len(lines)-1]
		lines[len(lines)-1] = target
		lines = append(lines, tmp)
	}
	return os.WriteFile(dest, []byte(strings.Join(lines, "\n")), 0644)
}
