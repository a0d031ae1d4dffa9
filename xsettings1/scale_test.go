// SPDX-FileCopyrightText: 2025 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package xsettings

import (
	"testing"

	"github.com/linuxdeepin/go-lib/keyfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowScale(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		scale       float64
		windowScale int
	}{
		{0.5, 1},
		{1.0, 1},
		{1.05, 1},
		{1.5, 1},
		{1.7, 2},
		{2.0, 2},
		{2.75, 3},
	}
	for _, tc := range tests {
		err := env.m.setScaleFactor(tc.scale, false)
		require.NoError(t, err)
		windowScale, err := env.store.GetValueInt(gsKeyWindowScale)
		require.NoError(t, err)
		assert.Equal(t, tc.windowScale, windowScale, "scale %v", tc.scale)
	}
}

func TestParseScreenFactors(t *testing.T) {
	factors := parseScreenFactors("All=2.00;HDMI-1=1.00;")
	assert.Equal(t, map[string]float64{
		"All":    2,
		"HDMI-1": 1,
	}, factors)

	// garbage pairs are skipped
	factors = parseScreenFactors("eDP-1=1.50;;broken;x=;=2;y=abc;")
	assert.Equal(t, map[string]float64{
		"eDP-1": 1.5,
		"":      2,
	}, factors)

	assert.Empty(t, parseScreenFactors(""))
}

func TestJoinScreenScaleFactors(t *testing.T) {
	joined := joinScreenScaleFactors(map[string]float64{
		"HDMI-1": 1,
		"All":    2,
	})
	assert.Equal(t, "All=2.00;HDMI-1=1.00;", joined)

	joined = joinScreenScaleFactors(map[string]float64{"eDP-1": 1.5})
	assert.Equal(t, "eDP-1=1.50;", joined)

	assert.Equal(t, "", joinScreenScaleFactors(nil))
}

func TestGetSingleScaleFactor(t *testing.T) {
	assert.Equal(t, 1.5,
		getSingleScaleFactor(map[string]float64{"eDP-1": 1.5}))
	assert.Equal(t, 2.0,
		getSingleScaleFactor(map[string]float64{"All": 2, "HDMI-1": 1}))
	// several factors without a global entry fall back to the default
	assert.Equal(t, 1.0,
		getSingleScaleFactor(map[string]float64{"HDMI-1": 1.25, "eDP-1": 1.5}))
}

func TestSetScreenScaleFactorsSingle(t *testing.T) {
	env := newTestEnv(t)

	err := env.m.setScreenScaleFactors(map[string]float64{"eDP-1": 1.5}, false)
	require.NoError(t, err)

	scale, err := env.store.GetValueFloat64(gsKeyScaleFactor)
	require.NoError(t, err)
	assert.Equal(t, 1.5, scale)

	joined, err := env.store.GetValueString(gsKeyIndividualScaling)
	require.NoError(t, err)
	assert.Equal(t, "eDP-1=1.50;", joined)

	cursorSize, err := env.store.GetValueInt(gsKeyGtkCursorThemeSize)
	require.NoError(t, err)
	assert.Equal(t, 36, cursorSize)
	assert.Contains(t, env.cursor.sizes, int32(36))

	dpi, err := env.store.GetValueInt(gsKeyXftDpi)
	require.NoError(t, err)
	assert.Equal(t, int(96*1024*1.5), dpi)

	kf := keyfile.NewKeyFile()
	require.NoError(t, kf.LoadFromFile(getQtThemeFile()))
	value, err := kf.GetValue(qtThemeSection, qtThemeKeyScreenScaleFactors)
	require.NoError(t, err)
	assert.Equal(t, "1.5", value)
	value, err = kf.GetValue(qtThemeSection, qtThemeKeyScaleLogicalDpi)
	require.NoError(t, err)
	assert.Equal(t, "-1,-1", value)
	_, err = kf.GetValue(qtThemeSection, qtThemeKeyScaleFactor)
	assert.Error(t, err)

	assert.Equal(t, 1, env.greeter.updates)
}

func TestSetScreenScaleFactorsMulti(t *testing.T) {
	env := newTestEnv(t)

	err := env.m.setScreenScaleFactors(map[string]float64{
		"All":    2,
		"HDMI-1": 1,
	}, false)
	require.NoError(t, err)

	scale, err := env.store.GetValueFloat64(gsKeyScaleFactor)
	require.NoError(t, err)
	assert.Equal(t, 2.0, scale)

	joined, err := env.store.GetValueString(gsKeyIndividualScaling)
	require.NoError(t, err)
	assert.Equal(t, "All=2.00;HDMI-1=1.00;", joined)

	kf := keyfile.NewKeyFile()
	require.NoError(t, kf.LoadFromFile(getQtThemeFile()))
	value, err := kf.GetValue(qtThemeSection, qtThemeKeyScreenScaleFactors)
	require.NoError(t, err)
	assert.Equal(t, `"All=2.00;HDMI-1=1.00;"`, value)
}

func TestSetScreenScaleFactorsInvalid(t *testing.T) {
	env := newTestEnv(t)

	err := env.m.setScreenScaleFactors(nil, false)
	assert.Error(t, err)

	err = env.m.setScreenScaleFactors(map[string]float64{"eDP-1": -1}, false)
	assert.Error(t, err)

	// a rejected call must leave the store untouched
	_, err = env.store.GetValueFloat64(gsKeyScaleFactor)
	assert.Error(t, err)
	assert.Equal(t, 0, env.prop.writes)
}

func TestGetPlymouthTheme(t *testing.T) {
	theme, err := getPlymouthTheme("testdata/plymouthd.conf")
	require.NoError(t, err)
	assert.Equal(t, "deepin-hidpi-logo", theme)

	_, err = getPlymouthTheme("testdata/no-such-file.conf")
	assert.Error(t, err)
}

func TestGetPlymouthThemeScaleFactor(t *testing.T) {
	tests := map[string]int{
		"deepin-logo":           1,
		"deepin-ssd-logo":       1,
		"uos-ssd-logo":          1,
		"deepin-hidpi-logo":     2,
		"deepin-hidpi-ssd-logo": 2,
		"uos-hidpi-ssd-logo":    2,
		"unknown-theme":         0,
		"":                      0,
	}
	for theme, factor := range tests {
		assert.Equal(t, factor, getPlymouthThemeScaleFactor(theme), theme)
	}
}

func TestSetScaleFactorForPlymouth(t *testing.T) {
	env := newTestEnv(t)

	// the testdata theme already implies factor 2, no rescale needed
	env.m.setScaleFactorForPlymouth(2, false)
	assert.Empty(t, env.splash.factors)

	// values outside 1..2 are clamped
	env.m.setScaleFactorForPlymouth(3, false)
	assert.Empty(t, env.splash.factors)

	env.m.setScaleFactorForPlymouth(1, false)
	assert.Equal(t, []uint32{1}, env.splash.factors)

	env.m.setScaleFactorForPlymouth(0, false)
	assert.Equal(t, []uint32{1, 1}, env.splash.factors)
}

func TestCleanUpDdeEnvMissingFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	assert.NoError(t, cleanUpDdeEnv())
}
