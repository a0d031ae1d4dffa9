// SPDX-FileCopyrightText: 2025 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package xsettings

import (
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu     sync.Mutex
	valid  bool
	values map[string]interface{}
	cb     func(key string)
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		valid:  true,
		values: make(map[string]interface{}),
	}
}

func (s *fakeStore) IsValid() bool {
	return s.valid
}

func (s *fakeStore) ListKeys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.values))
	for key := range s.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *fakeStore) get(key string) (interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return nil, fmt.Errorf("key %q not found", key)
	}
	return v, nil
}

func (s *fakeStore) GetValueBool(key string) (bool, error) {
	v, err := s.get(key)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("key %q is %T, not bool", key, v)
	}
	return b, nil
}

func (s *fakeStore) GetValueInt(key string) (int, error) {
	v, err := s.get(key)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	default:
		return 0, fmt.Errorf("key %q is %T, not int", key, v)
	}
}

func (s *fakeStore) GetValueFloat64(key string) (float64, error) {
	v, err := s.get(key)
	if err != nil {
		return 0, err
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("key %q is %T, not float64", key, v)
	}
	return f, nil
}

func (s *fakeStore) GetValueString(key string) (string, error) {
	v, err := s.get(key)
	if err != nil {
		return "", err
	}
	str, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("key %q is %T, not string", key, v)
	}
	return str, nil
}

func (s *fakeStore) SetValue(key string, value interface{}) error {
	if !s.valid {
		return nil
	}
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return nil
}

func (s *fakeStore) ConnectValueChanged(cb func(key string)) {
	s.cb = cb
}

type fakePropertySink struct {
	mu     sync.Mutex
	data   []byte
	writes int
}

func (s *fakePropertySink) Read() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.data...), nil
}

func (s *fakePropertySink) Write(data []byte) error {
	s.mu.Lock()
	s.data = append([]byte(nil), data...)
	s.writes++
	s.mu.Unlock()
	return nil
}

func (s *fakePropertySink) decode() *xsDataInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return unmarshalSettingData(s.data)
}

type fakeResourceSink struct {
	mu    sync.Mutex
	pairs map[string]string
}

func (s *fakeResourceSink) WritePairs(infos xresourceInfos) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pairs == nil {
		s.pairs = make(map[string]string)
	}
	for _, info := range infos {
		s.pairs[info.key] = info.value
	}
	return nil
}

type fakeGreeter struct {
	updates int
}

func (g *fakeGreeter) UpdateQtTheme(fd uintptr) error {
	g.updates++
	return nil
}

type fakeSplash struct {
	factors []uint32
}

func (s *fakeSplash) Scale(factor uint32) error {
	s.factors = append(s.factors, factor)
	return nil
}

type fakeCursor struct {
	sizes []int32
}

func (c *fakeCursor) SetCursorSize(size int32) error {
	c.sizes = append(c.sizes, size)
	return nil
}

type testEnv struct {
	m       *XSManager
	store   *fakeStore
	prop    *fakePropertySink
	res     *fakeResourceSink
	greeter *fakeGreeter
	splash  *fakeSplash
	cursor  *fakeCursor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	origPlymouthConfig := plymouthConfigFile
	plymouthConfigFile = "testdata/plymouthd.conf"
	t.Cleanup(func() {
		plymouthConfigFile = origPlymouthConfig
	})

	env := &testEnv{
		store:   newFakeStore(),
		prop:    &fakePropertySink{},
		res:     &fakeResourceSink{},
		greeter: &fakeGreeter{},
		splash:  &fakeSplash{},
		cursor:  &fakeCursor{},
	}
	env.m = NewXSManager(env.store, env.prop, env.res,
		env.greeter, env.splash, env.cursor, nil)
	return env
}

func TestSetSettingsNewItem(t *testing.T) {
	env := newTestEnv(t)

	err := env.m.setSettings([]xsSetting{
		{
			sType: settingTypeInteger,
			prop:  "Net/DoubleClickTime",
			value: int32(400),
		},
	})
	require.NoError(t, err)

	info := env.prop.decode()
	assert.Equal(t, uint32(1), info.serial)
	assert.Equal(t, uint32(1), info.numSettings)
	item := info.getPropItem("Net/DoubleClickTime")
	require.NotNil(t, item)
	assert.Equal(t, uint32(1), item.header.lastChangeSerial)
	assert.Equal(t, int32(400), item.value.(*integerValueInfo).value)
}

func TestSetSettingsSerials(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 3; i++ {
		err := env.m.setSettings([]xsSetting{
			{
				sType: settingTypeString,
				prop:  "Net/ThemeName",
				value: fmt.Sprintf("theme-%d", i),
			},
		})
		require.NoError(t, err)
	}

	info := env.prop.decode()
	// one global increment per publish
	assert.Equal(t, uint32(3), info.serial)
	assert.Equal(t, uint32(1), info.numSettings)
	item := info.getPropItem("Net/ThemeName")
	require.NotNil(t, item)
	// created at 1, bumped once per merge
	assert.Equal(t, uint32(3), item.header.lastChangeSerial)
	assert.Equal(t, "theme-2", item.value.(*stringValueInfo).value)
}

func TestSetSettingsBatch(t *testing.T) {
	env := newTestEnv(t)

	err := env.m.setSettings([]xsSetting{
		{sType: settingTypeInteger, prop: "Xft/DPI", value: int32(98304)},
		{sType: settingTypeString, prop: "Gtk/ThemeName", value: "deepin"},
		{sType: settingTypeColor, prop: "Qt/ActiveColor",
			value: [4]uint16{0, 128, 255, 255}},
	})
	require.NoError(t, err)

	info := env.prop.decode()
	// the whole batch shares one global increment
	assert.Equal(t, uint32(1), info.serial)
	assert.Equal(t, uint32(3), info.numSettings)
	color := info.getPropItem("Qt/ActiveColor")
	require.NotNil(t, color)
	v := color.value.(*colorValueInfo)
	assert.Equal(t, uint16(128), v.green)
	assert.Equal(t, uint16(255), v.alpha)
}

func TestSetSettingsNilValueSkipped(t *testing.T) {
	env := newTestEnv(t)

	err := env.m.setSettings([]xsSetting{
		{sType: settingTypeString, prop: "Gtk/FontName", value: nil},
	})
	require.NoError(t, err)

	info := env.prop.decode()
	assert.Equal(t, uint32(1), info.serial)
	assert.Equal(t, uint32(0), info.numSettings)
}

func TestGetSettingsInSchema(t *testing.T) {
	env := newTestEnv(t)
	_ = env.store.SetValue("theme-name", "deepin")
	_ = env.store.SetValue("cursor-blink", true)
	_ = env.store.SetValue("double-click-time", int32(400))
	_ = env.store.SetValue("qt-font-point-size", 10.5)
	// not in the catalog, must be ignored
	_ = env.store.SetValue("no-such-key", "x")

	settings := env.m.getSettingsInSchema()
	require.Len(t, settings, 4)

	byProp := make(map[string]xsSetting)
	for _, s := range settings {
		byProp[s.prop] = s
	}
	assert.Equal(t, "deepin", byProp["Net/ThemeName"].value)
	assert.Equal(t, int32(1), byProp["Net/CursorBlink"].value)
	assert.Equal(t, int32(400), byProp["Net/DoubleClickTime"].value)
	assert.Equal(t, "10.5", byProp["Qt/FontPointSize"].value)
	assert.Equal(t, settingTypeString, byProp["Qt/FontPointSize"].sType)
}

func TestHandleConfigChanged(t *testing.T) {
	env := newTestEnv(t)
	_ = env.store.SetValue("theme-name", "bloom")

	env.m.handleConfigChanged("theme-name")

	info := env.prop.decode()
	item := info.getPropItem("Net/ThemeName")
	require.NotNil(t, item)
	assert.Equal(t, "bloom", item.value.(*stringValueInfo).value)
}

func TestHandleConfigChangedDerivedKeys(t *testing.T) {
	env := newTestEnv(t)
	_ = env.store.SetValue(gsKeyXftDpi, int32(98304))
	_ = env.store.SetValue(gsKeyScaleFactor, 1.5)
	_ = env.store.SetValue(gsKeyWindowScale, int32(1))

	for _, key := range []string{gsKeyXftDpi, gsKeyScaleFactor, gsKeyWindowScale} {
		env.m.handleConfigChanged(key)
	}

	// derived keys never publish on their own
	assert.Equal(t, 0, env.prop.writes)
}

func TestHandleConfigChangedCursorSizeBase(t *testing.T) {
	env := newTestEnv(t)
	_ = env.store.SetValue(gsKeyScaleFactor, 2.0)
	_ = env.store.SetValue(gsKeyGtkCursorThemeSizeBase, int32(24))

	env.m.handleConfigChanged(gsKeyGtkCursorThemeSizeBase)

	size, err := env.store.GetValueInt(gsKeyGtkCursorThemeSize)
	require.NoError(t, err)
	assert.Equal(t, 48, size)
}

func TestIfcSetGet(t *testing.T) {
	env := newTestEnv(t)

	dbusErr := env.m.SetInteger("Net/DoubleClickTime", 400)
	require.Nil(t, dbusErr)
	v, dbusErr := env.m.GetInteger("Net/DoubleClickTime")
	require.Nil(t, dbusErr)
	assert.Equal(t, int32(400), v)

	// the wire write syncs back into the store
	stored, err := env.store.GetValueInt("double-click-time")
	require.NoError(t, err)
	assert.Equal(t, 400, stored)

	dbusErr = env.m.SetString("Gtk/ThemeName", "deepin-dark")
	require.Nil(t, dbusErr)
	s, dbusErr := env.m.GetString("Gtk/ThemeName")
	require.Nil(t, dbusErr)
	assert.Equal(t, "deepin-dark", s)

	dbusErr = env.m.SetColor("Qt/ActiveColor", []uint16{0, 128, 255, 255})
	require.Nil(t, dbusErr)
	color, dbusErr := env.m.GetColor("Qt/ActiveColor")
	require.Nil(t, dbusErr)
	assert.Equal(t, []uint16{0, 128, 255, 255}, color)
	storedColor, err := env.store.GetValueString("qt-active-color")
	require.NoError(t, err)
	assert.Equal(t, "0,32896,65535,65535", storedColor)
}

func TestIfcTypeMismatch(t *testing.T) {
	env := newTestEnv(t)

	dbusErr := env.m.SetString("Net/ThemeName", "deepin")
	require.Nil(t, dbusErr)

	_, dbusErr = env.m.GetInteger("Net/ThemeName")
	assert.NotNil(t, dbusErr)
	_, dbusErr = env.m.GetColor("Net/ThemeName")
	assert.NotNil(t, dbusErr)
	_, dbusErr = env.m.GetString("No/Such/Prop")
	assert.NotNil(t, dbusErr)

	dbusErr = env.m.SetColor("Qt/ActiveColor", []uint16{1, 2, 3})
	assert.NotNil(t, dbusErr)
}

func TestListProps(t *testing.T) {
	env := newTestEnv(t)

	s, dbusErr := env.m.ListProps()
	require.Nil(t, dbusErr)
	assert.Equal(t, "", s)

	require.Nil(t, env.m.SetInteger("Xft/DPI", 98304))
	require.Nil(t, env.m.SetString("Net/ThemeName", "deepin"))
	s, dbusErr = env.m.ListProps()
	require.Nil(t, dbusErr)
	assert.Equal(t, `["Xft/DPI","Net/ThemeName"]`, s)
}

func TestUpdateDPI(t *testing.T) {
	env := newTestEnv(t)
	_ = env.store.SetValue(gsKeyScaleFactor, 1.5)
	_ = env.store.SetValue(gsKeyWindowScale, int32(1))
	_ = env.store.SetValue(gsKeyGtkCursorThemeSize, int32(36))

	env.m.updateDPI()

	dpi, err := env.store.GetValueInt(gsKeyXftDpi)
	require.NoError(t, err)
	assert.Equal(t, int(96*1024*1.5), dpi)

	info := env.prop.decode()
	item := info.getPropItem("Xft/DPI")
	require.NotNil(t, item)
	assert.Equal(t, int32(96*1024*1.5), item.value.(*integerValueInfo).value)

	item = info.getPropItem("Gdk/WindowScalingFactor")
	require.NotNil(t, item)
	assert.Equal(t, int32(1), item.value.(*integerValueInfo).value)
	item = info.getPropItem("Gdk/UnscaledDPI")
	require.NotNil(t, item)
	assert.Equal(t, int32(96*1024*1.5), item.value.(*integerValueInfo).value)

	assert.Equal(t, "144", env.res.pairs["Xft.dpi"])
}

func TestUpdateDPIHidpi(t *testing.T) {
	env := newTestEnv(t)
	_ = env.store.SetValue(gsKeyScaleFactor, 2.0)
	_ = env.store.SetValue(gsKeyWindowScale, int32(2))
	_ = env.store.SetValue(gsKeyGtkCursorThemeSize, int32(48))
	_ = env.store.SetValue(gsKeyGtkCursorThemeName, "bloom")

	env.m.updateDPI()

	info := env.prop.decode()
	item := info.getPropItem("Gdk/UnscaledDPI")
	require.NotNil(t, item)
	// with a window scale above 1 the unscaled dpi stays at base
	assert.Equal(t, int32(96*1024), item.value.(*integerValueInfo).value)
	item = info.getPropItem("Gtk/CursorThemeSize")
	require.NotNil(t, item)
	assert.Equal(t, int32(48), item.value.(*integerValueInfo).value)

	// and the xresource dpi stays at base too
	assert.Equal(t, "96", env.res.pairs["Xft.dpi"])
	assert.Equal(t, "bloom", env.res.pairs["Xcursor.theme"])
	assert.Equal(t, "48", env.res.pairs["Xcursor.size"])
}

func TestStart(t *testing.T) {
	env := newTestEnv(t)
	_ = env.store.SetValue("theme-name", "deepin")
	_ = env.store.SetValue(gsKeyIndividualScaling, "All=2.00;")
	_ = env.store.SetValue(gsKeyScaleFactor, 2.0)
	_ = env.store.SetValue(gsKeyWindowScale, int32(2))

	env.m.start(1.0)

	info := env.prop.decode()
	item := info.getPropItem("Net/ThemeName")
	require.NotNil(t, item)
	assert.Equal(t, "deepin", item.value.(*stringValueInfo).value)

	scale, err := env.store.GetValueFloat64(gsKeyScaleFactor)
	require.NoError(t, err)
	assert.Equal(t, 2.0, scale)
	assert.NotZero(t, env.greeter.updates)
}

func TestStartAdoptsRecommendedFactor(t *testing.T) {
	env := newTestEnv(t)

	env.m.start(1.25)

	scale, err := env.store.GetValueFloat64(gsKeyScaleFactor)
	require.NoError(t, err)
	assert.Equal(t, 1.25, scale)
}
