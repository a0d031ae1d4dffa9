// SPDX-FileCopyrightText: 2025 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package xsettings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalXResources(t *testing.T) {
	infos := xresourceInfos{
		{key: "*customization", value: "-color"},
		{key: "Xft.dpi", value: "144"},
	}
	assert.Equal(t, "*customization:\t-color\nXft.dpi:\t144\n",
		marshalXResources(infos))

	assert.Equal(t, "", marshalXResources(nil))
}

func TestUnmarshalXResources(t *testing.T) {
	infos := unmarshalXResources("*customization:\t-color\nXft.dpi:\t144\n")
	require.Len(t, infos, 2)
	assert.Equal(t, "*customization", infos[0].key)
	assert.Equal(t, "-color", infos[0].value)
	assert.Equal(t, "Xft.dpi", infos[1].key)
	assert.Equal(t, "144", infos[1].value)

	// lines without the separator are dropped
	infos = unmarshalXResources("bogus line\nXcursor.size:\t24\n")
	require.Len(t, infos, 1)
	assert.Equal(t, "Xcursor.size", infos[0].key)
}

func TestXResourcesRoundTrip(t *testing.T) {
	data := "*customization:\t-color\nXcursor.theme:\tbloom\nXft.dpi:\t96\n"
	assert.Equal(t, data, marshalXResources(unmarshalXResources(data)))
}

func TestUpdateXResourceProperty(t *testing.T) {
	var infos xresourceInfos

	infos = infos.UpdateProperty("Xft.dpi", "96")
	infos = infos.UpdateProperty("Xcursor.size", "24")
	require.Len(t, infos, 2)

	infos = infos.UpdateProperty("Xft.dpi", "144")
	require.Len(t, infos, 2)
	assert.Equal(t, "144", infos.Get("Xft.dpi").value)
	assert.Nil(t, infos.Get("Xft.rgba"))
}
