// SPDX-FileCopyrightText: 2025 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package xsettings

import (
	"bytes"
	"encoding/binary"
	"io"

	"golang.org/x/xerrors"
)

func (info *xsDataInfo) modifyProperty(setting xsSetting) {
	for i := range info.items {
		item := &info.items[i]
		if item.header.name != setting.prop {
			continue
		}
		item.header.lastChangeSerial++
		item.changePropValue(setting.value)
		return
	}
}

func (item *xsItemInfo) changePropValue(value interface{}) {
	switch item.header.sType {
	case settingTypeInteger:
		if v, ok := value.(int32); ok {
			item.changeValueInteger(v)
			return
		}
	case settingTypeString:
		if v, ok := value.(string); ok {
			item.changeValueString(v)
			return
		}
	case settingTypeColor:
		if v, ok := value.([4]uint16); ok {
			item.changeValueColor(v)
			return
		}
	}
	logger.Warningf("value %T does not match type of prop %q",
		value, item.header.name)
}

func (item *xsItemInfo) changeValueInteger(value int32) {
	v, ok := item.value.(*integerValueInfo)
	if !ok || v.value == value {
		return
	}

	v.value = value
}

func (item *xsItemInfo) changeValueString(value string) {
	v, ok := item.value.(*stringValueInfo)
	if !ok || v.value == value {
		return
	}

	v.length = uint32(len(value))
	v.value = value
}

func (item *xsItemInfo) changeValueColor(value [4]uint16) {
	v, ok := item.value.(*colorValueInfo)
	if !ok || (v.red == value[0] && v.green == value[1] &&
		v.blue == value[2] && v.alpha == value[3]) {
		return
	}

	v.red = value[0]
	v.green = value[1]
	v.blue = value[2]
	v.alpha = value[3]
}

// marshalSettingData fails if any item's value does not match its declared
// type. Such an item must never be skipped silently, the resulting blob
// would be unusable for every toolkit reading it.
func marshalSettingData(info *xsDataInfo) ([]byte, error) {
	var buf = new(bytes.Buffer)

	writeInteger(buf, info.byteOrder)
	writeSkip(buf, 3)
	writeInteger(buf, info.serial)
	writeInteger(buf, info.numSettings)
	for i := range info.items {
		err := writeXSItemInfo(buf, &info.items[i])
		if err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

func newXSItemInteger(prop string, v int32) *xsItemInfo {
	var item = xsItemInfo{
		header: newXSItemHeader(prop),
		value: &integerValueInfo{
			value: v,
		},
	}

	item.header.sType = settingTypeInteger
	return &item
}

func newXSItemString(prop string, v string) *xsItemInfo {
	var item = xsItemInfo{
		header: newXSItemHeader(prop),
	}
	item.header.sType = settingTypeString

	var value = stringValueInfo{
		length: uint32(len(v)),
		value:  v,
	}

	item.value = &value
	return &item
}

func newXSItemColor(prop string, v [4]uint16) *xsItemInfo {
	var item = xsItemInfo{
		header: newXSItemHeader(prop),
	}
	item.header.sType = settingTypeColor

	var value = colorValueInfo{
		red:   v[0],
		green: v[1],
		blue:  v[2],
		alpha: v[3],
	}

	item.value = &value
	return &item
}

func newXSItemHeader(prop string) *xsItemHeader {
	var header = xsItemHeader{
		nameLen:          uint16(len(prop)),
		name:             prop,
		lastChangeSerial: 1,
	}
	return &header
}

func writeSkip(writer io.Writer, num int) {
	var buf = make([]byte, num)
	err := binary.Write(writer, defaultByteOrder, buf)
	if err != nil {
		logger.Warning(err)
	}
}

func writeInteger(writer io.Writer, v interface{}) {
	err := binary.Write(writer, defaultByteOrder, v)
	if err != nil {
		logger.Warning(err)
	}
}

func writeString(writer io.Writer, v string) {
	err := binary.Write(writer, defaultByteOrder, []byte(v))
	if err != nil {
		logger.Warning(err)
	}
}

func writeXSItemInfo(writer io.Writer, item *xsItemInfo) error {
	writeXSInfoHeader(writer, item.header)

	switch item.header.sType {
	case settingTypeInteger:
		if v, ok := item.value.(*integerValueInfo); ok {
			writeXSValueInteger(writer, v)
			return nil
		}
	case settingTypeString:
		if v, ok := item.value.(*stringValueInfo); ok {
			writeXSValueString(writer, v)
			return nil
		}
	case settingTypeColor:
		if v, ok := item.value.(*colorValueInfo); ok {
			writeXSValueColor(writer, v)
			return nil
		}
	default:
		return xerrors.Errorf("prop %q has unknown setting type %d",
			item.header.name, item.header.sType)
	}
	return xerrors.Errorf("value %T of prop %q does not match setting type %d",
		item.value, item.header.name, item.header.sType)
}

func writeXSInfoHeader(writer io.Writer, header *xsItemHeader) {
	writeInteger(writer, &header.sType)
	writeSkip(writer, 1)
	writeInteger(writer, &header.nameLen)
	writeString(writer, header.name)
	writeSkip(writer, pad(int(header.nameLen)))
	writeInteger(writer, &header.lastChangeSerial)
}

func writeXSValueInteger(writer io.Writer, v *integerValueInfo) {
	writeInteger(writer, &v.value)
}

func writeXSValueString(writer io.Writer, v *stringValueInfo) {
	writeInteger(writer, &v.length)
	writeString(writer, v.value)
	writeSkip(writer, pad(int(v.length)))
}

func writeXSValueColor(writer io.Writer, v *colorValueInfo) {
	writeInteger(writer, &v.red)
	writeInteger(writer, &v.green)
	writeInteger(writer, &v.blue)
	writeInteger(writer, &v.alpha)
}
