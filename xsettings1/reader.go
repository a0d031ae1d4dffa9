// SPDX-FileCopyrightText: 2025 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package xsettings

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	settingTypeInteger uint8 = iota
	settingTypeString
	settingTypeColor
)

var (
	defaultByteOrder = binary.LittleEndian
)

type stringValueInfo struct {
	length uint32
	value  string
}

type integerValueInfo struct {
	value int32
}

type colorValueInfo struct {
	red   uint16
	green uint16
	blue  uint16
	//If the setting does not need the alpha field,
	//it should be set to 65535.
	alpha uint16
}

type xsItemHeader struct {
	sType            uint8  // setting type
	nameLen          uint16 // name length
	name             string
	lastChangeSerial uint32
}

type xsItemInfo struct {
	header *xsItemHeader
	value  interface{}
}

type xsItemInfos []xsItemInfo

type xsDataInfo struct {
	byteOrder   uint8
	serial      uint32
	numSettings uint32

	items xsItemInfos
}

func (infos xsItemInfos) listProps() string {
	var content = "["
	for i, info := range infos {
		if i != 0 {
			content += ","
		}
		content += fmt.Sprintf("%q", info.header.name)
	}
	return content + "]"
}

func (info *xsDataInfo) getPropItem(prop string) *xsItemInfo {
	for i := range info.items {
		if prop == info.items[i].header.name {
			return &info.items[i]
		}
	}

	return nil
}

// unmarshalSettingData never fails: the _XSETTINGS_SETTINGS property may not
// exist yet on first run, so empty or malformed data decodes to an empty
// info with serial 0.
func unmarshalSettingData(data []byte) *xsDataInfo {
	var empty = xsDataInfo{
		byteOrder: xsDataOrder,
		serial:    xsDataSerial,
	}
	if len(data) == 0 {
		return &empty
	}

	var info xsDataInfo
	err := readSettingData(bytes.NewReader(data), &info)
	if err != nil {
		logger.Warning("malformed xsettings data, treat as empty:", err)
		return &empty
	}
	return &info
}

func readSettingData(reader *bytes.Reader, info *xsDataInfo) error {
	err := readInteger(reader, &info.byteOrder)
	if err != nil {
		return err
	}
	err = readSkip(reader, 3)
	if err != nil {
		return err
	}
	err = readInteger(reader, &info.serial)
	if err != nil {
		return err
	}
	err = readInteger(reader, &info.numSettings)
	if err != nil {
		return err
	}
	for i := 0; i < int(info.numSettings); i++ {
		var item = xsItemInfo{
			header: &xsItemHeader{},
		}
		err = readXSItemInfo(reader, &item)
		if err != nil {
			return err
		}
		info.items = append(info.items, item)
	}

	return nil
}

func readSkip(reader *bytes.Reader, num int) error {
	var buf = make([]byte, num)
	return binary.Read(reader, defaultByteOrder, &buf)
}

func readInteger(reader *bytes.Reader, v interface{}) error {
	return binary.Read(reader, defaultByteOrder, v)
}

func readString(reader *bytes.Reader, v *string, length int) error {
	if length < 0 || length > reader.Len() {
		return fmt.Errorf("string length %d exceeds remaining %d bytes",
			length, reader.Len())
	}
	var buf = make([]byte, length)
	err := binary.Read(reader, defaultByteOrder, &buf)
	if err != nil {
		return err
	}
	*v = string(buf)
	return nil
}

func readXSItemInfo(reader *bytes.Reader, item *xsItemInfo) error {
	err := readXSItemHeader(reader, item.header)
	if err != nil {
		return err
	}

	switch item.header.sType {
	case settingTypeInteger:
		var v = integerValueInfo{}
		err = readXSValueInteger(reader, &v)
		item.value = &v
	case settingTypeString:
		var v = stringValueInfo{}
		err = readXSValueString(reader, &v)
		item.value = &v
	case settingTypeColor:
		var v = colorValueInfo{}
		err = readXSValueColor(reader, &v)
		item.value = &v
	default:
		err = fmt.Errorf("unknown setting type %d for %q",
			item.header.sType, item.header.name)
	}
	return err
}

func readXSItemHeader(reader *bytes.Reader, header *xsItemHeader) error {
	err := readInteger(reader, &header.sType)
	if err != nil {
		return err
	}
	err = readSkip(reader, 1)
	if err != nil {
		return err
	}
	err = readInteger(reader, &header.nameLen)
	if err != nil {
		return err
	}
	err = readString(reader, &header.name, int(header.nameLen))
	if err != nil {
		return err
	}
	err = readSkip(reader, pad(int(header.nameLen)))
	if err != nil {
		return err
	}
	return readInteger(reader, &header.lastChangeSerial)
}

func readXSValueInteger(reader *bytes.Reader, v *integerValueInfo) error {
	return readInteger(reader, &v.value)
}

func readXSValueString(reader *bytes.Reader, v *stringValueInfo) error {
	err := readInteger(reader, &v.length)
	if err != nil {
		return err
	}
	err = readString(reader, &v.value, int(v.length))
	if err != nil {
		return err
	}
	return readSkip(reader, pad(int(v.length)))
}

func readXSValueColor(reader *bytes.Reader, v *colorValueInfo) error {
	err := readInteger(reader, &v.red)
	if err != nil {
		return err
	}
	err = readInteger(reader, &v.green)
	if err != nil {
		return err
	}
	err = readInteger(reader, &v.blue)
	if err != nil {
		return err
	}
	return readInteger(reader, &v.alpha)
}

// pad returns the number of zero bytes needed after a field of the given
// length to reach a 4-byte boundary.
func pad(n int) int {
	return (4 - (n % 4)) % 4
}
