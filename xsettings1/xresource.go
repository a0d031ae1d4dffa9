// SPDX-FileCopyrightText: 2025 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package xsettings

import (
	"strings"

	x "github.com/linuxdeepin/go-x11-client"
)

type xresourceInfo struct {
	key   string
	value string
}
type xresourceInfos []*xresourceInfo

func (infos xresourceInfos) UpdateProperty(key, value string) xresourceInfos {
	info := infos.Get(key)
	if info == nil {
		infos = append(infos, &xresourceInfo{
			key:   key,
			value: value,
		})
		return infos
	}

	info.value = value
	return infos
}

func (infos xresourceInfos) Get(key string) *xresourceInfo {
	for _, info := range infos {
		if info.key == key {
			return info
		}
	}
	return nil
}

func marshalXResources(infos xresourceInfos) string {
	var sb strings.Builder
	for _, info := range infos {
		sb.WriteString(info.key + ":\t" + info.value + "\n")
	}
	return sb.String()
}

func unmarshalXResources(data string) xresourceInfos {
	lines := strings.Split(data, "\n")
	var infos xresourceInfos
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		array := strings.Split(line, ":\t")
		if len(array) != 2 {
			logger.Debug("ignore xresource line:", line)
			continue
		}

		infos = append(infos, &xresourceInfo{
			key:   array[0],
			value: array[1],
		})
	}
	return infos
}

// x11ResourceSink merges key/value pairs into the RESOURCE_MANAGER string
// property on the root window.
type x11ResourceSink struct {
	conn *x.Conn
}

func newX11ResourceSink(conn *x.Conn) *x11ResourceSink {
	return &x11ResourceSink{conn: conn}
}

func (s *x11ResourceSink) WritePairs(changes xresourceInfos) error {
	data, err := s.read()
	if err != nil {
		return err
	}

	var infos xresourceInfos
	if len(data) == 0 {
		infos = append(infos, &xresourceInfo{
			key:   "*customization",
			value: "-color",
		})
		infos = append(infos, changes...)
	} else {
		infos = unmarshalXResources(data)
		for _, v := range changes {
			infos = infos.UpdateProperty(v.key, v.value)
		}
	}
	return s.write(marshalXResources(infos))
}

func (s *x11ResourceSink) read() (string, error) {
	atom, err := s.conn.GetAtom("RESOURCE_MANAGER")
	if err != nil {
		return "", err
	}

	root := s.conn.GetDefaultScreen().Root
	reply, err := x.GetProperty(s.conn, false, root,
		atom, x.AtomString, 0, 10240).Reply(s.conn)
	if err != nil {
		return "", err
	}

	return string(reply.Value), nil
}

func (s *x11ResourceSink) write(data string) error {
	atom, err := s.conn.GetAtom("RESOURCE_MANAGER")
	if err != nil {
		return err
	}

	root := s.conn.GetDefaultScreen().Root
	return x.ChangePropertyChecked(s.conn, x.PropModeReplace, root,
		atom, x.AtomString, 8, []byte(data)).Check(s.conn)
}
