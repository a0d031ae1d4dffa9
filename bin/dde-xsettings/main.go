// SPDX-FileCopyrightText: 2025 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"os"

	"github.com/linuxdeepin/dde-xsettings/common/scale"
	xsettings "github.com/linuxdeepin/dde-xsettings/xsettings1"
	"github.com/linuxdeepin/go-lib/dbusutil"
	"github.com/linuxdeepin/go-lib/log"
	x "github.com/linuxdeepin/go-x11-client"
)

var logger = log.NewLogger("dde-xsettings")

func main() {
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		logger.Info("wayland session, xsettings not needed")
		return
	}

	service, err := dbusutil.NewSessionService()
	if err != nil {
		logger.Fatal("failed to new session service:", err)
	}

	hasOwner, err := service.NameHasOwner(xsettings.DBusServiceName)
	if err != nil {
		logger.Fatal(err)
	}
	if hasOwner {
		logger.Fatalf("name %q already has the owner", xsettings.DBusServiceName)
	}

	conn, err := x.NewConn()
	if err != nil {
		logger.Fatal("failed to connect to x server:", err)
	}

	recommendedScaleFactor := scale.GetRecommendedScaleFactor(conn)

	_, err = xsettings.Start(conn, recommendedScaleFactor, service)
	if err != nil {
		logger.Fatal("failed to start xsettings:", err)
	}

	service.Wait()
}
