// SPDX-FileCopyrightText: 2025 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package scale

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/linuxdeepin/go-lib/keyfile"
	"github.com/linuxdeepin/go-lib/log"
	"github.com/linuxdeepin/go-lib/xdg/basedir"
	x "github.com/linuxdeepin/go-x11-client"
	"github.com/linuxdeepin/go-x11-client/ext/randr"
)

var logger = log.NewLogger("daemon/scale")

type monitorSizeInfo struct {
	width, height     uint16
	mmWidth, mmHeight uint32
}

func hasRandr1d2(conn *x.Conn) bool {
	randrVersion, err := randr.QueryVersion(conn, randr.MajorVersion, randr.MinorVersion).Reply(conn)
	if err != nil {
		logger.Warning(err)
		return false
	}
	return randrVersion.ServerMajorVersion > 1 ||
		(randrVersion.ServerMajorVersion == 1 && randrVersion.ServerMinorVersion >= 2)
}

// GetRecommendedScaleFactor derives a sensible global scale factor from the
// physical and pixel sizes of the connected monitors. It is only used when
// no factor has been persisted yet.
func GetRecommendedScaleFactor(conn *x.Conn) float64 {
	if !hasRandr1d2(conn) {
		return 1.0
	}
	resources, err := getScreenResources(conn)
	if err != nil {
		logger.Warning(err)
		return 1.0
	}
	cfgTs := resources.ConfigTimestamp

	var monitors []*monitorSizeInfo
	for _, output := range resources.Outputs {
		outputInfo, err := randr.GetOutputInfo(conn, output, cfgTs).Reply(conn)
		if err != nil {
			logger.Warningf("get output %v info failed: %v", output, err)
			return 1.0
		}
		if outputInfo.Connection != randr.ConnectionConnected {
			continue
		}

		if outputInfo.Crtc == 0 {
			continue
		}

		crtcInfo, err := randr.GetCrtcInfo(conn, outputInfo.Crtc, cfgTs).Reply(conn)
		if err != nil {
			logger.Warningf("get crtc %v info failed: %v", outputInfo.Crtc, err)
			return 1.0
		}
		monitors = append(monitors, &monitorSizeInfo{
			mmWidth:  outputInfo.MmWidth,
			mmHeight: outputInfo.MmHeight,
			width:    crtcInfo.Width,
			height:   crtcInfo.Height,
		})
	}

	if len(monitors) == 0 {
		return 1.0
	}

	// force-scale-factor.ini overrides the computed recommendation
	forceScaleFactor, err := GetForceScaleFactor()
	if err == nil {
		return forceScaleFactor
	}

	minScaleFactor := 3.0
	for _, monitor := range monitors {
		scaleFactor := calcRecommendedScaleFactor(float64(monitor.width), float64(monitor.height),
			float64(monitor.mmWidth), float64(monitor.mmHeight))
		if minScaleFactor > scaleFactor {
			minScaleFactor = scaleFactor
		}
	}
	return minScaleFactor
}

func getScreenResources(conn *x.Conn) (*randr.GetScreenResourcesReply, error) {
	root := conn.GetDefaultScreen().Root
	return randr.GetScreenResources(conn, root).Reply(conn)
}

func getForceScaleFactorFile() string {
	return filepath.Join(basedir.GetUserConfigDir(), "deepin/force-scale-factor.ini")
}

// GetForceScaleFactor reads the user supplied global scale override.
func GetForceScaleFactor() (float64, error) {
	fileName := getForceScaleFactorFile()
	_, err := os.Stat(fileName)
	if err == nil {
		kf := keyfile.NewKeyFile()
		err := kf.LoadFromFile(fileName)
		if err != nil {
			logger.Warning("failed to load force-scale-factor.ini:", err)
		} else {
			forceScaleFactor, err := kf.GetFloat64("ForceScaleFactor", "scale")
			if err == nil && forceScaleFactor >= 1.0 && forceScaleFactor <= 3.0 {
				return forceScaleFactor, nil
			}
			logger.Warning("invalid forceScaleFactor:", forceScaleFactor, err)
		}
	}
	return 1.0, fmt.Errorf("no valid force-scale-factor")
}

func calcRecommendedScaleFactor(widthPx, heightPx, widthMm, heightMm float64) float64 {
	if widthMm == 0 || heightMm == 0 {
		return 1
	}

	lenPx := math.Hypot(widthPx, heightPx)
	lenMm := math.Hypot(widthMm, heightMm)

	lenPxStd := math.Hypot(1920, 1080)
	lenMmStd := math.Hypot(477, 268)

	const a = 0.00158
	fix := (lenMm - lenMmStd) * (lenPx / lenPxStd) * a
	scaleFactor := (lenPx/lenMm)/(lenPxStd/lenMmStd) + fix

	return toListedScaleFactor(scaleFactor)
}

func toListedScaleFactor(s float64) float64 {
	const (
		min  = 1.0
		max  = 3.0
		step = 0.25
	)
	if s <= min {
		return min
	} else if s >= max {
		return max
	}

	for i := min; i <= max; i += step {
		if i > s {
			ii := i - step
			d1 := s - ii
			d2 := i - s

			if d1 >= d2 {
				return i
			}
			return ii
		}
	}
	return max
}
