// Frontline Perception System
// Copyright (C) 2020-2025 TurbineOne LLC
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/atrium-vision/camerad/pkg/config"
	"github.com/atrium-vision/camerad/pkg/logger"
)

const configFileName = "config.yaml"

//nolint:gochecknoglobals // Needed for makefile injection.
var (
	Version  = "v0"
	Revision = "0"
	Created  = "0000-00-00"
)

// mainConfig is the master config for the executable.
type mainConfig struct { //nolint:govet // Don't care about alignment.
	Logger         logger.Config `yaml:"logger"`
	FfmpegLogLevel string        `yaml:"ffmpeg_log_level" env:"FFMPEG_LOG_LEVEL"`
	MaxCameras     int           `yaml:"max_cameras" env:"MAX_CAMERAS"`
	PoolSizeOverride int         `yaml:"pool_size_override" env:"POOL_SIZE_OVERRIDE"`
	MetricsAddr    string        `yaml:"metrics_addr" env:"METRICS_ADDR"`
	CamerasFile    string        `yaml:"cameras_file" env:"CAMERAS_FILE"`
	CameraLogDir   string        `yaml:"camera_log_dir" env:"CAMERA_LOG_DIR"`
}

func mainConfigDefault() mainConfig {
	loggerCfg := logger.ConfigDefault()
	loggerCfg.Component = "camerad"

	return mainConfig{
		Logger:         loggerCfg,
		FfmpegLogLevel: "warning",
		MaxCameras:     128,
		MetricsAddr:    ":9100",
		CamerasFile:    "cameras.yaml",
		CameraLogDir:   "./camera-logs",
	}
}

var currentConfig = mainConfigDefault() //nolint:gochecknoglobals // Static config.

var log zerolog.Logger //nolint:gochecknoglobals // Don't care.

// initConfig loads currentConfig from file+env and sets up the process
// logger. A missing config file is not fatal.
func initConfig() {
	err := config.Init(configFileName, "CAMERAD_", &currentConfig)
	if err != nil {
		ncErr := &config.NoConfigError{}
		if !errors.As(err, &ncErr) {
			fmt.Println(err.Error()) //nolint:forbidigo // OK to print here.
			os.Exit(-1)
		}
	}

	log = logger.New(&currentConfig.Logger)

	binName := filepath.Base(os.Args[0])
	log.Info().Msg(fmt.Sprintf("%s %s rev:%s created:%s", binName, Version, Revision, Created))
	log.Info().Interface("config", &currentConfig).Msg("effective config")

	if err != nil {
		log.Info().Msg(err.Error())
	}
}

// instanceID disambiguates this process run's log lines and metrics from
// any other run against the same backends.
var instanceID = uuid.NewString() //nolint:gochecknoglobals // Set once at startup.
