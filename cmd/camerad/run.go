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
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/atrium-vision/camerad/internal/camconfig"
	"github.com/atrium-vision/camerad/internal/metrics"
	"github.com/atrium-vision/camerad/pkg/avsource"
	"github.com/atrium-vision/camerad/pkg/hostapi"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Load cameras.yaml and start ingesting",
		Run: func(_ *cobra.Command, _ []string) {
			initConfig()
			runDaemon()
		},
	}
}

// runDaemon wires up the demo host: a snapshot-and-log frame/status
// handler driven entirely by cameras.yaml, standing in for whatever real
// embedding application would supply its own callbacks.
func runDaemon() {
	log.Info().Str("instance_id", instanceID).Msg("starting")

	avsource.SetupFfmpegLogging(log, currentConfig.FfmpegLogLevel)

	api := hostapi.New(log.With().Str("instance_id", instanceID).Logger(), currentConfig.MaxCameras, metrics.NewRecorder())

	if code := api.Initialize(currentConfig.PoolSizeOverride); code != 0 {
		log.Error().Int("code", code).Msg("initialize failed")
		os.Exit(1)
	}

	if err := os.MkdirAll(currentConfig.CameraLogDir, 0o755); err != nil {
		log.Error().Err(err).Msg("failed to create camera log dir")
		os.Exit(1)
	}

	host := newDemoHost(log, currentConfig.CameraLogDir)

	go serveHTTP(currentConfig.MetricsAddr, host)
	go pollPoolUtilization(api)

	reconciler := newCameraReconciler(api, host, log)

	watcher := camconfig.New(currentConfig.CamerasFile, camconfig.LoadCameraList, log)
	watcher.OnReload(reconciler.Apply)

	if initial, err := camconfig.LoadCameraList(currentConfig.CamerasFile); err != nil {
		log.Warn().Err(err).Msg("no initial cameras.yaml, starting with zero cameras")
	} else {
		reconciler.Apply(initial)
	}

	if err := watcher.Start(); err != nil {
		log.Warn().Err(err).Msg("cameras.yaml hot-reload disabled")
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	log.Info().Msg("shutting down")
	_ = watcher.Stop()
	api.Shutdown()
	host.Close()
}

func serveHTTP(addr string, host *demoHost) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/snapshot/", host)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info().Str("addr", addr).Msg("serving /metrics and /snapshot/{id}")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("http server stopped")
	}
}

// pollPoolUtilization publishes the shared Delivery Pool's held/total slot
// counts on the same cadence as the FPS windows, since the pool itself
// has no reason to know about Prometheus.
func pollPoolUtilization(api *hostapi.API) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		held, total := api.PoolUtilization()
		metrics.SetPoolUtilization(held, total)
	}
}
