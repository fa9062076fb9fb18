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

// Package hostapi is the top-level entry point a host embeds: initialize
// once, add/stop cameras by id, receive frames and status through plain Go
// callbacks, and release delivered frames back to the pool.
package hostapi

import (
	"github.com/rs/zerolog"

	"github.com/atrium-vision/camerad/pkg/camera"
	"github.com/atrium-vision/camerad/pkg/camerror"
	"github.com/atrium-vision/camerad/pkg/registry"
)

const defaultPoolSizeMultiplier = 4

// API is the host-facing surface, translating camerror sentinels into the
// negative return codes documented in the host callback contract.
type API struct {
	reg        *registry.Registry
	maxCameras int
	metrics    camera.Metrics
	log        zerolog.Logger
}

// New constructs an API. Initialize must be called before AddCamera.
func New(log zerolog.Logger, maxCameras int, metrics camera.Metrics) *API {
	if maxCameras <= 0 {
		maxCameras = 128
	}

	return &API{
		reg:        registry.New(log),
		maxCameras: maxCameras,
		metrics:    metrics,
		log:        log.With().Str("component", "hostapi").Logger(),
	}
}

// Initialize prepares the registry and Delivery Pool. poolSizeOverride, if
// > 0, replaces the 4x-max-cameras default pool size.
func (a *API) Initialize(poolSizeOverride int) int {
	poolSize := poolSizeOverride
	if poolSize <= 0 {
		poolSize = a.maxCameras * defaultPoolSizeMultiplier
	}

	if err := a.reg.Initialize(poolSize); err != nil {
		return camerror.Code(err)
	}

	a.log.Info().Int("pool_size", poolSize).Int("max_cameras", a.maxCameras).Msg("host api initialized")

	return 0
}

// AddCamera starts a pipeline for id. targetFPS <= 0 means 1 FPS.
func (a *API) AddCamera(
	id int32, url string, targetFPS int,
	statusCb camera.StatusFunc, frameCb camera.FrameFunc,
	statusCtx, frameCtx any,
) int {
	err := a.reg.AddCamera(id, url, targetFPS, statusCb, frameCb, statusCtx, frameCtx, a.metrics)

	return camerror.Code(err)
}

// StopCamera stops and releases id.
func (a *API) StopCamera(id int32) int {
	return camerror.Code(a.reg.StopCamera(id))
}

// Shutdown stops every camera and tears down the Delivery Pool.
func (a *API) Shutdown() int {
	return camerror.Code(a.reg.Shutdown())
}

// Release returns a delivered descriptor to the Delivery Pool. The host
// must call this exactly once per frame_cb invocation.
func (a *API) Release(desc *camera.FrameDescriptor) {
	desc.Release()
}

// PoolUtilization reports the Delivery Pool's currently held and total
// slot counts, for a host that wants to publish them as its own gauge;
// camera.Metrics carries only per-camera values, not pool utilization.
func (a *API) PoolUtilization() (held, total int) {
	pool := a.reg.Pool()
	if pool == nil {
		return 0, 0
	}

	return pool.Utilization()
}
