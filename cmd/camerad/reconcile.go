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
	"sync"

	"github.com/rs/zerolog"

	"github.com/atrium-vision/camerad/internal/camconfig"
	"github.com/atrium-vision/camerad/internal/metrics"
	"github.com/atrium-vision/camerad/pkg/hostapi"
)

// cameraReconciler applies successive cameras.yaml snapshots against the
// live API, diffing against the previously applied list so unchanged
// entries are left running undisturbed.
type cameraReconciler struct {
	api  *hostapi.API
	host *demoHost
	log  zerolog.Logger

	mu   sync.Mutex
	prev camconfig.CameraList
}

func newCameraReconciler(api *hostapi.API, host *demoHost, log zerolog.Logger) *cameraReconciler {
	return &cameraReconciler{
		api:  api,
		host: host,
		log:  log.With().Str("component", "reconciler").Logger(),
	}
}

// Apply reconciles next against the last-applied camera list: cameras
// that were removed or whose url/target_fps changed are stopped, then
// cameras that are new or changed are (re-)added.
func (c *cameraReconciler) Apply(next camconfig.CameraList) {
	c.mu.Lock()
	prev := c.prev
	c.prev = next
	c.mu.Unlock()

	toStop, toAdd := camconfig.Diff(prev, next)

	for _, id := range toStop {
		if code := c.api.StopCamera(id); code != 0 {
			c.log.Warn().Int32("camera_id", id).Int("code", code).Msg("stop_camera failed")
		} else {
			c.log.Info().Int32("camera_id", id).Msg("camera stopped")
		}

		metrics.DeleteCamera(id)
	}

	for _, spec := range toAdd {
		code := c.api.AddCamera(
			spec.ID, spec.URL, spec.TargetFPS,
			c.host.OnStatus, c.host.OnFrame,
			nil, nil,
		)
		if code != 0 {
			c.log.Error().Int32("camera_id", spec.ID).Str("url", spec.URL).Int("code", code).Msg("add_camera failed")

			continue
		}

		c.log.Info().Int32("camera_id", spec.ID).Str("url", spec.URL).Int("target_fps", spec.TargetFPS).Msg("camera added")
	}
}
