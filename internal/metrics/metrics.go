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

// Package metrics exports the process's per-camera Prometheus gauges and
// the frame delivery pool's utilization gauge.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	inputFPS = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "camerad",
		Subsystem: "camera",
		Name:      "input_fps",
		Help:      "Measured decoded-frame rate before skip decisions",
	}, []string{"camera_id"})

	outputFPS = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "camerad",
		Subsystem: "camera",
		Name:      "output_fps",
		Help:      "Measured rate of frames delivered to the host",
	}, []string{"camera_id"})

	reconnectAttempts = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "camerad",
		Subsystem: "camera",
		Name:      "reconnect_attempts",
		Help:      "Current consecutive reconnect attempt count",
	}, []string{"camera_id"})

	poolHeldSlots = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "camerad",
		Subsystem: "pool",
		Name:      "slots_held",
		Help:      "Frame delivery pool slots currently held by a pipeline",
	})

	poolTotalSlots = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "camerad",
		Subsystem: "pool",
		Name:      "slots_total",
		Help:      "Frame delivery pool total slot count",
	})
)

// Recorder implements camera.Metrics, exporting each pipeline's FPS
// windows and reconnect-attempt count as Prometheus gauges labeled by
// camera_id.
type Recorder struct{}

// NewRecorder returns a Recorder ready to pass into camera.Pipeline.SetMetrics.
func NewRecorder() Recorder {
	return Recorder{}
}

func (Recorder) SetInputFPS(cameraID int32, fps float64) {
	inputFPS.WithLabelValues(label(cameraID)).Set(fps)
}

func (Recorder) SetOutputFPS(cameraID int32, fps float64) {
	outputFPS.WithLabelValues(label(cameraID)).Set(fps)
}

func (Recorder) SetReconnectAttempts(cameraID int32, attempts int) {
	reconnectAttempts.WithLabelValues(label(cameraID)).Set(float64(attempts))
}

// SetPoolUtilization publishes the shared frame delivery pool's current
// held/total slot counts. camerad's run command calls this from a 5s
// ticker; it's best-effort and never blocks pipeline work.
func SetPoolUtilization(held, total int) {
	poolHeldSlots.Set(float64(held))
	poolTotalSlots.Set(float64(total))
}

// DeleteCamera removes a stopped camera's per-id gauge series so they
// don't linger in /metrics output after stop_camera.
func DeleteCamera(cameraID int32) {
	l := label(cameraID)
	inputFPS.DeleteLabelValues(l)
	outputFPS.DeleteLabelValues(l)
	reconnectAttempts.DeleteLabelValues(l)
}

func label(cameraID int32) string {
	return strconv.FormatInt(int64(cameraID), 10)
}
