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

package camera

import (
	"sync/atomic"
	"time"

	"github.com/asticode/go-astiav"
	"github.com/rs/zerolog"

	"github.com/atrium-vision/camerad/pkg/avsource"
	"github.com/atrium-vision/camerad/pkg/framepool"
)

// Thresholds carries the pipeline's tunable timing parameters. Values
// mirror camera_context.h's *_threshold_sec fields, translated from
// per-instance struct fields to a single shared config since none of them
// are runtime-mutable in this design.
type Thresholds struct {
	EarlySleepSec         float64
	LatenessCatchupSec    float64
	PTSJumpResetSec       float64
	StallTimeoutSec       float64
	FPSWindow             time.Duration
	ReconnectBaseSec      float64
	ReconnectMinSec       float64
	ReconnectMaxSec       float64
	OpenInputRetryCapSec  float64
}

// DefaultThresholds returns the tunables named as defaults in the host
// callback contract's configuration section.
func DefaultThresholds() Thresholds {
	return Thresholds{
		EarlySleepSec:        0.05,
		LatenessCatchupSec:   0.20,
		PTSJumpResetSec:      1.0,
		StallTimeoutSec:      30.0,
		FPSWindow:            5 * time.Second,
		ReconnectBaseSec:     2,
		ReconnectMinSec:      1,
		ReconnectMaxSec:      30,
		OpenInputRetryCapSec: 5,
	}
}

// Config carries everything New needs to build a Pipeline.
type Config struct {
	CameraID       int32
	URL            string
	TargetFPS      int
	StatusCb       StatusFunc
	FrameCb        FrameFunc
	StatusUserCtx  any
	FrameUserCtx   any
	Pool           *framepool.Pool
	Thresholds     Thresholds
	Log            zerolog.Logger
	// Interrupt is polled by the pipeline's suspension points (connect,
	// read, pacing sleeps) in addition to its own stop flag; it lets the
	// registry wake every pipeline at once for shutdown.
	Interrupt func() bool
}

// Pipeline is the per-camera worker: one goroutine runs Run() from
// add_camera until stop_camera or shutdown.
type Pipeline struct {
	cameraID      int32
	url           string
	targetFPS     int
	statusCb      StatusFunc
	frameCb       FrameFunc
	statusUserCtx any
	frameUserCtx  any
	pool          *framepool.Pool
	thresholds    Thresholds
	log           zerolog.Logger
	interrupt     func() bool

	stopRequested atomic.Bool
	state         State

	// Media resources for the current connection; nil between connections.
	input   *avsource.Input
	decoder *avsource.Decoder
	scaler  *avsource.Scaler

	// decoderTimeBase is cached from decoder.TimeBase() at connect time so
	// PTS-to-duration conversions don't need a live decoder, which keeps
	// them reachable from tests that exercise the pacing path directly.
	decoderTimeBase astiav.Rational

	reconnectAttempts int

	// Frame-skip state.
	sourceFPS       float64
	hasRealFPS      bool
	skipRatio       float64
	skipAccumulator float64
	targetInterval  time.Duration

	// Dual FPS windows.
	inputWindowStart  time.Time
	inputCount        int64
	outputWindowStart time.Time
	outputCount       int64
	inputFPS          float64
	outputFPS         float64

	// PTS pacing / anchoring.
	firstPTS            int64
	haveAnchor           bool
	playbackAnchor       time.Time
	lastSentPTSSec       float64
	lastSentPTS          int64
	lastFrameSentAt      time.Time
	haveLastSentPTS      bool

	lastActivity time.Time

	metrics Metrics
}

// Metrics is a narrow seam so *Pipeline doesn't import internal/metrics
// directly (avoiding a pkg → internal dependency pointing the wrong way);
// the registry wires a concrete recorder in.
type Metrics interface {
	SetInputFPS(cameraID int32, fps float64)
	SetOutputFPS(cameraID int32, fps float64)
	SetReconnectAttempts(cameraID int32, attempts int)
}

type noopMetrics struct{}

func (noopMetrics) SetInputFPS(int32, float64)      {}
func (noopMetrics) SetOutputFPS(int32, float64)     {}
func (noopMetrics) SetReconnectAttempts(int32, int) {}

// New constructs a Pipeline in the Stopped state. Call Run to start it.
func New(cfg Config) *Pipeline {
	th := cfg.Thresholds
	if th == (Thresholds{}) {
		th = DefaultThresholds()
	}

	p := &Pipeline{
		cameraID:      cfg.CameraID,
		url:           cfg.URL,
		targetFPS:     cfg.TargetFPS,
		statusCb:      cfg.StatusCb,
		frameCb:       cfg.FrameCb,
		statusUserCtx: cfg.StatusUserCtx,
		frameUserCtx:  cfg.FrameUserCtx,
		pool:          cfg.Pool,
		thresholds:    th,
		log:           cfg.Log.With().Int32("camera_id", cfg.CameraID).Logger(),
		interrupt:     cfg.Interrupt,
		state:         StateStopped,
		metrics:       noopMetrics{},
	}

	if p.targetFPS <= 0 {
		p.targetFPS = 1
	}

	return p
}

// SetMetrics installs a metrics recorder; called once by the registry
// before Run.
func (p *Pipeline) SetMetrics(m Metrics) {
	if m != nil {
		p.metrics = m
	}
}

// RequestStop asks the pipeline to stop at its next suspension point.
func (p *Pipeline) RequestStop() {
	p.stopRequested.Store(true)
}

func (p *Pipeline) shouldStop() bool {
	if p.stopRequested.Load() {
		return true
	}

	return p.interrupt != nil && p.interrupt()
}

func (p *Pipeline) setState(s State, message string) {
	if p.state == s {
		return
	}

	p.state = s
	p.log.Info().Str("state", s.String()).Str("message", message).Msg("state transition")

	if p.statusCb != nil {
		p.statusCb(p.cameraID, s, message, p.statusUserCtx)
	}
}
