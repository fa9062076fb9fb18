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

// Package registry tracks the set of live camera pipelines by id,
// coordinating their startup, bounded-wait shutdown, and the one shared
// wakeable primitive every pipeline polls at its suspension points.
package registry

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/atrium-vision/camerad/pkg/camera"
	"github.com/atrium-vision/camerad/pkg/camerror"
	"github.com/atrium-vision/camerad/pkg/framepool"
)

const (
	joinWaitTotal = 3 * time.Second
	joinWaitStep  = 100 * time.Millisecond
)

type handle struct {
	pipeline *camera.Pipeline
	done     chan struct{}
}

// Registry is the process-wide id → pipeline table plus the Frame Delivery
// Pool every pipeline shares. Grounded on camera_processor.c's uthash
// table, generalized to Go's native map.
type Registry struct {
	mu          sync.Mutex
	cameras     map[int32]*handle
	pool        *framepool.Pool
	initialized bool
	log         zerolog.Logger

	wakeMu sync.Mutex
	wake   chan struct{}
}

// New constructs an uninitialized Registry.
func New(log zerolog.Logger) *Registry {
	return &Registry{log: log.With().Str("component", "registry").Logger()}
}

// Initialize is idempotent: creates the shared interruption channel and
// the Delivery Pool, and marks the Registry ready to accept cameras.
func (r *Registry) Initialize(poolSize int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		r.log.Warn().Msg("already initialized")

		return nil
	}

	r.cameras = make(map[int32]*handle)
	r.pool = framepool.New(r.log)
	r.pool.Initialize(poolSize)
	r.wake = make(chan struct{}, 1)
	r.initialized = true

	r.log.Info().Int("pool_size", poolSize).Msg("registry initialized")

	return nil
}

// Pool returns the shared Frame Delivery Pool, for callers outside the
// add/stop path (e.g. hostapi's PoolUtilization).
func (r *Registry) Pool() *framepool.Pool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.pool
}

// interruptPending is wired into every pipeline's avsource Interrupt hook:
// a non-blocking peek at whether the shared wake channel has a pending
// notification, without draining it (so every pipeline observes it).
func (r *Registry) interruptPending() bool {
	r.wakeMu.Lock()
	defer r.wakeMu.Unlock()

	select {
	case <-r.wake:
		// Drain then immediately re-post so every other pipeline still
		// polling also observes the wake; approximates a level-triggered
		// self-pipe without requiring per-pipeline fan-out channels.
		select {
		case r.wake <- struct{}{}:
		default:
		}

		return true
	default:
		return false
	}
}

func (r *Registry) postWake() {
	r.wakeMu.Lock()
	defer r.wakeMu.Unlock()

	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func (r *Registry) drainWake() {
	r.wakeMu.Lock()
	defer r.wakeMu.Unlock()

	select {
	case <-r.wake:
	default:
	}
}

// AddCamera allocates and starts a pipeline for id. Returns a sentinel
// camerror on failure; no worker is started in that case.
func (r *Registry) AddCamera(
	id int32, url string, targetFPS int,
	statusCb camera.StatusFunc, frameCb camera.FrameFunc,
	statusCtx, frameCtx any,
	metrics camera.Metrics,
) error {
	r.mu.Lock()

	if !r.initialized {
		r.mu.Unlock()

		return camerror.ErrNotInitialized
	}

	if url == "" {
		r.mu.Unlock()

		return camerror.ErrInvalidURL
	}

	if _, exists := r.cameras[id]; exists {
		r.mu.Unlock()

		return camerror.ErrAlreadyExists
	}

	r.drainWake()

	p := camera.New(camera.Config{
		CameraID:      id,
		URL:           url,
		TargetFPS:     targetFPS,
		StatusCb:      statusCb,
		FrameCb:       frameCb,
		StatusUserCtx: statusCtx,
		FrameUserCtx:  frameCtx,
		Pool:          r.pool,
		Thresholds:    camera.DefaultThresholds(),
		Log:           r.log,
		Interrupt:     r.interruptPending,
	})

	if metrics != nil {
		p.SetMetrics(metrics)
	}

	h := &handle{pipeline: p, done: make(chan struct{})}
	r.cameras[id] = h

	r.mu.Unlock()

	go func() {
		defer close(h.done)
		p.Run()
	}()

	return nil
}

// StopCamera signals the pipeline for id to stop, immediately releases the
// id for reuse, and waits up to 3s for the worker to exit.
func (r *Registry) StopCamera(id int32) error {
	r.mu.Lock()

	if !r.initialized {
		r.mu.Unlock()

		return camerror.ErrNotInitialized
	}

	h, ok := r.cameras[id]
	if !ok {
		r.mu.Unlock()

		return camerror.ErrNotFound
	}

	delete(r.cameras, id)
	r.mu.Unlock()

	h.pipeline.RequestStop()
	r.postWake()

	waitForDone(h.done, joinWaitTotal, joinWaitStep)

	return nil
}

// Shutdown signals every live pipeline, releases every id, joins each
// worker with the same bounded wait, then tears down the Delivery Pool.
func (r *Registry) Shutdown() error {
	r.mu.Lock()

	if !r.initialized {
		r.mu.Unlock()

		return nil
	}

	handles := make([]*handle, 0, len(r.cameras))
	for id, h := range r.cameras {
		handles = append(handles, h)
		delete(r.cameras, id)
	}

	r.mu.Unlock()

	for _, h := range handles {
		h.pipeline.RequestStop()
	}

	r.postWake()

	for _, h := range handles {
		waitForDone(h.done, joinWaitTotal, joinWaitStep)
	}

	r.mu.Lock()
	r.pool.Destroy()
	r.initialized = false
	r.mu.Unlock()

	r.log.Info().Msg("registry shut down")

	return nil
}

func waitForDone(done chan struct{}, total, step time.Duration) {
	deadline := time.Now().Add(total)

	for {
		select {
		case <-done:
			return
		default:
		}

		if time.Now().After(deadline) {
			return
		}

		time.Sleep(step)
	}
}
