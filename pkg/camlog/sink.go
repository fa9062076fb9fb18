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

package camlog

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Manager lazily creates and keeps one sink per camera id, all tee'd to a
// shared process console logger.
type Manager struct {
	mu      sync.Mutex
	dir     string
	maxMB   int64
	console zerolog.Logger
	sinks   map[int32]*Sink
}

// NewManager returns a Manager writing rotating per-camera files under
// dir, each capped at maxMB before rotation, and echoing every line to
// console.
func NewManager(dir string, maxMB int64, console zerolog.Logger) *Manager {
	return &Manager{
		dir:     dir,
		maxMB:   maxMB,
		console: console,
		sinks:   make(map[int32]*Sink),
	}
}

// For returns the sink for cameraID, creating it on first use.
func (m *Manager) For(cameraID int32) (*Sink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sinks[cameraID]; ok {
		return s, nil
	}

	rf, err := newRotatingFile(m.dir, fmt.Sprintf("camera-%d", cameraID), m.maxMB)
	if err != nil {
		return nil, err
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(rf, m.console)).With().
		Timestamp().
		Int32("camera_id", cameraID).
		Logger()

	s := &Sink{
		cameraID: cameraID,
		log:      logger,
		file:     rf,
	}
	m.sinks[cameraID] = s

	return s, nil
}

// Close closes every open sink's file handle.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.sinks {
		_ = s.file.Close()
	}
}

// Sink is one camera's log destination plus its activity/heartbeat/stall
// bookkeeping, grounded on logger.h's declared (but stubbed-out in the
// original) log_activity/log_heartbeat/check_processing_stall contract.
type Sink struct {
	cameraID int32
	log      zerolog.Logger
	file     *rotatingFile

	mu           sync.Mutex
	lastActivity time.Time
	lastFrame    time.Time
}

// Logger returns the zerolog.Logger backing this sink.
func (s *Sink) Logger() zerolog.Logger {
	return s.log
}

// LogActivity records that processing of kind happened just now, taking
// processingMS to complete, and logs it at debug level.
func (s *Sink) LogActivity(kind string, processingMS float64) {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()

	s.log.Debug().Str("activity", kind).Float64("processing_ms", processingMS).Msg("activity")
}

// LogFrameSent records that a frame was just delivered to the host.
func (s *Sink) LogFrameSent() {
	s.mu.Lock()
	s.lastFrame = time.Now()
	s.mu.Unlock()
}

// LogHeartbeat records a liveness ping from component.
func (s *Sink) LogHeartbeat(component string) {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()

	s.log.Debug().Str("component", component).Msg("heartbeat")
}

// CheckProcessingStall reports whether either the last recorded activity or
// the last recorded frame send is older than timeout. A timestamp that has
// never been recorded does not count as stale.
func (s *Sink) CheckProcessingStall(timeout time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	if !s.lastActivity.IsZero() && now.Sub(s.lastActivity) > timeout {
		return true
	}

	if !s.lastFrame.IsZero() && now.Sub(s.lastFrame) > timeout {
		return true
	}

	return false
}
