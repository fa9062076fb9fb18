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
	"testing"
	"time"
)

func TestOpenRetryDelay_CapsAtConfiguredMax(t *testing.T) {
	p := newTestPipeline(t, 5)
	p.thresholds.OpenInputRetryCapSec = 5

	if got := p.openRetryDelay(1); got != 500*time.Millisecond {
		t.Errorf("openRetryDelay(1) = %v, want 500ms", got)
	}

	if got := p.openRetryDelay(100); got != 5*time.Second {
		t.Errorf("openRetryDelay(100) = %v, want capped at 5s", got)
	}
}

func TestComputeBackoff_ClampsToMinAndMax(t *testing.T) {
	p := newTestPipeline(t, 5)
	p.thresholds.ReconnectBaseSec = 2
	p.thresholds.ReconnectMinSec = 1
	p.thresholds.ReconnectMaxSec = 30

	p.reconnectAttempts = 0
	if got := p.computeBackoff(); got != 1*time.Second {
		t.Errorf("computeBackoff() at attempt 0 = %v, want clamped to min 1s", got)
	}

	p.reconnectAttempts = 3
	if got := p.computeBackoff(); got != 6*time.Second {
		t.Errorf("computeBackoff() at attempt 3 = %v, want 6s (base*attempts)", got)
	}

	p.reconnectAttempts = 100
	if got := p.computeBackoff(); got != 30*time.Second {
		t.Errorf("computeBackoff() at attempt 100 = %v, want clamped to max 30s", got)
	}
}

func TestSleepInterruptible_StopsEarlyOnRequestStop(t *testing.T) {
	p := newTestPipeline(t, 5)

	go func() {
		time.Sleep(20 * time.Millisecond)
		p.RequestStop()
	}()

	start := time.Now()
	if p.sleepInterruptible(5 * time.Second) {
		t.Error("expected sleepInterruptible to return false when stopped early")
	}

	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("sleepInterruptible took %v, expected to stop shortly after RequestStop", elapsed)
	}
}
