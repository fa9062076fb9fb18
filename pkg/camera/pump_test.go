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

func TestCheckStall_NoStallWhenRecentActivity(t *testing.T) {
	p := newTestPipeline(t, 5)
	p.thresholds.StallTimeoutSec = 30
	p.lastActivity = time.Now()

	if p.checkStall() {
		t.Error("expected no stall right after activity")
	}
}

func TestCheckStall_DetectsStallAndTransitionsState(t *testing.T) {
	var states []State

	p := New(Config{
		CameraID:  1,
		TargetFPS: 5,
		StatusCb:  func(_ int32, s State, _ string, _ any) { states = append(states, s) },
	})
	p.thresholds.StallTimeoutSec = 1
	p.lastActivity = time.Now().Add(-2 * time.Second)
	p.state = StateConnected

	if !p.checkStall() {
		t.Fatal("expected stall to be detected")
	}

	if len(states) != 1 || states[0] != StateDisconnected {
		t.Errorf("states = %v, want [Disconnected]", states)
	}
}
