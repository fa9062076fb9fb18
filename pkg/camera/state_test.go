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

import "testing"

func TestState_Codes(t *testing.T) {
	cases := []struct {
		s    State
		code int
	}{
		{StateStopped, 0},
		{StateConnecting, 1},
		{StateConnected, 2},
		{StateDisconnected, 3},
		{StateWaitingReconnect, 4},
		{StateReconnecting, 5},
	}

	for _, c := range cases {
		if got := c.s.Code(); got != c.code {
			t.Errorf("%v.Code() = %d, want %d", c.s, got, c.code)
		}
	}
}

func TestSetState_FiresCallbackOnTransition(t *testing.T) {
	var got []State

	p := New(Config{
		CameraID:  9,
		TargetFPS: 5,
		StatusCb: func(cameraID int32, s State, message string, _ any) {
			if cameraID != 9 {
				t.Errorf("cameraID = %d, want 9", cameraID)
			}

			got = append(got, s)
		},
	})

	p.setState(StateConnecting, "opening")
	p.setState(StateConnected, "streaming")

	if len(got) != 2 || got[0] != StateConnecting || got[1] != StateConnected {
		t.Errorf("callback states = %v, want [Connecting Connected]", got)
	}
}

func TestSetState_SameStateIsNoop(t *testing.T) {
	calls := 0

	p := New(Config{
		CameraID: 1,
		StatusCb: func(int32, State, string, any) { calls++ },
	})

	p.setState(StateConnecting, "a")
	p.setState(StateConnecting, "b")

	if calls != 1 {
		t.Errorf("calls = %d, want 1 (redundant same-state transition should be a no-op)", calls)
	}
}
