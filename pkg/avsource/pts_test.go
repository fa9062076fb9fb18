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

package avsource

import (
	"testing"
	"time"

	"github.com/asticode/go-astiav"
)

func TestHasValidPTS(t *testing.T) {
	if HasValidPTS(astiav.NoPtsValue) {
		t.Error("NoPtsValue should not be a valid PTS")
	}

	if !HasValidPTS(0) {
		t.Error("0 is a valid PTS (distinct from the no-value sentinel)")
	}
}

func TestPTSToDuration_CommonTimeBase(t *testing.T) {
	tb := astiav.NewRational(1, 90000)

	got := PTSToDuration(90000, tb)
	if got != time.Second {
		t.Errorf("PTSToDuration(90000, 1/90000) = %v, want 1s", got)
	}

	got = PTSToDuration(45000, tb)
	if got != 500*time.Millisecond {
		t.Errorf("PTSToDuration(45000, 1/90000) = %v, want 500ms", got)
	}
}

func TestPTSToDuration_NoPTS(t *testing.T) {
	tb := astiav.NewRational(1, 90000)

	if got := PTSToDuration(astiav.NoPtsValue, tb); got != NoPTS {
		t.Errorf("PTSToDuration(NoPtsValue) = %v, want NoPTS", got)
	}
}

func TestDurationToPTS_RoundTrips(t *testing.T) {
	tb := astiav.NewRational(1, 90000)

	d := 2500 * time.Millisecond

	pts := DurationToPTS(d, tb)
	if pts != 225000 {
		t.Errorf("DurationToPTS(2.5s, 1/90000) = %d, want 225000", pts)
	}

	back := PTSToDuration(pts, tb)
	if back != d {
		t.Errorf("round trip = %v, want %v", back, d)
	}
}
