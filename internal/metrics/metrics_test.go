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

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_SetsGaugeVecs(t *testing.T) {
	r := NewRecorder()

	r.SetInputFPS(9, 24.5)
	r.SetOutputFPS(9, 10.0)
	r.SetReconnectAttempts(9, 3)

	if got := testutil.ToFloat64(inputFPS.WithLabelValues("9")); got != 24.5 {
		t.Errorf("input_fps = %v, want 24.5", got)
	}

	if got := testutil.ToFloat64(outputFPS.WithLabelValues("9")); got != 10.0 {
		t.Errorf("output_fps = %v, want 10.0", got)
	}

	if got := testutil.ToFloat64(reconnectAttempts.WithLabelValues("9")); got != 3 {
		t.Errorf("reconnect_attempts = %v, want 3", got)
	}
}

func TestDeleteCamera_RemovesSeries(t *testing.T) {
	r := NewRecorder()
	r.SetInputFPS(11, 1)

	DeleteCamera(11)

	if testutil.ToFloat64(inputFPS.WithLabelValues("11")) != 0 {
		t.Error("expected gauge to reset to the zero value after deletion and re-creation")
	}
}

func TestSetPoolUtilization(t *testing.T) {
	SetPoolUtilization(3, 8)

	if got := testutil.ToFloat64(poolHeldSlots); got != 3 {
		t.Errorf("poolHeldSlots = %v, want 3", got)
	}

	if got := testutil.ToFloat64(poolTotalSlots); got != 8 {
		t.Errorf("poolTotalSlots = %v, want 8", got)
	}
}
