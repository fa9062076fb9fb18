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

package hostapi

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/atrium-vision/camerad/internal/metrics"
)

func TestAddCamera_BeforeInitialize(t *testing.T) {
	api := New(zerolog.Nop(), 4, metrics.NewRecorder())

	if code := api.AddCamera(1, "rtsp://x", 5, nil, nil, nil, nil); code != -1 {
		t.Errorf("code = %d, want -1 (not initialized)", code)
	}
}

func TestInitialize_DefaultsPoolSize(t *testing.T) {
	api := New(zerolog.Nop(), 2, metrics.NewRecorder())

	if code := api.Initialize(0); code != 0 {
		t.Fatalf("Initialize code = %d, want 0", code)
	}
	defer api.Shutdown()

	_, total := api.PoolUtilization()
	if total != 8 {
		t.Errorf("pool size = %d, want 8 (4x max cameras)", total)
	}
}

func TestInitialize_ExplicitPoolSize(t *testing.T) {
	api := New(zerolog.Nop(), 2, metrics.NewRecorder())

	if code := api.Initialize(3); code != 0 {
		t.Fatalf("Initialize code = %d, want 0", code)
	}
	defer api.Shutdown()

	_, total := api.PoolUtilization()
	if total != 3 {
		t.Errorf("pool size = %d, want 3 (explicit override)", total)
	}
}

func TestStopCamera_UnknownID(t *testing.T) {
	api := New(zerolog.Nop(), 2, metrics.NewRecorder())
	api.Initialize(0)
	defer api.Shutdown()

	if code := api.StopCamera(99); code != -2 {
		t.Errorf("code = %d, want -2 (not found)", code)
	}
}

func TestStopCamera_TwiceReturnsNotFoundSecondTime(t *testing.T) {
	api := New(zerolog.Nop(), 2, metrics.NewRecorder())
	api.Initialize(0)
	defer api.Shutdown()

	if code := api.AddCamera(1, "rtsp://127.0.0.1:1/nonexistent", 5, nil, nil, nil, nil); code != 0 {
		t.Fatalf("AddCamera code = %d, want 0", code)
	}

	if code := api.StopCamera(1); code != 0 {
		t.Fatalf("first StopCamera code = %d, want 0", code)
	}

	if code := api.StopCamera(1); code != -2 {
		t.Errorf("second StopCamera code = %d, want -2", code)
	}
}
