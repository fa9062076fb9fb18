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

	"github.com/asticode/go-astiav"
	"github.com/rs/zerolog"
)

func newTestPipeline(t *testing.T, targetFPS int) *Pipeline {
	t.Helper()

	return New(Config{
		CameraID:  1,
		URL:       "rtsp://unused",
		TargetFPS: targetFPS,
		Log:       zerolog.Nop(),
	})
}

func TestInitFrameSkip_UsesGuessedRateWithinRange(t *testing.T) {
	p := newTestPipeline(t, 10)
	p.initFrameSkip(astiav.NewRational(25, 1))

	if p.sourceFPS != 25 {
		t.Errorf("sourceFPS = %v, want 25", p.sourceFPS)
	}

	if p.skipRatio != 2.5 {
		t.Errorf("skipRatio = %v, want 2.5 (25/10)", p.skipRatio)
	}
}

func TestInitFrameSkip_FallsBackOutsideSaneRange(t *testing.T) {
	p := newTestPipeline(t, 10)
	p.initFrameSkip(astiav.NewRational(500, 1)) // absurd guess, e.g. bad container metadata

	if p.sourceFPS != fallbackSourceFPS {
		t.Errorf("sourceFPS = %v, want fallback %v", p.sourceFPS, fallbackSourceFPS)
	}
}

func TestRecomputeSkipRatio_TargetAboveSourceNeverSkips(t *testing.T) {
	p := newTestPipeline(t, 60)
	p.sourceFPS = 25
	p.recomputeSkipRatio()

	if p.skipRatio != 1.0 {
		t.Errorf("skipRatio = %v, want 1.0 when target >= source", p.skipRatio)
	}
}

func TestShouldSend_NoPTSFractionalAccumulator(t *testing.T) {
	p := newTestPipeline(t, 10)
	p.sourceFPS = 25
	p.recomputeSkipRatio() // skipRatio = 2.5

	sent := 0

	for i := 0; i < 100; i++ {
		if p.shouldSend(false, 0) {
			sent++
		}
	}

	// 100 frames at a 2.5x skip ratio should yield ~40 sends.
	if sent < 35 || sent > 45 {
		t.Errorf("sent = %d out of 100 at skipRatio 2.5, want ~40", sent)
	}
}

func TestShouldSend_NoPTSNeverSkipsWhenRatioIsOne(t *testing.T) {
	p := newTestPipeline(t, 30)
	p.sourceFPS = 25
	p.recomputeSkipRatio()

	for i := 0; i < 10; i++ {
		if !p.shouldSend(false, 0) {
			t.Fatalf("frame %d: expected every frame sent when skipRatio == 1", i)
		}
	}
}

func TestShouldSend_WithPTSFirstFrameAlwaysSent(t *testing.T) {
	p := newTestPipeline(t, 10)

	if !p.shouldSend(true, 0) {
		t.Error("expected first PTS-bearing frame to always be sent")
	}
}

func TestShouldSend_WithPTSRespectsTargetInterval(t *testing.T) {
	p := newTestPipeline(t, 10)
	p.recomputeSkipRatio()
	p.haveLastSentPTS = true

	if p.shouldSend(true, p.targetInterval/2) {
		t.Error("expected frame within half the target interval to be skipped")
	}

	if !p.shouldSend(true, p.targetInterval) {
		t.Error("expected frame at the full target interval to be sent")
	}
}
