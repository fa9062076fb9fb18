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

	"github.com/atrium-vision/camerad/pkg/avsource"
)

// TestOnFrameDecoded_PacesRelativeToFirstPTS drives onFrameDecoded (not
// pace directly) with a decoder timebase and a PTS sequence whose first
// PTS is nonzero, the normal case for a live camera. Before the fix this
// passed the raw absolute PTS into pace, which read as a jump past
// PTSJumpResetSec on every frame and re-anchored instead of pacing.
func TestOnFrameDecoded_PacesRelativeToFirstPTS(t *testing.T) {
	p := newTestPipeline(t, 10)
	p.decoderTimeBase = astiav.NewRational(1, 1000) // PTS units are milliseconds.
	p.scaler = avsource.NewScaler()

	first := astiav.AllocFrame()
	defer first.Free()
	first.SetPts(5000) // stream's first PTS is far from zero, as on a live camera.

	if !p.onFrameDecoded(first) {
		t.Fatal("expected first frame to be accepted")
	}

	if !p.haveAnchor {
		t.Fatal("expected haveAnchor to be set after the first frame")
	}

	if p.firstPTS != 5000 {
		t.Errorf("firstPTS = %d, want 5000", p.firstPTS)
	}

	if p.lastSentPTSSec != 0 {
		t.Errorf("lastSentPTSSec after first frame = %v, want 0", p.lastSentPTSSec)
	}

	anchorAfterFirst := p.playbackAnchor

	second := astiav.AllocFrame()
	defer second.Free()
	second.SetPts(5040) // 40ms later in stream time; the bug would read this as an absolute 5.04s PTS.

	if !p.onFrameDecoded(second) {
		t.Fatal("expected second frame to be accepted")
	}

	if p.playbackAnchor != anchorAfterFirst {
		t.Error("expected playbackAnchor to stay put: a 40ms relative delta is well under PTSJumpResetSec and should pace, not re-anchor")
	}

	if absFloat(p.lastSentPTSSec-0.04) > 1e-9 {
		t.Errorf("lastSentPTSSec after second frame = %v, want ~0.04 (relative to firstPTS, not the absolute 5.04)", p.lastSentPTSSec)
	}
}
