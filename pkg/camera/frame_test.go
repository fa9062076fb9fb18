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
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/atrium-vision/camerad/pkg/framepool"
)

func TestFrameDescriptor_FieldsMatchSlot(t *testing.T) {
	pool := framepool.New(zerolog.Nop())
	pool.Initialize(1)

	slot, ok := pool.Acquire(framepool.SourceImage{
		Width: 4, Height: 2, Stride: 12,
		Pix: make([]byte, 24),
		PTS: 777,
	}, 3)
	if !ok {
		t.Fatal("expected acquire to succeed")
	}

	desc := newFrameDescriptor(pool, slot)

	if desc.Width != 4 || desc.Height != 2 || desc.PixelFormat != PixelFormatBGR24 {
		t.Errorf("unexpected descriptor: %+v", desc)
	}

	if desc.ReferenceCount != 1 {
		t.Errorf("ReferenceCount = %d, want 1", desc.ReferenceCount)
	}

	if desc.PTS != 777 || desc.CameraID != 3 {
		t.Errorf("PTS/CameraID = %d/%d, want 777/3", desc.PTS, desc.CameraID)
	}
}

func TestFrameDescriptor_DoubleReleaseIsNoop(t *testing.T) {
	var buf bytes.Buffer

	pool := framepool.New(zerolog.New(&buf))
	pool.Initialize(1)

	slot, ok := pool.Acquire(framepool.SourceImage{Width: 1, Height: 1, Stride: 3, Pix: []byte{1, 2, 3}}, 1)
	if !ok {
		t.Fatal("expected acquire to succeed")
	}

	desc := newFrameDescriptor(pool, slot)

	desc.Release()
	desc.Release() // must not panic or corrupt the pool's free list, but must log a warning.

	held, total := pool.Utilization()
	if held != 0 || total != 1 {
		t.Errorf("Utilization() = (%d,%d), want (0,1)", held, total)
	}

	if !strings.Contains(buf.String(), "already-free") {
		t.Errorf("expected a double-release warning to be logged through the real host path, got: %s", buf.String())
	}
}
