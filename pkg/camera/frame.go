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

import "github.com/atrium-vision/camerad/pkg/framepool"

// PixelFormatBGR24 is the only pixel format the host callback contract
// delivers.
const PixelFormatBGR24 = 3

// FrameDescriptor is the record handed to the host's frame callback. It
// wraps a framepool.Descriptor with the fixed metadata the callback contract
// promises (pixel format, reference count).
type FrameDescriptor struct {
	pool *framepool.Pool
	slot *framepool.Descriptor
	idx  int

	Width          int32
	Height         int32
	PixelFormat    int32
	PTS            int64
	CameraID       int32
	ReferenceCount int32
	Stride         int32
	Data           []byte
}

func newFrameDescriptor(pool *framepool.Pool, slot *framepool.Descriptor) *FrameDescriptor {
	return &FrameDescriptor{
		pool:           pool,
		slot:           slot,
		idx:            slot.Index(),
		Width:          int32(slot.Width),
		Height:         int32(slot.Height),
		PixelFormat:    PixelFormatBGR24,
		PTS:            slot.PTS,
		CameraID:       slot.CameraID,
		ReferenceCount: 1,
		Stride:         int32(slot.Width) * 3,
		Data:           slot.Data,
	}
}

// Release returns the descriptor's backing slot to the frame delivery
// pool. Safe to call more than once; the second call is a no-op that logs
// a warning instead of silently swallowing the misbehaving caller.
func (d *FrameDescriptor) Release() {
	if d == nil {
		return
	}

	if d.slot == nil {
		d.pool.WarnDoubleRelease(d.idx)

		return
	}

	d.pool.Release(d.slot)
	d.slot = nil
}
