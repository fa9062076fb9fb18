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

// Package framepool implements the fixed-size frame delivery pool: a
// pre-allocated slot array handed out to pipelines so a decoded frame can be
// copied into a stable buffer and passed to the host, and returned by the
// host once it's done with the pixels. The slots are fixed; each slot's
// pixel buffer is allocated on Acquire and dropped on Release.
package framepool

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// SourceImage is the minimal view of a decoded, scaled frame the pool needs
// in order to copy it into a slot. Width/Height are in pixels, Stride is the
// source's bytes-per-row (may exceed Width*3 due to scaler line padding),
// and Pix is the BGR24 plane itself.
type SourceImage struct {
	Width  int
	Height int
	Stride int
	Pix    []byte
	PTS    int64
}

// Descriptor is a handed-out pool slot. CameraID and PTS identify which
// pipeline and which decoded frame it holds; Data is a stable BGR24 buffer
// (tightly packed, Stride == Width*3) valid until Release is called.
type Descriptor struct {
	index    int
	CameraID int32
	Width    int
	Height   int
	PTS      int64
	Data     []byte
}

// Index returns the slot index this descriptor refers to, so a caller can
// still report on it (e.g. a double-release warning) after its own copy of
// the descriptor has been invalidated.
func (d *Descriptor) Index() int {
	return d.index
}

const bytesPerPixel = 3

// Pool is a fixed-size free-list of frame slots, guarded by a mutex. The teacher has nothing like it (its frame_wrapper ring buffers are
// per-source, not a shared cross-camera pool), so this is grounded directly
// on the C implementation's callback_pool_*.
type Pool struct {
	mu          sync.Mutex
	slots       []slot
	free        []int
	initialized bool
	log         zerolog.Logger
}

type slot struct {
	held bool
	desc Descriptor
}

// New constructs an uninitialized pool. Call Initialize before use.
func New(log zerolog.Logger) *Pool {
	return &Pool{log: log.With().Str("component", "framepool").Logger()}
}

// Initialize allocates size slots. Calling it again on an already
// initialized pool is a no-op, matching callback_pool_initialize's
// idempotence.
func (p *Pool) Initialize(size int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		p.log.Warn().Msg("pool already initialized")
		return
	}

	p.slots = make([]slot, size)
	p.free = make([]int, size)
	for i := range p.free {
		p.free[i] = i
	}
	p.initialized = true

	p.log.Info().Int("size", size).Msg("pool initialized")
}

// Acquire copies img's pixels into a free slot and returns a descriptor
// referencing it. Returns nil, false if the pool is uninitialized, the
// image is invalid, or no slots are free.
func (p *Pool) Acquire(img SourceImage, cameraID int32) (*Descriptor, bool) {
	if img.Width <= 0 || img.Height <= 0 || len(img.Pix) == 0 {
		p.log.Warn().Msg("refusing to acquire slot for invalid image")
		return nil, false
	}

	idx, ok := p.take()
	if !ok {
		p.log.Warn().Msg("pool exhausted, dropping frame")
		return nil, false
	}

	dstStride := img.Width * bytesPerPixel
	needed := dstStride * img.Height

	p.mu.Lock()
	s := &p.slots[idx]
	if cap(s.desc.Data) < needed {
		s.desc.Data = make([]byte, needed)
	} else {
		s.desc.Data = s.desc.Data[:needed]
	}
	dst := s.desc.Data
	p.mu.Unlock()

	// Copy outside the lock: the lock only protects free-list bookkeeping,
	// not the pixel copy itself, mirroring the C pool's
	// lock/fill-outside-lock/unlock split.
	if img.Stride == dstStride {
		copy(dst, img.Pix[:needed])
	} else {
		for y := 0; y < img.Height; y++ {
			srcOff := y * img.Stride
			dstOff := y * dstStride
			copy(dst[dstOff:dstOff+dstStride], img.Pix[srcOff:srcOff+dstStride])
		}
	}

	p.mu.Lock()
	s.desc.index = idx
	s.desc.CameraID = cameraID
	s.desc.Width = img.Width
	s.desc.Height = img.Height
	s.desc.PTS = img.PTS
	desc := s.desc
	p.mu.Unlock()

	return &desc, true
}

func (p *Pool) take() (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || len(p.free) == 0 {
		return 0, false
	}

	n := len(p.free) - 1
	idx := p.free[n]
	p.free = p.free[:n]
	p.slots[idx].held = true

	return idx, true
}

// Release returns desc's slot to the free list. Safe to call more than once
// for the same descriptor; the second call is a no-op, guarding against a
// double-release from a misbehaving host.
func (p *Pool) Release(desc *Descriptor) {
	if desc == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || desc.index < 0 || desc.index >= len(p.slots) {
		return
	}

	s := &p.slots[desc.index]
	if !s.held {
		p.log.Warn().Int("slot", desc.index).Msg("release of already-free slot ignored")
		return
	}

	s.held = false
	s.desc = Descriptor{}
	p.free = append(p.free, desc.index)
}

// WarnDoubleRelease logs the same warning Release would log for a
// caller-held slot that's already free. It exists for callers like
// FrameDescriptor that detect a repeat release locally (before the slot
// pointer is gone) and still want it surfaced through the pool's log.
func (p *Pool) WarnDoubleRelease(index int) {
	p.log.Warn().Int("slot", index).Msg("release of already-free slot ignored")
}

// Destroy tears the pool down, logging a warning for every slot that is
// still held by a caller that never released it.
func (p *Pool) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}

	for i := range p.slots {
		if p.slots[i].held {
			p.log.Warn().Int("slot", i).Msg("pool destroyed with slot still held")
		}
	}

	p.slots = nil
	p.free = nil
	p.initialized = false

	p.log.Info().Msg("pool destroyed")
}

// Utilization reports held/total slot counts for metrics export.
func (p *Pool) Utilization() (held, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return 0, 0
	}

	total = len(p.slots)
	held = total - len(p.free)

	return held, total
}

func (d *Descriptor) String() string {
	return fmt.Sprintf("frame[cam=%d %dx%d pts=%d]", d.CameraID, d.Width, d.Height, d.PTS)
}
