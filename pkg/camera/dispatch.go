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
	"time"

	"github.com/asticode/go-astiav"

	"github.com/atrium-vision/camerad/pkg/avsource"
	"github.com/atrium-vision/camerad/pkg/framepool"
)

// onFrameDecoded runs the skip decision, pacing, scale, and dispatch for
// one decoded frame. Returns false only when a stop interrupted a pacing
// sleep (the pump should exit cleanly, not reconnect).
func (p *Pipeline) onFrameDecoded(frame *astiav.Frame) bool {
	now := time.Now()
	p.lastActivity = now
	p.measureSourceFPS(now)

	hasPTS := avsource.HasValidPTS(frame.Pts())

	var deltaSinceLastSent time.Duration

	var ptsSec float64

	if hasPTS {
		if p.haveLastSentPTS {
			deltaSinceLastSent = avsource.PTSToDuration(frame.Pts()-p.lastSentPTS, p.decoderTimeBase)
		}

		// ptsSec is seconds since the stream's first observed PTS, not the
		// raw absolute PTS; pace() anchors presentation timing against it
		// and expects 0 until haveAnchor is set on the first frame.
		if p.haveAnchor {
			ptsSec = avsource.PTSToDuration(frame.Pts()-p.firstPTS, p.decoderTimeBase).Seconds()
		}
	}

	if !p.shouldSend(hasPTS, deltaSinceLastSent) {
		return true
	}

	if !p.pace(hasPTS, frame.Pts(), ptsSec) {
		return false
	}

	p.scaleAndDeliver(frame)

	return true
}

// scaleAndDeliver converts frame to BGR24, acquires a pool slot, and
// invokes the host's frame callback. Any failure along this path drops
// the frame and is logged, not escalated: per §7 these are invariant
// violations the pipeline absorbs.
func (p *Pipeline) scaleAndDeliver(frame *astiav.Frame) {
	img, err := p.scaler.ScaleToBGR24(frame)
	if err != nil {
		p.log.Warn().Err(err).Msg("scale to bgr24 failed, dropping frame")

		return
	}

	slot, ok := p.pool.Acquire(framepool.SourceImage{
		Width:  img.Width,
		Height: img.Height,
		Stride: img.Stride,
		Pix:    img.Pix,
		PTS:    frame.Pts(),
	}, p.cameraID)
	if !ok {
		p.log.Warn().Msg("frame pool exhausted, dropping frame")

		return
	}

	desc := newFrameDescriptor(p.pool, slot)

	if p.frameCb != nil {
		p.frameCb(desc, p.frameUserCtx)
	} else {
		desc.Release()
	}

	p.measureOutputFPS(time.Now())
}
