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

	"github.com/atrium-vision/camerad/pkg/avsource"
)

// pumpResult tells the outer state machine what to do once processStream
// returns.
type pumpResult int

const (
	pumpStop pumpResult = iota
	pumpReconnect
)

// processStream runs the packet/frame pump until stop, stall, EOF, or a
// read/decode error forces a reconnect.
func (p *Pipeline) processStream() pumpResult {
	videoIndex := p.input.VideoStreamIndex()
	videoTimeBase := p.input.VideoStream().TimeBase()

	for {
		if p.shouldStop() {
			return pumpStop
		}

		if p.checkStall() {
			return pumpReconnect
		}

		pkt, result := p.input.ReadPacket()

		switch result {
		case avsource.ReadAgain:
			p.input.ReleasePacket()

			continue
		case avsource.ReadEOF:
			p.input.ReleasePacket()
			p.log.Info().Msg("end of stream")

			return pumpReconnect
		case avsource.ReadErr:
			p.input.ReleasePacket()
			p.log.Warn().Msg("read error")

			return pumpReconnect
		}

		if pkt.StreamIndex() != videoIndex {
			p.input.ReleasePacket()

			continue
		}

		sendResult := p.decoder.SendPacket(pkt, videoTimeBase)
		p.input.ReleasePacket()

		// Again is decoder backpressure (its internal buffer is full), not
		// a failure: draining receive_frame below relieves it, and the
		// packet is dropped either way per §4.D, matching the read side's
		// unconditional release.
		if sendResult == avsource.DecodeErr || sendResult == avsource.DecodeEOF {
			p.log.Warn().Msg("decoder send packet failed")

			return pumpReconnect
		}

		if !p.drainDecoder() {
			return pumpStop
		}
	}
}

// drainDecoder repeatedly pulls decoded frames until the decoder reports
// Again or Eof. Returns false if a pacing sleep was interrupted by a stop.
func (p *Pipeline) drainDecoder() bool {
	for {
		frame, result := p.decoder.ReceiveFrame()

		switch result {
		case avsource.DecodeAgain, avsource.DecodeEOF:
			return true
		case avsource.DecodeErr:
			return true
		}

		if !p.onFrameDecoded(frame) {
			return false
		}
	}
}

// checkStall reports whether the connection has gone silent longer than
// the configured timeout, surfacing it through the status callback.
func (p *Pipeline) checkStall() bool {
	if time.Since(p.lastActivity).Seconds() <= p.thresholds.StallTimeoutSec {
		return false
	}

	p.log.Warn().Float64("stall_timeout_sec", p.thresholds.StallTimeoutSec).Msg("stall detected")
	p.setState(StateDisconnected, "stall detected")

	return true
}
