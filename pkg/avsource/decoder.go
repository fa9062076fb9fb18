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
	"errors"
	"fmt"

	"github.com/asticode/go-astiav"

	"github.com/atrium-vision/camerad/pkg/camerror"
)

// DecodeResult classifies the outcome of a ReceiveFrame call.
type DecodeResult int

const (
	DecodeOK DecodeResult = iota
	DecodeAgain
	DecodeEOF
	DecodeErr
)

// Decoder wraps a video decoder context opened for a single input stream.
type Decoder struct {
	ctx      *astiav.CodecContext
	frame    *astiav.Frame
	timeBase astiav.Rational
}

// OpenDecoder finds and opens a decoder for stream's codec with a fixed
// thread count of 1, trading multi-threaded decode latency for predictable
// per-camera CPU cost at multi-camera scale.
func OpenDecoder(stream *astiav.Stream) (*Decoder, error) {
	params := stream.CodecParameters()

	codec := astiav.FindDecoder(params.CodecID())
	if codec == nil {
		return nil, &camerror.SkippedCodecError{Codec: params.CodecID().Name()}
	}

	ctx := astiav.AllocCodecContext(codec)
	if ctx == nil {
		return nil, camerror.ErrAllocation
	}

	if err := params.ToCodecContext(ctx); err != nil {
		ctx.Free()

		return nil, fmt.Errorf("avsource: codec parameters to context: %w", err)
	}

	const threadCount = 1
	ctx.SetThreadCount(threadCount)

	if params.MediaType() == astiav.MediaTypeVideo {
		ctx.SetFramerate(stream.AvgFrameRate())
	}

	if err := ctx.Open(codec, nil); err != nil {
		ctx.Free()

		return nil, fmt.Errorf("avsource: open decoder: %w", err)
	}

	return &Decoder{
		ctx:      ctx,
		frame:    astiav.AllocFrame(),
		timeBase: ctx.TimeBase(),
	}, nil
}

// TimeBase returns the decoder's time base, used to interpret decoded
// frames' PTS values.
func (d *Decoder) TimeBase() astiav.Rational {
	return d.timeBase
}

// SendPacket submits pkt (rescaled from srcTimeBase to the decoder's time
// base) to the decoder, classifying the outcome per §4.A's facade (Ok |
// Again | Eof | Err) rather than collapsing the benign Again backpressure
// case into a bare error.
func (d *Decoder) SendPacket(pkt *astiav.Packet, srcTimeBase astiav.Rational) DecodeResult {
	pkt.RescaleTs(srcTimeBase, d.timeBase)

	err := d.ctx.SendPacket(pkt)

	switch {
	case err == nil:
		return DecodeOK
	case errors.Is(err, astiav.ErrEagain):
		return DecodeAgain
	case errors.Is(err, astiav.ErrEof):
		return DecodeEOF
	default:
		return DecodeErr
	}
}

// ReceiveFrame pulls the next decoded frame, if any. The returned Frame is
// only valid until the next ReceiveFrame call; callers that need to keep
// pixel data past that point must copy it out first.
func (d *Decoder) ReceiveFrame() (*astiav.Frame, DecodeResult) {
	err := d.ctx.ReceiveFrame(d.frame)

	switch {
	case err == nil:
		return d.frame, DecodeOK
	case errors.Is(err, astiav.ErrEagain):
		return nil, DecodeAgain
	case errors.Is(err, astiav.ErrEof):
		return nil, DecodeEOF
	default:
		return nil, DecodeErr
	}
}

// Flush sends a nil packet to drain any frames buffered inside the decoder,
// discarding them; used only during teardown.
func (d *Decoder) Flush() {
	_ = d.ctx.SendPacket(nil)

	for {
		if err := d.ctx.ReceiveFrame(d.frame); err != nil {
			return
		}
	}
}

// Close releases the decoder context and its reusable frame.
func (d *Decoder) Close() {
	if d.frame != nil {
		d.frame.Free()
		d.frame = nil
	}

	if d.ctx != nil {
		d.ctx.Free()
		d.ctx = nil
	}
}
