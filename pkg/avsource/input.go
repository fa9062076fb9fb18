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
	"strings"

	"github.com/asticode/go-astiav"
)

// ErrNoVideoStream is returned by ProbeStreams when the input has no video
// stream to decode.
var ErrNoVideoStream = errors.New("avsource: no video stream in input")

// ReadResult classifies the outcome of a ReadPacket call.
type ReadResult int

const (
	ReadOK ReadResult = iota
	ReadEOF
	ReadAgain
	ReadErr
)

// InterruptFunc is polled inside every blocking astiav call; returning true
// aborts the call in progress.
type InterruptFunc func() bool

// Input wraps an opened demuxer and its selected video stream.
type Input struct {
	fc          *astiav.FormatContext
	videoStream *astiav.Stream
	videoIndex  int
	pkt         *astiav.Packet
	interruptFn InterruptFunc
	interruptCb *astiav.InterruptCallback
}

// openErrorRetryMarkers are substrings of the av_strerror text for the
// three open_input failure classes that retry in place: immediate-exit
// (AVERROR_EXIT, raised by our own interrupt callback), I/O (EIO), and
// network-unreachable (ENETUNREACH). go-astiav only surfaces the rendered
// error string, not a typed errno, so classification matches on that text.
var openErrorRetryMarkers = []string{
	"immediate exit requested",
	"input/output error",
	"network is unreachable",
}

// IsRetryableOpenError reports whether err is one of the open_input failure
// classes that should be retried in place with capped linear back-off
// rather than falling through to the pipeline's generic reconnect path.
func IsRetryableOpenError(err error) bool {
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range openErrorRetryMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}

	return false
}

// OpenInput allocates a format context and opens rawURL, setting the RTSP
// transport and timeout options enumerated in §4.A. It does not probe
// stream info; call ProbeStreams once this returns successfully. Splitting
// the open from the probe lets the caller apply spec's different retry
// policy to each: IsRetryableOpenError classifies failures from this call,
// while a ProbeStreams failure always reconnects.
func OpenInput(rawURL string, interrupt InterruptFunc) (*Input, error) {
	fc := astiav.AllocFormatContext()
	if fc == nil {
		return nil, errors.New("avsource: AllocFormatContext failed")
	}

	in := &Input{fc: fc, interruptFn: interrupt, videoIndex: -1}

	if interrupt != nil {
		cb := astiav.NewInterruptCallback(func() int {
			if interrupt() {
				return 1
			}

			return 0
		})
		in.interruptCb = &cb
		fc.SetInterruptCallback(cb)
	}

	opts := buildOptions(rawURL)
	defer opts.Free()

	if err := fc.OpenInput(rawURL, nil, opts); err != nil {
		fc.Free()

		return nil, fmt.Errorf("avsource: open input: %w", err)
	}

	return in, nil
}

// ProbeStreams calls find_stream_info and selects the best video stream.
// Per spec, any failure here tears down and reconnects unconditionally; it
// never belongs to the open_input retry-in-place classification.
func (in *Input) ProbeStreams() error {
	if err := in.fc.FindStreamInfo(nil); err != nil {
		return fmt.Errorf("avsource: find stream info: %w", err)
	}

	for i, s := range in.fc.Streams() {
		if s.CodecParameters().MediaType() == astiav.MediaTypeVideo {
			in.videoStream = s
			in.videoIndex = i

			break
		}
	}

	if in.videoStream == nil {
		return ErrNoVideoStream
	}

	in.pkt = astiav.AllocPacket()

	return nil
}

// VideoStream returns the selected video stream.
func (in *Input) VideoStream() *astiav.Stream {
	return in.videoStream
}

// VideoStreamIndex returns the selected video stream's index within the
// demuxer's stream list.
func (in *Input) VideoStreamIndex() int {
	return in.videoIndex
}

// GuessedFrameRate returns the demuxer's best estimate of the video
// stream's frame rate, falling back to the stream's average frame rate
// when the demuxer can't guess.
func (in *Input) GuessedFrameRate() astiav.Rational {
	r := in.fc.GuessFrameRate(in.videoStream, nil)
	if r.Num() > 0 && r.Den() > 0 {
		return r
	}

	return in.videoStream.AvgFrameRate()
}

// ReadPacket reads one packet from the demuxer into the Input's reusable
// packet buffer. The caller must call ReleasePacket exactly once per
// ReadPacket call, regardless of the result.
func (in *Input) ReadPacket() (*astiav.Packet, ReadResult) {
	err := in.fc.ReadFrame(in.pkt)

	switch {
	case err == nil:
		return in.pkt, ReadOK
	case errors.Is(err, astiav.ErrEof):
		return in.pkt, ReadEOF
	case errors.Is(err, astiav.ErrEagain):
		return in.pkt, ReadAgain
	default:
		return in.pkt, ReadErr
	}
}

// ReleasePacket unrefs the packet buffer returned by ReadPacket, making it
// ready for the next read.
func (in *Input) ReleasePacket() {
	in.pkt.Unref()
}

// Close tears down the demuxer and frees all associated resources.
func (in *Input) Close() {
	if in.pkt != nil {
		in.pkt.Free()
		in.pkt = nil
	}

	if in.fc != nil {
		in.fc.CloseInput()
		in.fc.Free()
		in.fc = nil
	}
}
