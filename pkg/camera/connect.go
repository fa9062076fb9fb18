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
	"fmt"
	"time"

	"github.com/atrium-vision/camerad/pkg/avsource"
)

// connect opens the input and decoder. An open_input failure classified as
// retryable (immediate-exit, I/O, network-unreachable) retries in place
// with a linear back-off capped at OpenInputRetryCapSec; any other
// open_input failure, and any find_stream_info or decoder-setup failure,
// falls through to the generic reconnect() cycle instead. Returns false if
// a stop interrupted the loop.
func (p *Pipeline) connect() bool {
	attempt := 0

	for {
		p.setState(StateConnecting, "opening input")

		if p.shouldStop() {
			return false
		}

		in, err := avsource.OpenInput(p.url, p.shouldStop)
		if err != nil {
			if avsource.IsRetryableOpenError(err) {
				attempt++
				p.log.Warn().Err(err).Int("attempt", attempt).Msg("open input failed, retrying")

				if !p.sleepInterruptible(p.openRetryDelay(attempt)) {
					return false
				}

				continue
			}

			p.log.Warn().Err(err).Msg("open input failed")

			if !p.reconnect() {
				return false
			}

			attempt = 0

			continue
		}

		if err := in.ProbeStreams(); err != nil {
			p.log.Warn().Err(err).Msg("find stream info failed")
			in.Close()

			if !p.reconnect() {
				return false
			}

			attempt = 0

			continue
		}

		dec, err := avsource.OpenDecoder(in.VideoStream())
		if err != nil {
			p.log.Warn().Err(err).Msg("open decoder failed")
			in.Close()

			if !p.reconnect() {
				return false
			}

			attempt = 0

			continue
		}

		p.input = in
		p.decoder = dec
		p.decoderTimeBase = dec.TimeBase()
		p.scaler = avsource.NewScaler()

		p.initFrameSkip(in.GuessedFrameRate())

		now := time.Now()
		p.lastActivity = now
		p.inputWindowStart = now
		p.outputWindowStart = now
		p.haveAnchor = false
		p.haveLastSentPTS = false

		return true
	}
}

func (p *Pipeline) openRetryDelay(attempt int) time.Duration {
	capSec := p.thresholds.OpenInputRetryCapSec
	delay := float64(attempt) * 0.5

	if delay > capSec {
		delay = capSec
	}

	return time.Duration(delay * float64(time.Second))
}

// sleepInterruptible sleeps for d in 100ms chunks, returning false as soon
// as a stop is observed instead of completing the sleep.
func (p *Pipeline) sleepInterruptible(d time.Duration) bool {
	const chunk = 100 * time.Millisecond

	deadline := time.Now().Add(d)

	for {
		if p.shouldStop() {
			return false
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return true
		}

		if remaining > chunk {
			remaining = chunk
		}

		time.Sleep(remaining)
	}
}

// teardownMedia releases the current connection's decoder/demux/scaler.
func (p *Pipeline) teardownMedia() {
	if p.scaler != nil {
		p.scaler.Close()
		p.scaler = nil
	}

	if p.decoder != nil {
		p.decoder.Close()
		p.decoder = nil
	}

	if p.input != nil {
		p.input.Close()
		p.input = nil
	}
}

// reconnect runs the back-off/state-transition sequence between one
// connection's failure and the next connect attempt. Returns false if a
// stop interrupted the wait.
func (p *Pipeline) reconnect() bool {
	p.teardownMedia()
	p.setState(StateDisconnected, "connection lost")

	p.reconnectAttempts++
	p.metrics.SetReconnectAttempts(p.cameraID, p.reconnectAttempts)

	delay := p.computeBackoff()

	p.setState(StateWaitingReconnect,
		fmt.Sprintf("retrying in %.1fs (attempt %d)", delay.Seconds(), p.reconnectAttempts))

	if !p.sleepInterruptible(delay) {
		return false
	}

	p.setState(StateReconnecting, "reconnecting")

	return true
}

func (p *Pipeline) computeBackoff() time.Duration {
	th := p.thresholds

	delay := th.ReconnectBaseSec * float64(p.reconnectAttempts)
	if delay < th.ReconnectMinSec {
		delay = th.ReconnectMinSec
	}

	if delay > th.ReconnectMaxSec {
		delay = th.ReconnectMaxSec
	}

	return time.Duration(delay * float64(time.Second))
}
