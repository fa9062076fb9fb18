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

import "time"

// pace blocks until the frame with the given pts (in seconds since the
// stream's first observed PTS) should be presented, re-anchoring across
// large PTS jumps and catching up instead of sleeping when behind.
// Returns false if a stop interrupted the wait.
func (p *Pipeline) pace(hasPTS bool, pts int64, ptsSec float64) bool {
	if !hasPTS {
		return p.paceByInterval()
	}

	now := time.Now()

	if !p.haveAnchor {
		p.firstPTS = pts
		p.playbackAnchor = now
		p.haveAnchor = true
		ptsSec = 0
	} else if absFloat(ptsSec-p.lastSentPTSSec) > p.thresholds.PTSJumpResetSec {
		p.firstPTS = pts
		p.playbackAnchor = now
		ptsSec = 0
	}

	target := p.playbackAnchor.Add(time.Duration(ptsSec * float64(time.Second)))
	lateness := now.Sub(target)

	if lateness < -time.Duration(p.thresholds.EarlySleepSec*float64(time.Second)) {
		if !p.sleepUntilInterruptible(target) {
			return false
		}
	}
	// Otherwise we're at or behind the target: send immediately (catch-up).

	p.lastSentPTSSec = ptsSec
	p.lastSentPTS = pts
	p.haveLastSentPTS = true
	p.lastFrameSentAt = time.Now()

	return true
}

// paceByInterval is the no-PTS fallback: sleep for the remainder of the
// target frame interval since the last send, never sleeping when already
// behind.
func (p *Pipeline) paceByInterval() bool {
	now := time.Now()

	if !p.lastFrameSentAt.IsZero() {
		elapsed := now.Sub(p.lastFrameSentAt)
		remaining := p.targetInterval - elapsed

		if remaining > 0 {
			if !p.sleepInterruptible(remaining) {
				return false
			}
		}
	}

	p.lastFrameSentAt = time.Now()

	return true
}

// sleepUntilInterruptible sleeps in 100ms chunks until target, re-checking
// the stop flag after every wake so a stop request can't be stuck behind a
// long presentation-pacing sleep.
func (p *Pipeline) sleepUntilInterruptible(target time.Time) bool {
	const chunk = 100 * time.Millisecond

	for {
		if p.shouldStop() {
			return false
		}

		remaining := time.Until(target)
		if remaining <= 0 {
			return true
		}

		if remaining > chunk {
			remaining = chunk
		}

		time.Sleep(remaining)
	}
}
