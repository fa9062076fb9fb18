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
)

const (
	guessedFPSMin     = 5.0
	guessedFPSMax     = 65.0
	fallbackSourceFPS = 30.0
)

// initFrameSkip seeds the skip-ratio state from the demuxer's guessed
// frame rate, falling back to fallbackSourceFPS when the guess is outside
// a sane range; the real value replaces this within the first FPS window.
func (p *Pipeline) initFrameSkip(guessed astiav.Rational) {
	rate := fallbackSourceFPS
	if guessed.Num() > 0 && guessed.Den() > 0 {
		r := float64(guessed.Num()) / float64(guessed.Den())
		if r >= guessedFPSMin && r <= guessedFPSMax {
			rate = r
		}
	}

	p.sourceFPS = rate
	p.hasRealFPS = false
	p.recomputeSkipRatio()
}

func (p *Pipeline) recomputeSkipRatio() {
	target := float64(p.targetFPS)
	if target <= 0 {
		target = 1
	}

	if target < p.sourceFPS {
		p.skipRatio = p.sourceFPS / target
	} else {
		p.skipRatio = 1.0
	}

	p.skipAccumulator = 0

	if p.targetFPS > 0 {
		p.targetInterval = time.Duration(float64(time.Second) / target)
	} else if p.sourceFPS > 0 {
		p.targetInterval = time.Duration(float64(time.Second) / p.sourceFPS)
	} else {
		p.targetInterval = time.Duration(float64(time.Second) / fallbackSourceFPS)
	}
}

// measureSourceFPS accounts a just-decoded frame toward the rolling input
// FPS window, adopting a new measured source_fps (and recomputing the skip
// ratio) when it first becomes available or drifts by more than 1.0 FPS.
func (p *Pipeline) measureSourceFPS(now time.Time) {
	p.inputCount++

	elapsed := now.Sub(p.inputWindowStart)
	if elapsed < p.thresholds.FPSWindow {
		return
	}

	measured := float64(p.inputCount) / elapsed.Seconds()
	p.inputFPS = measured
	p.metrics.SetInputFPS(p.cameraID, measured)

	if !p.hasRealFPS || absFloat(measured-p.sourceFPS) > 1.0 {
		p.sourceFPS = measured
		p.hasRealFPS = true

		if p.targetFPS > 0 && p.sourceFPS > float64(p.targetFPS) {
			p.recomputeSkipRatio()
		}
	}

	p.inputCount = 0
	p.inputWindowStart = now
}

// measureOutputFPS accounts a just-dispatched frame toward the rolling
// output FPS window.
func (p *Pipeline) measureOutputFPS(now time.Time) {
	p.outputCount++

	elapsed := now.Sub(p.outputWindowStart)
	if elapsed < p.thresholds.FPSWindow {
		return
	}

	p.outputFPS = float64(p.outputCount) / elapsed.Seconds()
	p.metrics.SetOutputFPS(p.cameraID, p.outputFPS)

	p.outputCount = 0
	p.outputWindowStart = now
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}

	return v
}

// shouldSend decides, per the fractional skip-ratio algorithm, whether the
// frame with the given PTS validity and delta-since-last-send should be
// forwarded to the host.
func (p *Pipeline) shouldSend(hasPTS bool, deltaSinceLastSent time.Duration) bool {
	if !hasPTS {
		p.skipAccumulator++

		if p.skipRatio <= 1 {
			return true
		}

		if p.skipAccumulator >= p.skipRatio {
			p.skipAccumulator -= p.skipRatio

			return true
		}

		return false
	}

	if !p.haveLastSentPTS {
		return true
	}

	target := p.targetInterval
	if target <= 0 {
		target = time.Duration(float64(time.Second) / fallbackSourceFPS)
	}

	return deltaSinceLastSent >= target
}
