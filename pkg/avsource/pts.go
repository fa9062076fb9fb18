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
	"math"
	"math/big"
	"time"

	"github.com/asticode/go-astiav"
)

// NoPTS marks the absence of a PTS, distinct from the zero value (which is
// itself a valid presentation timestamp).
const NoPTS = time.Duration(math.MinInt64)

// HasValidPTS reports whether pts is a real presentation timestamp rather
// than astiav's no-value sentinel.
func HasValidPTS(pts int64) bool {
	return pts != astiav.NoPtsValue
}

// PTSToDuration converts a PTS value in timeBase units to a time.Duration,
// using arbitrary-precision arithmetic so large PTS values and odd time
// bases (e.g. 1/90000) don't lose precision to float64 rounding.
func PTSToDuration(pts int64, timeBase astiav.Rational) time.Duration {
	if !HasValidPTS(pts) {
		return NoPTS
	}

	num := big.NewInt(pts)
	num.Mul(num, big.NewInt(int64(timeBase.Num())))
	num.Mul(num, big.NewInt(int64(time.Second)))

	den := big.NewInt(int64(timeBase.Den()))
	if den.Sign() == 0 {
		return 0
	}

	num.Div(num, den)

	return time.Duration(num.Int64())
}

// DurationToPTS converts a duration into PTS units of timeBase, rounding to
// the nearest tick.
func DurationToPTS(d time.Duration, timeBase astiav.Rational) int64 {
	if timeBase.Num() == 0 {
		return 0
	}

	seconds := float64(d) / float64(time.Second)
	ticks := seconds * float64(timeBase.Den()) / float64(timeBase.Num())

	if ticks >= 0 {
		return int64(ticks + 0.5)
	}

	return int64(ticks - 0.5)
}
