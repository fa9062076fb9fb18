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

// Package camerror defines the error taxonomy shared by the registry and
// host API boundary, along with its mapping onto the negative integer
// codes the host callback contract returns.
package camerror

import "errors"

// Sentinel errors for the registry/host boundary. Each maps to a negative
// code via Code().
var (
	ErrNotInitialized  = errors.New("camerad: not initialized")
	ErrNotFound        = errors.New("camerad: camera id not found or already stopped")
	ErrInvalidURL      = errors.New("camerad: invalid or empty url")
	ErrAlreadyExists   = errors.New("camerad: camera id already in use")
	ErrAllocation      = errors.New("camerad: allocation failure")
	ErrWorkerStart     = errors.New("camerad: failed to start worker")
	ErrWorkerStillAlive = errors.New("camerad: previous worker for this id has not exited")
)

// Code maps err onto the boundary's negative error code taxonomy. Returns
// 0 for a nil error, and -128 for an error this package doesn't recognize
// (callers shouldn't see this in practice; every path that can fail
// returns one of the sentinels above).
func Code(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrNotInitialized):
		return -1
	case errors.Is(err, ErrNotFound):
		return -2
	case errors.Is(err, ErrInvalidURL):
		return -3
	case errors.Is(err, ErrAlreadyExists):
		return -4
	case errors.Is(err, ErrAllocation):
		return -5
	case errors.Is(err, ErrWorkerStart):
		return -6
	case errors.Is(err, ErrWorkerStillAlive):
		return -7
	default:
		return -128
	}
}

// SkippedCodecError indicates a stream's codec has no usable decoder and
// the pipeline is treating it as a hard setup failure (unlike the teacher's
// passthrough fallback, this system has no use for raw packets without a
// decoded frame to scale and deliver).
type SkippedCodecError struct {
	Codec string
}

func (e *SkippedCodecError) Error() string {
	return "unsupported codec, no decoder available: " + e.Codec
}

// StallError indicates a pipeline detected no decoder/read activity within
// its configured stall timeout.
type StallError struct {
	TimeoutSec float64
}

func (e *StallError) Error() string {
	return "no activity within stall timeout"
}
