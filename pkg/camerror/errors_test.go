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

package camerror

import (
	"errors"
	"fmt"
	"testing"
)

func TestCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{ErrNotInitialized, -1},
		{ErrNotFound, -2},
		{ErrInvalidURL, -3},
		{ErrAlreadyExists, -4},
		{ErrAllocation, -5},
		{ErrWorkerStart, -6},
		{ErrWorkerStillAlive, -7},
		{errors.New("unrelated"), -128},
	}

	for _, c := range cases {
		if got := Code(c.err); got != c.want {
			t.Errorf("Code(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestCode_WrappedSentinel(t *testing.T) {
	wrapped := fmt.Errorf("add_camera: %w", ErrAlreadyExists)

	if got := Code(wrapped); got != -4 {
		t.Errorf("Code(wrapped) = %d, want -4", got)
	}
}

func TestSkippedCodecError(t *testing.T) {
	err := &SkippedCodecError{Codec: "hevc"}
	if err.Error() == "" {
		t.Error("expected non-empty message")
	}
}

func TestStallError(t *testing.T) {
	err := &StallError{TimeoutSec: 30}
	if err.Error() == "" {
		t.Error("expected non-empty message")
	}
}
