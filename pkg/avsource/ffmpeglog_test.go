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
	"bytes"
	"strings"
	"testing"

	"github.com/asticode/go-astiav"
	"github.com/rs/zerolog"
)

func TestSetupFfmpegLogging_UnknownLevelPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for an unknown ffmpeg log level name")
		}
	}()

	SetupFfmpegLogging(zerolog.Nop(), "not-a-real-level")
}

func TestFfmpegLogCallback_SquelchesRepeatedMessages(t *testing.T) {
	var buf bytes.Buffer

	ffmpegLogMu.Lock()
	ffmpegLog = zerolog.New(&buf)
	squelchedCounts[0] = 0
	ffmpegLogMu.Unlock()

	for i := 0; i < squelchedLogInterval+1; i++ {
		ffmpegLogCallback(astiav.LogLevelWarning, "%s", "RTP: missed 3 packets", "rtsp")
	}

	lines := strings.Count(buf.String(), "\n")
	if lines != 2 {
		t.Errorf("expected exactly 2 logged lines (1st and (interval+1)th occurrence), got %d", lines)
	}
}

func TestFfmpegLogCallback_IgnoresProgressDots(t *testing.T) {
	var buf bytes.Buffer

	ffmpegLogMu.Lock()
	ffmpegLog = zerolog.New(&buf)
	ffmpegLogMu.Unlock()

	ffmpegLogCallback(astiav.LogLevelInfo, "%s", ".", "progress")

	if buf.Len() != 0 {
		t.Errorf("expected progress dot to be dropped, got %q", buf.String())
	}
}
