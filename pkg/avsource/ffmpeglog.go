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
	"strings"
	"sync"

	"github.com/asticode/go-astiav"
	"github.com/rs/zerolog"
)

var ffmpegToZerologLevel = map[astiav.LogLevel]zerolog.Level{
	astiav.LogLevelQuiet:   zerolog.Disabled,
	astiav.LogLevelPanic:   zerolog.PanicLevel,
	astiav.LogLevelFatal:   zerolog.FatalLevel,
	astiav.LogLevelError:   zerolog.ErrorLevel,
	astiav.LogLevelWarning: zerolog.WarnLevel,
	astiav.LogLevelInfo:    zerolog.InfoLevel,
	astiav.LogLevelVerbose: zerolog.DebugLevel,
	astiav.LogLevelDebug:   zerolog.TraceLevel,
}

var nameToFfmpegLogLevel = map[string]astiav.LogLevel{
	"quiet":   astiav.LogLevelQuiet,
	"panic":   astiav.LogLevelPanic,
	"fatal":   astiav.LogLevelFatal,
	"error":   astiav.LogLevelError,
	"warning": astiav.LogLevelWarning,
	"info":    astiav.LogLevelInfo,
	"verbose": astiav.LogLevelVerbose,
	"debug":   astiav.LogLevelDebug,
}

// squelchedLogInterval throttles noisy repeated messages (e.g. per-packet
// RTSP jitter warnings) to one line per this many occurrences.
const squelchedLogInterval = 1024

// squelchedFfmpegLogPrefixes lists message prefixes known to repeat at
// per-packet frequency under normal operation.
var squelchedFfmpegLogPrefixes = []string{
	"RTP: missed",
	"max delay reached",
	"Queue input is backward in time",
}

var (
	ffmpegLogMu     sync.Mutex
	ffmpegLog       zerolog.Logger
	squelchedCounts = make([]int, len(squelchedFfmpegLogPrefixes))
)

// SetupFfmpegLogging routes libav's internal log callback through log at
// the given level name, squelching known-noisy repeated messages. Call
// once at process start.
func SetupFfmpegLogging(log zerolog.Logger, levelName string) {
	ffmpegLogMu.Lock()
	ffmpegLog = log.With().Str("component", "ffmpeg").Logger()
	ffmpegLogMu.Unlock()

	level, ok := nameToFfmpegLogLevel[strings.ToLower(levelName)]
	if !ok {
		panic("avsource: unknown ffmpeg log level: " + levelName)
	}

	astiav.SetLogLevel(level)
	astiav.SetLogCallback(ffmpegLogCallback)
}

func ffmpegLogCallback(l astiav.LogLevel, fmt, msg, parent string) {
	trimmed := strings.TrimSpace(msg)
	if trimmed == "." {
		return // libav progress dots, not a real message.
	}

	for i, prefix := range squelchedFfmpegLogPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			squelchedCounts[i]++
			if squelchedCounts[i]%squelchedLogInterval != 1 {
				return
			}

			break
		}
	}

	zl, ok := ffmpegToZerologLevel[l]
	if !ok {
		zl = zerolog.DebugLevel
	}

	ffmpegLogMu.Lock()
	logger := ffmpegLog
	ffmpegLogMu.Unlock()

	logger.WithLevel(zl).Str("parent", parent).Msg(trimmed)
}
