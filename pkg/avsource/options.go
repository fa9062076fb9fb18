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

// Package avsource wraps go-astiav behind the narrow demux/decode/scale
// surface the camera pipeline needs: open an input by URL, find its video
// stream, open a decoder for it, pump packets into frames, and scale
// decoded frames to BGR24.
package avsource

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/asticode/go-astiav"
)

const (
	socketTimeoutUsec = 10_000_000 // 10s, in microseconds (astiav dictionary values are strings).
	rtspBufferSize    = 1048576    // 1 MiB
	probeSizeDefault  = 5_000_000
)

// scheme classifies a camera URL's transport so OpenInput can pick the
// right option set. Unrecognized schemes fall back to generic.
type scheme int

const (
	schemeGeneric scheme = iota
	schemeRTSP
	schemeHTTPLike // HLS playlists, RTMP, and HTTP-MJPEG snapshots/multipart streams.
)

func classifyURL(rawURL string) scheme {
	u, err := url.Parse(rawURL)
	if err != nil {
		return schemeGeneric
	}

	switch strings.ToLower(u.Scheme) {
	case "rtsp":
		return schemeRTSP
	case "http", "https", "rtmp", "rtmps":
		return schemeHTTPLike
	default:
		return schemeGeneric
	}
}

// buildOptions returns a Dictionary of demuxer options for rawURL. Caller
// owns the returned Dictionary and must Free it.
func buildOptions(rawURL string) *astiav.Dictionary {
	d := astiav.NewDictionary()

	switch classifyURL(rawURL) {
	case schemeRTSP:
		_ = d.Set("rtsp_transport", "tcp", 0)
		_ = d.Set("rtsp_flags", "prefer_tcp", 0)
		_ = d.Set("stimeout", strconv.Itoa(socketTimeoutUsec), 0)
		_ = d.Set("buffer_size", strconv.Itoa(rtspBufferSize), 0)
	case schemeHTTPLike:
		_ = d.Set("reconnect", "1", 0)
		_ = d.Set("reconnect_streamed", "1", 0)
		_ = d.Set("reconnect_delay_max", "5", 0)
		_ = d.Set("multiple_requests", "1", 0) // persistent HTTP connections.
		_ = d.Set("tcp_nodelay", "1", 0)
	}

	// Low-latency flags shared by every scheme: avoid internal buffering,
	// generate PTS when the source omits them, keep probing cheap.
	_ = d.Set("flags", "+low_delay", 0)
	_ = d.Set("fflags", "+nobuffer+genpts", 0)
	_ = d.Set("max_delay", "500000", 0) // 0.5s
	_ = d.Set("probesize", strconv.Itoa(probeSizeDefault), 0)
	_ = d.Set("analyzeduration", "1000000", 0) // 1s

	return d
}
