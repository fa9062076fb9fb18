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

package main

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/atrium-vision/camerad/pkg/camera"
	"github.com/atrium-vision/camerad/pkg/camlog"
	"github.com/atrium-vision/camerad/pkg/mimer"
)

// demoHost is the sample embedding application: it logs every status
// transition to that camera's rotating sink, JPEG-encodes every delivered
// frame to a per-camera snapshot file, and serves the latest snapshot over
// HTTP with its content type sniffed by mimer.
type demoHost struct {
	log   zerolog.Logger
	dir   string
	sinks *camlog.Manager

	mu         sync.Mutex
	lastWidth  map[int32]int32
	lastHeight map[int32]int32
}

func newDemoHost(log zerolog.Logger, snapshotDir string) *demoHost {
	return &demoHost{
		log:        log.With().Str("component", "demohost").Logger(),
		dir:        snapshotDir,
		sinks:      camlog.NewManager(snapshotDir, 50, log),
		lastWidth:  make(map[int32]int32),
		lastHeight: make(map[int32]int32),
	}
}

// OnStatus implements camera.StatusFunc.
func (h *demoHost) OnStatus(cameraID int32, state camera.State, message string, _ any) {
	sink, err := h.sinks.For(cameraID)
	if err != nil {
		h.log.Warn().Int32("camera_id", cameraID).Err(err).Msg("no log sink for status")

		return
	}

	sink.Logger().Info().Str("state", state.String()).Str("message", message).Msg("status")
}

// OnFrame implements camera.FrameFunc. It encodes the delivered BGR24
// buffer as JPEG and atomically replaces that camera's snapshot file, then
// releases the descriptor back to the pool.
func (h *demoHost) OnFrame(desc *camera.FrameDescriptor, _ any) {
	defer desc.Release()

	sink, err := h.sinks.For(desc.CameraID)
	if err != nil {
		h.log.Warn().Int32("camera_id", desc.CameraID).Err(err).Msg("no log sink for frame")

		return
	}

	sink.LogFrameSent()

	h.mu.Lock()
	h.lastWidth[desc.CameraID] = desc.Width
	h.lastHeight[desc.CameraID] = desc.Height
	h.mu.Unlock()

	if err := h.writeSnapshot(desc); err != nil {
		sink.Logger().Warn().Err(err).Msg("snapshot encode failed")
	}
}

func (h *demoHost) writeSnapshot(desc *camera.FrameDescriptor) error {
	img := bgr24ToImage(desc.Data, int(desc.Width), int(desc.Height), int(desc.Stride))

	tmp, err := os.CreateTemp(h.dir, fmt.Sprintf("camera-%d-*.jpg.tmp", desc.CameraID))
	if err != nil {
		return err
	}

	if err := jpeg.Encode(tmp, img, &jpeg.Options{Quality: 85}); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())

		return err
	}

	return os.Rename(tmp.Name(), h.snapshotPath(desc.CameraID))
}

func (h *demoHost) snapshotPath(cameraID int32) string {
	return filepath.Join(h.dir, fmt.Sprintf("camera-%d.jpg", cameraID))
}

// ServeHTTP serves GET /snapshot/{id}, sniffing the content type of
// whatever the file on disk actually is rather than assuming JPEG, since a
// partially written or otherwise unexpected file shouldn't be served with
// a misleading header.
func (h *demoHost) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/snapshot/")

	id, err := strconv.ParseInt(idStr, 10, 32)
	if err != nil {
		http.Error(w, "invalid camera id", http.StatusBadRequest)

		return
	}

	path := h.snapshotPath(int32(id))

	if _, err := os.Stat(path); err != nil {
		http.Error(w, "no snapshot yet", http.StatusNotFound)

		return
	}

	w.Header().Set("Content-Type", mimer.GetContentType(path))
	http.ServeFile(w, r, path)
}

func (h *demoHost) Close() {
	h.sinks.Close()
}

// bgr24ToImage copies a BGR24 plane, read row by row at the given stride,
// into a new opaque NRGBA image, swapping the blue and red channels of
// each pixel.
func bgr24ToImage(pix []byte, width, height, stride int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		row := pix[y*stride : y*stride+width*3]
		for x := 0; x < width; x++ {
			b, g, r := row[x*3], row[x*3+1], row[x*3+2]
			img.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: 255})
		}
	}

	return img
}
