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
	"fmt"

	"github.com/asticode/go-astiav"
)

// Scaler converts decoded frames to tightly packed BGR24, rebuilding its
// internal SoftwareScaleContext whenever the source dimensions or pixel
// format change.
type Scaler struct {
	ssc  *astiav.SoftwareScaleContext
	dst  *astiav.Frame
	srcW int
	srcH int
	srcFmt astiav.PixelFormat
}

// NewScaler returns an empty Scaler; the underlying scale context is built
// lazily on first use.
func NewScaler() *Scaler {
	return &Scaler{}
}

func (s *Scaler) ensure(src *astiav.Frame) error {
	w, h, format := src.Width(), src.Height(), src.PixelFormat()

	if s.ssc != nil && w == s.srcW && h == s.srcH && format == s.srcFmt {
		return nil
	}

	s.release()

	flags := astiav.NewSoftwareScaleContextFlags()

	ssc, err := astiav.CreateSoftwareScaleContext(w, h, format, w, h, astiav.PixelFormatBgr24, flags)
	if err != nil {
		return fmt.Errorf("avsource: create scale context: %w", err)
	}

	dst := astiav.AllocFrame()
	dst.SetWidth(w)
	dst.SetHeight(h)
	dst.SetPixelFormat(astiav.PixelFormatBgr24)

	if err := dst.AllocBuffer(1); err != nil {
		dst.Free()
		ssc.Free()

		return fmt.Errorf("avsource: alloc scaled frame buffer: %w", err)
	}

	s.ssc = ssc
	s.dst = dst
	s.srcW, s.srcH, s.srcFmt = w, h, format

	return nil
}

func (s *Scaler) release() {
	if s.dst != nil {
		s.dst.Free()
		s.dst = nil
	}

	if s.ssc != nil {
		s.ssc.Free()
		s.ssc = nil
	}
}

// Image is a scaled BGR24 frame's pixel plane, tightly packed by row.
type Image struct {
	Width  int
	Height int
	Stride int
	Pix    []byte
}

// ScaleToBGR24 converts src into BGR24 and returns a snapshot of the
// scaled plane. The returned Image's Pix slice is a fresh copy, safe to
// retain past the next ScaleToBGR24 call.
func (s *Scaler) ScaleToBGR24(src *astiav.Frame) (Image, error) {
	if err := s.ensure(src); err != nil {
		return Image{}, err
	}

	if err := s.ssc.ScaleFrame(src, s.dst); err != nil {
		return Image{}, fmt.Errorf("avsource: scale frame: %w", err)
	}

	n, err := s.dst.ImageBufferSize(1)
	if err != nil {
		return Image{}, fmt.Errorf("avsource: image buffer size: %w", err)
	}

	buf := make([]byte, n)
	if _, err := s.dst.ImageCopyToBuffer(buf, 1); err != nil {
		return Image{}, fmt.Errorf("avsource: image copy to buffer: %w", err)
	}

	return Image{
		Width:  s.srcW,
		Height: s.srcH,
		Stride: s.srcW * 3,
		Pix:    buf,
	}, nil
}

// Close releases the scaler's internal astiav resources.
func (s *Scaler) Close() {
	s.release()
}
