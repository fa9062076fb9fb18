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

// Package camlog provides per-camera log sinks: one rotating file per
// camera id, always echoed to the process console, with liveness counters
// a pipeline can poll to detect a processing stall independent of its own
// bookkeeping.
package camlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// rotatingFile is an io.Writer that owns an open file handle, tracks bytes
// written, and renames-and-reopens before a write that would carry the
// file past the configured threshold. Nothing in the retrieval pack uses a rotation library, so this
// is hand-rolled on os.Rename/os.OpenFile.
type rotatingFile struct {
	mu          sync.Mutex
	dir         string
	baseName    string
	maxBytes    int64
	file        *os.File
	written     int64
}

func newRotatingFile(dir, baseName string, maxMB int64) (*rotatingFile, error) {
	if maxMB <= 0 {
		maxMB = 50
	}

	r := &rotatingFile{
		dir:      dir,
		baseName: baseName,
		maxBytes: maxMB * 1024 * 1024,
	}

	if err := r.open(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *rotatingFile) path() string {
	return filepath.Join(r.dir, r.baseName+".log")
}

func (r *rotatingFile) open() error {
	f, err := os.OpenFile(r.path(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()

		return err
	}

	r.file = f
	r.written = info.Size()

	return nil
}

func (r *rotatingFile) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.written > 0 && r.written+int64(len(p)) > r.maxBytes {
		if err := r.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := r.file.Write(p)
	r.written += int64(n)

	return n, err
}

func (r *rotatingFile) rotate() error {
	if err := r.file.Close(); err != nil {
		return err
	}

	rotated := fmt.Sprintf("%s.%s.log", filepath.Join(r.dir, r.baseName), time.Now().UTC().Format("20060102T150405"))
	if err := os.Rename(r.path(), rotated); err != nil {
		return err
	}

	return r.open()
}

func (r *rotatingFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.file.Close()
}
