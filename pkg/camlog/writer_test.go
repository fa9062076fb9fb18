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

package camlog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRotatingFile_RotatesPastThreshold(t *testing.T) {
	dir := t.TempDir()

	rf, err := newRotatingFile(dir, "camera-1", 0)
	if err != nil {
		t.Fatalf("newRotatingFile: %v", err)
	}
	defer rf.Close()

	rf.maxBytes = 16 // force rotation quickly for the test

	if _, err := rf.Write([]byte("0123456789")); err != nil {
		t.Fatal(err)
	}

	if _, err := rf.Write([]byte("0123456789")); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	rotated := 0
	for _, e := range entries {
		if e.Name() != "camera-1.log" {
			rotated++
		}
	}

	if rotated == 0 {
		t.Error("expected at least one rotated file after crossing maxBytes")
	}

	data, err := os.ReadFile(filepath.Join(dir, "camera-1.log"))
	if err != nil {
		t.Fatal(err)
	}

	if len(data) == 0 {
		t.Error("expected current log file to contain the most recent write")
	}
}

func TestRotatingFile_ReopensExistingFile(t *testing.T) {
	dir := t.TempDir()

	rf, err := newRotatingFile(dir, "camera-2", 50)
	if err != nil {
		t.Fatal(err)
	}

	rf.Write([]byte("hello"))
	rf.Close()

	rf2, err := newRotatingFile(dir, "camera-2", 50)
	if err != nil {
		t.Fatal(err)
	}
	defer rf2.Close()

	if rf2.written != 5 {
		t.Errorf("written = %d, want 5 (existing file size)", rf2.written)
	}
}
