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
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "camerad",
		Short: "Multi-camera ingestion daemon",
		Long:  "camerad connects to RTSP/HLS/RTMP/HTTP-MJPEG cameras, decodes and paces frames, and delivers them through an in-process callback API.",
	}

	root.AddCommand(newRunCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
