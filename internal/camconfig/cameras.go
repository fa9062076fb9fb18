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

package camconfig

import (
	"os"

	"gopkg.in/yaml.v3"
)

// CameraSpec is one entry in cameras.yaml.
type CameraSpec struct {
	ID        int32  `yaml:"id"`
	URL       string `yaml:"url"`
	TargetFPS int    `yaml:"target_fps"`
}

// CameraList is the full contents of cameras.yaml.
type CameraList struct {
	Cameras []CameraSpec `yaml:"cameras"`
}

// LoadCameraList reads and parses a cameras.yaml file.
func LoadCameraList(path string) (CameraList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CameraList{}, err
	}

	var list CameraList

	if err := yaml.Unmarshal(data, &list); err != nil {
		return CameraList{}, err
	}

	return list, nil
}

// Diff computes which ids from prev are no longer in next (to stop), which
// ids in next are new or changed (to (re-)add), keyed by id.
func Diff(prev, next CameraList) (toStop []int32, toAdd []CameraSpec) {
	prevByID := make(map[int32]CameraSpec, len(prev.Cameras))
	for _, c := range prev.Cameras {
		prevByID[c.ID] = c
	}

	nextByID := make(map[int32]CameraSpec, len(next.Cameras))
	for _, c := range next.Cameras {
		nextByID[c.ID] = c
	}

	for id, old := range prevByID {
		newSpec, ok := nextByID[id]
		if !ok || newSpec != old {
			toStop = append(toStop, id)
		}
	}

	for id, newSpec := range nextByID {
		old, ok := prevByID[id]
		if !ok || newSpec != old {
			toAdd = append(toAdd, newSpec)
		}
	}

	return toStop, toAdd
}
