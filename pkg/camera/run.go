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

package camera

// Run drives the pipeline's state machine until RequestStop (or the shared
// interrupt) ends it. It is the pipeline's entire goroutine body; the
// registry calls it exactly once per add_camera.
func (p *Pipeline) Run() {
	defer p.teardownMedia()

	for {
		if p.shouldStop() {
			p.setState(StateStopped, "stopped")

			return
		}

		if !p.connect() {
			p.setState(StateStopped, "stopped during connect")

			return
		}

		p.setState(StateConnected, "connected")
		p.reconnectAttempts = 0
		p.metrics.SetReconnectAttempts(p.cameraID, 0)

		switch p.processStream() {
		case pumpStop:
			p.setState(StateStopped, "stopped")

			return
		case pumpReconnect:
			if !p.reconnect() {
				p.setState(StateStopped, "stopped during reconnect wait")

				return
			}
		}
	}
}
