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

// Package camera implements the per-camera pipeline: connect, decode,
// pace, and dispatch frames to a host-supplied callback, reconnecting on
// any failure until stopped.
package camera

// State is one point in the pipeline's connection lifecycle.
type State int

const (
	StateStopped State = iota
	StateConnecting
	StateConnected
	StateDisconnected
	StateWaitingReconnect
	StateReconnecting
)

// Code returns the host callback contract's status code for s.
func (s State) Code() int {
	return int(s)
}

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDisconnected:
		return "disconnected"
	case StateWaitingReconnect:
		return "waiting_reconnect"
	case StateReconnecting:
		return "reconnecting"
	default:
		return "unknown"
	}
}

// StatusFunc is the host's status callback. It fires on every state
// transition, plus on re-entry to WaitingReconnect/Reconnecting.
type StatusFunc func(cameraID int32, state State, message string, userCtx any)

// FrameFunc is the host's frame delivery callback. The host must release
// the descriptor exactly once.
type FrameFunc func(desc *FrameDescriptor, userCtx any)
