package protocol

import "streamworld.dev/internal/sim/world/render"

// HELLO (host -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	HostName        string `json:"host_name"`
}

// WELCOME (server -> host)
type WelcomeMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	SessionID       string      `json:"session_id"`
	WorldParams     WorldParams `json:"world_params"`
}

type WorldParams struct {
	WorldID        string     `json:"world_id"`
	Seed           int64      `json:"seed"`
	TickRateHz     int        `json:"tick_rate_hz"`
	ChunkSize      int        `json:"chunk_size"`
	RenderDistance int        `json:"render_distance"`
	NoiseBackend   string     `json:"noise_backend"`
	SpawnPos       [3]float64 `json:"spawn_pos"`
}

// POSE (host -> server). Only the latest pose received before a tick is used.
type PoseMsg struct {
	Type            string     `json:"type"`
	ProtocolVersion string     `json:"protocol_version"`
	Pos             [3]float64 `json:"pos"`
}

// RENDER (server -> host). A full batch replaces the host scene; otherwise
// instructions apply on top of what the host already has.
type RenderMsg struct {
	Type            string               `json:"type"`
	ProtocolVersion string               `json:"protocol_version"`
	Tick            uint64               `json:"tick"`
	Full            bool                 `json:"full"`
	Instructions    []render.Instruction `json:"instructions"`
}

// ERROR (server -> host)
type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Code            string `json:"code"`
	Message         string `json:"message"`
}

func NewError(code, message string) ErrorMsg {
	return ErrorMsg{Type: TypeError, ProtocolVersion: Version, Code: code, Message: message}
}
