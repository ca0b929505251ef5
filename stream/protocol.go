// Package stream broadcasts simulation snapshots over websockets and accepts control commands
package stream

import (
	"encoding/json"
	"fmt"

	"github.com/lixenwraith/nbody/core"
	"github.com/lixenwraith/nbody/engine"
	"github.com/lixenwraith/nbody/vmath"
)

// ProtocolVersion is sent in the welcome message
const ProtocolVersion = 1

// Server to client messages
const (
	MsgWelcome = "welcome"
	MsgState   = "state"
	MsgMerges  = "merges"
	MsgError   = "error"
)

// Client to server commands
const (
	CmdPause  = "pause"
	CmdResume = "resume"
	CmdReset  = "reset"
	CmdClear  = "clear"
	CmdSpawn  = "spawn"
	CmdRemove = "remove"
	CmdParams = "params"
)

// Envelope frames every message; P holds the raw payload
type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p,omitempty"`
}

// Welcome is sent once after connecting
type Welcome struct {
	Version    int           `json:"v"`
	TickHz     int           `json:"tickHz"`
	EveryTicks int           `json:"everyTicks"`
	Params     engine.Params `json:"params"`
}

// Merges reports the fusions of one tick
type Merges struct {
	Tick   uint64      `json:"tick"`
	Events []MergeView `json:"events"`
}

// MergeView is the wire form of engine.MergeEvent
type MergeView struct {
	A      core.Handle `json:"a"`
	B      core.Handle `json:"b"`
	Result core.Handle `json:"result"`
	Mass   float64     `json:"mass"`
	Pos    vmath.Vec2  `json:"pos"`
}

// Spawn is the payload of CmdSpawn; zero mass or radius is derived from the other
type Spawn struct {
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	VX      float64  `json:"vx,omitempty"`
	VY      float64  `json:"vy,omitempty"`
	Mass    float64  `json:"mass,omitempty"`
	Radius  float64  `json:"radius,omitempty"`
	Density float64  `json:"density,omitempty"`
	Color   core.RGB `json:"color"`
}

// Remove is the payload of CmdRemove
type Remove struct {
	ID core.Handle `json:"id"`
}

// ParamsPatch is the payload of CmdParams; nil fields are left unchanged
type ParamsPatch struct {
	G           *float64 `json:"g,omitempty"`
	Softening   *float64 `json:"softening,omitempty"`
	TimeStep    *float64 `json:"time_step,omitempty"`
	MaxTimeStep *float64 `json:"max_time_step,omitempty"`
	Collision   *string  `json:"collision,omitempty"`
	Restitution *float64 `json:"restitution,omitempty"`
	Workers     *int     `json:"workers,omitempty"`
}

// Error reports a rejected command
type Error struct {
	Command string `json:"command"`
	Message string `json:"message"`
}

// Encode wraps payload in an envelope of type t; nil payload sends no body
func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("trying to encode envelope with empty type")
	}
	e := Envelope{T: t}
	if payload != nil {
		pb, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		e.P = pb
	}
	return json.Marshal(e)
}

// DecodeEnvelope parses the outer frame
func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, fmt.Errorf("trying to decode envelope of size 0")
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, err
	}
	if e.T == "" {
		return Envelope{}, fmt.Errorf("envelope missing type")
	}
	return e, nil
}

// DecodePayload parses env.P as T
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("empty payload for type %q", env.T)
	}
	err := json.Unmarshal(env.P, &out)
	return out, err
}
