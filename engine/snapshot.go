package engine

import (
	"github.com/lixenwraith/nbody/core"
	"github.com/lixenwraith/nbody/vmath"
)

// BodyView is the read-only per-body data handed to renderers
type BodyView struct {
	Handle core.Handle `json:"id"`
	Pos    vmath.Vec2  `json:"pos"`
	Vel    vmath.Vec2  `json:"vel"`
	Mass   float64     `json:"mass"`
	Radius float64     `json:"radius"`
	Color  core.RGB    `json:"color"`
	Sun    bool        `json:"sun,omitempty"`
}

// Snapshot is a copy of the store taken between steps
type Snapshot struct {
	Tick    uint64      `json:"tick"`
	Paused  bool        `json:"paused"`
	Params  Params      `json:"params"`
	Bodies  []BodyView  `json:"bodies"`
	Largest core.Handle `json:"largest"`
}

// MergeEvent reports one fusion performed during a step
type MergeEvent struct {
	A, B   core.Handle
	Result core.Handle
	Mass   float64
	Pos    vmath.Vec2
}
