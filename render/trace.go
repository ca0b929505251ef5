package render

import (
	"github.com/lixenwraith/nbody/core"
	"github.com/lixenwraith/nbody/engine"
	"github.com/lixenwraith/nbody/parameter"
	"github.com/lixenwraith/nbody/vmath"
)

// TracePoint is one recorded position
type TracePoint struct {
	Pos   vmath.Vec2
	Color core.RGB
}

// Traces keeps a ring of recent body positions sampled every few frames
// Oldest points are overwritten once the ring is full
type Traces struct {
	Enabled bool

	points []TracePoint
	head   int
	count  int
	frame  int
	every  int
}

// NewTraces creates a disabled trace ring of the given capacity
func NewTraces(capacity, every int) *Traces {
	if capacity < 1 {
		capacity = parameter.TraceCapacity
	}
	if every < 1 {
		every = 1
	}
	return &Traces{points: make([]TracePoint, capacity), every: every}
}

// Record samples non-sun bodies on every N-th call while enabled
func (t *Traces) Record(bodies []engine.BodyView) {
	if !t.Enabled {
		return
	}
	t.frame++
	if t.frame%t.every != 0 {
		return
	}
	for i := range bodies {
		if bodies[i].Sun {
			continue
		}
		t.points[t.head] = TracePoint{Pos: bodies[i].Pos, Color: bodies[i].Color}
		t.head = (t.head + 1) % len(t.points)
		if t.count < len(t.points) {
			t.count++
		}
	}
}

// Clear drops every recorded point
func (t *Traces) Clear() {
	t.head, t.count, t.frame = 0, 0, 0
}

// Len returns the number of stored points
func (t *Traces) Len() int {
	return t.count
}

// Each visits stored points oldest first
func (t *Traces) Each(fn func(p TracePoint)) {
	start := t.head - t.count
	if start < 0 {
		start += len(t.points)
	}
	for i := 0; i < t.count; i++ {
		fn(t.points[(start+i)%len(t.points)])
	}
}
