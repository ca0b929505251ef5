package physics

import (
	"fmt"

	"github.com/lixenwraith/nbody/core"
	"github.com/lixenwraith/nbody/vmath"
)

// CollisionMode selects how overlapping bodies are resolved
type CollisionMode uint8

const (
	// CollideMerge fuses overlapping bodies into one
	CollideMerge CollisionMode = iota
	// CollideBounce applies an elastic impulse and separates them
	CollideBounce
	// CollideNone lets bodies pass through; gravity floors separation at contact distance
	CollideNone
)

func (m CollisionMode) String() string {
	switch m {
	case CollideMerge:
		return "merge"
	case CollideBounce:
		return "bounce"
	case CollideNone:
		return "none"
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// ParseCollisionMode maps a config string to a mode
func ParseCollisionMode(s string) (CollisionMode, error) {
	switch s {
	case "merge", "":
		return CollideMerge, nil
	case "bounce":
		return CollideBounce, nil
	case "none", "off":
		return CollideNone, nil
	}
	return CollideMerge, fmt.Errorf("unknown collision mode %q", s)
}

// Merge records one fusion: dense indices A < B were consumed, Result replaces them
type Merge struct {
	A, B   int
	Result core.Body
}

// Resolver scans all pairs for overlap after integration
// Scratch buffers are reused across ticks
type Resolver struct {
	consumed []bool
	merges   []Merge
}

// NewResolver creates a resolver with no preallocated scratch
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve handles overlaps according to mode
// Merge: pairs are scanned in ascending (i, j) order; a body consumed by an earlier
// pair in the same tick is skipped, so three-way overlaps fuse two bodies now and the
// third on a later tick. The returned slice is owned by the resolver until the next call.
// Bounce: velocities and positions are modified in place; no merges are returned.
func (r *Resolver) Resolve(bodies []core.Body, mode CollisionMode, restitution float64) []Merge {
	r.merges = r.merges[:0]
	n := len(bodies)

	switch mode {
	case CollideMerge:
		if cap(r.consumed) < n {
			r.consumed = make([]bool, n)
		}
		consumed := r.consumed[:n]
		clear(consumed)

		for i := 0; i < n; i++ {
			if consumed[i] {
				continue
			}
			for j := i + 1; j < n; j++ {
				if consumed[j] {
					continue
				}
				if !Overlapping(&bodies[i], &bodies[j]) {
					continue
				}
				consumed[i], consumed[j] = true, true
				r.merges = append(r.merges, Merge{A: i, B: j, Result: MergeBodies(&bodies[i], &bodies[j])})
				break
			}
		}

	case CollideBounce:
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				a, b := &bodies[i], &bodies[j]
				if !Overlapping(a, b) {
					continue
				}
				ElasticCollision(a, b, restitution)
				SeparateOverlap(a, b)
			}
		}
	}

	return r.merges
}

// MergeBodies fuses two bodies conserving mass and momentum
// Position is the mass-weighted centroid; volume is additive and density volume-weighted,
// so radius follows the same density mapping as any other body of that mass.
// Color and sun flag come from the heavier body.
func MergeBodies(a, b *core.Body) core.Body {
	mass := a.Mass + b.Mass
	wa, wb := a.Mass/mass, b.Mass/mass

	va := vmath.SphereVolume(a.Radius)
	vb := vmath.SphereVolume(b.Radius)
	volume := va + vb

	heavy := a
	if b.Mass > a.Mass {
		heavy = b
	}

	return core.Body{
		Pos: vmath.Vec2{
			X: a.Pos.X*wa + b.Pos.X*wb,
			Y: a.Pos.Y*wa + b.Pos.Y*wb,
		},
		Vel: vmath.Vec2{
			X: a.Vel.X*wa + b.Vel.X*wb,
			Y: a.Vel.Y*wa + b.Vel.Y*wb,
		},
		Mass:    mass,
		Radius:  vmath.SphereRadius(volume),
		Density: mass / volume,
		Color:   heavy.Color,
		Sun:     a.Sun || b.Sun,
	}
}

// MarshalText encodes the mode by name for config and scenario files
func (m CollisionMode) MarshalText() ([]byte, error) {
	switch m {
	case CollideMerge, CollideBounce, CollideNone:
		return []byte(m.String()), nil
	}
	return nil, fmt.Errorf("unknown collision mode %d", uint8(m))
}

// UnmarshalText decodes a mode name
func (m *CollisionMode) UnmarshalText(text []byte) error {
	mode, err := ParseCollisionMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}
