package physics

import (
	"math"

	"github.com/lixenwraith/nbody/core"
	"github.com/lixenwraith/nbody/vmath"
)

// Gravity holds the constants the force accumulator reads for one step
type Gravity struct {
	G         float64
	Softening float64
	// ContactFloor clamps pair separation to the sum of radii
	// Set when collisions are disabled so overlapping bodies pass through with bounded pull
	ContactFloor bool
}

// Accumulate writes the net gravitational acceleration of every body into acc
// Naive all-pairs: each unordered pair is visited once and Newton's third law
// supplies the partner's contribution
// acc must have len(bodies) elements; previous contents are overwritten
func Accumulate(bodies []core.Body, g Gravity, acc []vmath.Vec2) {
	n := len(bodies)
	acc = acc[:n]
	for i := range acc {
		acc[i] = vmath.Vec2{}
	}
	accumulateRows(bodies, g, acc, 0, n)
}

// accumulateRows adds contributions of pairs (i, j) with lo <= i < hi and j > i into acc
// Writes touch both acc[i] and acc[j], so concurrent callers need private buffers
func accumulateRows(bodies []core.Body, g Gravity, acc []vmath.Vec2, lo, hi int) {
	n := len(bodies)
	eps2 := g.Softening * g.Softening

	for i := lo; i < hi; i++ {
		bi := &bodies[i]
		px, py := bi.Pos.X, bi.Pos.Y
		mi, ri := bi.Mass, bi.Radius
		var ax, ay float64

		for j := i + 1; j < n; j++ {
			bj := &bodies[j]
			dx := bj.Pos.X - px
			dy := bj.Pos.Y - py
			r2 := dx*dx + dy*dy

			if g.ContactFloor {
				c := ri + bj.Radius
				if r2 < c*c {
					r2 = c * c
				}
			}

			s2 := r2 + eps2
			if s2 == 0 {
				// Zero softening and coincident centers: no defined direction
				continue
			}
			inv := g.G / (s2 * math.Sqrt(s2))

			fj := bj.Mass * inv
			ax += fj * dx
			ay += fj * dy

			fi := mi * inv
			acc[j].X -= fi * dx
			acc[j].Y -= fi * dy
		}

		acc[i].X += ax
		acc[i].Y += ay
	}
}

// PairAccel returns the acceleration body a receives from body b alone
// Used by tests and diagnostics; the hot path is Accumulate
func PairAccel(a, b *core.Body, g Gravity) vmath.Vec2 {
	d := vmath.V2Sub(b.Pos, a.Pos)
	r2 := vmath.V2MagSq(d)
	if g.ContactFloor {
		c := a.Radius + b.Radius
		if r2 < c*c {
			r2 = c * c
		}
	}
	s2 := r2 + g.Softening*g.Softening
	if s2 == 0 {
		return vmath.Vec2{}
	}
	return vmath.V2Scale(d, g.G*b.Mass/(s2*math.Sqrt(s2)))
}

// MaxAccel bounds the acceleration a body can receive from a single partner of given mass
// Peak of G·m·r/(r²+ε²)^{3/2} occurs at r = ε/√2
func MaxAccel(g Gravity, partnerMass float64) float64 {
	if g.Softening <= 0 {
		return math.Inf(1)
	}
	return 2 * g.G * partnerMass / (3 * math.Sqrt(3) * g.Softening * g.Softening)
}
