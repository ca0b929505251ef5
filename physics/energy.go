package physics

import (
	"math"

	"github.com/lixenwraith/nbody/core"
	"github.com/lixenwraith/nbody/vmath"
)

// TotalMomentum returns Σ m·v
func TotalMomentum(bodies []core.Body) vmath.Vec2 {
	var p vmath.Vec2
	for i := range bodies {
		p.X += bodies[i].Mass * bodies[i].Vel.X
		p.Y += bodies[i].Mass * bodies[i].Vel.Y
	}
	return p
}

// TotalMass returns Σ m
func TotalMass(bodies []core.Body) float64 {
	var m float64
	for i := range bodies {
		m += bodies[i].Mass
	}
	return m
}

// CenterOfMass returns the mass-weighted centroid, zero for an empty set
func CenterOfMass(bodies []core.Body) vmath.Vec2 {
	var c vmath.Vec2
	m := TotalMass(bodies)
	if m == 0 {
		return c
	}
	for i := range bodies {
		c.X += bodies[i].Mass * bodies[i].Pos.X
		c.Y += bodies[i].Mass * bodies[i].Pos.Y
	}
	return vmath.V2Scale(c, 1/m)
}

// KineticEnergy returns Σ ½·m·|v|²
func KineticEnergy(bodies []core.Body) float64 {
	var e float64
	for i := range bodies {
		e += bodies[i].KineticEnergy()
	}
	return e
}

// PotentialEnergy returns the softened pairwise potential -Σ G·mi·mj/√(r²+ε²)
// O(N²); diagnostics only
func PotentialEnergy(bodies []core.Body, g Gravity) float64 {
	eps2 := g.Softening * g.Softening
	var e float64
	for i := range bodies {
		for j := i + 1; j < len(bodies); j++ {
			s := math.Sqrt(vmath.V2DistSq(bodies[i].Pos, bodies[j].Pos) + eps2)
			if s == 0 {
				continue
			}
			e -= g.G * bodies[i].Mass * bodies[j].Mass / s
		}
	}
	return e
}
