package physics

import (
	"math"

	"github.com/lixenwraith/nbody/core"
)

// Overlapping reports whether two bodies' discs intersect: |pa - pb| < ra + rb
func Overlapping(a, b *core.Body) bool {
	dx := b.Pos.X - a.Pos.X
	dy := b.Pos.Y - a.Pos.Y
	c := a.Radius + b.Radius
	return dx*dx+dy*dy < c*c
}

// ElasticCollision applies an impulse along the contact normal to approaching bodies
// Returns false when bodies are coincident or already separating
func ElasticCollision(a, b *core.Body, restitution float64) bool {
	dx := b.Pos.X - a.Pos.X
	dy := b.Pos.Y - a.Pos.Y

	distSq := dx*dx + dy*dy
	if distSq == 0 {
		return false
	}

	invDist := 1.0 / math.Sqrt(distSq)
	nx, ny := dx*invDist, dy*invDist

	vn := (a.Vel.X-b.Vel.X)*nx + (a.Vel.Y-b.Vel.Y)*ny
	// Separating?
	if vn <= 0 {
		return false
	}

	invA := 1.0 / a.Mass
	invB := 1.0 / b.Mass
	j := (1.0 + restitution) * vn / (invA + invB)

	jInvA := j * invA
	jInvB := j * invB

	a.Vel.X -= jInvA * nx
	a.Vel.Y -= jInvA * ny
	b.Vel.X += jInvB * nx
	b.Vel.Y += jInvB * ny

	return true
}

// separationSlop is extra distance added so separated bodies no longer test as overlapping
const separationSlop = 1e-6

// SeparateOverlap pushes overlapping bodies apart along the contact normal, weighted by inverse mass
// Center of mass is preserved
func SeparateOverlap(a, b *core.Body) bool {
	dx := b.Pos.X - a.Pos.X
	dy := b.Pos.Y - a.Pos.Y

	distSq := dx*dx + dy*dy
	minDist := a.Radius + b.Radius

	if distSq >= minDist*minDist || distSq == 0 {
		return false
	}

	dist := math.Sqrt(distSq)
	overlap := minDist - dist + separationSlop
	invDist := 1.0 / dist
	nx, ny := dx*invDist, dy*invDist

	total := a.Mass + b.Mass
	sepA := overlap * (b.Mass / total)
	sepB := overlap * (a.Mass / total)

	a.Pos.X -= nx * sepA
	a.Pos.Y -= ny * sepA
	b.Pos.X += nx * sepB
	b.Pos.Y += ny * sepB

	return true
}
