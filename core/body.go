package core

import "github.com/lixenwraith/nbody/vmath"

// Body is a single point mass
// Radius is derived from Mass and Density and only used for collision and display
type Body struct {
	Pos     vmath.Vec2
	Vel     vmath.Vec2
	Mass    float64
	Radius  float64
	Density float64
	Color   RGB
	Sun     bool
}

// NewBody builds a body of given radius and density, deriving mass
func NewBody(pos, vel vmath.Vec2, radius, density float64) Body {
	return Body{
		Pos:     pos,
		Vel:     vel,
		Mass:    vmath.MassFromRadius(radius, density),
		Radius:  radius,
		Density: density,
		Color:   RGBWhite,
	}
}

// Momentum returns m·v
func (b *Body) Momentum() vmath.Vec2 {
	return vmath.V2Scale(b.Vel, b.Mass)
}

// KineticEnergy returns ½·m·|v|²
func (b *Body) KineticEnergy() float64 {
	return 0.5 * b.Mass * vmath.V2MagSq(b.Vel)
}

// Finite reports whether position and velocity hold no NaN/Inf
func (b *Body) Finite() bool {
	return vmath.V2Finite(b.Pos) && vmath.V2Finite(b.Vel)
}
