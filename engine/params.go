package engine

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/nbody/core"
	"github.com/lixenwraith/nbody/parameter"
	"github.com/lixenwraith/nbody/physics"
	"github.com/lixenwraith/nbody/vmath"
)

var (
	// ErrInvalidParams rejects a parameter set before it reaches the step
	ErrInvalidParams = errors.New("invalid simulation parameters")
	// ErrInvalidBody rejects a body with non-positive mass or radius or non-finite state
	ErrInvalidBody = errors.New("invalid body")
)

// Params is the parameter set read by every step
// Mutated only between steps through Simulation.SetParams
type Params struct {
	G           float64               `toml:"g" json:"g"`
	Softening   float64               `toml:"softening" json:"softening"`
	TimeStep    float64               `toml:"time_step" json:"time_step"`
	MaxTimeStep float64               `toml:"max_time_step" json:"max_time_step"`
	Collision   physics.CollisionMode `toml:"collision" json:"collision"`
	Restitution float64               `toml:"restitution" json:"restitution"`
	Workers     int                   `toml:"workers" json:"workers"`
}

// DefaultParams returns the tuned defaults from package parameter
func DefaultParams() Params {
	mode, _ := physics.ParseCollisionMode(parameter.CollisionMode)
	return Params{
		G:           parameter.GravitationalConstant,
		Softening:   parameter.Softening,
		TimeStep:    parameter.TimeStep,
		MaxTimeStep: parameter.MaxTimeStep,
		Collision:   mode,
		Restitution: parameter.Restitution,
		Workers:     parameter.Workers,
	}
}

// Validate checks every field; the returned error wraps ErrInvalidParams
// Zero softening is only accepted with collisions disabled, where the contact floor bounds the force
func (p Params) Validate() error {
	switch {
	case !vmath.Finite(p.G) || p.G < 0:
		return fmt.Errorf("%w: gravitational constant %v must be finite and >= 0", ErrInvalidParams, p.G)
	case !vmath.Finite(p.Softening) || p.Softening < 0:
		return fmt.Errorf("%w: softening %v must be finite and >= 0", ErrInvalidParams, p.Softening)
	case p.Softening == 0 && p.Collision != physics.CollideNone:
		return fmt.Errorf("%w: zero softening requires collision mode none", ErrInvalidParams)
	case !vmath.Finite(p.TimeStep) || p.TimeStep <= 0:
		return fmt.Errorf("%w: time step %v must be > 0", ErrInvalidParams, p.TimeStep)
	case !vmath.Finite(p.MaxTimeStep) || (p.MaxTimeStep != 0 && p.MaxTimeStep < p.TimeStep):
		return fmt.Errorf("%w: max time step %v must be 0 or >= time step %v", ErrInvalidParams, p.MaxTimeStep, p.TimeStep)
	case !vmath.Finite(p.Restitution) || p.Restitution < 0 || p.Restitution > 1:
		return fmt.Errorf("%w: restitution %v must be in [0,1]", ErrInvalidParams, p.Restitution)
	case p.Workers < 0:
		return fmt.Errorf("%w: workers %d must be >= 0", ErrInvalidParams, p.Workers)
	}
	if _, err := p.Collision.MarshalText(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}

// gravity projects the parameter set onto the force kernel inputs
func (p Params) gravity() physics.Gravity {
	return physics.Gravity{
		G:            p.G,
		Softening:    p.Softening,
		ContactFloor: p.Collision == physics.CollideNone,
	}
}

// ClampStep turns a frame-derived duration into a usable step
// Non-finite or non-positive input yields 0; values above max are clamped (max <= 0 disables clamping)
func ClampStep(dt, max float64) float64 {
	if !vmath.Finite(dt) || dt <= 0 {
		return 0
	}
	if max > 0 && dt > max {
		return max
	}
	return dt
}

// ValidateBody normalizes and checks a body entering the store
// Missing density defaults to parameter.DefaultDensity; a missing mass or radius is derived from the other
func ValidateBody(b core.Body) (core.Body, error) {
	if !b.Finite() {
		return b, fmt.Errorf("%w: non-finite position or velocity", ErrInvalidBody)
	}
	if !vmath.Finite(b.Mass) || !vmath.Finite(b.Radius) || !vmath.Finite(b.Density) {
		return b, fmt.Errorf("%w: non-finite mass, radius or density", ErrInvalidBody)
	}
	if b.Mass < 0 || b.Radius < 0 || b.Density < 0 {
		return b, fmt.Errorf("%w: negative mass %v, radius %v or density %v", ErrInvalidBody, b.Mass, b.Radius, b.Density)
	}
	if b.Density == 0 {
		b.Density = parameter.DefaultDensity
	}
	switch {
	case b.Mass == 0 && b.Radius > 0:
		b.Mass = vmath.MassFromRadius(b.Radius, b.Density)
	case b.Radius == 0 && b.Mass > 0:
		b.Radius = vmath.RadiusFromMass(b.Mass, b.Density)
	}
	if b.Mass <= 0 || b.Radius <= 0 {
		return b, fmt.Errorf("%w: mass %v and radius %v must be > 0", ErrInvalidBody, b.Mass, b.Radius)
	}
	return b, nil
}
