package stream

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/nbody/core"
	"github.com/lixenwraith/nbody/engine"
	"github.com/lixenwraith/nbody/physics"
	"github.com/lixenwraith/nbody/vmath"
)

// ErrUnknownCommand rejects envelopes with an unrecognized type
var ErrUnknownCommand = errors.New("unknown command")

// Controller applies decoded commands to a simulation
type Controller struct {
	sim *engine.Simulation
	// reset regenerates the initial scenario; nil disables CmdReset
	reset func() error
}

// NewController creates a controller; reset may be nil
func NewController(sim *engine.Simulation, reset func() error) *Controller {
	return &Controller{sim: sim, reset: reset}
}

// Apply executes one command envelope between steps
func (c *Controller) Apply(env Envelope) error {
	switch env.T {
	case CmdPause:
		c.sim.Pause()
	case CmdResume:
		c.sim.Resume()
	case CmdClear:
		c.sim.Clear()

	case CmdReset:
		if c.reset == nil {
			return fmt.Errorf("reset not available")
		}
		return c.reset()

	case CmdSpawn:
		s, err := DecodePayload[Spawn](env)
		if err != nil {
			return err
		}
		color := s.Color
		if color == (core.RGB{}) {
			color = core.RGBWhite
		}
		_, err = c.sim.Spawn(core.Body{
			Pos:     vmath.Vec2{X: s.X, Y: s.Y},
			Vel:     vmath.Vec2{X: s.VX, Y: s.VY},
			Mass:    s.Mass,
			Radius:  s.Radius,
			Density: s.Density,
			Color:   color,
		})
		return err

	case CmdRemove:
		r, err := DecodePayload[Remove](env)
		if err != nil {
			return err
		}
		if !c.sim.Remove(r.ID) {
			return fmt.Errorf("no body %s", r.ID)
		}

	case CmdParams:
		patch, err := DecodePayload[ParamsPatch](env)
		if err != nil {
			return err
		}
		p, err := patch.apply(c.sim.Params())
		if err != nil {
			return err
		}
		return c.sim.SetParams(p)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, env.T)
	}
	return nil
}

// apply overlays non-nil fields onto p
func (pp ParamsPatch) apply(p engine.Params) (engine.Params, error) {
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.G, pp.G)
	set(&p.Softening, pp.Softening)
	set(&p.TimeStep, pp.TimeStep)
	set(&p.MaxTimeStep, pp.MaxTimeStep)
	set(&p.Restitution, pp.Restitution)
	if pp.Workers != nil {
		p.Workers = *pp.Workers
	}
	if pp.Collision != nil {
		mode, err := physics.ParseCollisionMode(*pp.Collision)
		if err != nil {
			return p, fmt.Errorf("%w: %v", engine.ErrInvalidParams, err)
		}
		p.Collision = mode
	}
	return p, nil
}
