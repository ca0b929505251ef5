package scenario

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/lixenwraith/nbody/core"
	"github.com/lixenwraith/nbody/engine"
	"github.com/lixenwraith/nbody/parameter"
	"github.com/lixenwraith/nbody/vmath"
)

// ErrUnsupportedVersion rejects files written by an incompatible schema
var ErrUnsupportedVersion = errors.New("unsupported scenario version")

// File is the serializable simulation state
type File struct {
	Version int           `toml:"version"`
	Tick    uint64        `toml:"tick"`
	Params  engine.Params `toml:"params"`
	Bodies  []BodyDTO     `toml:"bodies"`
}

// BodyDTO is a serializable body; color is "#rrggbb"
type BodyDTO struct {
	X       float64 `toml:"x"`
	Y       float64 `toml:"y"`
	VX      float64 `toml:"vx"`
	VY      float64 `toml:"vy"`
	Mass    float64 `toml:"mass"`
	Radius  float64 `toml:"radius"`
	Density float64 `toml:"density"`
	Color   string  `toml:"color,omitempty"`
	Sun     bool    `toml:"sun,omitempty"`
}

// FromSimulation captures params and bodies between steps
func FromSimulation(sim *engine.Simulation) File {
	return NewFile(sim.Params(), sim.Bodies(), sim.Stats().Tick)
}

// NewFile converts bodies to DTOs
func NewFile(p engine.Params, bodies []core.Body, tick uint64) File {
	f := File{
		Version: parameter.ScenarioVersion,
		Tick:    tick,
		Params:  p,
		Bodies:  make([]BodyDTO, len(bodies)),
	}
	for i, b := range bodies {
		f.Bodies[i] = BodyDTO{
			X:       b.Pos.X,
			Y:       b.Pos.Y,
			VX:      b.Vel.X,
			VY:      b.Vel.Y,
			Mass:    b.Mass,
			Radius:  b.Radius,
			Density: b.Density,
			Color:   formatColor(b.Color),
			Sun:     b.Sun,
		}
	}
	return f
}

// Validate checks version and params
func (f File) Validate() error {
	if f.Version != parameter.ScenarioVersion {
		return fmt.Errorf("%w: %d (want %d)", ErrUnsupportedVersion, f.Version, parameter.ScenarioVersion)
	}
	return f.Params.Validate()
}

// ToBodies converts and validates every body
func (f File) ToBodies() ([]core.Body, error) {
	bodies := make([]core.Body, len(f.Bodies))
	for i, d := range f.Bodies {
		color := core.RGBWhite
		if d.Color != "" {
			c, err := parseColor(d.Color)
			if err != nil {
				return nil, fmt.Errorf("body %d: %w", i, err)
			}
			color = c
		}
		b, err := engine.ValidateBody(core.Body{
			Pos:     vmath.Vec2{X: d.X, Y: d.Y},
			Vel:     vmath.Vec2{X: d.VX, Y: d.VY},
			Mass:    d.Mass,
			Radius:  d.Radius,
			Density: d.Density,
			Color:   color,
			Sun:     d.Sun,
		})
		if err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
		bodies[i] = b
	}
	return bodies, nil
}

// Apply validates f and replaces the simulation's params and bodies
// Nothing is applied when any part fails validation
func Apply(sim *engine.Simulation, f File) error {
	if err := f.Validate(); err != nil {
		return err
	}
	bodies, err := f.ToBodies()
	if err != nil {
		return err
	}
	if err := sim.SetParams(f.Params); err != nil {
		return err
	}
	return sim.Reset(bodies)
}

func formatColor(c core.RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func parseColor(s string) (core.RGB, error) {
	if len(s) != 7 || s[0] != '#' {
		return core.RGB{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return core.RGB{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return core.RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}
