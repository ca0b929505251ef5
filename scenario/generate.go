// Package scenario builds initial conditions and persists simulation state as TOML
package scenario

import (
	"fmt"
	"math"

	"github.com/lixenwraith/nbody/core"
	"github.com/lixenwraith/nbody/parameter"
	"github.com/lixenwraith/nbody/vmath"
)

// Distribution selects how planets are placed around the sun
type Distribution uint8

const (
	// Orbits places planets on circular orbits around a central sun
	Orbits Distribution = iota
	// Disk scatters planets uniformly over an annulus with random velocities
	Disk
)

func (d Distribution) String() string {
	switch d {
	case Orbits:
		return "orbits"
	case Disk:
		return "disk"
	}
	return fmt.Sprintf("distribution(%d)", uint8(d))
}

// MarshalText encodes the distribution by name
func (d Distribution) MarshalText() ([]byte, error) {
	switch d {
	case Orbits, Disk:
		return []byte(d.String()), nil
	}
	return nil, fmt.Errorf("unknown distribution %d", uint8(d))
}

// UnmarshalText decodes a distribution name
func (d *Distribution) UnmarshalText(text []byte) error {
	switch string(text) {
	case "orbits", "":
		*d = Orbits
	case "disk":
		*d = Disk
	default:
		return fmt.Errorf("unknown distribution %q", text)
	}
	return nil
}

// Settings describes a generated scenario
type Settings struct {
	Bodies       int          `toml:"bodies"`
	Seed         uint64       `toml:"seed"`
	Distribution Distribution `toml:"distribution"`
	Sun          bool         `toml:"sun"`

	SunRadius  float64 `toml:"sun_radius"`
	SunDensity float64 `toml:"sun_density"`

	PlanetRadiusMin  float64 `toml:"planet_radius_min"`
	PlanetRadiusMax  float64 `toml:"planet_radius_max"`
	PlanetDensityMin float64 `toml:"planet_density_min"`
	PlanetDensityMax float64 `toml:"planet_density_max"`
	OrbitRadiusMin   float64 `toml:"orbit_radius_min"`
	OrbitRadiusMax   float64 `toml:"orbit_radius_max"`

	// DiskSpeedMax bounds random speeds of the disk distribution
	DiskSpeedMax float64 `toml:"disk_speed_max"`
}

// DefaultSettings returns a sun with parameter.Bodies planets on circular orbits
func DefaultSettings() Settings {
	return Settings{
		Bodies:           parameter.Bodies,
		Seed:             parameter.Seed,
		Distribution:     Orbits,
		Sun:              true,
		SunRadius:        parameter.SunRadius,
		SunDensity:       parameter.SunDensity,
		PlanetRadiusMin:  parameter.PlanetRadiusMin,
		PlanetRadiusMax:  parameter.PlanetRadiusMax,
		PlanetDensityMin: parameter.PlanetDensityMin,
		PlanetDensityMax: parameter.PlanetDensityMax,
		OrbitRadiusMin:   parameter.OrbitRadiusMin,
		OrbitRadiusMax:   parameter.OrbitRadiusMax,
		DiskSpeedMax:     parameter.DiskSpeedMax,
	}
}

// Validate checks ranges before generation
func (s Settings) Validate() error {
	switch {
	case s.Bodies < 0 || s.Bodies > parameter.MaxBodies:
		return fmt.Errorf("bodies %d out of range [0,%d]", s.Bodies, parameter.MaxBodies)
	case s.Sun && (s.SunRadius <= 0 || s.SunDensity <= 0):
		return fmt.Errorf("sun radius %v and density %v must be > 0", s.SunRadius, s.SunDensity)
	case s.PlanetRadiusMin <= 0 || s.PlanetRadiusMax < s.PlanetRadiusMin:
		return fmt.Errorf("planet radius range [%v,%v] invalid", s.PlanetRadiusMin, s.PlanetRadiusMax)
	case s.PlanetDensityMin <= 0 || s.PlanetDensityMax < s.PlanetDensityMin:
		return fmt.Errorf("planet density range [%v,%v] invalid", s.PlanetDensityMin, s.PlanetDensityMax)
	case s.OrbitRadiusMin <= 0 || s.OrbitRadiusMax < s.OrbitRadiusMin:
		return fmt.Errorf("orbit radius range [%v,%v] invalid", s.OrbitRadiusMin, s.OrbitRadiusMax)
	case s.DiskSpeedMax < 0:
		return fmt.Errorf("disk speed %v must be >= 0", s.DiskSpeedMax)
	}
	return nil
}

// Generate builds the bodies for s; g is the gravitational constant used for orbital speeds
// Output is fully determined by s and g
func Generate(s Settings, g float64) ([]core.Body, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	rng := vmath.NewFastRand(s.Seed)
	bodies := make([]core.Body, 0, s.Bodies+1)

	sunMass := 0.0
	if s.Sun {
		sun := core.NewBody(vmath.Vec2{}, vmath.Vec2{}, s.SunRadius, s.SunDensity)
		sun.Color = core.RGBYellow
		sun.Sun = true
		sunMass = sun.Mass
		bodies = append(bodies, sun)
	}

	for i := 0; i < s.Bodies; i++ {
		radius := rng.Range(s.PlanetRadiusMin, s.PlanetRadiusMax)
		density := rng.Range(s.PlanetDensityMin, s.PlanetDensityMax)
		orbit := rng.Range(s.OrbitRadiusMin, s.OrbitRadiusMax)
		angle := rng.Angle()
		sin, cos := math.Sincos(angle)
		pos := vmath.Vec2{X: orbit * cos, Y: orbit * sin}

		var vel vmath.Vec2
		switch s.Distribution {
		case Orbits:
			speed := math.Sqrt(g * sunMass / orbit)
			vel = vmath.Vec2{X: -speed * sin, Y: speed * cos}
		case Disk:
			heading := rng.Angle()
			speed := rng.Range(0, s.DiskSpeedMax)
			hs, hc := math.Sincos(heading)
			vel = vmath.Vec2{X: speed * hc, Y: speed * hs}
		}

		bodies = append(bodies, core.NewBody(pos, vel, radius, density))
	}

	return bodies, nil
}
