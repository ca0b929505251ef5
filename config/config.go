// Package config resolves runtime settings from defaults, a TOML file and the environment
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/lixenwraith/nbody/engine"
	"github.com/lixenwraith/nbody/parameter"
	"github.com/lixenwraith/nbody/physics"
	"github.com/lixenwraith/nbody/scenario"
)

// Environment variable names
const (
	EnvG         = "NBODY_G"
	EnvTimeStep  = "NBODY_DT"
	EnvSoftening = "NBODY_SOFTENING"
	EnvBodies    = "NBODY_BODIES"
	EnvSeed      = "NBODY_SEED"
	EnvCollision = "NBODY_COLLISION"
	EnvWorkers   = "NBODY_WORKERS"
	EnvAddr      = "NBODY_ADDR"
)

// Config is the merged runtime configuration
type Config struct {
	Params      engine.Params     `toml:"params"`
	Scenario    scenario.Settings `toml:"scenario"`
	Addr        string            `toml:"addr"`
	ScenarioDir string            `toml:"scenario_dir"`
	Audio       bool              `toml:"audio"`
}

// Default returns the compiled-in configuration
func Default() Config {
	return Config{
		Params:      engine.DefaultParams(),
		Scenario:    scenario.DefaultSettings(),
		Addr:        parameter.StreamAddress,
		ScenarioDir: parameter.ScenarioDir,
		Audio:       true,
	}
}

// Load merges defaults, the TOML file at path (optional, empty skips) and environment overrides
// A .env file in the working directory is read first if present; real environment variables win over it
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, fmt.Errorf("read config %s: unknown key %q", path, undecoded[0].String())
		}
	}

	if err := LoadDotEnv(".env"); err != nil {
		return cfg, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadDotEnv loads a dotenv file into the process environment; a missing file is not an error
func LoadDotEnv(filename string) error {
	if _, err := os.Stat(filename); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(filename); err != nil {
		return fmt.Errorf("load %s: %w", filename, err)
	}
	return nil
}

// GetEnvVariable returns the value of v or an error when unset or empty
func GetEnvVariable(v string) (string, error) {
	if v == "" {
		return "", fmt.Errorf("input param empty")
	}
	b := os.Getenv(v)
	if b == "" {
		return "", fmt.Errorf("failed to get variable for %s", v)
	}
	return b, nil
}

// ApplyEnv overrides cfg fields from NBODY_* variables
func ApplyEnv(cfg *Config) error {
	floats := []struct {
		name string
		dst  *float64
	}{
		{EnvG, &cfg.Params.G},
		{EnvTimeStep, &cfg.Params.TimeStep},
		{EnvSoftening, &cfg.Params.Softening},
	}
	for _, f := range floats {
		s, err := GetEnvVariable(f.name)
		if err != nil {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = v
	}

	if s, err := GetEnvVariable(EnvBodies); err == nil {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvBodies, err)
		}
		cfg.Scenario.Bodies = n
	}
	if s, err := GetEnvVariable(EnvSeed); err == nil {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		cfg.Scenario.Seed = n
	}
	if s, err := GetEnvVariable(EnvWorkers); err == nil {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		cfg.Params.Workers = n
	}
	if s, err := GetEnvVariable(EnvCollision); err == nil {
		mode, err := physics.ParseCollisionMode(s)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCollision, err)
		}
		cfg.Params.Collision = mode
	}
	if s, err := GetEnvVariable(EnvAddr); err == nil {
		cfg.Addr = s
	}
	return nil
}

// Validate checks params and scenario settings
func (c Config) Validate() error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	if err := c.Scenario.Validate(); err != nil {
		return fmt.Errorf("scenario: %w", err)
	}
	return nil
}
