package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/nbody/audio"
	"github.com/lixenwraith/nbody/config"
	"github.com/lixenwraith/nbody/core"
	"github.com/lixenwraith/nbody/engine"
	"github.com/lixenwraith/nbody/physics"
	"github.com/lixenwraith/nbody/scenario"
)

var (
	configFlag    = flag.String("config", "", "TOML config file")
	debugFlag     = flag.Bool("debug", false, "Write logs to logs/nbody.log and check invariants")
	bodiesFlag    = flag.Int("bodies", 0, "Number of planets (overrides config)")
	seedFlag      = flag.Uint64("seed", 0, "Generator seed (overrides config)")
	workersFlag   = flag.Int("workers", -1, "Force accumulator workers, 0 = serial (overrides config)")
	collisionFlag = flag.String("collision", "", "Collision mode: merge, bounce, none (overrides config)")
	diskFlag      = flag.Bool("disk", false, "Use the disk distribution instead of circular orbits")
	loadFlag      = flag.String("load", "", "Load a saved scenario by name instead of generating")
	muteFlag      = flag.Bool("mute", false, "Disable merge sounds")
)

func main() {
	flag.Parse()

	logFile := setupLogging(*debugFlag)
	if logFile != nil {
		defer logFile.Close()
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := applyFlags(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid flags: %v\n", err)
		os.Exit(1)
	}

	sim, err := engine.NewSimulation(cfg.Params, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create simulation: %v\n", err)
		os.Exit(1)
	}

	var cues *audio.Cues
	if cfg.Audio && !*muteFlag {
		cues = audio.NewCues()
		if err := cues.Initialize(); err != nil {
			log.Printf("Audio initialization failed: %v", err)
			cues = nil
		} else {
			defer cues.Cleanup()
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize screen: %v\n", err)
		os.Exit(1)
	}
	core.SetCrashReset(screen.Fini)
	defer screen.Fini()
	screen.EnableMouse()
	screen.Clear()

	v := newViewer(screen, sim, cfg.Scenario, scenario.NewManager(cfg.ScenarioDir), cues)
	v.debug = *debugFlag

	if *loadFlag != "" {
		v.saveName = *loadFlag
		v.load(*loadFlag)
	} else if err := v.reset(); err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Failed to generate scenario: %v\n", err)
		os.Exit(1)
	}

	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()
	v.run()
	log.Printf("exit at tick %d", sim.Stats().Tick)
}

// applyFlags overrides config with explicitly set flags
func applyFlags(cfg *config.Config) error {
	var err error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "bodies":
			cfg.Scenario.Bodies = *bodiesFlag
		case "seed":
			cfg.Scenario.Seed = *seedFlag
		case "workers":
			cfg.Params.Workers = *workersFlag
		case "collision":
			mode, perr := physics.ParseCollisionMode(*collisionFlag)
			if perr != nil {
				err = perr
				return
			}
			cfg.Params.Collision = mode
		case "disk":
			if *diskFlag {
				cfg.Scenario.Distribution = scenario.Disk
			}
		}
	})
	if err != nil {
		return err
	}
	return cfg.Validate()
}
