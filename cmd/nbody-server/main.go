package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lixenwraith/nbody/config"
	"github.com/lixenwraith/nbody/engine"
	"github.com/lixenwraith/nbody/parameter"
	"github.com/lixenwraith/nbody/scenario"
	"github.com/lixenwraith/nbody/stream"
)

var (
	configFlag = flag.String("config", "", "TOML config file")
	addrFlag   = flag.String("addr", "", "Listen address (overrides config)")
	everyFlag  = flag.Int("every", parameter.StreamEveryTicks, "Broadcast a snapshot every N ticks")
	loadFlag   = flag.String("load", "", "Load a saved scenario by name instead of generating")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *addrFlag != "" {
		cfg.Addr = *addrFlag
	}

	sim, err := engine.NewSimulation(cfg.Params, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create simulation: %v\n", err)
		os.Exit(1)
	}

	reset := func() error {
		bodies, err := scenario.Generate(cfg.Scenario, sim.Params().G)
		if err != nil {
			return err
		}
		return sim.Reset(bodies)
	}

	if *loadFlag != "" {
		f, err := scenario.NewManager(cfg.ScenarioDir).Load(*loadFlag)
		if err == nil {
			err = scenario.Apply(sim, f)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load scenario %s: %v\n", *loadFlag, err)
			os.Exit(1)
		}
		log.Printf("scenario loaded: %s (%d bodies)", *loadFlag, sim.Len())
	} else if err := reset(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate scenario: %v\n", err)
		os.Exit(1)
	}

	tickHz := int(time.Second / parameter.TickInterval)
	hub := stream.NewHub(sim, reset, tickHz)
	hub.SetEveryTicks(*everyFlag)

	sched, _ := engine.NewScheduler(sim, nil, parameter.TickInterval, hub.OnTick)

	mux := http.NewServeMux()
	mux.Handle(parameter.StreamPath, hub)
	mux.Handle(parameter.StatsPath, sim.Registry().Handler())
	srv := &http.Server{Addr: cfg.Addr, Handler: mux, ReadHeaderTimeout: parameter.StreamWriteTimeout}

	sched.Start()
	defer sched.Stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s (ws endpoint: %s), %d bodies", cfg.Addr, parameter.StreamPath, sim.Len())
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutting down on %v", sig)
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Printf("stopped at tick %d, %d merges", sim.Stats().Tick, sim.Stats().Merges)
}
