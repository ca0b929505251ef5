package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/lixenwraith/nbody/engine"
	"github.com/lixenwraith/nbody/parameter"
	"github.com/lixenwraith/nbody/physics"
	"github.com/lixenwraith/nbody/scenario"
)

var (
	bodiesFlag    = flag.String("bodies", "500,1000", "Comma separated planet counts")
	workersFlag   = flag.String("workers", "0,"+strconv.Itoa(runtime.NumCPU()), "Comma separated worker counts")
	durationFlag  = flag.Duration("duration", 3*time.Second, "Stepping duration per configuration")
	collisionFlag = flag.String("collision", "merge", "Collision mode: merge, bounce, none")
	seedFlag      = flag.Uint64("seed", parameter.Seed, "Generator seed")
)

type result struct {
	bodies, workers int
	steps           int
	mean, p50, p99  time.Duration
	worst           time.Duration
	finalBodies     int
}

func main() {
	flag.Parse()

	counts, err := parseList(*bodiesFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid -bodies: %v\n", err)
		os.Exit(1)
	}
	workers, err := parseList(*workersFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid -workers: %v\n", err)
		os.Exit(1)
	}
	mode, err := physics.ParseCollisionMode(*collisionFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid -collision: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("nbody step benchmark (%v per run, %s, budget %v)\n", *durationFlag, mode, parameter.FrameBudget)
	fmt.Println("══════════════════════════════════════════════════════════════════════════")
	fmt.Printf("%7s %7s %8s %10s %10s %10s %10s %7s %s\n", "Bodies", "Workers", "Steps", "Mean", "P50", "P99", "Max", "Final", "")
	fmt.Println("──────────────────────────────────────────────────────────────────────────")

	for _, n := range counts {
		for _, w := range workers {
			r, err := run(n, w, mode)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed run %d/%d: %v\n", n, w, err)
				os.Exit(1)
			}
			verdict := "ok"
			if r.p99 > parameter.FrameBudget {
				verdict = "OVER"
			}
			fmt.Printf("%7d %7d %8d %10v %10v %10v %10v %7d %s\n",
				r.bodies, r.workers, r.steps, r.mean, r.p50, r.p99, r.worst, r.finalBodies, verdict)
		}
	}

	fmt.Println("══════════════════════════════════════════════════════════════════════════")
}

func run(n, workers int, mode physics.CollisionMode) (result, error) {
	p := engine.DefaultParams()
	p.Workers = workers
	p.Collision = mode
	sim, err := engine.NewSimulation(p, nil)
	if err != nil {
		return result{}, err
	}

	s := scenario.DefaultSettings()
	s.Bodies = n
	s.Seed = *seedFlag
	bodies, err := scenario.Generate(s, p.G)
	if err != nil {
		return result{}, err
	}
	if err := sim.Reset(bodies); err != nil {
		return result{}, err
	}

	samples := make([]time.Duration, 0, 4096)
	start := time.Now()
	for len(samples) == 0 || time.Since(start) < *durationFlag {
		t0 := time.Now()
		sim.Step()
		samples = append(samples, time.Since(t0))
	}

	if err := sim.Check(); err != nil {
		return result{}, err
	}

	slices.Sort(samples)
	var total time.Duration
	for _, d := range samples {
		total += d
	}
	return result{
		bodies:      n,
		workers:     workers,
		steps:       len(samples),
		mean:        total / time.Duration(len(samples)),
		p50:         samples[len(samples)/2],
		p99:         samples[len(samples)*99/100],
		worst:       samples[len(samples)-1],
		finalBodies: sim.Len(),
	}, nil
}

func parseList(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
