package parameter

import "time"

// Simulation loop timing
const (
	// FrameUpdateInterval is the rendering frame rate interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// TickInterval is the simulation step interval driven by the scheduler
	TickInterval = 16 * time.Millisecond

	// FrameBudget is the per-step wall time target at 60 FPS
	FrameBudget = time.Second / 60
)

// Body store sizing
const (
	// StoreInitialCapacity is the slot capacity preallocated by a new store
	StoreInitialCapacity = 1024

	// MaxBodies caps scenario generation and spawning
	MaxBodies = 10000
)

// Workers is the default force accumulator parallelism (0 = serial)
const Workers = 0

// ParallelThreshold is the body count below which the parallel path falls back to serial
const ParallelThreshold = 256

// EnergyEveryTicks is the tick period of the O(N²) total energy gauge
const EnergyEveryTicks = 30
