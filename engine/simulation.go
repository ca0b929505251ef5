package engine

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/nbody/core"
	"github.com/lixenwraith/nbody/parameter"
	"github.com/lixenwraith/nbody/physics"
	"github.com/lixenwraith/nbody/status"
	"github.com/lixenwraith/nbody/vmath"
)

// ErrCapacity rejects spawns beyond parameter.MaxBodies
var ErrCapacity = errors.New("body capacity reached")

// Stats is the cheap per-tick summary read by status bars
type Stats struct {
	Tick     uint64
	Bodies   int
	Merges   uint64
	Largest  core.Handle
	Momentum vmath.Vec2
	StepTime time.Duration
}

// Simulation owns the store and sequences force, integration and collision phases
// All methods are safe for concurrent use; each call is serialized against Step
type Simulation struct {
	mu sync.Mutex

	params   Params
	store    *Store
	acc      []vmath.Vec2
	kernel   *physics.Accumulator
	resolver *physics.Resolver

	tick     uint64
	merges   uint64
	stepTime time.Duration
	events   []MergeEvent
	doomed   []core.Handle

	paused atomic.Bool

	// Cached metric pointers
	statusReg    *status.Registry
	statTicks    *atomic.Int64
	statBodies   *atomic.Int64
	statMerges   *atomic.Int64
	statStepUs   *status.AtomicFloat
	statStepMax  *status.AtomicFloat
	statMomentum *status.AtomicFloat
	statEnergy   *status.AtomicFloat
}

// NewSimulation creates an empty simulation; reg may be nil
func NewSimulation(p Params, reg *status.Registry) (*Simulation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	s := &Simulation{
		params:       p,
		store:        NewStore(parameter.StoreInitialCapacity),
		kernel:       physics.NewAccumulator(p.Workers, parameter.ParallelThreshold),
		resolver:     physics.NewResolver(),
		statusReg:    reg,
		statTicks:    reg.Ints.Get("sim.ticks"),
		statBodies:   reg.Ints.Get("sim.bodies"),
		statMerges:   reg.Ints.Get("sim.merges"),
		statStepUs:   reg.Floats.Get("sim.step_us"),
		statStepMax:  reg.Floats.Get("sim.step_us_max"),
		statMomentum: reg.Floats.Get("sim.momentum"),
		statEnergy:   reg.Floats.Get("sim.energy"),
	}
	return s, nil
}

// Registry returns the metrics registry the simulation writes to
func (s *Simulation) Registry() *status.Registry {
	return s.statusReg
}

// Step advances one fixed time step
func (s *Simulation) Step() []MergeEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step(s.params.TimeStep)
}

// StepElapsed advances by a frame-derived duration clamped to MaxTimeStep
// Returns nil without stepping when the duration is unusable
func (s *Simulation) StepElapsed(seconds float64) []MergeEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	dt := ClampStep(seconds, s.params.MaxTimeStep)
	if dt == 0 {
		return nil
	}
	return s.step(dt)
}

// step runs the three phases; caller holds mu
// Returned events are owned by the simulation until the next step
func (s *Simulation) step(dt float64) []MergeEvent {
	start := time.Now()
	s.events = s.events[:0]

	bodies := s.store.Bodies()
	n := len(bodies)
	if cap(s.acc) < n {
		s.acc = make([]vmath.Vec2, n)
	}
	acc := s.acc[:n]

	g := s.params.gravity()
	s.kernel.Accumulate(bodies, g, acc)
	physics.Integrate(bodies, acc, dt)

	if merges := s.resolver.Resolve(bodies, s.params.Collision, s.params.Restitution); len(merges) > 0 {
		s.applyMerges(merges)
	}

	s.tick++
	s.stepTime = time.Since(start)

	s.statTicks.Add(1)
	s.statBodies.Store(int64(s.store.Len()))
	us := float64(s.stepTime.Microseconds())
	s.statStepUs.Set(us)
	s.statStepMax.Max(us)
	p := physics.TotalMomentum(s.store.Bodies())
	s.statMomentum.Set(vmath.V2Mag(p))
	if s.tick%parameter.EnergyEveryTicks == 0 {
		s.statEnergy.Set(s.energyLocked())
	}

	return s.events
}

// applyMerges replaces consumed pairs with their fused bodies
// Dense indices from the resolver are translated to handles before the store compacts
func (s *Simulation) applyMerges(merges []physics.Merge) {
	s.doomed = s.doomed[:0]
	start := len(s.events)
	for _, m := range merges {
		a, b := s.store.HandleAt(m.A), s.store.HandleAt(m.B)
		s.doomed = append(s.doomed, a, b)
		s.events = append(s.events, MergeEvent{A: a, B: b, Mass: m.Result.Mass, Pos: m.Result.Pos})
	}
	s.store.RemoveBatch(s.doomed)
	for i, m := range merges {
		s.events[start+i].Result = s.store.Insert(m.Result)
	}
	s.merges += uint64(len(merges))
	s.statMerges.Add(int64(len(merges)))
}

// Params returns the current parameter set
func (s *Simulation) Params() Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// SetParams validates and applies p before the next step
func (s *Simulation) SetParams(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Workers != s.params.Workers {
		s.kernel = physics.NewAccumulator(p.Workers, parameter.ParallelThreshold)
	}
	s.params = p
	return nil
}

// UpdateParams applies fn to a copy of the current set and validates the result
func (s *Simulation) UpdateParams(fn func(*Params)) error {
	s.mu.Lock()
	p := s.params
	s.mu.Unlock()
	fn(&p)
	return s.SetParams(p)
}

// Reset replaces every body; on error the store is left unchanged
func (s *Simulation) Reset(bodies []core.Body) error {
	if len(bodies) > parameter.MaxBodies {
		return fmt.Errorf("%w: %d bodies exceeds %d", ErrCapacity, len(bodies), parameter.MaxBodies)
	}
	valid := make([]core.Body, len(bodies))
	for i, b := range bodies {
		vb, err := ValidateBody(b)
		if err != nil {
			return fmt.Errorf("body %d: %w", i, err)
		}
		valid[i] = vb
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Clear()
	for _, b := range valid {
		s.store.Insert(b)
	}
	s.tick = 0
	s.merges = 0
	s.events = s.events[:0]
	s.statBodies.Store(int64(s.store.Len()))
	return nil
}

// Spawn inserts one body between steps
func (s *Simulation) Spawn(b core.Body) (core.Handle, error) {
	vb, err := ValidateBody(b)
	if err != nil {
		return core.NoHandle, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store.Len() >= parameter.MaxBodies {
		return core.NoHandle, ErrCapacity
	}
	h := s.store.Insert(vb)
	s.statBodies.Store(int64(s.store.Len()))
	return h, nil
}

// Remove destroys one body; false for stale or unknown handles
func (s *Simulation) Remove(h core.Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.store.Remove(h)
	s.statBodies.Store(int64(s.store.Len()))
	return ok
}

// Clear destroys every body
func (s *Simulation) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Clear()
	s.statBodies.Store(0)
}

// Get returns a copy of the body for h
func (s *Simulation) Get(h core.Handle) (core.Body, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Get(h)
}

// Len returns the live body count
func (s *Simulation) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Len()
}

// Pause stops scheduled stepping; direct Step calls still advance
func (s *Simulation) Pause() { s.paused.Store(true) }

// Resume re-enables scheduled stepping
func (s *Simulation) Resume() { s.paused.Store(false) }

// Paused reports the pause flag
func (s *Simulation) Paused() bool { return s.paused.Load() }

// TogglePause flips the pause flag and returns the new state
func (s *Simulation) TogglePause() bool {
	for {
		old := s.paused.Load()
		if s.paused.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Largest returns the heaviest non-sun body, or NoHandle
func (s *Simulation) Largest() core.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.largestLocked()
}

func (s *Simulation) largestLocked() core.Handle {
	best := core.NoHandle
	mass := 0.0
	s.store.Each(func(h core.Handle, b *core.Body) {
		if !b.Sun && b.Mass > mass {
			best, mass = h, b.Mass
		}
	})
	return best
}

// Check reports the first body violating the finite/positive invariants
func (s *Simulation) Check() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.store.Bodies() {
		if !b.Finite() || b.Mass <= 0 || b.Radius <= 0 {
			return fmt.Errorf("%w: %s at tick %d: pos=%v vel=%v mass=%v radius=%v",
				ErrInvalidBody, s.store.HandleAt(i), s.tick, b.Pos, b.Vel, b.Mass, b.Radius)
		}
	}
	return nil
}

// Stats returns the cheap summary of the last step
func (s *Simulation) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Tick:     s.tick,
		Bodies:   s.store.Len(),
		Merges:   s.merges,
		Largest:  s.largestLocked(),
		Momentum: physics.TotalMomentum(s.store.Bodies()),
		StepTime: s.stepTime,
	}
}

// Energy returns kinetic plus softened potential energy, O(N²)
func (s *Simulation) Energy() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.energyLocked()
}

func (s *Simulation) energyLocked() float64 {
	bodies := s.store.Bodies()
	e := physics.KineticEnergy(bodies) + physics.PotentialEnergy(bodies, s.params.gravity())
	if math.IsNaN(e) {
		return 0
	}
	return e
}

// Bodies returns a copy of every body in dense order
func (s *Simulation) Bodies() []core.Body {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Body(nil), s.store.Bodies()...)
}

// Snapshot copies the store for a renderer
func (s *Simulation) Snapshot() Snapshot {
	var snap Snapshot
	s.SnapshotInto(&snap)
	return snap
}

// SnapshotInto reuses snap.Bodies capacity to avoid per-frame allocation
func (s *Simulation) SnapshotInto(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap.Tick = s.tick
	snap.Paused = s.paused.Load()
	snap.Params = s.params
	snap.Largest = s.largestLocked()
	snap.Bodies = snap.Bodies[:0]
	bodies := s.store.Bodies()
	for i := range bodies {
		b := &bodies[i]
		snap.Bodies = append(snap.Bodies, BodyView{
			Handle: s.store.HandleAt(i),
			Pos:    b.Pos,
			Vel:    b.Vel,
			Mass:   b.Mass,
			Radius: b.Radius,
			Color:  b.Color,
			Sun:    b.Sun,
		})
	}
}
