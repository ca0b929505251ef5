package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/lixenwraith/nbody/core"
	"github.com/lixenwraith/nbody/physics"
	"github.com/lixenwraith/nbody/status"
	"github.com/lixenwraith/nbody/vmath"
)

func newTestSim(t testing.TB, p Params) *Simulation {
	t.Helper()
	sim, err := NewSimulation(p, nil)
	if err != nil {
		t.Fatalf("Failed to create simulation: %v", err)
	}
	return sim
}

func orbitBodies(n int, seed uint64) []core.Body {
	rng := vmath.NewFastRand(seed)
	bodies := make([]core.Body, 0, n)
	for i := 0; i < n; i++ {
		r := rng.Range(100, 1000)
		a := rng.Angle()
		pos := vmath.Vec2{X: r * math.Cos(a), Y: r * math.Sin(a)}
		vel := vmath.V2Scale(vmath.V2Perp(vmath.V2Normalize(pos)), rng.Range(0, 2))
		bodies = append(bodies, core.NewBody(pos, vel, rng.Range(0.5, 3.5), rng.Range(0.5, 2)))
	}
	return bodies
}

func TestSimulationMergeConservation(t *testing.T) {
	sim := newTestSim(t, DefaultParams())
	a := core.Body{Pos: vmath.Vec2{X: 1}, Mass: 2, Radius: 1.5, Density: 1}
	b := core.Body{Pos: vmath.Vec2{X: -1}, Mass: 2, Radius: 1.5, Density: 1}
	ha, _ := sim.Spawn(a)
	hb, _ := sim.Spawn(b)

	events := sim.Step()
	if len(events) != 1 {
		t.Fatalf("Expected 1 merge, got %d", len(events))
	}
	ev := events[0]
	if ev.A != ha || ev.B != hb {
		t.Errorf("Expected merge of %s and %s, got %s and %s", ha, hb, ev.A, ev.B)
	}
	if sim.Len() != 1 {
		t.Fatalf("Expected 1 body after merge, got %d", sim.Len())
	}

	merged, ok := sim.Get(ev.Result)
	if !ok {
		t.Fatal("Expected merged handle to resolve")
	}
	if merged.Mass != 4 {
		t.Errorf("Expected mass 4, got %v", merged.Mass)
	}
	if merged.Pos.X != 0 || merged.Pos.Y != 0 {
		t.Errorf("Expected centroid at origin, got %v", merged.Pos)
	}
	if merged.Vel.X != 0 || merged.Vel.Y != 0 {
		t.Errorf("Expected zero velocity, got %v", merged.Vel)
	}
	if merged.Radius <= 1.5 {
		t.Errorf("Expected radius above 1.5, got %v", merged.Radius)
	}

	if _, ok := sim.Get(ha); ok {
		t.Error("Expected consumed handle A stale")
	}
	if _, ok := sim.Get(hb); ok {
		t.Error("Expected consumed handle B stale")
	}
	if sim.Remove(ha) {
		t.Error("Expected remove of stale handle to fail")
	}
}

func TestSimulationLoneBodyStationary(t *testing.T) {
	sim := newTestSim(t, DefaultParams())
	h, err := sim.Spawn(core.NewBody(vmath.Vec2{X: 3, Y: 4}, vmath.Vec2{}, 1, 1))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 100; i++ {
		sim.Step()
	}
	b, _ := sim.Get(h)
	if b.Pos.X != 3 || b.Pos.Y != 4 {
		t.Errorf("Expected body fixed at (3,4), got %v", b.Pos)
	}
}

func TestSimulationDeterminism(t *testing.T) {
	bodies := orbitBodies(200, 42)
	p := DefaultParams()

	run := func() []core.Body {
		sim := newTestSim(t, p)
		if err := sim.Reset(bodies); err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 50; i++ {
			sim.Step()
		}
		return sim.Bodies()
	}

	first, second := run(), run()
	if len(first) != len(second) {
		t.Fatalf("Expected equal body counts, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("Expected identical body %d, got %+v and %+v", i, first[i], second[i])
		}
	}
}

func TestSimulationTwoBodyMomentum(t *testing.T) {
	p := DefaultParams()
	p.Collision = physics.CollideNone
	sim := newTestSim(t, p)
	sim.Spawn(core.Body{Pos: vmath.Vec2{X: -10}, Vel: vmath.Vec2{Y: 1}, Mass: 5, Radius: 1})
	sim.Spawn(core.Body{Pos: vmath.Vec2{X: 10}, Vel: vmath.Vec2{Y: -0.5}, Mass: 3, Radius: 1})

	before := physics.TotalMomentum(sim.Bodies())
	for i := 0; i < 1000; i++ {
		sim.Step()
	}
	after := physics.TotalMomentum(sim.Bodies())
	if d := vmath.V2Mag(vmath.V2Sub(after, before)); d > 1e-9 {
		t.Errorf("Expected momentum conserved, drift %v", d)
	}
	if err := sim.Check(); err != nil {
		t.Errorf("Expected finite state, got %v", err)
	}
}

func TestSimulationResetRejectsInvalid(t *testing.T) {
	sim := newTestSim(t, DefaultParams())
	sim.Spawn(core.NewBody(vmath.Vec2{}, vmath.Vec2{}, 1, 1))

	err := sim.Reset([]core.Body{core.NewBody(vmath.Vec2{}, vmath.Vec2{}, 1, 1), {Mass: -1}})
	if !errors.Is(err, ErrInvalidBody) {
		t.Errorf("Expected ErrInvalidBody, got %v", err)
	}
	if sim.Len() != 1 {
		t.Errorf("Expected store unchanged with 1 body, got %d", sim.Len())
	}
}

func TestSimulationSetParams(t *testing.T) {
	sim := newTestSim(t, DefaultParams())
	p := sim.Params()
	p.G = -1
	if err := sim.SetParams(p); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("Expected ErrInvalidParams, got %v", err)
	}
	if sim.Params().G != DefaultParams().G {
		t.Error("Expected rejected params not applied")
	}

	if err := sim.UpdateParams(func(p *Params) { p.G *= 2; p.Workers = 4 }); err != nil {
		t.Fatalf("Expected update to succeed, got %v", err)
	}
	if got := sim.Params(); got.G != 2*DefaultParams().G || got.Workers != 4 {
		t.Errorf("Expected doubled G with 4 workers, got %+v", got)
	}
}

func TestSimulationStepElapsed(t *testing.T) {
	p := DefaultParams()
	sim := newTestSim(t, p)
	h, _ := sim.Spawn(core.NewBody(vmath.Vec2{}, vmath.Vec2{X: 1}, 1, 1))

	sim.StepElapsed(10) // clamped to MaxTimeStep
	b, _ := sim.Get(h)
	if math.Abs(b.Pos.X-p.MaxTimeStep) > 1e-12 {
		t.Errorf("Expected x=%v after clamped step, got %v", p.MaxTimeStep, b.Pos.X)
	}
	if sim.StepElapsed(-1) != nil || sim.Stats().Tick != 1 {
		t.Error("Expected negative duration to skip the step")
	}
}

func TestSimulationPauseAndLargest(t *testing.T) {
	sim := newTestSim(t, DefaultParams())
	sun := core.NewBody(vmath.Vec2{}, vmath.Vec2{}, 30, 5)
	sun.Sun = true
	sim.Spawn(sun)
	sim.Spawn(core.NewBody(vmath.Vec2{X: 200}, vmath.Vec2{}, 1, 1))
	big, _ := sim.Spawn(core.NewBody(vmath.Vec2{X: -300}, vmath.Vec2{}, 3, 1))

	if got := sim.Largest(); got != big {
		t.Errorf("Expected largest non-sun %s, got %s", big, got)
	}

	if !sim.TogglePause() || !sim.Paused() {
		t.Error("Expected paused after toggle")
	}
	sim.Resume()
	if sim.Paused() {
		t.Error("Expected running after resume")
	}
}

func TestSimulationSnapshotAndMetrics(t *testing.T) {
	reg := status.NewRegistry()
	sim, err := NewSimulation(DefaultParams(), reg)
	if err != nil {
		t.Fatal(err)
	}
	if err := sim.Reset(orbitBodies(10, 7)); err != nil {
		t.Fatal(err)
	}
	sim.Step()
	sim.Step()

	snap := sim.Snapshot()
	if snap.Tick != 2 || len(snap.Bodies) != 10 {
		t.Errorf("Expected tick 2 with 10 bodies, got tick %d with %d", snap.Tick, len(snap.Bodies))
	}
	for _, bv := range snap.Bodies {
		if b, ok := sim.Get(bv.Handle); !ok || b.Pos != bv.Pos {
			t.Errorf("Expected snapshot entry %s to match store", bv.Handle)
		}
	}

	snap.Bodies[0].Pos.X = 1e9
	if sim.Snapshot().Bodies[0].Pos.X == 1e9 {
		t.Error("Expected snapshot to be a copy")
	}

	if got := reg.Ints.Get("sim.ticks").Load(); got != 2 {
		t.Errorf("Expected sim.ticks 2, got %d", got)
	}
	if got := reg.Ints.Get("sim.bodies").Load(); got != 10 {
		t.Errorf("Expected sim.bodies 10, got %d", got)
	}
}

func TestSimulationClear(t *testing.T) {
	sim := newTestSim(t, DefaultParams())
	h, _ := sim.Spawn(core.NewBody(vmath.Vec2{}, vmath.Vec2{}, 1, 1))
	sim.Clear()
	if sim.Len() != 0 || sim.Remove(h) {
		t.Error("Expected empty store with stale handles after clear")
	}
	if events := sim.Step(); len(events) != 0 {
		t.Errorf("Expected no events on empty step, got %d", len(events))
	}
}

func benchmarkStep(b *testing.B, n, workers int) {
	p := DefaultParams()
	p.Collision = physics.CollideNone
	p.Workers = workers
	sim := newTestSim(b, p)
	if err := sim.Reset(orbitBodies(n, 1)); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sim.Step()
	}
}

func BenchmarkStep500(b *testing.B)          { benchmarkStep(b, 500, 0) }
func BenchmarkStep1000(b *testing.B)         { benchmarkStep(b, 1000, 0) }
func BenchmarkStep1000Parallel(b *testing.B) { benchmarkStep(b, 1000, 4) }
