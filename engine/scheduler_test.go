package engine

import (
	"testing"
	"time"

	"github.com/lixenwraith/nbody/core"
	"github.com/lixenwraith/nbody/vmath"
)

func TestPausableClockMock(t *testing.T) {
	start := time.Unix(1000, 0)
	mock := NewMockTimeProvider(start)
	pc := NewPausableClock(mock)

	mock.Advance(50 * time.Millisecond)
	if got := pc.Elapsed(); got != 50*time.Millisecond {
		t.Errorf("Expected 50ms elapsed, got %v", got)
	}

	pc.Pause()
	mock.Advance(200 * time.Millisecond)
	if got := pc.Elapsed(); got != 50*time.Millisecond {
		t.Errorf("Expected clock frozen at 50ms, got %v", got)
	}
	if got := pc.TotalPauseDuration(); got != 200*time.Millisecond {
		t.Errorf("Expected 200ms ongoing pause, got %v", got)
	}

	pc.Resume()
	mock.Advance(10 * time.Millisecond)
	if got := pc.Elapsed(); got != 60*time.Millisecond {
		t.Errorf("Expected 60ms after resume, got %v", got)
	}
	if pc.IsPaused() {
		t.Error("Expected running clock")
	}
}

func TestPausableClockIdempotent(t *testing.T) {
	mock := NewMockTimeProvider(time.Unix(0, 0))
	pc := NewPausableClock(mock)

	pc.Pause()
	mock.Advance(time.Second)
	pc.Pause()
	mock.Advance(time.Second)
	pc.Resume()
	pc.Resume()

	if got := pc.TotalPauseDuration(); got != 2*time.Second {
		t.Errorf("Expected 2s paused, got %v", got)
	}
}

func TestSchedulerTicks(t *testing.T) {
	sim := newTestSim(t, DefaultParams())
	sim.Spawn(core.NewBody(vmath.Vec2{}, vmath.Vec2{X: 1}, 1, 1))

	handled := make(chan uint64, 64)
	sched, updates := NewScheduler(sim, nil, time.Millisecond, func(tick uint64, _ []MergeEvent) {
		select {
		case handled <- tick:
		default:
		}
	})
	sched.Start()
	defer sched.Stop()

	for i := 0; i < 3; i++ {
		select {
		case <-updates:
		case <-time.After(time.Second):
			t.Fatalf("Expected update signal %d within 1s", i)
		}
	}
	sched.Stop()

	if sched.TickCount() < 3 {
		t.Errorf("Expected at least 3 ticks, got %d", sched.TickCount())
	}
	if first := <-handled; first != 1 {
		t.Errorf("Expected first handled tick 1, got %d", first)
	}
	if sim.Stats().Tick != sched.TickCount() {
		t.Errorf("Expected simulation tick %d to match scheduler, got %d", sched.TickCount(), sim.Stats().Tick)
	}
}

func TestSchedulerPaused(t *testing.T) {
	sim := newTestSim(t, DefaultParams())
	sim.Pause()

	sched, _ := NewScheduler(sim, nil, time.Millisecond, nil)
	sched.Start()
	time.Sleep(20 * time.Millisecond)
	sched.Stop()

	if n := sched.TickCount(); n != 0 {
		t.Errorf("Expected no ticks while paused, got %d", n)
	}
}

func TestSchedulerStopIdempotent(t *testing.T) {
	sim := newTestSim(t, DefaultParams())
	sched, _ := NewScheduler(sim, nil, time.Millisecond, nil)
	sched.Start()
	sched.Stop()
	sched.Stop()
}
