package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/nbody/core"
)

// TickHandler receives the merge events of each scheduled step
// Called on the scheduler goroutine; events are only valid during the call
type TickHandler func(tick uint64, events []MergeEvent)

// Scheduler steps a simulation on a fixed tick
// Deadlines run on a PausableClock tied to the simulation pause flag, so resuming does
// not trigger a catch-up burst. Falling more than two intervals behind drops the backlog.
type Scheduler struct {
	sim   *Simulation
	clock *PausableClock

	tickInterval     time.Duration
	nextTickDeadline time.Duration
	tickCount        atomic.Uint64

	handler TickHandler

	// Control channels
	stopChan   chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
	running    atomic.Bool
	updateDone chan struct{}
}

// NewScheduler creates a stopped scheduler; clock may be nil
// Returns a channel receiving a non-blocking signal after every step
func NewScheduler(sim *Simulation, clock *PausableClock, tickInterval time.Duration, handler TickHandler) (*Scheduler, <-chan struct{}) {
	if clock == nil {
		clock = NewPausableClock(nil)
	}
	updateDone := make(chan struct{}, 1)
	return &Scheduler{
		sim:          sim,
		clock:        clock,
		tickInterval: tickInterval,
		handler:      handler,
		stopChan:     make(chan struct{}),
		updateDone:   updateDone,
	}, updateDone
}

// Start begins the scheduler loop
func (s *Scheduler) Start() {
	if s.running.CompareAndSwap(false, true) {
		s.wg.Add(1)
		core.Go(s.loop)
	}
}

// Stop halts the loop and waits for the in-flight step
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		if s.running.CompareAndSwap(true, false) {
			close(s.stopChan)
			s.wg.Wait()
		}
	})
}

// TickCount returns the number of scheduled steps
func (s *Scheduler) TickCount() uint64 {
	return s.tickCount.Load()
}

// syncPause mirrors the simulation pause flag onto the clock
func (s *Scheduler) syncPause() bool {
	paused := s.sim.Paused()
	if paused != s.clock.IsPaused() {
		if paused {
			s.clock.Pause()
		} else {
			s.clock.Resume()
		}
	}
	return paused
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	s.nextTickDeadline = s.clock.Elapsed() + s.tickInterval

	timer := time.NewTimer(0)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	defer timer.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		default:
		}

		var sleepDuration time.Duration

		if s.syncPause() {
			// Increase sleep interval while paused to save CPU
			sleepDuration = s.tickInterval * 2
		} else {
			now := s.clock.Elapsed()
			if now >= s.nextTickDeadline {
				events := s.sim.Step()
				tick := s.tickCount.Add(1)
				if s.handler != nil {
					s.handler(tick, events)
				}

				s.nextTickDeadline += s.tickInterval
				if now-s.nextTickDeadline > s.tickInterval*2 {
					s.nextTickDeadline = now + s.tickInterval
				}

				select {
				case s.updateDone <- struct{}{}:
				default:
				}

				sleepDuration = max(s.nextTickDeadline-s.clock.Elapsed(), 0)
			} else {
				sleepDuration = s.nextTickDeadline - now
			}
		}

		if sleepDuration > 0 {
			timer.Reset(sleepDuration)
			select {
			case <-timer.C:
			case <-s.stopChan:
				return
			}
		}
	}
}
