package engine

import (
	"sync"
	"time"
)

// PausableClock tracks simulation wall time that stops while paused
// Scheduler deadlines are expressed in this time so a resume does not trigger a catch-up burst
type PausableClock struct {
	mu sync.RWMutex

	source    TimeProvider
	start     time.Time     // real time when the clock was created
	paused    bool
	pausedAt  time.Time     // real time when current pause started
	pausedFor time.Duration // cumulative completed pause duration
}

// NewPausableClock creates a running clock over source (nil = monotonic wall time)
func NewPausableClock(source TimeProvider) *PausableClock {
	if source == nil {
		source = NewMonotonicTimeProvider()
	}
	return &PausableClock{
		source: source,
		start:  source.Now(),
	}
}

// Elapsed returns unpaused time since creation
func (pc *PausableClock) Elapsed() time.Duration {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	now := pc.source.Now()
	if pc.paused {
		now = pc.pausedAt
	}
	return now.Sub(pc.start) - pc.pausedFor
}

// Pause freezes the clock; no-op when already paused
func (pc *PausableClock) Pause() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.paused {
		return
	}
	pc.paused = true
	pc.pausedAt = pc.source.Now()
}

// Resume continues the clock; no-op when running
func (pc *PausableClock) Resume() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if !pc.paused {
		return
	}
	pc.pausedFor += pc.source.Now().Sub(pc.pausedAt)
	pc.paused = false
	pc.pausedAt = time.Time{}
}

// IsPaused returns current pause state
func (pc *PausableClock) IsPaused() bool {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.paused
}

// TotalPauseDuration returns cumulative pause time including an ongoing pause
func (pc *PausableClock) TotalPauseDuration() time.Duration {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	total := pc.pausedFor
	if pc.paused {
		total += pc.source.Now().Sub(pc.pausedAt)
	}
	return total
}
