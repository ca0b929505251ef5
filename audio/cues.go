package audio

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/nbody/engine"
	"github.com/lixenwraith/nbody/parameter"
)

const sampleRate = beep.SampleRate(parameter.AudioSampleRate)

// Cues plays a short blip for every merge, pitched by the fused mass
// All methods are safe to call without an audio device; they become no-ops
type Cues struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	enabled     atomic.Bool
}

// NewCues creates an enabled, uninitialized cue player
func NewCues() *Cues {
	c := &Cues{mixer: &beep.Mixer{}}
	c.enabled.Store(true)
	return c
}

// Initialize opens the speaker
func (c *Cues) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(parameter.AudioBufferDuration)); err != nil {
		return err
	}

	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// Cleanup silences the mixer
// beep has no speaker close, clearing streamers is enough to stop output
func (c *Cues) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()
	c.initialized = false
}

// SetEnabled toggles cue playback without releasing the device
func (c *Cues) SetEnabled(on bool) { c.enabled.Store(on) }

// Enabled reports whether cues are audible
func (c *Cues) Enabled() bool { return c.enabled.Load() }

// OnMerges queues one blip per event, capped at parameter.MergeCuesPerFrame
func (c *Cues) OnMerges(events []engine.MergeEvent) {
	if len(events) == 0 || !c.enabled.Load() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}

	n := min(len(events), parameter.MergeCuesPerFrame)
	speaker.Lock()
	for i := 0; i < n; i++ {
		tone := NewBlipGenerator(sampleRate, FrequencyForMass(events[i].Mass))
		c.mixer.Add(beep.Take(sampleRate.N(parameter.MergeToneDuration), tone))
	}
	speaker.Unlock()
}

// FrequencyForMass maps merged mass to pitch: one octave down per decade of mass
func FrequencyForMass(mass float64) float64 {
	if !(mass > 1) {
		return parameter.MergeToneBaseHz
	}
	hz := parameter.MergeToneBaseHz / math.Pow(2, math.Log10(mass))
	return math.Max(hz, parameter.MergeToneMinHz)
}

// BlipGenerator generates a sine blip with fast attack and exponential decay
type BlipGenerator struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

// NewBlipGenerator creates a blip generator
func NewBlipGenerator(sr beep.SampleRate, freq float64) *BlipGenerator {
	return &BlipGenerator{sr: sr, freq: freq}
}

func (g *BlipGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	attack := float64(g.sr.N(2 * time.Millisecond))
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		envelope := math.Min(float64(g.pos)/attack, 1.0) * math.Exp(-t*60)
		sample := 0.2 * envelope * math.Sin(2*math.Pi*g.freq*t)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *BlipGenerator) Err() error {
	return nil
}
