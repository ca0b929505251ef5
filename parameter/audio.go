package parameter

import "time"

// Merge cue audio
const (
	// AudioSampleRate is the speaker sample rate in Hz
	AudioSampleRate = 44100

	// AudioBufferDuration is the speaker buffer length
	AudioBufferDuration = 100 * time.Millisecond

	// MergeToneDuration is the length of one merge blip
	MergeToneDuration = 40 * time.Millisecond

	// MergeToneBaseHz is the pitch for the smallest merge; heavier merges drop in pitch
	MergeToneBaseHz = 880.0

	// MergeToneMinHz is the lowest pitch a merge cue can reach
	MergeToneMinHz = 110.0

	// MergeCuesPerFrame caps simultaneous blips to avoid saturating the mixer
	MergeCuesPerFrame = 4
)
