package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// newTrackStreamer builds the endless streamer for a track.
func newTrackStreamer(t Track, sr beep.SampleRate) (beep.Streamer, error) {
	switch t {
	case TrackMusic:
		return newMusic(sr)
	case TrackThrust:
		return NewRumbleGenerator(sr, 1), nil
	default:
		return nil, fmt.Errorf("unknown track %d", int(t))
	}
}

// newMusic mixes a pulsing kick with a quiet bass drone.
func newMusic(sr beep.SampleRate) (beep.Streamer, error) {
	bass, err := generators.SineTone(sr, 55)
	if err != nil {
		return nil, fmt.Errorf("bass tone: %w", err)
	}
	quietBass := &effects.Gain{Streamer: bass, Gain: -0.9}
	return beep.Mix(NewKickGenerator(sr, 120), quietBass), nil
}

// KickGenerator generates a kick drum on every beat.
type KickGenerator struct {
	sr      beep.SampleRate
	pos     int
	samples int // Samples per beat
	length  int // Samples per kick
}

// NewKickGenerator creates a kick generator at bpm beats per minute.
func NewKickGenerator(sr beep.SampleRate, bpm float64) *KickGenerator {
	return &KickGenerator{
		sr:      sr,
		samples: sr.N(time.Duration(float64(time.Minute) / bpm)),
		length:  sr.N(100 * time.Millisecond),
	}
}

func (g *KickGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		beatPos := g.pos % g.samples
		sample := 0.0
		if beatPos < g.length {
			t := float64(beatPos) / float64(g.sr)
			env := 1.0 - float64(beatPos)/float64(g.length)
			freq := 60 * (1 + 2*env)
			sample = 0.4 * env * math.Sin(2*math.Pi*freq*t)
		}
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *KickGenerator) Err() error {
	return nil
}

// RumbleGenerator generates low filtered noise for the engine.
type RumbleGenerator struct {
	sr   beep.SampleRate
	pos  int
	seed int64
	last float64
}

// NewRumbleGenerator creates a rumble generator with a fixed noise seed.
func NewRumbleGenerator(sr beep.SampleRate, seed int64) *RumbleGenerator {
	return &RumbleGenerator{sr: sr, seed: seed}
}

func (g *RumbleGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		g.seed = (g.seed*1103515245 + 12345) & 0x7fffffff
		noise := float64(g.seed)/float64(0x7fffffff)*2 - 1

		// One-pole low-pass keeps the hiss out.
		g.last += 0.05 * (noise - g.last)
		hum := 0.2 * math.Sin(2*math.Pi*45*t)

		sample := 0.6*g.last + hum
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *RumbleGenerator) Err() error {
	return nil
}
