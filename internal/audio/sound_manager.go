package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)
)

// SoundManager plays synthesized loops through the system speaker.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	master      *effects.Volume
	playing     map[Track]*beep.Ctrl
	initialized bool
}

// NewSoundManager creates a sound manager with master volume in [0, 1].
// Call Initialize to open the output device.
func NewSoundManager(volume float64) *SoundManager {
	mixer := &beep.Mixer{}
	return &SoundManager{
		mixer:   mixer,
		master:  masterVolume(mixer, volume),
		playing: make(map[Track]*beep.Ctrl),
	}
}

// masterVolume maps a linear volume onto beep's exponential scale.
func masterVolume(s beep.Streamer, volume float64) *effects.Volume {
	v := &effects.Volume{Streamer: s, Base: 2}
	if volume <= 0 {
		v.Silent = true
		return v
	}
	v.Volume = math.Log2(math.Min(volume, 1))
	return v
}

// Initialize opens the speaker and starts the mixer.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	// Initialize speaker with sample rate and buffer size
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	// Keep the mixer streaming while no track is playing.
	sm.mixer.Add(beep.Silence(-1))
	speaker.Play(sm.master)
	sm.initialized = true
	return nil
}

// PlayLoop starts track unless it is already playing.
func (sm *SoundManager) PlayLoop(t Track) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return ErrNotInitialized
	}
	if _, ok := sm.playing[t]; ok {
		return nil
	}

	s, err := newTrackStreamer(t, sampleRate)
	if err != nil {
		return fmt.Errorf("play %s: %w", t, err)
	}
	ctrl := &beep.Ctrl{Streamer: s}
	speaker.Lock()
	sm.mixer.Add(ctrl)
	speaker.Unlock()
	sm.playing[t] = ctrl
	return nil
}

// Stop silences track.
func (sm *SoundManager) Stop(t Track) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.stopLocked(t)
}

// StopAll silences every track.
func (sm *SoundManager) StopAll() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for t := range sm.playing {
		sm.stopLocked(t)
	}
}

func (sm *SoundManager) stopLocked(t Track) {
	ctrl, ok := sm.playing[t]
	if !ok {
		return
	}
	delete(sm.playing, t)
	if !sm.initialized {
		return
	}
	// A Ctrl without a streamer ends, and the mixer drops it.
	speaker.Lock()
	ctrl.Streamer = nil
	speaker.Unlock()
}

// Close stops every track and releases the speaker.
func (sm *SoundManager) Close() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return nil
	}
	for t := range sm.playing {
		sm.stopLocked(t)
	}
	speaker.Clear()
	speaker.Close()
	sm.initialized = false
	return nil
}
