// Package audio plays the looping game sounds. Playback is optional: every
// failure is reported to the caller, which logs it and carries on.
package audio

import "errors"

// ErrNotInitialized is returned when a sound is requested before an output
// device was opened, or after it failed to open.
var ErrNotInitialized = errors.New("audio: not initialized")

// Track names a looping sound.
type Track int

const (
	TrackMusic Track = iota + 1
	TrackThrust
)

func (t Track) String() string {
	switch t {
	case TrackMusic:
		return "music"
	case TrackThrust:
		return "thrust"
	default:
		return "unknown"
	}
}

// Service plays and stops looping tracks.
type Service interface {
	// PlayLoop starts track unless it is already playing.
	PlayLoop(t Track) error
	// Stop silences track; stopping a silent track is a no-op.
	Stop(t Track)
	StopAll()
	Close() error
}

// Nop is a Service that plays nothing.
type Nop struct{}

func (Nop) PlayLoop(Track) error { return nil }
func (Nop) Stop(Track)           {}
func (Nop) StopAll()             {}
func (Nop) Close() error         { return nil }
