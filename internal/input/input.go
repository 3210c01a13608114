// Package input turns keyboard events from the different front ends into a
// single polled State.
package input

import "time"

// DefaultHoldDuration is how long a key is considered "held" after its last
// press on backends that never report key releases.
const DefaultHoldDuration = 50 * time.Millisecond

// State is the input sampled once per tick.
//
// Left, Right, Thrust and Fire are held controls. Start, Menu and Quit are
// one-shot requests: a source reports each press exactly once.
type State struct {
	Left   bool
	Right  bool
	Thrust bool
	Fire   bool

	Start bool
	Menu  bool
	Quit  bool
}

// Any reports whether any control is active.
func (s State) Any() bool {
	return s.Left || s.Right || s.Thrust || s.Fire || s.Start || s.Menu || s.Quit
}

// Source is polled once per tick for the current input.
type Source interface {
	Poll() State
}

// Resetter is implemented by sources that can forget held keys, for example
// after a screen change so a held fire key does not leak into a new run.
type Resetter interface {
	Reset()
}

// Key identifies a logical control.
type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyThrust
	KeyFire
	KeyStart
	KeyMenu
	KeyQuit
)

// KeyForByte maps a single typed byte to a control.
func KeyForByte(b byte) Key {
	switch b {
	case 'q', 'Q', 0x03: // Ctrl+C
		return KeyQuit
	case 'a', 'A', 'j', 'J':
		return KeyLeft
	case 'd', 'D', 'l', 'L':
		return KeyRight
	case 'w', 'W', 'i', 'I':
		return KeyThrust
	case ' ':
		return KeyFire
	case '\n', '\r':
		return KeyStart
	case 'm', 'M', '\x1b':
		return KeyMenu
	}
	return KeyNone
}
