package input

import "sync"

// Latest is a source fed with exact key state, for clients that report both
// key-down and key-up (the browser). One-shot requests are latched until the
// next Poll so a short press between two ticks is not lost.
type Latest struct {
	mu      sync.Mutex
	current State
	pending State
}

// NewLatest returns a source with nothing pressed.
func NewLatest() *Latest {
	return &Latest{}
}

// Set replaces the held controls and latches any one-shot requests in s.
func (l *Latest) Set(s State) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.current.Left = s.Left
	l.current.Right = s.Right
	l.current.Thrust = s.Thrust
	l.current.Fire = s.Fire
	l.pending.Start = l.pending.Start || s.Start
	l.pending.Menu = l.pending.Menu || s.Menu
	l.pending.Quit = l.pending.Quit || s.Quit
}

// Poll implements Source.
func (l *Latest) Poll() State {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := l.current
	s.Start, s.Menu, s.Quit = l.pending.Start, l.pending.Menu, l.pending.Quit
	l.pending = State{}
	return s
}

// Reset releases the held controls until the client reports them again.
func (l *Latest) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.current = State{}
	l.pending.Start, l.pending.Menu = false, false
}
