package input

import (
	"sync"
	"time"
)

// Tracker keeps the last press time of every held control and the pending
// one-shot requests. It is safe for concurrent use, so one goroutine can feed
// key events while the game loop polls.
type Tracker struct {
	mu   sync.Mutex
	hold time.Duration

	left, right, thrust, fire time.Time
	start, menu, quit         bool
}

// NewTracker returns a tracker that treats a held control as released once
// hold has passed without a new press.
func NewTracker(hold time.Duration) *Tracker {
	if hold <= 0 {
		hold = DefaultHoldDuration
	}
	return &Tracker{hold: hold}
}

// Press records a key press at now.
func (t *Tracker) Press(k Key, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch k {
	case KeyLeft:
		t.left = now
	case KeyRight:
		t.right = now
	case KeyThrust:
		t.thrust = now
	case KeyFire:
		t.fire = now
	case KeyStart:
		t.start = true
	case KeyMenu:
		t.menu = true
	case KeyQuit:
		t.quit = true
	}
}

// Snapshot returns the state at now and clears the one-shot requests.
func (t *Tracker) Snapshot(now time.Time) State {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := State{
		Left:   t.held(t.left, now),
		Right:  t.held(t.right, now),
		Thrust: t.held(t.thrust, now),
		Fire:   t.held(t.fire, now),
		Start:  t.start,
		Menu:   t.menu,
		Quit:   t.quit,
	}
	t.start, t.menu, t.quit = false, false, false
	return s
}

// Reset releases every held control. A pending quit survives.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.left, t.right, t.thrust, t.fire = time.Time{}, time.Time{}, time.Time{}, time.Time{}
	t.start, t.menu = false, false
}

func (t *Tracker) held(last, now time.Time) bool {
	return !last.IsZero() && now.Sub(last) < t.hold
}
