package input

import (
	"time"

	"github.com/gdamore/tcell/v2"
)

// Tcell is a source fed by tcell key events. Terminals still only report
// presses and auto-repeat, so held keys go through a Tracker.
type Tcell struct {
	tracker *Tracker
	now     func() time.Time
	resized chan struct{}
}

// NewTcell returns a tcell-backed source. Call Listen to start consuming
// events from a screen, or feed events directly with HandleEvent.
func NewTcell(hold time.Duration) *Tcell {
	return &Tcell{
		tracker: NewTracker(hold),
		now:     time.Now,
		resized: make(chan struct{}, 1),
	}
}

// Listen polls screen events on a new goroutine until the screen is finalized.
func (t *Tcell) Listen(screen tcell.Screen) {
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			t.HandleEvent(ev)
		}
	}()
}

// HandleEvent maps a tcell event onto the tracker.
func (t *Tcell) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if k := keyForEvent(ev); k != KeyNone {
			t.tracker.Press(k, t.now())
		}
	case *tcell.EventResize:
		select {
		case t.resized <- struct{}{}:
		default:
		}
	}
}

// Resized reports (once) whether the terminal changed size since the last call.
func (t *Tcell) Resized() bool {
	select {
	case <-t.resized:
		return true
	default:
		return false
	}
}

// Poll implements Source.
func (t *Tcell) Poll() State {
	return t.tracker.Snapshot(t.now())
}

// Reset implements Resetter.
func (t *Tcell) Reset() {
	t.tracker.Reset()
}

func keyForEvent(ev *tcell.EventKey) Key {
	switch ev.Key() {
	case tcell.KeyLeft:
		return KeyLeft
	case tcell.KeyRight:
		return KeyRight
	case tcell.KeyUp:
		return KeyThrust
	case tcell.KeyEnter:
		return KeyStart
	case tcell.KeyEscape:
		return KeyMenu
	case tcell.KeyCtrlC:
		return KeyQuit
	case tcell.KeyRune:
		r := ev.Rune()
		if r > 0x7f {
			return KeyNone
		}
		return KeyForByte(byte(r))
	}
	return KeyNone
}
