// Package loop provides the game session and the loop that drives it.
package loop

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/arcade-asteroids/internal/audio"
	"github.com/tomz197/arcade-asteroids/internal/input"
	"github.com/tomz197/arcade-asteroids/internal/logging"
)

// ErrQuit is returned by Loop.Frame when the player asked to quit.
var ErrQuit = errors.New("loop: quit requested")

// Renderer draws a frame.
type Renderer interface {
	Render(f Frame) error
}

// Notifier receives session events, e.g. to update on-screen text.
type Notifier interface {
	Notify(e Event)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(f Frame) error

// Render calls fn(f).
func (fn RendererFunc) Render(f Frame) error { return fn(f) }

// Deps are the collaborators of a Loop. Session, Input and Renderer are
// required; the rest default to no-ops or real-time implementations.
type Deps struct {
	Session   *Session
	Input     input.Source
	Renderer  Renderer
	UI        Notifier
	Audio     audio.Service
	Scheduler Scheduler
	Clock     Clock
	Logger    *log.Logger
	// Prepare runs at the start of every frame on the loop goroutine, before
	// input is polled. Front ends use it to apply resizes.
	Prepare func(s *Session)
}

// Loop runs one session: Input -> Update -> Notify -> Audio -> Draw, once per
// scheduled frame.
type Loop struct {
	d    Deps
	last time.Time

	thrustOn bool
}

// New creates a loop. It panics if a required dependency is missing.
func New(d Deps) *Loop {
	if d.Session == nil || d.Input == nil || d.Renderer == nil {
		panic("loop: Session, Input and Renderer are required")
	}
	if d.Audio == nil {
		d.Audio = audio.Nop{}
	}
	if d.Clock == nil {
		d.Clock = SystemClock{}
	}
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}
	return &Loop{d: d}
}

// Run drives frames until the context is cancelled or the player quits. A quit
// request returns nil; cancellation returns the context error. All audio is
// stopped on return.
func (l *Loop) Run(ctx context.Context) error {
	sched := l.d.Scheduler
	if sched == nil {
		ticker := NewFrameTicker(0)
		defer ticker.Stop()
		sched = ticker
	}
	defer l.d.Audio.StopAll()

	for {
		if err := sched.Wait(ctx); err != nil {
			return err
		}
		if err := l.Frame(); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			return err
		}
	}
}

// Frame runs a single iteration of the loop.
func (l *Loop) Frame() error {
	s := l.d.Session
	if l.d.Prepare != nil {
		l.d.Prepare(s)
	}

	now := l.d.Clock.Now()
	dt := 1.0
	if !l.last.IsZero() {
		dt = FrameScale(now.Sub(l.last))
	}
	l.last = now

	// ===== INPUT PHASE =====
	in := l.d.Input.Poll()
	if in.Quit {
		return ErrQuit
	}

	// ===== UPDATE PHASE =====
	var events []Event
	switch s.Phase() {
	case PhaseMenu:
		if in.Start {
			events = s.Start()
			l.resetInput()
		}
	case PhaseRunning:
		if in.Menu {
			events = s.ReturnToMenu()
			l.resetInput()
		} else {
			events = s.Tick(in, dt)
		}
	case PhaseGameOver:
		switch {
		case in.Start:
			events = s.Start()
			l.resetInput()
		case in.Menu:
			events = s.ReturnToMenu()
			l.resetInput()
		}
	}

	l.dispatch(events)
	l.driveAudio(events)

	// ===== DRAW PHASE =====
	return l.d.Renderer.Render(s.Snapshot())
}

func (l *Loop) resetInput() {
	if r, ok := l.d.Input.(input.Resetter); ok {
		r.Reset()
	}
}

func (l *Loop) dispatch(events []Event) {
	if l.d.UI == nil {
		return
	}
	for _, e := range events {
		l.d.UI.Notify(e)
	}
}

// driveAudio starts the music when a run begins, loops the engine sound while
// thrusting and silences everything when the run ends. Failures are logged
// once per transition.
func (l *Loop) driveAudio(events []Event) {
	for _, e := range events {
		if e.Kind != EventPhaseChanged {
			continue
		}
		if e.Phase == PhaseRunning {
			l.play(audio.TrackMusic)
		} else {
			l.d.Audio.StopAll()
			l.thrustOn = false
		}
	}

	s := l.d.Session
	thrusting := s.Phase() == PhaseRunning && s.Player().Thrusting
	if thrusting == l.thrustOn {
		return
	}
	l.thrustOn = thrusting
	if thrusting {
		l.play(audio.TrackThrust)
	} else {
		l.d.Audio.Stop(audio.TrackThrust)
	}
}

func (l *Loop) play(t audio.Track) {
	if err := l.d.Audio.PlayLoop(t); err != nil {
		l.d.Logger.Warn("audio playback failed", "track", t, "err", err)
	}
}
