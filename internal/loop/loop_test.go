package loop

import (
	"context"
	"errors"
	"testing"

	"github.com/tomz197/arcade-asteroids/internal/audio"
	"github.com/tomz197/arcade-asteroids/internal/input"
)

type scriptedInput struct {
	states []input.State
	resets int
}

func (s *scriptedInput) Poll() input.State {
	if len(s.states) == 0 {
		return input.State{}
	}
	st := s.states[0]
	s.states = s.states[1:]
	return st
}

func (s *scriptedInput) Reset() { s.resets++ }

type recordingRenderer struct {
	frames []Frame
}

func (r *recordingRenderer) Render(f Frame) error {
	r.frames = append(r.frames, f)
	return nil
}

type recordingNotifier struct {
	events []Event
}

func (n *recordingNotifier) Notify(e Event) { n.events = append(n.events, e) }

type recordingAudio struct {
	played  []audio.Track
	stopped []audio.Track
	stopAll int
	err     error
}

func (a *recordingAudio) PlayLoop(t audio.Track) error {
	a.played = append(a.played, t)
	return a.err
}
func (a *recordingAudio) Stop(t audio.Track) { a.stopped = append(a.stopped, t) }
func (a *recordingAudio) StopAll()           { a.stopAll++ }
func (a *recordingAudio) Close() error       { return nil }

// stepScheduler lets every frame through until the context is done.
type stepScheduler struct{}

func (stepScheduler) Wait(ctx context.Context) error { return ctx.Err() }

type loopHarness struct {
	session  *Session
	clock    *fakeClock
	input    *scriptedInput
	renderer *recordingRenderer
	ui       *recordingNotifier
	audio    *recordingAudio
	loop     *Loop
}

func newLoopHarness(t *testing.T, states ...input.State) *loopHarness {
	t.Helper()
	s, clk := newTestSession(t)
	h := &loopHarness{
		session:  s,
		clock:    clk,
		input:    &scriptedInput{states: states},
		renderer: &recordingRenderer{},
		ui:       &recordingNotifier{},
		audio:    &recordingAudio{},
	}
	h.loop = New(Deps{
		Session:   s,
		Input:     h.input,
		Renderer:  h.renderer,
		UI:        h.ui,
		Audio:     h.audio,
		Scheduler: stepScheduler{},
		Clock:     clk,
	})
	return h
}

func (h *loopHarness) frames(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := h.loop.Frame(); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		h.clock.Advance(16_666_667)
	}
}

func TestLoopStartsRunFromMenu(t *testing.T) {
	h := newLoopHarness(t, input.State{Start: true})
	h.frames(t, 1)

	if h.session.Phase() != PhaseRunning {
		t.Fatalf("phase = %v, want running", h.session.Phase())
	}
	if len(h.ui.events) != 4 {
		t.Errorf("notified %d events, want 4", len(h.ui.events))
	}
	if h.input.resets != 1 {
		t.Errorf("input resets = %d, want 1", h.input.resets)
	}
	if len(h.audio.played) != 1 || h.audio.played[0] != audio.TrackMusic {
		t.Errorf("played = %v, want music", h.audio.played)
	}
	if len(h.renderer.frames) != 1 || h.renderer.frames[0].Phase != PhaseRunning {
		t.Errorf("rendered %d frames", len(h.renderer.frames))
	}
}

func TestLoopMenuShowsTitleUntilStart(t *testing.T) {
	h := newLoopHarness(t, input.State{Thrust: true, Fire: true})
	h.frames(t, 2)

	if h.session.Phase() != PhaseMenu {
		t.Fatalf("phase = %v, want menu", h.session.Phase())
	}
	if len(h.renderer.frames) != 2 {
		t.Errorf("rendered %d frames, want 2", len(h.renderer.frames))
	}
	if len(h.audio.played) != 0 {
		t.Errorf("played = %v, want nothing", h.audio.played)
	}
}

func TestLoopQuit(t *testing.T) {
	h := newLoopHarness(t, input.State{Quit: true})
	if err := h.loop.Frame(); !errors.Is(err, ErrQuit) {
		t.Fatalf("Frame() = %v, want ErrQuit", err)
	}
	if len(h.renderer.frames) != 0 {
		t.Error("rendered after quit")
	}
}

func TestLoopThrustSoundFollowsEdges(t *testing.T) {
	h := newLoopHarness(t,
		input.State{Start: true},
		input.State{Thrust: true},
		input.State{Thrust: true},
		input.State{},
	)
	h.frames(t, 4)

	want := []audio.Track{audio.TrackMusic, audio.TrackThrust}
	if len(h.audio.played) != len(want) || h.audio.played[0] != want[0] || h.audio.played[1] != want[1] {
		t.Errorf("played = %v, want %v", h.audio.played, want)
	}
	if len(h.audio.stopped) != 1 || h.audio.stopped[0] != audio.TrackThrust {
		t.Errorf("stopped = %v, want thrust", h.audio.stopped)
	}
}

func TestLoopMenuKeyReturnsToTitle(t *testing.T) {
	h := newLoopHarness(t, input.State{Start: true}, input.State{Thrust: true}, input.State{Menu: true})
	h.frames(t, 3)

	if h.session.Phase() != PhaseMenu {
		t.Fatalf("phase = %v, want menu", h.session.Phase())
	}
	if h.audio.stopAll != 1 {
		t.Errorf("StopAll calls = %d, want 1", h.audio.stopAll)
	}
	if last := h.renderer.frames[len(h.renderer.frames)-1]; last.Player != nil {
		t.Error("menu frame should not carry the player")
	}

	// Thrust is off again, so a new run must start the engine sound afresh.
	h.input.states = []input.State{{Start: true}, {Thrust: true}}
	h.frames(t, 2)
	if n := len(h.audio.played); n != 4 || h.audio.played[3] != audio.TrackThrust {
		t.Errorf("played = %v", h.audio.played)
	}
}

func TestLoopStopAllSilencesThrust(t *testing.T) {
	h := newLoopHarness(t, input.State{Start: true}, input.State{Thrust: true}, input.State{Menu: true})
	h.frames(t, 4)

	if h.audio.stopAll != 1 {
		t.Fatalf("StopAll calls = %d, want 1", h.audio.stopAll)
	}
	if len(h.audio.stopped) != 0 {
		t.Errorf("stopped = %v, want nothing after StopAll", h.audio.stopped)
	}
}

func TestLoopGameOverRestart(t *testing.T) {
	h := newLoopHarness(t, input.State{Start: true})
	h.frames(t, 1)
	h.session.phase = PhaseGameOver

	h.input.states = []input.State{{Thrust: true}, {Start: true}}
	h.frames(t, 2)
	if h.session.Phase() != PhaseRunning {
		t.Errorf("phase = %v, want running", h.session.Phase())
	}

	h.session.phase = PhaseGameOver
	h.input.states = []input.State{{Menu: true}}
	h.frames(t, 1)
	if h.session.Phase() != PhaseMenu {
		t.Errorf("phase = %v, want menu", h.session.Phase())
	}
}

func TestLoopAudioFailureIsNotFatal(t *testing.T) {
	h := newLoopHarness(t, input.State{Start: true}, input.State{Thrust: true})
	h.audio.err = audio.ErrNotInitialized
	h.frames(t, 2)

	if h.session.Phase() != PhaseRunning {
		t.Errorf("phase = %v, want running", h.session.Phase())
	}
}

func TestLoopPrepareRunsEachFrame(t *testing.T) {
	h := newLoopHarness(t)
	calls := 0
	h.loop.d.Prepare = func(s *Session) {
		calls++
		s.Resize(1200, 900)
	}
	h.frames(t, 3)

	if calls != 3 {
		t.Errorf("Prepare calls = %d, want 3", calls)
	}
	if b := h.renderer.frames[0].Bounds; b.Width != 1200 || b.Height != 900 {
		t.Errorf("frame bounds = %+v", b)
	}
}

func TestRunReturnsNilOnQuit(t *testing.T) {
	h := newLoopHarness(t, input.State{Start: true}, input.State{}, input.State{Quit: true})

	if err := h.loop.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if len(h.renderer.frames) != 2 {
		t.Errorf("rendered %d frames, want 2", len(h.renderer.frames))
	}
	if h.audio.stopAll == 0 {
		t.Error("audio not stopped on exit")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	h := newLoopHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := h.loop.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() = %v, want context.Canceled", err)
	}
}

func TestRunPropagatesRenderError(t *testing.T) {
	s, clk := newTestSession(t)
	boom := errors.New("broken pipe")
	l := New(Deps{
		Session:   s,
		Input:     &scriptedInput{},
		Renderer:  RendererFunc(func(Frame) error { return boom }),
		Scheduler: stepScheduler{},
		Clock:     clk,
	})
	if err := l.Run(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Run() = %v, want %v", err, boom)
	}
}

func TestNewPanicsWithoutRequiredDeps(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("New did not panic")
		}
	}()
	New(Deps{})
}
