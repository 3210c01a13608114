package web

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tomz197/arcade-asteroids/internal/audio"
	"github.com/tomz197/arcade-asteroids/internal/input"
	"github.com/tomz197/arcade-asteroids/internal/logging"
	"github.com/tomz197/arcade-asteroids/internal/loop"
	"github.com/tomz197/arcade-asteroids/internal/loop/server"
	"github.com/tomz197/arcade-asteroids/internal/object"
)

// sendBufferSize is the number of outgoing messages queued per connection.
// Frames are dropped rather than blocking the game when the page falls behind.
const sendBufferSize = 64

// Session is the game side of one browser connection. The page is its
// renderer, UI and audio device.
type Session struct {
	game    *loop.Session
	input   *input.Latest
	encoder FrameEncoder
	log     *log.Logger

	send   chan []byte
	closed chan struct{}
	once   sync.Once

	mu     sync.Mutex
	resize *object.Bounds // Pending resize, applied on the loop goroutine

	events <-chan server.ClientEvent // nil without a registry
	until  time.Time                 // Shutdown deadline
	clock  loop.Clock
}

// SessionOptions configures a browser session.
type SessionOptions struct {
	Bounds object.Bounds
	Seed   int64
	Clock  loop.Clock
	Logger *log.Logger
	Events <-chan server.ClientEvent
}

// NewSession creates the game for one connection.
func NewSession(opts SessionOptions) *Session {
	if opts.Clock == nil {
		opts.Clock = loop.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = opts.Clock.Now().UnixNano()
	}
	return &Session{
		game: loop.NewSession(loop.Options{
			Bounds: opts.Bounds,
			Rand:   rand.New(rand.NewSource(seed)),
			Clock:  opts.Clock,
			Logger: opts.Logger,
		}),
		input:  input.NewLatest(),
		log:    opts.Logger,
		send:   make(chan []byte, sendBufferSize),
		closed: make(chan struct{}),
		events: opts.Events,
		clock:  opts.Clock,
	}
}

// Game returns the underlying session.
func (s *Session) Game() *loop.Session { return s.game }

// Send returns the queue of encoded messages for the page.
func (s *Session) Send() <-chan []byte { return s.send }

// Closed is closed once the session has stopped producing messages.
func (s *Session) Closed() <-chan struct{} { return s.closed }

// HandleMessage applies one decoded message from the page. Safe to call from
// the connection's read goroutine.
func (s *Session) HandleMessage(m InputMsg) {
	switch m.Type {
	case MsgTypeInput:
		s.input.Set(m.State())
	case MsgTypeResize:
		if m.Width <= 0 || m.Height <= 0 {
			return
		}
		s.mu.Lock()
		s.resize = &object.Bounds{Width: m.Width, Height: m.Height}
		s.mu.Unlock()
	}
}

// Run plays until the page quits, the server shuts down or ctx is cancelled.
func (s *Session) Run(ctx context.Context, sched loop.Scheduler) error {
	defer s.once.Do(func() { close(s.closed) })

	l := loop.New(loop.Deps{
		Session:   s.game,
		Input:     s,
		Renderer:  s,
		UI:        s,
		Audio:     remoteAudio{s},
		Scheduler: sched,
		Clock:     s.clock,
		Logger:    s.log,
		Prepare:   s.prepare,
	})
	err := l.Run(ctx)
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

// Poll implements input.Source.
func (s *Session) Poll() input.State {
	in := s.input.Poll()
	s.drainEvents()
	if !s.until.IsZero() && !s.clock.Now().Before(s.until) {
		in.Quit = true
	}
	return in
}

func (s *Session) drainEvents() {
	if s.events == nil {
		return
	}
	for {
		select {
		case ev := <-s.events:
			if ev.Type == server.EventServerShutdown {
				s.until = ev.Deadline
				s.enqueue(EventMsg{Type: MsgTypeEvent, Kind: EventKindShutdown, Phase: s.game.Phase().String()}, true)
			}
		default:
			return
		}
	}
}

// Reset implements input.Resetter.
func (s *Session) Reset() { s.input.Reset() }

func (s *Session) prepare(g *loop.Session) {
	s.mu.Lock()
	b := s.resize
	s.resize = nil
	s.mu.Unlock()
	if b != nil {
		g.Resize(b.Width, b.Height)
	}
}

// Render implements loop.Renderer.
func (s *Session) Render(f loop.Frame) error {
	data, err := s.encoder.Encode(f)
	if err != nil {
		return err
	}
	if !s.enqueueBytes(data, false) {
		// The page missed this frame; resend the stars with the next one.
		s.encoder.Reset()
	}
	return nil
}

// Notify implements loop.Notifier.
func (s *Session) Notify(e loop.Event) {
	s.enqueue(NewEventMsg(e), true)
}

func (s *Session) enqueue(v any, important bool) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		s.log.Error("encode message", "err", err)
		return
	}
	s.enqueueBytes(data, important)
}

// enqueueBytes queues data without blocking. Important messages (events,
// audio) get a short grace period when the queue is full; frames are dropped.
func (s *Session) enqueueBytes(data []byte, important bool) bool {
	select {
	case s.send <- data:
		return true
	default:
	}
	if !important {
		return false
	}
	t := time.NewTimer(100 * time.Millisecond)
	defer t.Stop()
	select {
	case s.send <- data:
		return true
	case <-t.C:
		s.log.Warn("dropping message for slow client")
		return false
	}
}

// remoteAudio forwards track changes to the page, which plays them with
// WebAudio. Browsers may refuse to start audio before a user gesture; the page
// retries on its own, so forwarding never fails.
type remoteAudio struct{ s *Session }

func (a remoteAudio) PlayLoop(t audio.Track) error {
	a.s.enqueue(AudioMsg{Type: MsgTypeAudio, Action: AudioPlay, Track: t.String()}, true)
	return nil
}

func (a remoteAudio) Stop(t audio.Track) {
	a.s.enqueue(AudioMsg{Type: MsgTypeAudio, Action: AudioStop, Track: t.String()}, true)
}

func (a remoteAudio) StopAll() {
	a.s.enqueue(AudioMsg{Type: MsgTypeAudio, Action: AudioStopAll}, true)
}

func (a remoteAudio) Close() error { return nil }

var (
	_ input.Source  = (*Session)(nil)
	_ loop.Renderer = (*Session)(nil)
	_ loop.Notifier = (*Session)(nil)
	_ audio.Service = remoteAudio{}
)
