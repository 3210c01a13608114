// Package client runs one private game session in a terminal, either on a raw
// ANSI stream (local or SSH) or on a tcell screen.
package client

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/tomz197/arcade-asteroids/internal/audio"
	"github.com/tomz197/arcade-asteroids/internal/draw"
	"github.com/tomz197/arcade-asteroids/internal/input"
	"github.com/tomz197/arcade-asteroids/internal/logging"
	"github.com/tomz197/arcade-asteroids/internal/loop"
	"github.com/tomz197/arcade-asteroids/internal/loop/config"
	"github.com/tomz197/arcade-asteroids/internal/loop/server"
	"github.com/tomz197/arcade-asteroids/internal/object"
	"github.com/tomz197/arcade-asteroids/internal/ui"
)

// ClientOptions configures the client. Zero values select defaults.
type ClientOptions struct {
	Registry *server.Server // Optional; enables shutdown notices
	Username string
	Frontend string

	// Logical play area; the canvas scales it to the terminal.
	Width, Height float64
	Seed          int64 // 0 seeds from the clock

	// IdleTimeout disconnects the client after this long without input. A
	// warning is shown during the last 30 seconds (the last quarter for short
	// timeouts). 0 disables it.
	IdleTimeout time.Duration

	Audio  audio.Service
	Logger *log.Logger

	TermSizeFunc draw.TermSizeFunc // ANSI only

	// Test hooks.
	Input     input.Source
	Scheduler loop.Scheduler
	Clock     loop.Clock
}

// Client handles rendering and input for a single connection.
type Client struct {
	opts     ClientOptions
	session  *loop.Session
	hud      *ui.HUD
	canvas   *draw.Canvas
	frames   draw.FrameRenderer
	out      output
	input    input.Source
	activity *activity
	handle   *server.ClientHandle
	log      *log.Logger
}

// output is where a client's canvas ends up.
type output interface {
	enter() error
	leave() error
	// resize reports the terminal size when it changed since the last call.
	resize() (cols, rows int, changed bool)
	present(c *draw.Canvas) error
}

// NewClient creates a client drawing ANSI escape sequences to w and reading
// raw key bytes from r.
func NewClient(r io.Reader, w io.Writer, opts ClientOptions) *Client {
	if opts.TermSizeFunc == nil {
		opts.TermSizeFunc = draw.DefaultTermSizeFunc
	}
	out := newANSIOutput(w, opts.TermSizeFunc)
	src := opts.Input
	if src == nil {
		src = input.StartStream(r, input.DefaultHoldDuration)
	}
	return newClient(out, src, opts)
}

// NewScreenClient creates a client drawing on an initialised tcell screen. The
// caller owns the screen and must Fini it afterwards.
func NewScreenClient(screen tcell.Screen, opts ClientOptions) *Client {
	keys := input.NewTcell(input.DefaultHoldDuration)
	out := &screenOutput{screen: screen, keys: keys}
	src := opts.Input
	if src == nil {
		keys.Listen(screen)
		src = keys
	}
	return newClient(out, src, opts)
}

func newClient(out output, src input.Source, opts ClientOptions) *Client {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = config.DefaultWidth, config.DefaultHeight
	}
	if opts.Clock == nil {
		opts.Clock = loop.SystemClock{}
	}
	if opts.Audio == nil {
		opts.Audio = audio.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = opts.Clock.Now().UnixNano()
	}
	logger := opts.Logger.With("user", opts.Username, "frontend", opts.Frontend)

	session := loop.NewSession(loop.Options{
		Bounds: object.Bounds{Width: opts.Width, Height: opts.Height},
		Rand:   rand.New(rand.NewSource(seed)),
		Clock:  opts.Clock,
		Logger: logger,
	})

	warn := opts.IdleTimeout - (config.InactivityDisconnectUser - config.InactivityWarnUser)
	if warn <= 0 {
		warn = opts.IdleTimeout * 3 / 4
	}
	return &Client{
		opts:     opts,
		session:  session,
		hud:      ui.NewHUD(),
		canvas:   draw.NewCanvas(1, 1, opts.Width, opts.Height),
		out:      out,
		input:    src,
		activity: newActivity(opts.Clock, warn, opts.IdleTimeout),
		log:      logger,
	}
}

// Session returns the client's game session.
func (c *Client) Session() *loop.Session { return c.session }

// Run plays until the player quits, the client idles out, the server shuts
// down or ctx is cancelled. Cancellation is not an error.
func (c *Client) Run(ctx context.Context) error {
	if c.opts.Registry != nil {
		handle, err := c.opts.Registry.RegisterClient(c.opts.Username, c.opts.Frontend)
		if err != nil {
			return err
		}
		c.handle = handle
		defer c.opts.Registry.UnregisterClient(handle.ID)
	}

	// Stop the stream reader from waiting on a client that no longer polls.
	if cl, ok := c.input.(io.Closer); ok {
		defer cl.Close()
	}

	if err := c.out.enter(); err != nil {
		return fmt.Errorf("client: enter screen: %w", err)
	}
	defer func() {
		if err := c.out.leave(); err != nil {
			c.log.Debug("leave screen", "err", err)
		}
	}()

	l := loop.New(loop.Deps{
		Session:   c.session,
		Input:     c,
		Renderer:  c,
		UI:        c.hud,
		Audio:     c.opts.Audio,
		Scheduler: c.opts.Scheduler,
		Clock:     c.opts.Clock,
		Logger:    c.log,
		Prepare:   c.prepare,
	})
	err := l.Run(ctx)
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

// Poll implements input.Source. It wraps the device input with server events
// and the inactivity timeout.
func (c *Client) Poll() input.State {
	in := c.input.Poll()
	if c.handle != nil {
		c.drainEvents()
	}

	notice, quit := c.activity.observe(in)
	c.hud.SetNotice(notice)
	if quit {
		c.log.Info("disconnecting client", "reason", c.quitReason())
		in.Quit = true
	}
	return in
}

// Reset implements input.Resetter.
func (c *Client) Reset() {
	if r, ok := c.input.(input.Resetter); ok {
		r.Reset()
	}
}

func (c *Client) drainEvents() {
	for {
		select {
		case ev := <-c.handle.EventsCh:
			c.activity.handle(ev)
		default:
			return
		}
	}
}

func (c *Client) quitReason() string {
	if !c.activity.shutdownAt.IsZero() {
		return "server shutdown"
	}
	return "inactivity"
}

// prepare applies terminal resizes before each frame.
func (c *Client) prepare(*loop.Session) {
	cols, rows, changed := c.out.resize()
	if !changed {
		return
	}
	c.canvas.Resize(cols, rows)
	c.canvas.ForceRedraw()
	c.log.Debug("terminal resized", "cols", cols, "rows", rows)
}

// Render implements loop.Renderer.
func (c *Client) Render(f loop.Frame) error {
	c.canvas.SetLogicalSize(f.Bounds.Width, f.Bounds.Height)
	c.frames.Draw(c.canvas, f)
	c.hud.Draw(c.canvas, f)
	return c.out.present(c.canvas)
}

var (
	_ input.Source   = (*Client)(nil)
	_ input.Resetter = (*Client)(nil)
	_ loop.Renderer  = (*Client)(nil)
)
