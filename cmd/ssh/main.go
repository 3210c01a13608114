package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	wishlogging "github.com/charmbracelet/wish/logging"

	"github.com/tomz197/arcade-asteroids/internal/audio"
	"github.com/tomz197/arcade-asteroids/internal/config"
	"github.com/tomz197/arcade-asteroids/internal/draw"
	"github.com/tomz197/arcade-asteroids/internal/logging"
	game "github.com/tomz197/arcade-asteroids/internal/loop/config"
	"github.com/tomz197/arcade-asteroids/internal/loop/client"
	"github.com/tomz197/arcade-asteroids/internal/loop/server"
)

func main() {
	rt := config.Load()
	logger, closer, err := logging.New(rt.LogLevel, rt.LogFile, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	idle := rt.IdleTimeout
	if idle <= 0 {
		idle = game.InactivityDisconnectUser
	}
	workingDir, workErr := os.Getwd()
	if workErr != nil {
		logger.Warn("failed to get working directory", "err", workErr)
	}
	logger.Info("ssh config", "host", rt.SSHHost, "port", rt.SSHPort, "hostKey", rt.SSHHostKey, "workingDir", workingDir)

	registry := server.NewServer(logger)
	g := &gameHandler{rt: rt, idle: idle, registry: registry, log: logger}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(rt.SSHHost, rt.SSHPort)),
		wish.WithMiddleware(
			g.middleware,
			activeterm.Middleware(),
			wishlogging.MiddlewareWithLogger(logger),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if rt.SSHHostKey != "" {
		opts = append(opts, wish.WithHostKeyPath(rt.SSHHostKey))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	logger.Info("starting ssh server", "addr", net.JoinHostPort(rt.SSHHost, rt.SSHPort))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server")

	// Tell players, then give them time to see the notice before dropping them.
	left := registry.Shutdown(game.ShutdownDisplaySeconds * time.Second)
	if left > 0 {
		logger.Warn("clients still connected at shutdown", "count", left)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// gameHandler runs one private game per SSH session.
type gameHandler struct {
	rt       config.Runtime
	idle     time.Duration
	registry *server.Server
	log      *log.Logger
}

func (g *gameHandler) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}
		g.log.Info("new game session", "user", sess.User(), "term", pty.Term,
			"cols", pty.Window.Width, "rows", pty.Window.Height)

		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		c := client.NewClient(sess, sess, client.ClientOptions{
			Registry:     g.registry,
			Username:     sess.User(),
			Frontend:     "ssh",
			Width:        g.rt.Width,
			Height:       g.rt.Height,
			Seed:         g.rt.Seed,
			IdleTimeout:  g.idle,
			Audio:        audio.Nop{},
			Logger:       g.log,
			TermSizeFunc: sizeTracker.getSize,
		})
		if err := c.Run(sess.Context()); err != nil {
			if errors.Is(err, server.ErrShuttingDown) {
				fmt.Fprintln(sess, "Server is shutting down, try again later.")
			} else {
				g.log.Error("game error", "user", sess.User(), "err", err)
			}
		}

		g.log.Info("session ended", "user", sess.User())
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
