package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/tomz197/arcade-asteroids/internal/audio"
	"github.com/tomz197/arcade-asteroids/internal/config"
	"github.com/tomz197/arcade-asteroids/internal/logging"
	"github.com/tomz197/arcade-asteroids/internal/loop/client"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	rt := config.Load()

	// The terminal belongs to the game; logs only go to a file.
	logger, closer, err := logging.New(rt.LogLevel, rt.LogFile, io.Discard)
	if err != nil {
		return err
	}
	defer closer.Close()

	sound := openAudio(rt, logger)
	defer sound.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := client.ClientOptions{
		Username: os.Getenv("USER"),
		Frontend: rt.Backend,
		Width:    rt.Width,
		Height:   rt.Height,
		Seed:     rt.Seed,
		Audio:    sound,
		Logger:   logger,
	}
	logger.Info("starting", "backend", rt.Backend, "width", rt.Width, "height", rt.Height)

	if rt.Backend == config.BackendANSI {
		return runANSI(ctx, opts)
	}
	return runTcell(ctx, opts)
}

func openAudio(rt config.Runtime, logger *log.Logger) audio.Service {
	if !rt.Audio {
		return audio.Nop{}
	}
	sm := audio.NewSoundManager(rt.Volume)
	if err := sm.Initialize(); err != nil {
		logger.Warn("audio disabled", "err", err)
		return audio.Nop{}
	}
	return sm
}

func runTcell(ctx context.Context, opts client.ClientOptions) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	return client.NewScreenClient(screen, opts).Run(ctx)
}

func runANSI(ctx context.Context, opts client.ClientOptions) error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	return client.NewClient(os.Stdin, os.Stdout, opts).Run(ctx)
}
