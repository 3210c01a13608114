package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/tomz197/arcade-asteroids/internal/config"
	"github.com/tomz197/arcade-asteroids/internal/logging"
	game "github.com/tomz197/arcade-asteroids/internal/loop/config"
	"github.com/tomz197/arcade-asteroids/internal/loop/server"
	"github.com/tomz197/arcade-asteroids/internal/object"
	"github.com/tomz197/arcade-asteroids/internal/web"
)

//go:embed index.html
var htmlPage string

func main() {
	rt := config.Load()
	logger, closer, err := logging.New(rt.LogLevel, rt.LogFile, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	page := strings.ReplaceAll(htmlPage, "{{.SSHHost}}", sshHost)

	registry := server.NewServer(logger)
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	})
	mux.Handle("/ws", web.NewHandler(web.HandlerOptions{
		Registry: registry,
		Bounds:   object.Bounds{Width: rt.Width, Height: rt.Height},
		Logger:   logger,
	}))

	addr := net.JoinHostPort(rt.WebHost, rt.WebPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting web server", "url", "http://"+addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	if left := registry.Shutdown(game.ShutdownDisplaySeconds * time.Second); left > 0 {
		logger.Warn("clients still connected at shutdown", "count", left)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}
