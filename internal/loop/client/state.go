package client

import (
	"fmt"
	"time"

	"github.com/tomz197/arcade-asteroids/internal/input"
	"github.com/tomz197/arcade-asteroids/internal/loop"
	"github.com/tomz197/arcade-asteroids/internal/loop/server"
)

// activity tracks input recency and a pending server shutdown for one client.
type activity struct {
	clock     loop.Clock
	warnAfter time.Duration // 0 disables the inactivity timeout
	quitAfter time.Duration

	lastInput  time.Time
	shutdownAt time.Time // Zero until the server announces a shutdown
}

func newActivity(clock loop.Clock, warnAfter, quitAfter time.Duration) *activity {
	return &activity{
		clock:     clock,
		warnAfter: warnAfter,
		quitAfter: quitAfter,
		lastInput: clock.Now(),
	}
}

// handle applies a server event.
func (a *activity) handle(ev server.ClientEvent) {
	if ev.Type == server.EventServerShutdown {
		a.shutdownAt = ev.Deadline
	}
}

// observe records one polled input state. It returns the notice to show (empty
// for none) and whether the client should disconnect.
func (a *activity) observe(in input.State) (notice string, quit bool) {
	now := a.clock.Now()
	if in.Any() {
		a.lastInput = now
	}

	if !a.shutdownAt.IsZero() {
		left := a.shutdownAt.Sub(now)
		if left <= 0 {
			return "", true
		}
		return fmt.Sprintf("SERVER SHUTTING DOWN - disconnecting in %d s", seconds(left)), false
	}

	if a.quitAfter <= 0 {
		return "", false
	}
	idle := now.Sub(a.lastInput)
	switch {
	case idle >= a.quitAfter:
		return "", true
	case idle >= a.warnAfter:
		return fmt.Sprintf("INACTIVE - disconnecting in %d s, press any key", seconds(a.quitAfter-idle)), false
	}
	return "", false
}

func seconds(d time.Duration) int {
	return int((d + time.Second - 1) / time.Second)
}
