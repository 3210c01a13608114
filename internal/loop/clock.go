package loop

import (
	"context"
	"math"
	"time"

	"github.com/tomz197/arcade-asteroids/internal/loop/config"
)

// Clock tells wall-clock time. The shot cooldown and frame deltas use it.
type Clock interface {
	Now() time.Time
}

// SystemClock is the real clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// Scheduler paces the game loop: Wait blocks until the next frame is due or
// the context is done.
type Scheduler interface {
	Wait(ctx context.Context) error
}

// FrameTicker is a Scheduler backed by a time.Ticker.
type FrameTicker struct {
	ticker *time.Ticker
}

// NewFrameTicker returns a scheduler firing every d (TargetFrameTime if d <= 0).
func NewFrameTicker(d time.Duration) *FrameTicker {
	if d <= 0 {
		d = config.TargetFrameTime
	}
	return &FrameTicker{ticker: time.NewTicker(d)}
}

// Wait implements Scheduler.
func (f *FrameTicker) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-f.ticker.C:
		return nil
	}
}

// Stop releases the ticker.
func (f *FrameTicker) Stop() {
	f.ticker.Stop()
}

// FrameScale converts elapsed wall time into a frame-scale factor (1.0 = one
// 60 Hz frame), clamped to [0, MaxFrameScale].
func FrameScale(elapsed time.Duration) float64 {
	dt := float64(elapsed) / float64(config.TargetFrameTime)
	return clampFrameScale(dt)
}

func clampFrameScale(dt float64) float64 {
	if dt < 0 || math.IsNaN(dt) {
		return 0
	}
	if dt > config.MaxFrameScale {
		return config.MaxFrameScale
	}
	return dt
}
