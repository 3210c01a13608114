// Package ui keeps the on-screen text in sync with session events and draws
// it over the playfield.
package ui

import (
	"fmt"
	"sync"

	"github.com/tomz197/arcade-asteroids/internal/draw"
	"github.com/tomz197/arcade-asteroids/internal/loop"
	"github.com/tomz197/arcade-asteroids/internal/loop/config"
)

const (
	titleText    = "A S T E R O I D S"
	startHint    = "Press ENTER to Start"
	restartHint  = "ENTER to Restart  -  ESC for Menu"
	controlsHint = "A/D or Arrows to rotate, W or Up to thrust, SPACE to shoot, ESC for menu, Q to quit"
)

// HUD is the text layer of a client. Notify is called from the game loop and
// Draw from the renderer; SetNotice may come from any goroutine.
type HUD struct {
	mu         sync.Mutex
	phase      loop.Phase
	score      int
	level      int
	lives      int
	finalScore int
	notice     string
}

// NewHUD returns a HUD showing the title screen.
func NewHUD() *HUD {
	return &HUD{
		phase: loop.PhaseMenu,
		level: 1,
		lives: config.InitialLives,
	}
}

// Notify implements loop.Notifier.
func (h *HUD) Notify(e loop.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.phase = e.Phase
	h.score = e.Score
	h.level = e.Level
	h.lives = e.Lives
	if e.Kind == loop.EventGameOver {
		h.finalScore = e.Score
	}
}

// SetNotice shows a one-line message (shutdown, idle warning) until cleared
// with an empty string.
func (h *HUD) SetNotice(msg string) {
	h.mu.Lock()
	h.notice = msg
	h.mu.Unlock()
}

// Notice returns the current notice.
func (h *HUD) Notice() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.notice
}

// Draw writes the overlay for the current phase in the theme's ui colour.
func (h *HUD) Draw(s draw.TextSurface, f loop.Frame) {
	h.mu.Lock()
	phase, score, level, lives, final, notice := h.phase, h.score, h.level, h.lives, h.finalScore, h.notice
	h.mu.Unlock()

	fg := draw.Hex(f.Theme.UI)
	cols, rows := s.Cols(), s.Rows()
	centerY := rows / 2

	switch phase {
	case loop.PhaseMenu:
		centered(s, centerY-2, titleText, fg)
		centered(s, centerY+1, startHint, fg)
		centered(s, centerY+4, controlsHint, fg)
	case loop.PhaseRunning:
		s.Text(2, 0, fmt.Sprintf("Score: %d", score), fg)
		centered(s, 0, fmt.Sprintf("Level: %d", level), fg)
		livesText := fmt.Sprintf("Lives: %d", lives)
		s.Text(cols-len(livesText)-2, 0, livesText, fg)
	case loop.PhaseGameOver:
		centered(s, centerY-2, "GAME OVER", fg)
		centered(s, centerY, fmt.Sprintf("Final Score: %d", final), fg)
		centered(s, centerY+2, restartHint, fg)
	}

	if notice != "" {
		centered(s, rows-1, notice, fg)
	}
}

// centered writes text horizontally centred on row.
func centered(s draw.TextSurface, row int, text string, fg draw.RGB) {
	s.Text(s.Cols()/2-len([]rune(text))/2, row, text, fg)
}

var _ loop.Notifier = (*HUD)(nil)
