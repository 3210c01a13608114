package client

import (
	"io"

	"github.com/gdamore/tcell/v2"

	"github.com/tomz197/arcade-asteroids/internal/draw"
	"github.com/tomz197/arcade-asteroids/internal/input"
)

// ansiOutput writes diffed frames as escape sequences, e.g. to an SSH session.
type ansiOutput struct {
	w        io.Writer
	cw       *draw.ChunkWriter
	termSize draw.TermSizeFunc

	cols, rows int
}

func newANSIOutput(w io.Writer, termSize draw.TermSizeFunc) *ansiOutput {
	return &ansiOutput{w: w, cw: draw.NewChunkWriter(w), termSize: termSize}
}

func (o *ansiOutput) enter() error {
	if err := draw.EnterScreen(o.cw); err != nil {
		return err
	}
	return o.cw.Flush()
}

func (o *ansiOutput) leave() error {
	if err := draw.LeaveScreen(o.cw); err != nil {
		return err
	}
	return o.cw.Flush()
}

// resize polls the terminal size. On a change the terminal is cleared so no
// residue of the old layout stays outside the new canvas.
func (o *ansiOutput) resize() (int, int, bool) {
	cols, rows, err := o.termSize()
	if err != nil || cols <= 0 || rows <= 0 {
		return 0, 0, false
	}
	if cols == o.cols && rows == o.rows {
		return 0, 0, false
	}
	o.cols, o.rows = cols, rows
	_ = draw.ClearScreen(o.cw)
	return cols, rows, true
}

func (o *ansiOutput) present(c *draw.Canvas) error {
	if err := c.Render(o.cw); err != nil {
		return err
	}
	return o.cw.Flush()
}

// screenOutput draws on a tcell screen, which does its own diffing.
type screenOutput struct {
	screen tcell.Screen
	keys   *input.Tcell

	cols, rows int
}

func (o *screenOutput) enter() error {
	o.screen.HideCursor()
	o.screen.Clear()
	return nil
}

func (o *screenOutput) leave() error {
	o.screen.Clear()
	o.screen.Show()
	return nil
}

func (o *screenOutput) resize() (int, int, bool) {
	resized := o.keys.Resized()
	cols, rows := o.screen.Size()
	if !resized && cols == o.cols && rows == o.rows {
		return 0, 0, false
	}
	o.cols, o.rows = cols, rows
	if resized {
		o.screen.Sync()
	}
	return cols, rows, true
}

func (o *screenOutput) present(c *draw.Canvas) error {
	c.RenderScreen(o.screen)
	return nil
}
