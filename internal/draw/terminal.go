package draw

import (
	"bufio"
	"io"
	"os"

	"golang.org/x/term"
)

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// Roughly one MTU, so frames stream smoothly over SSH.
const maxChunkSize = 1400

// Terminal control sequences.
const (
	seqClearScreen   = "\033[H\033[2J"
	seqHideCursor    = "\033[?25l"
	seqShowCursor    = "\033[?25h"
	seqEnterAltScrn  = "\033[?1049h"
	seqExitAltScrn   = "\033[?1049l"
	seqResetGraphics = "\033[0m"
)

// ChunkWriter accumulates a frame of terminal output and writes it in chunks
// on Flush. It implements io.Writer for Canvas.Render.
type ChunkWriter struct {
	buf  []byte
	bufw *bufio.Writer // Buffers writes to underlying writer for fewer syscalls
}

// NewChunkWriter creates a ChunkWriter that writes to w.
func NewChunkWriter(w io.Writer) *ChunkWriter {
	return &ChunkWriter{bufw: bufio.NewWriterSize(w, 8192)}
}

// Write implements io.Writer. It only appends to the pending frame.
func (cw *ChunkWriter) Write(p []byte) (int, error) {
	cw.buf = append(cw.buf, p...)
	return len(p), nil
}

// WriteString appends a string to the pending frame.
func (cw *ChunkWriter) WriteString(s string) (int, error) {
	cw.buf = append(cw.buf, s...)
	return len(s), nil
}

// Pending returns the number of buffered bytes not yet flushed.
func (cw *ChunkWriter) Pending() int {
	return len(cw.buf)
}

// Flush writes the accumulated buffer to the underlying writer in chunks,
// then resets the buffer.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf
	cw.buf = cw.buf[:0]
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := cw.bufw.Write(chunk); err != nil {
			return err
		}
		if err := cw.bufw.Flush(); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return cw.bufw.Flush()
}

// Ensure ChunkWriter satisfies io.Writer.
var _ io.Writer = (*ChunkWriter)(nil)

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// EnterScreen switches to the alternate screen, clears it and hides the cursor.
func EnterScreen(w io.Writer) error {
	_, err := io.WriteString(w, seqEnterAltScrn+seqClearScreen+seqHideCursor)
	return err
}

// LeaveScreen restores colours, the cursor and the main screen.
func LeaveScreen(w io.Writer) error {
	_, err := io.WriteString(w, seqResetGraphics+seqShowCursor+seqExitAltScrn)
	return err
}

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) error {
	_, err := io.WriteString(w, seqClearScreen)
	return err
}
