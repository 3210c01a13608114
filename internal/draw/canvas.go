package draw

import (
	"io"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// cell is one terminal character with its colours.
type cell struct {
	ch rune
	fg RGB
	bg RGB
}

// textCell is an overlay character written by Text.
type textCell struct {
	ch  rune
	fg  RGB
	set bool
}

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Every sub-pixel carries its own colour: a terminal cell shows the top pixel as the
// foreground of '▀' and the bottom pixel as its background.
//
// Game objects draw in logical coordinates; the canvas scales them uniformly to fit
// the terminal and centres the play area.
type Canvas struct {
	termWidth      int   // Actual terminal columns
	termHeight     int   // Actual terminal rows
	subPixelHeight int   // termHeight * 2
	pixels         []RGB // Flat slice: [y * termWidth + x]
	text           []textCell
	bg             RGB

	// Scaling from logical to pixel coordinates
	logicalWidth  float64
	logicalHeight float64
	scale         float64 // Pixels per logical unit (same on both axes)
	originX       float64 // Pixel position of logical (0, 0)
	originY       float64

	// Previous frame, for diff rendering. nil forces a full redraw.
	prev []cell

	// Reusable buffers to reduce allocations
	renderBuf       []byte
	scaledBuf       []Point
	intersectionBuf []float64
}

// NewCanvas creates a canvas for the given terminal dimensions that maps a logical
// play area of logicalWidth x logicalHeight onto it.
func NewCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth = max(termWidth, 1)
	termHeight = max(termHeight, 1)
	subPixelHeight := termHeight * 2

	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.pixels = make([]RGB, subPixelHeight*termWidth)
		c.text = make([]textCell, termWidth*termHeight)
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
		c.prev = nil
	}
	c.updateScale()
}

// SetLogicalSize changes the play area mapped onto the terminal.
func (c *Canvas) SetLogicalSize(width, height float64) {
	if width == c.logicalWidth && height == c.logicalHeight {
		return
	}
	c.logicalWidth = width
	c.logicalHeight = height
	c.updateScale()
}

func (c *Canvas) updateScale() {
	if c.logicalWidth <= 0 || c.logicalHeight <= 0 {
		c.scale = 1
		c.originX, c.originY = 0, 0
		return
	}
	sx := float64(c.termWidth) / c.logicalWidth
	sy := float64(c.subPixelHeight) / c.logicalHeight
	c.scale = math.Min(sx, sy)
	c.originX = (float64(c.termWidth) - c.logicalWidth*c.scale) / 2
	c.originY = (float64(c.subPixelHeight) - c.logicalHeight*c.scale) / 2
}

// ForceRedraw makes the next Render repaint every cell, e.g. after the terminal
// was cleared.
func (c *Canvas) ForceRedraw() {
	c.prev = nil
}

// Cols implements TextSurface.
func (c *Canvas) Cols() int { return c.termWidth }

// Rows implements TextSurface.
func (c *Canvas) Rows() int { return c.termHeight }

// Background returns the colour of the last Fill.
func (c *Canvas) Background() RGB { return c.bg }

// Fill implements Surface. It also clears the text overlay.
func (c *Canvas) Fill(bg RGB) {
	c.bg = bg
	for i := range c.pixels {
		c.pixels[i] = bg
	}
	clear(c.text)
}

// setPixel sets a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int, col RGB) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = col
	}
}

// Pixel returns the colour at sub-pixel (x, y); out of range reads the background.
func (c *Canvas) Pixel(x, y int) RGB {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		return c.pixels[y*c.termWidth+x]
	}
	return c.bg
}

// toPixel converts logical coordinates to pixel space.
func (c *Canvas) toPixel(x, y float64) (float64, float64) {
	return c.originX + x*c.scale, c.originY + y*c.scale
}

// LogicalToCell converts logical coordinates to a 0-based terminal cell.
func (c *Canvas) LogicalToCell(x, y float64) (col, row int) {
	px, py := c.toPixel(x, y)
	return int(math.Floor(px)), int(math.Floor(py)) / 2
}

// halo returns the glow colour for a shape colour.
func (c *Canvas) halo(col RGB) RGB {
	return c.bg.Blend(col, 0.35)
}

// glowPlot plots the 4-neighbourhood of every pixel.
func (c *Canvas) glowPlot(col RGB) func(x, y int) {
	return func(x, y int) {
		c.setPixel(x-1, y, col)
		c.setPixel(x+1, y, col)
		c.setPixel(x, y-1, col)
		c.setPixel(x, y+1, col)
	}
}

func (c *Canvas) plot(col RGB) func(x, y int) {
	return func(x, y int) { c.setPixel(x, y, col) }
}

// Circle implements Surface.
func (c *Canvas) Circle(x, y, r float64, s Style) {
	px, py := c.toPixel(x, y)
	pr := r * c.scale

	if s.Glow {
		col := s.Fill
		if s.Stroked {
			col = s.Stroke
		}
		rasterCircle(px, py, pr, false, c.glowPlot(c.halo(col)))
	}
	if s.Filled {
		rasterCircle(px, py, pr, false, c.plot(s.Fill))
	}
	if s.Stroked {
		rasterCircle(px, py, pr, true, c.plot(s.Stroke))
	}
}

// Polygon implements Surface. Points are in logical coordinates.
func (c *Canvas) Polygon(points []Point, s Style) {
	if len(points) < 2 {
		return
	}

	// Reuse or grow scaled points buffer
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]
	for i, p := range points {
		scaled[i].X, scaled[i].Y = c.toPixel(p.X, p.Y)
	}

	if s.Glow {
		col := s.Fill
		if s.Stroked {
			col = s.Stroke
		}
		c.outline(scaled, c.glowPlot(c.halo(col)))
	}
	if s.Filled {
		c.intersectionBuf = rasterPolygonFill(scaled, c.intersectionBuf, c.plot(s.Fill))
	}
	if s.Stroked {
		c.outline(scaled, c.plot(s.Stroke))
	}
}

// outline draws the closed outline of a polygon already in pixel space.
func (c *Canvas) outline(scaled []Point, plot func(x, y int)) {
	n := len(scaled)
	for i := 0; i < n; i++ {
		p1, p2 := scaled[i], scaled[(i+1)%n]
		rasterLine(
			int(math.Floor(p1.X)), int(math.Floor(p1.Y)),
			int(math.Floor(p2.X)), int(math.Floor(p2.Y)),
			plot,
		)
	}
}

// Text implements TextSurface. Characters outside the canvas are dropped.
func (c *Canvas) Text(col, row int, s string, fg RGB) {
	if row < 0 || row >= c.termHeight {
		return
	}
	for _, r := range s {
		if col >= c.termWidth {
			return
		}
		if col >= 0 {
			c.text[row*c.termWidth+col] = textCell{ch: r, fg: fg, set: true}
		}
		col++
	}
}

// cellAt composes the terminal cell at (col, row) from pixels and text.
func (c *Canvas) cellAt(col, row int) cell {
	if t := c.text[row*c.termWidth+col]; t.set {
		return cell{ch: t.ch, fg: t.fg, bg: c.bg}
	}
	top := c.pixels[row*2*c.termWidth+col]
	bottom := c.pixels[(row*2+1)*c.termWidth+col]
	if top == bottom {
		return cell{ch: BlockEmpty, fg: top, bg: bottom}
	}
	return cell{ch: BlockUpperHalf, fg: top, bg: bottom}
}

// Render writes the cells that changed since the previous Render as ANSI
// escape sequences with 24-bit colour.
func (c *Canvas) Render(w io.Writer) error {
	full := len(c.prev) != c.termWidth*c.termHeight
	if full {
		c.prev = make([]cell, c.termWidth*c.termHeight)
	}

	buf := c.renderBuf[:0]
	var lastFg, lastBg RGB
	styled := false
	cursorCol, cursorRow := -1, -1

	for row := 0; row < c.termHeight; row++ {
		for col := 0; col < c.termWidth; col++ {
			cl := c.cellAt(col, row)
			idx := row*c.termWidth + col
			if !full && c.prev[idx] == cl {
				continue
			}
			c.prev[idx] = cl

			if col != cursorCol || row != cursorRow {
				buf = appendMoveCursor(buf, col+1, row+1)
			}
			if !styled || cl.fg != lastFg {
				buf = appendSGRColor(buf, 38, cl.fg)
				lastFg = cl.fg
			}
			if !styled || cl.bg != lastBg {
				buf = appendSGRColor(buf, 48, cl.bg)
				lastBg = cl.bg
			}
			styled = true
			buf = utf8.AppendRune(buf, cl.ch)
			cursorCol, cursorRow = col+1, row
		}
	}
	if styled {
		buf = append(buf, "\033[0m"...)
	}
	c.renderBuf = buf

	if len(buf) == 0 {
		return nil
	}
	_, err := w.Write(buf)
	return err
}

// RenderScreen copies the cells onto a tcell screen and shows it. tcell does
// its own diffing.
func (c *Canvas) RenderScreen(screen tcell.Screen) {
	for row := 0; row < c.termHeight; row++ {
		for col := 0; col < c.termWidth; col++ {
			cl := c.cellAt(col, row)
			style := tcell.StyleDefault.Foreground(cl.fg.Tcell()).Background(cl.bg.Tcell())
			screen.SetContent(col, row, cl.ch, nil, style)
		}
	}
	screen.Show()
}

func appendMoveCursor(buf []byte, col, row int) []byte {
	buf = append(buf, "\033["...)
	buf = strconv.AppendInt(buf, int64(row), 10)
	buf = append(buf, ';')
	buf = strconv.AppendInt(buf, int64(col), 10)
	return append(buf, 'H')
}

func appendSGRColor(buf []byte, layer int, col RGB) []byte {
	buf = append(buf, "\033["...)
	buf = strconv.AppendInt(buf, int64(layer), 10)
	buf = append(buf, ";2;"...)
	buf = strconv.AppendInt(buf, int64(col.R), 10)
	buf = append(buf, ';')
	buf = strconv.AppendInt(buf, int64(col.G), 10)
	buf = append(buf, ';')
	buf = strconv.AppendInt(buf, int64(col.B), 10)
	return append(buf, 'm')
}
