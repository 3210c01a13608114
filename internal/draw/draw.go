// Package draw rasterizes game frames onto terminal surfaces.
package draw

import "github.com/tomz197/arcade-asteroids/internal/object"

// Point is a 2D coordinate in logical play-area units.
type Point = object.Point

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Style describes how a shape is painted.
type Style struct {
	Stroke RGB
	Fill   RGB
	// Stroked and Filled select which of the two colours are used.
	Stroked bool
	Filled  bool
	// Glow paints a dim halo around the shape, blended toward the background.
	Glow bool
}

// Surface is anything that can draw the primitive shapes of a frame.
type Surface interface {
	// Fill paints the whole surface with bg and remembers it as the
	// background used for glow and alpha blending.
	Fill(bg RGB)
	Circle(x, y, r float64, s Style)
	Polygon(points []Point, s Style)
}

// TextSurface is a surface addressed in terminal cells for overlays.
type TextSurface interface {
	Cols() int
	Rows() int
	// Text writes s starting at the 0-based cell (col, row).
	Text(col, row int, s string, fg RGB)
}
