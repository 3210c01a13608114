package draw

import (
	"math"

	"github.com/tomz197/arcade-asteroids/internal/loop"
	"github.com/tomz197/arcade-asteroids/internal/object"
)

// Thrust flame shape.
const (
	FlameColor  = "#ffa500"
	flameOffset = 3.0  // Gap between the hull and the flame
	flameLength = 10.0 // Base length; flickers up to +4
)

// FrameRenderer translates frames into shapes. It keeps scratch buffers, so
// one renderer must not be shared between goroutines.
type FrameRenderer struct {
	// Border outlines the play area in the level's ui colour.
	Border bool

	outline []Point
	hull    []Point
}

// RenderFrame draws f onto s with a throwaway FrameRenderer.
func RenderFrame(s Surface, f loop.Frame) {
	var r FrameRenderer
	r.Draw(s, f)
}

// Draw paints the background then every entity in f.Each order.
func (r *FrameRenderer) Draw(s Surface, f loop.Frame) {
	bg := Hex(f.Theme.BG)
	s.Fill(bg)

	if r.Border {
		w, h := f.Bounds.Width, f.Bounds.Height
		r.hull = append(r.hull[:0], Point{}, Point{X: w}, Point{X: w, Y: h}, Point{Y: h})
		s.Polygon(r.hull, Style{Stroke: Hex(f.Theme.UI).Blend(bg, 0.6), Stroked: true})
	}

	f.Each(func(e object.Entity) {
		switch e := e.(type) {
		case *object.Star:
			col := bg.Blend(White, e.Alpha)
			s.Circle(e.X, e.Y, e.Radius, Style{Fill: col, Filled: true})
		case *object.Particle:
			col := bg.Blend(Hex(e.Color), e.Alpha)
			s.Circle(e.X, e.Y, e.Radius, Style{Fill: col, Filled: true})
		case *object.Projectile:
			s.Circle(e.X, e.Y, e.Radius, Style{Fill: Hex(e.Color), Filled: true, Glow: true})
		case *object.Asteroid:
			r.outline = e.Outline(r.outline)
			if len(r.outline) < 3 {
				s.Circle(e.X, e.Y, e.Radius, Style{Stroke: Hex(e.Color), Stroked: true, Glow: true})
				return
			}
			s.Polygon(r.outline, Style{Stroke: Hex(e.Color), Stroked: true, Glow: true})
		case *object.Player:
			r.drawPlayer(s, e, f.Tick)
		}
	})
}

// drawPlayer draws the ship hull, plus the flame while thrusting. Nothing is
// drawn on the off phase of the invincibility blink.
func (r *FrameRenderer) drawPlayer(s Surface, p *object.Player, tick uint64) {
	if !p.Visible() {
		return
	}

	if p.Thrusting {
		r.hull = appendFlame(r.hull[:0], p, tick)
		s.Polygon(r.hull, Style{Fill: Hex(FlameColor), Filled: true})
	}

	hull := p.Hull()
	r.hull = append(r.hull[:0], hull[:]...)
	s.Polygon(r.hull, Style{Stroke: Hex(p.Color), Stroked: true, Glow: true})
}

// appendFlame appends the flame triangle behind the ship: two base corners
// just behind the tail and a tip whose length flickers with the tick.
func appendFlame(dst []Point, p *object.Player, tick uint64) []Point {
	sin, cos := math.Sin(p.Angle), math.Cos(p.Angle)
	back := p.Radius + flameOffset
	length := flameLength + float64(tick%5)
	half := p.Radius / 4

	// Local frame: +y points out of the tail.
	rotate := func(lx, ly float64) Point {
		return Point{X: p.X + lx*cos - ly*sin, Y: p.Y + lx*sin + ly*cos}
	}
	return append(dst,
		rotate(-half, back),
		rotate(half, back),
		rotate(0, back+length),
	)
}
