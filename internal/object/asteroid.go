package object

import (
	"math"
	"math/rand"
)

// Asteroid tuning.
const (
	// SplitRadius is the size above which a destroyed asteroid breaks in two.
	SplitRadius     = 20.0
	SplitPoints     = 50
	DestroyPoints   = 100
	AsteroidSpeed   = 1.0  // Base speed spread per axis
	LevelSpeedBoost = 0.15 // Extra speed multiplier per level
	MaxSpin         = 0.02 // Total spread of rotation speed (radians/frame)
	MinSides        = 7
	MaxSides        = 11
	ShapeJitter     = 0.2 // Vertex distance varies by +-20%
)

// Asteroid is a destructible space rock.
type Asteroid struct {
	X, Y          float64 // Position (center)
	VX, VY        float64 // Velocity
	Radius        float64 // Collision radius
	Color         string
	Shape         []Point // Vertex offsets from the center, unrotated
	Angle         float64 // Current rotation angle
	RotationSpeed float64 // Radians per frame
	Points        int     // Score awarded when destroyed
	Destroyed     bool    // Marked for removal
}

// SpeedMultiplier returns how much faster asteroids move on the given level.
func SpeedMultiplier(level int) float64 {
	return 1 + float64(level)*LevelSpeedBoost
}

// NewAsteroid creates an asteroid of the given radius at (x, y) with a random
// drift scaled by level, a random spin and an irregular outline. It takes the
// level's ui colour.
func NewAsteroid(x, y, radius float64, level int, rng *rand.Rand) *Asteroid {
	speed := AsteroidSpeed * SpeedMultiplier(level)
	a := &Asteroid{
		X:             x,
		Y:             y,
		VX:            (rng.Float64() - 0.5) * speed,
		VY:            (rng.Float64() - 0.5) * speed,
		Radius:        radius,
		Color:         ThemeForLevel(level).UI,
		Shape:         NewAsteroidShape(radius, rng),
		RotationSpeed: (rng.Float64() - 0.5) * MaxSpin,
	}
	a.Points = PointsFor(radius)
	return a
}

// PointsFor returns the score for destroying an asteroid of the given radius.
func PointsFor(radius float64) int {
	if radius > SplitRadius {
		return SplitPoints
	}
	return DestroyPoints
}

// NewAsteroidShape builds an irregular polygon with MinSides..MaxSides
// vertices evenly spaced in angle.
func NewAsteroidShape(radius float64, rng *rand.Rand) []Point {
	sides := MinSides + rng.Intn(MaxSides-MinSides+1)
	shape := make([]Point, sides)
	for i := range shape {
		angle := 2 * math.Pi / float64(sides) * float64(i)
		length := radius * (1 + (rng.Float64()*2-1)*ShapeJitter)
		shape[i] = Point{X: math.Cos(angle) * length, Y: math.Sin(angle) * length}
	}
	return shape
}

// Update moves, spins and wraps the asteroid.
func (a *Asteroid) Update(ctx UpdateContext) {
	a.X += a.VX * ctx.DT
	a.Y += a.VY * ctx.DT
	a.Angle += a.RotationSpeed * ctx.DT
	ctx.Bounds.Wrap(&a.X, &a.Y, a.Radius)
}

// Split returns the two half-radius children of a large asteroid, both at its
// current position, or nil when the asteroid is too small to split.
func (a *Asteroid) Split(rng *rand.Rand, level int) []*Asteroid {
	if a.Radius <= SplitRadius {
		return nil
	}
	half := a.Radius / 2
	return []*Asteroid{
		NewAsteroid(a.X, a.Y, half, level, rng),
		NewAsteroid(a.X, a.Y, half, level, rng),
	}
}

// Outline returns the shape rotated by the current angle and translated to
// the asteroid's position. dst is reused when it has enough capacity.
func (a *Asteroid) Outline(dst []Point) []Point {
	dst = dst[:0]
	sin, cos := math.Sin(a.Angle), math.Cos(a.Angle)
	for _, v := range a.Shape {
		dst = append(dst, Point{
			X: a.X + v.X*cos - v.Y*sin,
			Y: a.Y + v.X*sin + v.Y*cos,
		})
	}
	return dst
}

// MarkDestroyed marks the asteroid for removal (implements Destructible).
func (a *Asteroid) MarkDestroyed() {
	a.Destroyed = true
}

// IsDestroyed returns true if the asteroid is marked for destruction (implements Destructible).
func (a *Asteroid) IsDestroyed() bool {
	return a.Destroyed
}

// Kind implements Entity.
func (a *Asteroid) Kind() Kind { return KindAsteroid }

// Circle implements Entity.
func (a *Asteroid) Circle() (float64, float64, float64) { return a.X, a.Y, a.Radius }
