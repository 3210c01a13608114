// Package object defines the game entities and their per-frame update rules.
package object

import (
	"math"
	"math/rand"
)

// Point is a position in logical play-area units.
type Point struct {
	X, Y float64
}

// Bounds is the size of the play area in logical units.
type Bounds struct {
	Width  float64
	Height float64
}

// Center returns the middle of the play area.
func (b Bounds) Center() (float64, float64) {
	return b.Width / 2, b.Height / 2
}

// Wrap moves x and y to the opposite edge once an entity of radius r has fully
// left the play area (Asteroids-style). The result always lies inside
// [-r, Width+r] x [-r, Height+r].
func (b Bounds) Wrap(x, y *float64, r float64) {
	*x = wrapAxis(*x, b.Width, r)
	*y = wrapAxis(*y, b.Height, r)
}

func wrapAxis(v, size, r float64) float64 {
	span := size + 2*r
	if span <= 0 {
		return v
	}
	v = math.Mod(v+r, span)
	if v < 0 {
		v += span
	}
	return v - r
}

// Contains reports whether the point lies inside the play area, edges included.
func (b Bounds) Contains(x, y float64) bool {
	return x >= 0 && x <= b.Width && y >= 0 && y <= b.Height
}

// UpdateContext provides all the information an entity needs during update.
type UpdateContext struct {
	// DT scales one update relative to a 60 Hz frame (1.0 = one frame).
	DT     float64
	Bounds Bounds
	Rand   *rand.Rand
}

// friction returns f applied over the context's frame scale.
func (ctx UpdateContext) friction(f float64) float64 {
	if ctx.DT == 1 {
		return f
	}
	return math.Pow(f, ctx.DT)
}

// Kind tags an entity variant.
type Kind uint8

const (
	KindPlayer Kind = iota + 1
	KindProjectile
	KindAsteroid
	KindParticle
	KindStar
)

func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindProjectile:
		return "projectile"
	case KindAsteroid:
		return "asteroid"
	case KindParticle:
		return "particle"
	case KindStar:
		return "star"
	default:
		return "unknown"
	}
}

// Entity is implemented by every game entity. Renderers and encoders switch on
// Kind (or on the concrete type) instead of calling per-type draw methods.
type Entity interface {
	Kind() Kind
	// Circle returns the entity's centre and radius.
	Circle() (x, y, r float64)
}

// Spawner allows the simulation to receive entities created during a tick.
type Spawner interface {
	Spawn(e Entity)
}

// Destructible is implemented by entities that can be marked for removal.
type Destructible interface {
	MarkDestroyed()
	IsDestroyed() bool
}

// Releasable is implemented by pooled entities that can be returned to a pool.
type Releasable interface {
	Release()
}

// ReleaseEntity releases an entity back to its pool if it implements Releasable.
func ReleaseEntity(e Entity) {
	if r, ok := e.(Releasable); ok {
		r.Release()
	}
}

// ShouldRenderBlink returns true if an entity with remaining protection frames
// should be drawn this frame. The sprite alternates every period frames and is
// always drawn once protection has run out.
func ShouldRenderBlink(remaining, period float64) bool {
	if remaining <= 0 || period <= 0 {
		return true
	}
	phase := int(math.Floor(remaining / period))
	return phase%2 != 0
}
