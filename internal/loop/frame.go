package loop

import "github.com/tomz197/arcade-asteroids/internal/object"

// Frame is a read-only view of a session for renderers and encoders. Slices
// alias session storage and are only valid until the session is next mutated,
// so a frame must be consumed on the goroutine that drives the session.
type Frame struct {
	Tick   uint64
	Phase  Phase
	Bounds object.Bounds
	Theme  object.Theme

	Score      int
	Level      int
	Lives      int
	FinalScore int

	// Player is nil outside of a run.
	Player      *object.Player
	Projectiles []*object.Projectile
	Asteroids   []*object.Asteroid
	Particles   []*object.Particle

	Stars []object.Star
	// StarsVersion changes whenever the star field is regenerated.
	StarsVersion uint64
}

// Each calls fn for every entity in drawing order: stars, particles,
// projectiles, asteroids, then the player.
func (f Frame) Each(fn func(object.Entity)) {
	for i := range f.Stars {
		fn(&f.Stars[i])
	}
	for _, p := range f.Particles {
		fn(p)
	}
	for _, p := range f.Projectiles {
		fn(p)
	}
	for _, a := range f.Asteroids {
		fn(a)
	}
	if f.Player != nil {
		fn(f.Player)
	}
}
