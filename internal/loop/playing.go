package loop

import (
	"github.com/tomz197/arcade-asteroids/internal/input"
	"github.com/tomz197/arcade-asteroids/internal/object"
)

// Tick advances a running session by dt frames (1.0 = one 60 Hz frame) and
// returns the state changes it caused. It is a no-op outside PhaseRunning.
//
// Order: input, movement, player collision, projectile collisions and their
// effects, spawned fragments, level progression.
func (s *Session) Tick(in input.State, dt float64) []Event {
	s.events = s.events[:0]
	if s.phase != PhaseRunning {
		return nil
	}
	dt = clampFrameScale(dt)
	s.tick++

	s.applyInput(in)

	ctx := object.UpdateContext{DT: dt, Bounds: s.bounds, Rand: s.rng}
	s.updateObjects(ctx)

	if s.checkPlayerCollision() && s.phase == PhaseGameOver {
		return s.takeEvents()
	}
	s.checkProjectileCollisions()
	s.FlushSpawned()

	if len(s.asteroids) == 0 {
		s.advanceLevel()
	}
	return s.takeEvents()
}

// applyInput maps held controls onto the ship. Left wins over right.
func (s *Session) applyInput(in input.State) {
	p := s.player
	p.Thrusting = in.Thrust
	switch {
	case in.Left:
		p.Rotation = -object.PlayerRotationSpeed
	case in.Right:
		p.Rotation = object.PlayerRotationSpeed
	default:
		p.Rotation = 0
	}
	if in.Fire {
		s.Fire()
	}
}

// updateObjects moves every entity and drops faded particles and projectiles
// that left the play area.
func (s *Session) updateObjects(ctx object.UpdateContext) {
	s.player.Update(ctx)

	keptParticles := s.particles[:0] // reuse backing array
	for _, p := range s.particles {
		if p.Update(ctx) {
			p.Release()
			continue
		}
		keptParticles = append(keptParticles, p)
	}
	clear(s.particles[len(keptParticles):])
	s.particles = keptParticles

	keptProjectiles := s.projectiles[:0]
	for _, p := range s.projectiles {
		if !p.Update(ctx) {
			keptProjectiles = append(keptProjectiles, p)
		}
	}
	clear(s.projectiles[len(keptProjectiles):])
	s.projectiles = keptProjectiles

	for _, a := range s.asteroids {
		a.Update(ctx)
	}
}

// explode adds a particle burst at (x, y).
func (s *Session) explode(x, y float64, color string) {
	for _, p := range object.NewExplosion(x, y, color, s.rng) {
		s.Spawn(p)
	}
}
