package loop

import (
	"github.com/tomz197/arcade-asteroids/internal/object"
	"github.com/tomz197/arcade-asteroids/internal/physics"
)

// checkPlayerCollision handles the first asteroid (in index order) touching a
// vulnerable ship. It reports whether the ship was hit.
func (s *Session) checkPlayerCollision() bool {
	p := s.player
	if p.Invincible {
		return false
	}
	for _, a := range s.asteroids {
		if physics.CirclesOverlap(p.X, p.Y, p.Radius, a.X, a.Y, a.Radius) {
			s.killPlayer()
			return true
		}
	}
	return false
}

// killPlayer costs a life. The run ends at zero lives; otherwise the ship
// respawns at the centre with a fresh invincibility window.
func (s *Session) killPlayer() {
	p := s.player
	s.explode(p.X, p.Y, object.PlayerExplosionColor)

	s.lives--
	s.emit(EventLivesChanged, 0)

	if s.lives <= 0 {
		s.lives = 0
		s.finalScore = s.score
		s.phase = PhaseGameOver
		p.Stop()
		s.emit(EventPhaseChanged, 0)
		s.emit(EventGameOver, 0)
		s.log.Info("game over", "score", s.score, "level", s.level)
		return
	}

	cx, cy := s.bounds.Center()
	p.Reset(cx, cy)
}

// checkProjectileCollisions resolves projectile hits. Asteroids are scanned in
// index order and each takes the lowest-index live projectile overlapping it;
// a projectile is consumed by its first hit. The spatial grid only narrows the
// candidates, so the outcome equals the full pairwise scan.
func (s *Session) checkProjectileCollisions() {
	if len(s.projectiles) == 0 || len(s.asteroids) == 0 {
		return
	}
	s.populateGrid()

	gained := 0
	for _, a := range s.asteroids {
		hit := s.grid.LowestAround(a.X, a.Y, func(j int) bool {
			p := s.projectiles[j]
			return !p.IsDestroyed() && physics.CirclesOverlap(p.X, p.Y, p.Radius, a.X, a.Y, a.Radius)
		})
		if hit < 0 {
			continue
		}
		s.projectiles[hit].MarkDestroyed()
		a.MarkDestroyed()
		gained += s.destroyAsteroid(a)
	}

	if gained > 0 {
		s.score += gained
		s.emit(EventScoreChanged, gained)
	}
	s.removeDestroyed()
}

// populateGrid inserts every projectile into the broad-phase grid. The cell
// size covers the largest asteroid so a 3x3 query finds every overlap.
func (s *Session) populateGrid() {
	maxR := 0.0
	for _, a := range s.asteroids {
		maxR = max(maxR, a.Radius)
	}
	cell := maxR + object.ProjectileRadius
	s.grid.Reset(0, 0, s.bounds.Width, s.bounds.Height, cell)
	for i, p := range s.projectiles {
		s.grid.Insert(p.X, p.Y, i)
	}
}

// destroyAsteroid spawns the explosion and fragments of a hit asteroid and
// returns the points it is worth.
func (s *Session) destroyAsteroid(a *object.Asteroid) int {
	s.explode(a.X, a.Y, object.AsteroidExplosionColor)
	for _, child := range a.Split(s.rng, s.level) {
		s.Spawn(child)
	}
	return object.PointsFor(a.Radius)
}

// removeDestroyed compacts the projectile and asteroid slices.
func (s *Session) removeDestroyed() {
	s.projectiles = compact(s.projectiles)
	s.asteroids = compact(s.asteroids)
}

// compact drops destroyed entities in place, keeping order.
func compact[T object.Destructible](list []T) []T {
	kept := list[:0]
	for _, e := range list {
		if !e.IsDestroyed() {
			kept = append(kept, e)
		}
	}
	clear(list[len(kept):])
	return kept
}
