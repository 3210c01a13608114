package loop

import (
	"github.com/tomz197/arcade-asteroids/internal/loop/config"
	"github.com/tomz197/arcade-asteroids/internal/object"
	"github.com/tomz197/arcade-asteroids/internal/physics"
)

// AsteroidCount returns the size of the field generated for a level.
func AsteroidCount(level int) int {
	return config.BaseAsteroids + level + level/2
}

// RadiusRange returns the bounds of asteroid radii generated for a level.
func RadiusRange(level int) (lo, hi float64) {
	l := float64(level)
	return config.MinRadiusBase + config.MinRadiusStep*l, config.MaxRadiusBase + config.MaxRadiusStep*l
}

// advanceLevel moves to the next level with a new palette, star field and
// asteroid field.
func (s *Session) advanceLevel() {
	s.level++
	s.applyTheme()
	s.regenerateStars()
	s.spawnField()
	s.emit(EventLevelChanged, 0)
	s.log.Debug("level advanced", "level", s.level, "asteroids", len(s.asteroids))
}

// spawnField adds AsteroidCount(level) asteroids, each at least
// SafeSpawnDistance from the ship.
func (s *Session) spawnField() {
	n := AsteroidCount(s.level)
	lo, hi := RadiusRange(s.level)
	for i := 0; i < n; i++ {
		x, y := s.safeSpawnPoint()
		r := lo + s.rng.Float64()*(hi-lo)
		s.asteroids = append(s.asteroids, object.NewAsteroid(x, y, r, s.level, s.rng))
	}
}

// safeSpawnPoint rejection-samples a point far enough from the ship. If the
// play area is too small to allow one, the farthest candidate seen is used.
func (s *Session) safeSpawnPoint() (float64, float64) {
	px, py := s.player.X, s.player.Y
	minDistSq := config.SafeSpawnDistance * config.SafeSpawnDistance

	bestX, bestY, bestD := 0.0, 0.0, -1.0
	for attempt := 0; attempt < config.MaxSpawnAttempts; attempt++ {
		x := s.rng.Float64() * s.bounds.Width
		y := s.rng.Float64() * s.bounds.Height
		d := physics.DistanceSquared(x, y, px, py)
		if d >= minDistSq {
			return x, y
		}
		if d > bestD {
			bestX, bestY, bestD = x, y, d
		}
	}
	s.log.Warn("no safe spawn point found", "width", s.bounds.Width, "height", s.bounds.Height)
	return bestX, bestY
}
