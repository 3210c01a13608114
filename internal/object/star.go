package object

import "math/rand"

// Star field tuning.
const (
	BaseStars     = 200
	StarsPerLevel = 20
	StarMinAlpha  = 0.3
)

// Star is a static background decoration.
type Star struct {
	X, Y   float64
	Radius float64
	Alpha  float64
}

// StarCount returns how many stars are drawn on the given level.
func StarCount(level int) int {
	return BaseStars + StarsPerLevel*level
}

// NewStarField scatters StarCount(level) stars over the play area.
func NewStarField(b Bounds, level int, rng *rand.Rand) []Star {
	stars := make([]Star, StarCount(level))
	for i := range stars {
		stars[i] = Star{
			X:      rng.Float64() * b.Width,
			Y:      rng.Float64() * b.Height,
			Radius: rng.Float64() * ParticleMaxSize,
			Alpha:  StarMinAlpha + rng.Float64()*(1-StarMinAlpha),
		}
	}
	return stars
}

// Kind implements Entity.
func (s *Star) Kind() Kind { return KindStar }

// Circle implements Entity.
func (s *Star) Circle() (float64, float64, float64) { return s.X, s.Y, s.Radius }
