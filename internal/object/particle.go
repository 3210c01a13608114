package object

import (
	"math/rand"
	"sync"
)

// Particle tuning.
const (
	ParticleFriction = 0.98
	ParticleFade     = 0.02 // Alpha lost per frame
	ParticleMaxSize  = 2.0
	ExplosionSize    = 20  // Particles per explosion
	ExplosionSpeed   = 8.0 // Upper bound of the random burst speed

	PlayerExplosionColor   = "#00ff00"
	AsteroidExplosionColor = "#ffffff"
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived visual effect.
type Particle struct {
	X, Y     float64 // Position
	VX, VY   float64 // Velocity
	Radius   float64
	Color    string
	Alpha    float64 // 1 when spawned, removed at 0
	Friction float64 // Velocity multiplier per frame
}

// NewParticle creates a single fully opaque particle from the pool.
func NewParticle(x, y, vx, vy, radius float64, color string) *Particle {
	p := particlePool.Get().(*Particle)
	p.X = x
	p.Y = y
	p.VX = vx
	p.VY = vy
	p.Radius = radius
	p.Color = color
	p.Alpha = 1
	p.Friction = ParticleFriction
	return p
}

// Release returns the particle to the pool for reuse.
// Should be called when the particle is removed from the game.
func (p *Particle) Release() {
	*p = Particle{}
	particlePool.Put(p)
}

// NewExplosion creates a burst of ExplosionSize particles at (x, y).
func NewExplosion(x, y float64, color string, rng *rand.Rand) []*Particle {
	particles := make([]*Particle, ExplosionSize)
	for i := range particles {
		vx := (rng.Float64() - 0.5) * (rng.Float64() * ExplosionSpeed)
		vy := (rng.Float64() - 0.5) * (rng.Float64() * ExplosionSpeed)
		particles[i] = NewParticle(x, y, vx, vy, rng.Float64()*ParticleMaxSize, color)
	}
	return particles
}

// Update applies friction, moves and fades the particle. It returns true when
// the particle has faded out or left the play area.
func (p *Particle) Update(ctx UpdateContext) (remove bool) {
	drag := ctx.friction(p.Friction)
	p.VX *= drag
	p.VY *= drag

	p.X += p.VX * ctx.DT
	p.Y += p.VY * ctx.DT

	p.Alpha -= ParticleFade * ctx.DT
	if p.Alpha <= 0 {
		p.Alpha = 0
		return true
	}
	return !ctx.Bounds.Contains(p.X, p.Y)
}

// Kind implements Entity.
func (p *Particle) Kind() Kind { return KindParticle }

// Circle implements Entity.
func (p *Particle) Circle() (float64, float64, float64) { return p.X, p.Y, p.Radius }
