package object

import "math"

// Projectile defaults.
const (
	ProjectileSpeed  = 6.0 // Units per frame
	ProjectileRadius = 3.0
	ProjectileColor  = "#00ffff"
)

// Projectile is a bullet fired by the player.
type Projectile struct {
	X, Y      float64 // Position
	VX, VY    float64 // Velocity
	Radius    float64
	Color     string
	destroyed bool // Marked for destruction
}

// NewProjectile creates a projectile at (x, y) travelling along angle
// (0 = up, clockwise) at ProjectileSpeed.
func NewProjectile(x, y, angle float64) *Projectile {
	return &Projectile{
		X:      x,
		Y:      y,
		VX:     math.Sin(angle) * ProjectileSpeed,
		VY:     -math.Cos(angle) * ProjectileSpeed,
		Radius: ProjectileRadius,
		Color:  ProjectileColor,
	}
}

// MarkDestroyed marks the projectile for removal.
func (p *Projectile) MarkDestroyed() {
	p.destroyed = true
}

// IsDestroyed returns true if the projectile is marked for destruction.
func (p *Projectile) IsDestroyed() bool {
	return p.destroyed
}

// Update moves the projectile. Projectiles do not wrap: it returns true once
// the projectile has left the play area.
func (p *Projectile) Update(ctx UpdateContext) (remove bool) {
	p.X += p.VX * ctx.DT
	p.Y += p.VY * ctx.DT
	return !ctx.Bounds.Contains(p.X, p.Y)
}

// Kind implements Entity.
func (p *Projectile) Kind() Kind { return KindProjectile }

// Circle implements Entity.
func (p *Projectile) Circle() (float64, float64, float64) { return p.X, p.Y, p.Radius }
