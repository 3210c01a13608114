package object

import "math"

// Player defaults. Distances are in logical units, rates are per 60 Hz frame.
const (
	PlayerRadius        = 15.0
	PlayerThrust        = 0.05
	PlayerFriction      = 0.99
	PlayerRotationSpeed = 0.05
	InvincibilityFrames = 180.0
	BlinkPeriodFrames   = 10.0
)

// Player is the player-controlled spaceship (Asteroids-style).
type Player struct {
	X, Y     float64 // Position (center of ship)
	VX, VY   float64 // Velocity (momentum)
	Angle    float64 // Facing in radians (0 = pointing up, increases clockwise)
	Rotation float64 // Radians added to Angle per frame
	Radius   float64
	Color    string

	Thrusting           bool
	Invincible          bool
	InvincibilityFrames float64 // Frames of protection remaining

	ThrustPower float64 // Acceleration per frame while thrusting
	Friction    float64 // Velocity multiplier per frame
}

// NewPlayer creates a spaceship at the given position with a fresh
// invincibility window.
func NewPlayer(x, y float64, color string) *Player {
	p := &Player{
		Radius:      PlayerRadius,
		Color:       color,
		ThrustPower: PlayerThrust,
		Friction:    PlayerFriction,
	}
	p.Reset(x, y)
	return p
}

// Reset puts the ship back at (x, y) with zero velocity and makes it
// invincible for InvincibilityFrames frames. The facing angle is kept.
func (p *Player) Reset(x, y float64) {
	p.X, p.Y = x, y
	p.VX, p.VY = 0, 0
	p.Invincible = true
	p.InvincibilityFrames = InvincibilityFrames
}

// Stop zeroes the ship's velocity and controls without touching its position.
func (p *Player) Stop() {
	p.VX, p.VY = 0, 0
	p.Rotation = 0
	p.Thrusting = false
}

// Update counts down invincibility, then rotates, thrusts, applies friction,
// moves and wraps the ship.
func (p *Player) Update(ctx UpdateContext) {
	dt := ctx.DT

	if p.Invincible {
		p.InvincibilityFrames -= dt
	}
	if p.InvincibilityFrames <= 0 {
		p.InvincibilityFrames = 0
		p.Invincible = false
	}

	p.Angle += p.Rotation * dt

	// Thrust (accelerate in facing direction)
	if p.Thrusting {
		p.VX += math.Sin(p.Angle) * p.ThrustPower * dt
		p.VY -= math.Cos(p.Angle) * p.ThrustPower * dt
	}

	drag := ctx.friction(p.Friction)
	p.VX *= drag
	p.VY *= drag

	p.X += p.VX * dt
	p.Y += p.VY * dt

	ctx.Bounds.Wrap(&p.X, &p.Y, p.Radius)
}

// Nose returns the tip of the ship, where projectiles are spawned.
func (p *Player) Nose() (float64, float64) {
	return p.X + math.Sin(p.Angle)*p.Radius, p.Y - math.Cos(p.Angle)*p.Radius
}

// Hull returns the three vertices of the ship triangle: nose, right wing, left wing.
func (p *Player) Hull() [3]Point {
	sin, cos := math.Sin(p.Angle), math.Cos(p.Angle)
	rotate := func(lx, ly float64) Point {
		return Point{X: p.X + lx*cos - ly*sin, Y: p.Y + lx*sin + ly*cos}
	}
	r := p.Radius
	return [3]Point{
		rotate(0, -r),
		rotate(r/1.5, r),
		rotate(-r/1.5, r),
	}
}

// Tail returns the point behind the ship where the thrust flame starts.
func (p *Player) Tail() (float64, float64) {
	return p.X - math.Sin(p.Angle)*p.Radius, p.Y + math.Cos(p.Angle)*p.Radius
}

// Visible reports whether the ship should be drawn this frame; it blinks while
// invincible.
func (p *Player) Visible() bool {
	if !p.Invincible {
		return true
	}
	return ShouldRenderBlink(p.InvincibilityFrames, BlinkPeriodFrames)
}

// Kind implements Entity.
func (p *Player) Kind() Kind { return KindPlayer }

// Circle implements Entity.
func (p *Player) Circle() (float64, float64, float64) { return p.X, p.Y, p.Radius }
