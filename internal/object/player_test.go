package object

import (
	"math"
	"testing"
)

func TestPlayerInvincibilityExpires(t *testing.T) {
	ctx := newCtx()
	p := NewPlayer(400, 300, "#fff")
	if !p.Invincible || p.InvincibilityFrames != InvincibilityFrames {
		t.Fatalf("new player invincible=%v frames=%v", p.Invincible, p.InvincibilityFrames)
	}
	for i := 0; i < 179; i++ {
		p.Update(ctx)
	}
	if !p.Invincible {
		t.Fatal("player lost invincibility one frame early")
	}
	p.Update(ctx)
	if p.Invincible || p.InvincibilityFrames != 0 {
		t.Fatalf("after 180 frames invincible=%v frames=%v", p.Invincible, p.InvincibilityFrames)
	}
}

func TestPlayerThrustAlongFacing(t *testing.T) {
	ctx := newCtx()
	p := NewPlayer(400, 300, "#fff")
	p.Thrusting = true
	p.Update(ctx)

	// Facing up: all acceleration goes to -Y.
	wantVY := -PlayerThrust * PlayerFriction
	if math.Abs(p.VX) > 1e-12 || math.Abs(p.VY-wantVY) > 1e-12 {
		t.Fatalf("velocity = (%v, %v), want (0, %v)", p.VX, p.VY, wantVY)
	}
	if p.Y >= 300 {
		t.Fatalf("ship did not move up: y=%v", p.Y)
	}

	p.Reset(400, 300)
	p.Angle = math.Pi / 2 // facing right
	p.Update(ctx)
	if p.VX <= 0 || math.Abs(p.VY) > 1e-12 {
		t.Fatalf("velocity facing right = (%v, %v)", p.VX, p.VY)
	}
}

func TestPlayerFrictionDecays(t *testing.T) {
	ctx := newCtx()
	p := NewPlayer(400, 300, "#fff")
	p.VX = 2
	p.Update(ctx)
	if math.Abs(p.VX-2*PlayerFriction) > 1e-12 {
		t.Fatalf("VX = %v, want %v", p.VX, 2*PlayerFriction)
	}

	ctx.DT = 2
	p.VX = 2
	p.Update(ctx)
	want := 2 * PlayerFriction * PlayerFriction
	if math.Abs(p.VX-want) > 1e-12 {
		t.Fatalf("VX with DT=2 = %v, want %v", p.VX, want)
	}
}

func TestPlayerRotation(t *testing.T) {
	ctx := newCtx()
	p := NewPlayer(400, 300, "#fff")
	p.Rotation = -PlayerRotationSpeed
	p.Update(ctx)
	p.Update(ctx)
	if math.Abs(p.Angle+0.1) > 1e-12 {
		t.Fatalf("Angle = %v, want -0.1", p.Angle)
	}
}

func TestPlayerWraps(t *testing.T) {
	ctx := newCtx()
	p := NewPlayer(814, 300, "#fff")
	p.VX = 5
	p.Update(ctx)
	if p.X > ctx.Bounds.Width+p.Radius || p.X > 0 {
		t.Fatalf("X = %v, want wrapped to the left edge", p.X)
	}
}

func TestPlayerNose(t *testing.T) {
	p := NewPlayer(100, 100, "#fff")
	x, y := p.Nose()
	if math.Abs(x-100) > 1e-9 || math.Abs(y-85) > 1e-9 {
		t.Fatalf("Nose() = (%v, %v), want (100, 85)", x, y)
	}
	hull := p.Hull()
	if math.Abs(hull[0].X-x) > 1e-9 || math.Abs(hull[0].Y-y) > 1e-9 {
		t.Fatalf("hull nose %v does not match Nose()", hull[0])
	}
}

func TestPlayerResetKeepsAngle(t *testing.T) {
	p := NewPlayer(0, 0, "#fff")
	p.Angle = 1
	p.VX, p.VY = 3, 4
	p.Invincible = false
	p.InvincibilityFrames = 0
	p.Reset(400, 300)
	if p.X != 400 || p.Y != 300 || p.VX != 0 || p.VY != 0 {
		t.Fatalf("Reset left state %+v", p)
	}
	if p.Angle != 1 {
		t.Fatalf("Reset changed angle to %v", p.Angle)
	}
	if !p.Invincible || p.InvincibilityFrames != InvincibilityFrames {
		t.Fatal("Reset should restore the invincibility window")
	}
}

func TestPlayerVisibleBlinks(t *testing.T) {
	p := NewPlayer(0, 0, "#fff")
	p.InvincibilityFrames = 180
	if p.Visible() {
		t.Fatal("ship should be hidden at 180 frames")
	}
	p.InvincibilityFrames = 175
	if !p.Visible() {
		t.Fatal("ship should be shown at 175 frames")
	}
	p.Invincible = false
	p.InvincibilityFrames = 0
	if !p.Visible() {
		t.Fatal("ship should always be shown without invincibility")
	}
}
