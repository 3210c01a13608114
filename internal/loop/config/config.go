// Package config centralizes all tunable game parameters.
package config

import "time"

// Play area defaults, in logical units. Front ends may resize the session.
const (
	DefaultWidth  = 960.0
	DefaultHeight = 640.0
)

// Player
const (
	InitialLives = 3
	ShotCooldown = 150 * time.Millisecond
)

// Level field: 4 + level + level/2 asteroids with radius in
// [MinRadiusBase + MinRadiusStep*level, MaxRadiusBase + MaxRadiusStep*level].
const (
	BaseAsteroids     = 4
	MinRadiusBase     = 25.0
	MinRadiusStep     = 2.0
	MaxRadiusBase     = 40.0
	MaxRadiusStep     = 3.0
	SafeSpawnDistance = 150.0 // Minimum distance from the player
	MaxSpawnAttempts  = 1000  // Rejection-sampling budget per asteroid
)

// Frame timing
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS
	MaxFrameScale   = 3.0 // Upper clamp for dt after a stall
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90 * time.Second
	InactivityDisconnectUser = 120 * time.Second
)
