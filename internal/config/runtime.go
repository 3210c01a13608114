package config

import (
	"time"

	game "github.com/tomz197/arcade-asteroids/internal/loop/config"
)

// Terminal backends for the local game.
const (
	BackendTcell = "tcell"
	BackendANSI  = "ansi"
)

// Defaults shared by every front end.
const (
	DefaultWidth    = game.DefaultWidth
	DefaultHeight   = game.DefaultHeight
	DefaultVolume   = 0.25
	DefaultLogLevel = "info"
)

// Listener defaults.
const (
	DefaultSSHHost    = "::"
	DefaultSSHPort    = "2222"
	DefaultSSHHostKey = "/app/keys/host_key"
	DefaultWebHost    = "0.0.0.0"
	DefaultWebPort    = "8080"
)

// Runtime holds settings read from the environment at startup.
type Runtime struct {
	Backend string

	Width  float64
	Height float64
	Seed   int64 // 0 = seed from the clock

	Audio  bool
	Volume float64

	LogLevel string
	LogFile  string

	// IdleTimeout disconnects remote players after this long without input;
	// 0 selects the built-in default.
	IdleTimeout time.Duration

	SSHHost    string
	SSHPort    string
	SSHHostKey string

	WebHost string
	WebPort string
}

// Load reads the ASTEROIDS_* variables.
func Load() Runtime {
	rt := Runtime{
		Backend:     GetEnv("ASTEROIDS_BACKEND", BackendTcell),
		Width:       GetEnvFloat("ASTEROIDS_WIDTH", DefaultWidth),
		Height:      GetEnvFloat("ASTEROIDS_HEIGHT", DefaultHeight),
		Seed:        GetEnvInt64("ASTEROIDS_SEED", 0),
		Audio:       GetEnvBool("ASTEROIDS_AUDIO", true),
		Volume:      GetEnvFloat("ASTEROIDS_VOLUME", DefaultVolume),
		LogLevel:    GetEnv("ASTEROIDS_LOG_LEVEL", DefaultLogLevel),
		LogFile:     GetEnv("ASTEROIDS_LOG_FILE", ""),
		IdleTimeout: GetEnvDuration("ASTEROIDS_IDLE_TIMEOUT", 0),
		SSHHost:     GetEnv("SSH_HOST", DefaultSSHHost),
		SSHPort:     GetEnv("SSH_PORT", DefaultSSHPort),
		SSHHostKey:  GetEnv("SSH_HOST_KEY", DefaultSSHHostKey),
		WebHost:     GetEnv("WEB_HOST", DefaultWebHost),
		WebPort:     GetEnv("WEB_PORT", DefaultWebPort),
	}
	if rt.Backend != BackendANSI {
		rt.Backend = BackendTcell
	}
	if rt.Width < 100 {
		rt.Width = DefaultWidth
	}
	if rt.Height < 100 {
		rt.Height = DefaultHeight
	}
	if rt.Volume < 0 {
		rt.Volume = 0
	}
	if rt.Volume > 1 {
		rt.Volume = 1
	}
	return rt
}

// SeedOrNow returns Seed, or the current time when no seed was configured.
func (rt Runtime) SeedOrNow() int64 {
	if rt.Seed != 0 {
		return rt.Seed
	}
	return time.Now().UnixNano()
}
