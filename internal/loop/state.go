package loop

import (
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/arcade-asteroids/internal/logging"
	"github.com/tomz197/arcade-asteroids/internal/loop/config"
	"github.com/tomz197/arcade-asteroids/internal/object"
	"github.com/tomz197/arcade-asteroids/internal/physics"
)

// Options configures a new Session. Zero values select defaults.
type Options struct {
	Bounds object.Bounds
	// Rand drives every random choice of the session. A nil Rand is seeded
	// from the clock.
	Rand   *rand.Rand
	Clock  Clock
	Logger *log.Logger
}

// Session owns the complete state of one game: phase, counters and every
// entity collection. It is not safe for concurrent use; one goroutine drives
// it through Start, Tick, Fire and the other mutators.
type Session struct {
	phase      Phase
	score      int
	level      int
	lives      int
	finalScore int
	tick       uint64

	player      *object.Player
	projectiles []*object.Projectile
	asteroids   []*object.Asteroid
	particles   []*object.Particle
	toSpawn     []*object.Asteroid // Asteroids to add after the current tick

	stars        []object.Star
	starsVersion uint64

	bounds object.Bounds
	theme  object.Theme
	rng    *rand.Rand
	clock  Clock
	log    *log.Logger

	lastShot time.Time
	events   []Event
	grid     *physics.SpatialGrid
}

// NewSession creates a session on the title screen.
func NewSession(opts Options) *Session {
	if opts.Bounds.Width <= 0 || opts.Bounds.Height <= 0 {
		opts.Bounds = object.Bounds{Width: config.DefaultWidth, Height: config.DefaultHeight}
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(opts.Clock.Now().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	s := &Session{
		phase:  PhaseMenu,
		level:  1,
		lives:  config.InitialLives,
		bounds: opts.Bounds,
		rng:    opts.Rand,
		clock:  opts.Clock,
		log:    opts.Logger,
		grid:   physics.NewSpatialGrid(0, 0, opts.Bounds.Width, opts.Bounds.Height, 64),
	}
	s.theme = object.ThemeForLevel(s.level)
	cx, cy := s.bounds.Center()
	s.player = object.NewPlayer(cx, cy, s.theme.Accent)
	s.regenerateStars()
	return s
}

// Phase returns the run state.
func (s *Session) Phase() Phase { return s.phase }

// Score returns the current score.
func (s *Session) Score() int { return s.score }

// FinalScore returns the score of the last finished run.
func (s *Session) FinalScore() int { return s.finalScore }

// Level returns the current level, starting at 1.
func (s *Session) Level() int { return s.level }

// Lives returns the remaining lives.
func (s *Session) Lives() int { return s.lives }

// Player returns the ship. It exists in every phase but only plays while running.
func (s *Session) Player() *object.Player { return s.player }

// Asteroids returns the live asteroids.
func (s *Session) Asteroids() []*object.Asteroid { return s.asteroids }

// Projectiles returns the live projectiles.
func (s *Session) Projectiles() []*object.Projectile { return s.projectiles }

// Particles returns the live particles.
func (s *Session) Particles() []*object.Particle { return s.particles }

// Stars returns the background stars.
func (s *Session) Stars() []object.Star { return s.stars }

// Bounds returns the play area.
func (s *Session) Bounds() object.Bounds { return s.bounds }

// Theme returns the colour scheme of the current level.
func (s *Session) Theme() object.Theme { return s.theme }

// Start resets every counter and collection and begins a new run on level 1.
// It is valid from any phase.
func (s *Session) Start() []Event {
	s.events = s.events[:0]
	s.clearEntities()

	s.score = 0
	s.level = 1
	s.lives = config.InitialLives
	s.finalScore = 0
	s.tick = 0
	s.lastShot = time.Time{}
	s.applyTheme()

	cx, cy := s.bounds.Center()
	s.player = object.NewPlayer(cx, cy, s.theme.Accent)
	s.regenerateStars()
	s.spawnField()

	s.phase = PhaseRunning
	s.emit(EventPhaseChanged, 0)
	s.emit(EventScoreChanged, 0)
	s.emit(EventLivesChanged, 0)
	s.emit(EventLevelChanged, 0)
	s.log.Debug("run started", "asteroids", len(s.asteroids))
	return s.takeEvents()
}

// ReturnToMenu abandons the run and shows the title screen. Collections are
// cleared, the ship stops and the star field is regenerated.
func (s *Session) ReturnToMenu() []Event {
	s.events = s.events[:0]
	s.clearEntities()
	s.player.Stop()
	s.regenerateStars()
	s.phase = PhaseMenu
	s.emit(EventPhaseChanged, 0)
	return s.takeEvents()
}

// Fire shoots one projectile from the ship's nose. It only works while
// running and at most once per cooldown window of wall-clock time; it reports
// whether a projectile was created.
func (s *Session) Fire() bool {
	if s.phase != PhaseRunning {
		return false
	}
	now := s.clock.Now()
	if !s.lastShot.IsZero() && now.Sub(s.lastShot) < config.ShotCooldown {
		return false
	}
	s.lastShot = now

	x, y := s.player.Nose()
	s.Spawn(object.NewProjectile(x, y, s.player.Angle))
	return true
}

// Resize changes the play area. The star field is regenerated for it.
func (s *Session) Resize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	if width == s.bounds.Width && height == s.bounds.Height {
		return
	}
	s.bounds = object.Bounds{Width: width, Height: height}
	s.regenerateStars()
}

// Spawn adds an entity created during play. Asteroids are queued until the end
// of the tick so fragments cannot be hit by the shot that created them.
// Implements object.Spawner.
func (s *Session) Spawn(e object.Entity) {
	switch e := e.(type) {
	case *object.Asteroid:
		s.toSpawn = append(s.toSpawn, e)
	case *object.Projectile:
		s.projectiles = append(s.projectiles, e)
	case *object.Particle:
		s.particles = append(s.particles, e)
	}
}

// FlushSpawned adds all queued asteroids and clears the queue.
func (s *Session) FlushSpawned() {
	s.asteroids = append(s.asteroids, s.toSpawn...)
	clear(s.toSpawn)
	s.toSpawn = s.toSpawn[:0]
}

// Snapshot returns a read-only view of the session for rendering.
func (s *Session) Snapshot() Frame {
	f := Frame{
		Tick:         s.tick,
		Phase:        s.phase,
		Bounds:       s.bounds,
		Theme:        s.theme,
		Score:        s.score,
		Level:        s.level,
		Lives:        s.lives,
		FinalScore:   s.finalScore,
		Projectiles:  s.projectiles,
		Asteroids:    s.asteroids,
		Particles:    s.particles,
		Stars:        s.stars,
		StarsVersion: s.starsVersion,
	}
	if s.phase == PhaseRunning {
		f.Player = s.player
	}
	return f
}

func (s *Session) clearEntities() {
	for _, p := range s.particles {
		object.ReleaseEntity(p)
	}
	clear(s.particles)
	s.particles = s.particles[:0]
	clear(s.projectiles)
	s.projectiles = s.projectiles[:0]
	clear(s.asteroids)
	s.asteroids = s.asteroids[:0]
	clear(s.toSpawn)
	s.toSpawn = s.toSpawn[:0]
}

func (s *Session) applyTheme() {
	s.theme = object.ThemeForLevel(s.level)
	if s.player != nil {
		s.player.Color = s.theme.Accent
	}
}

func (s *Session) regenerateStars() {
	s.stars = object.NewStarField(s.bounds, s.level, s.rng)
	s.starsVersion++
}

func (s *Session) emit(kind EventKind, delta int) {
	s.events = append(s.events, Event{
		Kind:  kind,
		Phase: s.phase,
		Score: s.score,
		Lives: s.lives,
		Level: s.level,
		Delta: delta,
	})
}

// takeEvents returns a copy of the pending events so callers may keep them.
func (s *Session) takeEvents() []Event {
	if len(s.events) == 0 {
		return nil
	}
	out := make([]Event, len(s.events))
	copy(out, s.events)
	s.events = s.events[:0]
	return out
}
