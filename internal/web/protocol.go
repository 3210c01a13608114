// Package web serves the browser front end: every websocket connection plays
// its own session, streamed to the page as msgpack frames.
package web

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tomz197/arcade-asteroids/internal/input"
	"github.com/tomz197/arcade-asteroids/internal/loop"
	"github.com/tomz197/arcade-asteroids/internal/object"
)

// Message types
const (
	MsgTypeInput  = "input"
	MsgTypeResize = "resize"
	MsgTypeFrame  = "frame"
	MsgTypeEvent  = "event"
	MsgTypeAudio  = "audio"
)

// EventKindShutdown is the EventMsg kind announcing a server shutdown; the
// other kinds mirror loop.EventKind names.
const EventKindShutdown = "shutdown"

// Audio actions
const (
	AudioPlay    = "play"
	AudioStop    = "stop"
	AudioStopAll = "stopAll"
)

// InputMsg is sent by the page whenever a key changes, and on resize. Keys
// report their exact held state; browsers deliver key-up events.
type InputMsg struct {
	Type   string  `msgpack:"t"`
	Left   bool    `msgpack:"l,omitempty"`
	Right  bool    `msgpack:"r,omitempty"`
	Thrust bool    `msgpack:"u,omitempty"`
	Fire   bool    `msgpack:"f,omitempty"`
	Start  bool    `msgpack:"s,omitempty"`
	Menu   bool    `msgpack:"m,omitempty"`
	Width  float64 `msgpack:"w,omitempty"`
	Height float64 `msgpack:"h,omitempty"`
}

// State converts the message to a polled input state.
func (m InputMsg) State() input.State {
	return input.State{
		Left:   m.Left,
		Right:  m.Right,
		Thrust: m.Thrust,
		Fire:   m.Fire,
		Start:  m.Start,
		Menu:   m.Menu,
	}
}

// PlayerMsg is the ship as drawn by the page.
type PlayerMsg struct {
	X       float32 `msgpack:"x"`
	Y       float32 `msgpack:"y"`
	Angle   float32 `msgpack:"a"`
	Radius  float32 `msgpack:"r"`
	Color   string  `msgpack:"c"`
	Thrust  bool    `msgpack:"th,omitempty"`
	Visible bool    `msgpack:"v"`
}

// AsteroidMsg carries an asteroid's outline, already rotated and translated,
// as flat x,y pairs.
type AsteroidMsg struct {
	Color   string    `msgpack:"c"`
	Outline []float32 `msgpack:"o"`
}

// DotMsg is a projectile, particle or star: x, y, radius, alpha.
type DotMsg [4]float32

// ParticleGroup batches particles of one colour.
type ParticleGroup struct {
	Color string   `msgpack:"c"`
	Dots  []DotMsg `msgpack:"d"`
}

// FrameMsg is one rendered frame. Stars are only sent when the field changed.
type FrameMsg struct {
	Type        string          `msgpack:"t"`
	Tick        uint64          `msgpack:"k"`
	Phase       string          `msgpack:"p"`
	Width       float32         `msgpack:"w"`
	Height      float32         `msgpack:"h"`
	BG          string          `msgpack:"bg"`
	UI          string          `msgpack:"ui"`
	Accent      string          `msgpack:"ac"`
	Score       int             `msgpack:"sc"`
	Level       int             `msgpack:"lv"`
	Lives       int             `msgpack:"li"`
	FinalScore  int             `msgpack:"fs"`
	Player      *PlayerMsg      `msgpack:"pl,omitempty"`
	Asteroids   []AsteroidMsg   `msgpack:"as,omitempty"`
	Projectiles []DotMsg        `msgpack:"pr,omitempty"`
	Particles   []ParticleGroup `msgpack:"pa,omitempty"`
	Stars       []DotMsg        `msgpack:"st,omitempty"`
}

// EventMsg forwards a session event to the page's UI.
type EventMsg struct {
	Type  string `msgpack:"t"`
	Kind  string `msgpack:"k"`
	Phase string `msgpack:"p"`
	Score int    `msgpack:"sc"`
	Lives int    `msgpack:"li"`
	Level int    `msgpack:"lv"`
	Delta int    `msgpack:"d,omitempty"`
}

// AudioMsg asks the page to start or stop a looping track.
type AudioMsg struct {
	Type   string `msgpack:"t"`
	Action string `msgpack:"a"`
	Track  string `msgpack:"tr,omitempty"`
}

// FrameEncoder turns frames into FrameMsg values, reusing its buffers. It
// remembers the last star field sent.
type FrameEncoder struct {
	starsVersion uint64
	sentStars    bool

	msg       FrameMsg
	player    PlayerMsg
	outline   []object.Point
	asteroids []AsteroidMsg
	dots      []DotMsg
	groups    []ParticleGroup
}

// Encode converts f into msgpack bytes.
func (e *FrameEncoder) Encode(f loop.Frame) ([]byte, error) {
	return msgpack.Marshal(e.Message(f))
}

// Message converts f into a FrameMsg. The result aliases encoder buffers and
// is only valid until the next call.
func (e *FrameEncoder) Message(f loop.Frame) *FrameMsg {
	m := &e.msg
	*m = FrameMsg{
		Type:       MsgTypeFrame,
		Tick:       f.Tick,
		Phase:      f.Phase.String(),
		Width:      float32(f.Bounds.Width),
		Height:     float32(f.Bounds.Height),
		BG:         f.Theme.BG,
		UI:         f.Theme.UI,
		Accent:     f.Theme.Accent,
		Score:      f.Score,
		Level:      f.Level,
		Lives:      f.Lives,
		FinalScore: f.FinalScore,
	}

	// One backing array for every dot list; sub-slices are carved out below.
	total := len(f.Projectiles) + len(f.Particles)
	sendStars := !e.sentStars || f.StarsVersion != e.starsVersion
	if sendStars {
		total += len(f.Stars)
	}
	if cap(e.dots) < total {
		e.dots = make([]DotMsg, 0, total)
	}
	dots := e.dots[:0]
	e.asteroids = e.asteroids[:0]
	e.groups = e.groups[:0]

	f.Each(func(ent object.Entity) {
		switch ent := ent.(type) {
		case *object.Star:
			if sendStars {
				dots = append(dots, DotMsg{float32(ent.X), float32(ent.Y), float32(ent.Radius), float32(ent.Alpha)})
			}
		case *object.Particle:
			d := DotMsg{float32(ent.X), float32(ent.Y), float32(ent.Radius), float32(ent.Alpha)}
			e.addParticle(ent.Color, d)
		case *object.Projectile:
			dots = append(dots, DotMsg{float32(ent.X), float32(ent.Y), float32(ent.Radius), 1})
		case *object.Asteroid:
			e.outline = ent.Outline(e.outline)
			flat := make([]float32, 0, 2*len(e.outline))
			for _, p := range e.outline {
				flat = append(flat, float32(p.X), float32(p.Y))
			}
			e.asteroids = append(e.asteroids, AsteroidMsg{Color: ent.Color, Outline: flat})
		case *object.Player:
			e.player = PlayerMsg{
				X:       float32(ent.X),
				Y:       float32(ent.Y),
				Angle:   float32(ent.Angle),
				Radius:  float32(ent.Radius),
				Color:   ent.Color,
				Thrust:  ent.Thrusting,
				Visible: ent.Visible(),
			}
			m.Player = &e.player
		}
	})

	nStars := 0
	if sendStars {
		nStars = len(f.Stars)
		m.Stars = dots[:nStars:nStars]
		e.starsVersion = f.StarsVersion
		e.sentStars = true
	}
	m.Projectiles = dots[nStars:]
	e.dots = dots
	m.Asteroids = e.asteroids
	m.Particles = e.groups
	return m
}

// addParticle appends d to the group of its colour. Explosions only use a
// couple of colours, so a linear scan is enough.
func (e *FrameEncoder) addParticle(color string, d DotMsg) {
	for i := range e.groups {
		if e.groups[i].Color == color {
			e.groups[i].Dots = append(e.groups[i].Dots, d)
			return
		}
	}
	e.groups = append(e.groups, ParticleGroup{Color: color, Dots: []DotMsg{d}})
}

// Reset forgets the star field so the next frame sends it again.
func (e *FrameEncoder) Reset() {
	e.sentStars = false
}

// NewEventMsg converts a session event.
func NewEventMsg(ev loop.Event) EventMsg {
	return EventMsg{
		Type:  MsgTypeEvent,
		Kind:  ev.Kind.String(),
		Phase: ev.Phase.String(),
		Score: ev.Score,
		Lives: ev.Lives,
		Level: ev.Level,
		Delta: ev.Delta,
	}
}

// DecodeInput parses a message from the page.
func DecodeInput(data []byte) (InputMsg, error) {
	var m InputMsg
	err := msgpack.Unmarshal(data, &m)
	return m, err
}
