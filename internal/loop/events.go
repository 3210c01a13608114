package loop

// Phase is the run-level state of a session.
type Phase int

const (
	PhaseMenu Phase = iota
	PhaseRunning
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseMenu:
		return "menu"
	case PhaseRunning:
		return "running"
	case PhaseGameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

// EventKind identifies a state change reported to the presentation layer.
type EventKind int

const (
	EventPhaseChanged EventKind = iota + 1
	EventScoreChanged
	EventLivesChanged
	EventLevelChanged
	EventGameOver
)

func (k EventKind) String() string {
	switch k {
	case EventPhaseChanged:
		return "phase"
	case EventScoreChanged:
		return "score"
	case EventLivesChanged:
		return "lives"
	case EventLevelChanged:
		return "level"
	case EventGameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

// Event carries the session counters at the moment of a change. Delta is the
// score gained for EventScoreChanged and zero otherwise.
type Event struct {
	Kind  EventKind
	Phase Phase
	Score int
	Lives int
	Level int
	Delta int
}
