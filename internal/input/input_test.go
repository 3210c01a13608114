package input

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

func TestTrackerHoldsKeys(t *testing.T) {
	tr := NewTracker(50 * time.Millisecond)
	t0 := time.Unix(100, 0)

	tr.Press(KeyLeft, t0)
	tr.Press(KeyFire, t0)
	if s := tr.Snapshot(t0.Add(49 * time.Millisecond)); !s.Left || !s.Fire || s.Right {
		t.Fatalf("within hold: %+v", s)
	}
	if s := tr.Snapshot(t0.Add(50 * time.Millisecond)); s.Left || s.Fire {
		t.Fatalf("after hold: %+v", s)
	}
}

func TestTrackerOneShotRequests(t *testing.T) {
	tr := NewTracker(0)
	now := time.Unix(100, 0)
	tr.Press(KeyStart, now)
	tr.Press(KeyQuit, now)

	if s := tr.Snapshot(now); !s.Start || !s.Quit {
		t.Fatalf("first snapshot: %+v", s)
	}
	if s := tr.Snapshot(now); s.Start || s.Quit {
		t.Fatalf("one-shot requests reported twice: %+v", s)
	}
}

func TestTrackerResetKeepsQuit(t *testing.T) {
	tr := NewTracker(time.Second)
	now := time.Unix(100, 0)
	tr.Press(KeyFire, now)
	tr.Press(KeyStart, now)
	tr.Press(KeyQuit, now)
	tr.Reset()
	s := tr.Snapshot(now)
	if s.Fire || s.Start || !s.Quit {
		t.Fatalf("after reset: %+v", s)
	}
}

func TestParseBytes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Key
	}{
		{"letters", "awd ", []Key{KeyLeft, KeyThrust, KeyRight, KeyFire}},
		{"arrows", "\x1b[A\x1b[C\x1b[D", []Key{KeyThrust, KeyRight, KeyLeft}},
		{"ss3 arrows", "\x1bOA", []Key{KeyThrust}},
		{"modified arrow", "\x1b[1;2D", []Key{KeyLeft}},
		{"down arrow ignored", "\x1b[B", nil},
		{"lone escape", "\x1b", []Key{KeyMenu}},
		{"enter and quit", "\rq", []Key{KeyStart, KeyQuit}},
		{"ctrl-c", "\x03", []Key{KeyQuit}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []Key
			ParseBytes([]byte(tt.in), func(k Key) { got = append(got, k) })
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestStreamReportsQuitAtEOF(t *testing.T) {
	s := StartStream(strings.NewReader(" "), time.Second)
	deadline := time.Now().Add(2 * time.Second)
	sawFire := false
	for time.Now().Before(deadline) {
		st := s.Poll()
		sawFire = sawFire || st.Fire
		if st.Quit {
			if !sawFire {
				t.Fatal("quit reported before the buffered key")
			}
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("stream never reported quit after EOF")
}

func TestStreamHeldKeys(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	s := StartStream(r, time.Hour)

	if _, err := w.Write([]byte("a")); err != nil {
		t.Fatalf("write: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.Poll().Left {
			s.Reset()
			if s.Poll().Left {
				t.Fatal("Reset should release held keys")
			}
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("left key never reported")
}

// waitQueued blocks until the reader goroutine has forwarded n bytes.
func waitQueued(t *testing.T, s *Stream, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for len(s.ch) < n {
		if time.Now().After(deadline) {
			t.Fatalf("%d bytes queued, want %d", len(s.ch), n)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestStreamJoinsSplitEscapeSequence(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	s := StartStream(r, time.Hour)

	if _, err := w.Write([]byte{0x1b}); err != nil {
		t.Fatalf("write: %v", err)
	}
	waitQueued(t, s, 1)
	if st := s.Poll(); st.Any() {
		t.Fatalf("after ESC: %+v, want nothing yet", st)
	}

	if _, err := w.Write([]byte("[A")); err != nil {
		t.Fatalf("write: %v", err)
	}
	waitQueued(t, s, 2)
	st := s.Poll()
	if !st.Thrust || st.Menu || st.Left {
		t.Errorf("after [A: %+v, want thrust only", st)
	}
}

func TestStreamLoneEscapeIsMenu(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	s := StartStream(r, time.Hour)

	if _, err := w.Write([]byte{0x1b}); err != nil {
		t.Fatalf("write: %v", err)
	}
	waitQueued(t, s, 1)
	if s.Poll().Menu {
		t.Fatal("menu reported before the sequence could continue")
	}
	if !s.Poll().Menu {
		t.Error("lone ESC never reported as menu")
	}
	if s.Poll().Menu {
		t.Error("menu reported twice")
	}
}

func TestStreamCloseReleasesReader(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	s := StartStream(r, time.Hour)
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	// Far more than the channel and bufio buffers hold.
	done := make(chan error, 1)
	go func() {
		_, err := w.Write(make([]byte, 16<<10))
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("write: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("writer blocked after Close")
	}
}

func TestLatestLatchesOneShots(t *testing.T) {
	l := NewLatest()
	l.Set(State{Thrust: true, Start: true})
	l.Set(State{Thrust: true})

	s := l.Poll()
	if !s.Thrust || !s.Start {
		t.Fatalf("first poll: %+v", s)
	}
	s = l.Poll()
	if !s.Thrust || s.Start {
		t.Fatalf("second poll: %+v", s)
	}

	l.Reset()
	if s := l.Poll(); s.Any() {
		t.Fatalf("after reset: %+v", s)
	}
}

func TestTcellHandleEvent(t *testing.T) {
	src := NewTcell(time.Hour)
	src.HandleEvent(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))
	src.HandleEvent(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone))
	src.HandleEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))

	s := src.Poll()
	if !s.Left || !s.Fire || !s.Start || s.Right {
		t.Fatalf("state = %+v", s)
	}

	src.HandleEvent(tcell.NewEventResize(80, 24))
	if !src.Resized() {
		t.Fatal("resize not reported")
	}
	if src.Resized() {
		t.Fatal("resize reported twice")
	}
}

func TestTcellListen(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer screen.Fini()

	src := NewTcell(time.Hour)
	src.Listen(screen)
	screen.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if src.Poll().Quit {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("quit key never reported")
}
