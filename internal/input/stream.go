package input

import (
	"bufio"
	"io"
	"sync"
	"time"
)

// Stream delivers raw terminal bytes via a channel and keeps key state so
// simultaneous keys can be detected.
type Stream struct {
	ch      chan byte
	done    chan struct{}
	once    sync.Once
	tracker *Tracker
	now     func() time.Time
	closed  bool

	// pending holds an escape sequence cut off at the end of the last poll.
	pending []byte
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// The stream reports Quit once r is exhausted.
func StartStream(r io.Reader, hold time.Duration) *Stream {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	s := &Stream{
		ch:      make(chan byte, 128),
		done:    make(chan struct{}),
		tracker: NewTracker(hold),
		now:     time.Now,
	}
	go s.read(br)
	return s
}

// read forwards bytes until r fails. After Close it keeps draining r without
// forwarding, so a writer on the other end is never stuck behind us.
func (s *Stream) read(br *bufio.Reader) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			close(s.ch)
			return
		}
		select {
		case s.ch <- b:
		case <-s.done:
		}
	}
}

// Close stops delivering bytes. The reader goroutine ends once r does.
func (s *Stream) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}

// Poll drains all available bytes (non-blocking), updates the held keys and
// returns the current state.
func (s *Stream) Poll() State {
	now := s.now()
	buf := s.pending
	s.pending = nil
	carried := len(buf)

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	// A sequence split across reads is finished by the next poll; one that
	// got no continuation for a whole poll is taken as typed (a lone ESC).
	final := len(buf) == carried || s.closed
	used := parseInput(buf, final, func(k Key) { s.tracker.Press(k, now) })
	if used < len(buf) {
		s.pending = append([]byte(nil), buf[used:]...)
	}
	if s.closed {
		s.tracker.Press(KeyQuit, now)
	}
	return s.tracker.Snapshot(now)
}

// Reset releases every held key.
func (s *Stream) Reset() {
	s.tracker.Reset()
}

// ParseBytes decodes a chunk of terminal input, calling press for every
// control found. Arrow keys arrive as CSI or SS3 sequences (ESC [ A, ESC O A,
// ESC [ 1 ; 2 A); a lone ESC is the menu key.
func ParseBytes(buf []byte, press func(Key)) {
	parseInput(buf, true, press)
}

// parseInput is ParseBytes for a chunk that may end inside an escape
// sequence. Unless final is set it stops at such a tail and returns how many
// bytes it consumed.
func parseInput(buf []byte, final bool, press func(Key)) int {
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b != '\x1b' {
			if k := KeyForByte(b); k != KeyNone {
				press(k)
			}
			continue
		}

		if i+1 == len(buf) {
			if !final {
				return i
			}
			press(KeyMenu)
			continue
		}
		if buf[i+1] != '[' && buf[i+1] != 'O' {
			press(KeyMenu)
			continue
		}

		// Skip parameter bytes up to the final byte of the sequence.
		j := i + 2
		for j < len(buf) && (buf[j] >= '0' && buf[j] <= '9' || buf[j] == ';') {
			j++
		}
		if j == len(buf) {
			if !final {
				return i
			}
			i = j
			continue
		}
		switch buf[j] {
		case 'A': // Up arrow
			press(KeyThrust)
		case 'C': // Right arrow
			press(KeyRight)
		case 'D': // Left arrow
			press(KeyLeft)
		}
		i = j
	}
	return len(buf)
}
