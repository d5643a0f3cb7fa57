package input

import (
	"errors"
	"testing"
	"time"
)

// chunkSource replays a fixed sequence of chunks, one per ReadTimeout
// call, regardless of the requested duration — sufficient to exercise
// Reader's control flow without a real clock.
type chunkSource struct {
	chunks [][]byte
	i      int
}

func (c *chunkSource) ReadTimeout(time.Duration) ([]byte, error) {
	if c.i >= len(c.chunks) {
		return nil, nil
	}
	ch := c.chunks[c.i]
	c.i++
	return ch, nil
}

func TestReaderDecodesQueuedEvents(t *testing.T) {
	src := &chunkSource{chunks: [][]byte{[]byte{0x1b, '[', 'A', 0x1b, '[', 'B'}}}
	r := NewReader(src, nil, time.Millisecond)

	ev1, err := r.ReadEvent(time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if k, ok := ev1.(*Key); !ok || k.Special != KeyUp {
		t.Fatalf("first event = %#v, want Up", ev1)
	}

	ev2, err := r.ReadEvent(time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if k, ok := ev2.(*Key); !ok || k.Special != KeyDown {
		t.Fatalf("second event = %#v, want Down", ev2)
	}
}

func TestReaderFlushesBareEscapeOnTimeout(t *testing.T) {
	src := &chunkSource{chunks: [][]byte{{0x1b}}}
	r := NewReader(src, nil, time.Millisecond)

	ev, err := r.ReadEvent(time.Second)
	if err != nil {
		t.Fatal(err)
	}
	k, ok := ev.(*Key)
	if !ok || k.Special != KeyEscape {
		t.Fatalf("event = %#v, want bare Escape after timeout", ev)
	}
}

type errSource struct{ err error }

func (e errSource) ReadTimeout(time.Duration) ([]byte, error) { return nil, e.err }

func TestReaderPropagatesSourceError(t *testing.T) {
	boom := errors.New("boom")
	r := NewReader(errSource{boom}, nil, time.Millisecond)
	_, err := r.ReadEvent(time.Second)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}
