// Copyright 2025 The TCell Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package input

import "time"

// ByteSource is the minimal capability a Reader needs from its caller: a
// way to wait up to d for more input bytes. Returning (nil, nil) means
// the wait timed out with nothing available. backend/posix implements
// this over its tty fd (via poll) and backend/mock over an in-memory
// queue; backend/windows translates console records directly and does
// not use a Reader.
type ByteSource interface {
	ReadTimeout(d time.Duration) ([]byte, error)
}

// Reader applies the escape-timeout policy on top of a Decoder: a bare
// ESC byte is ambiguous (it might be a standalone Escape keypress, or
// the first byte of a CSI/SS3 sequence) until either more bytes arrive
// or the escape timeout elapses. ReadEvent is a blocking call driven by
// the caller's own poll loop; like the Decoder it wraps, a Reader has
// no goroutine of its own.
type Reader struct {
	dec           *Decoder
	src           ByteSource
	escapeTimeout time.Duration
	queue         []Event
}

// DefaultEscapeTimeout is used when NewReader is given a zero duration.
const DefaultEscapeTimeout = 50 * time.Millisecond

// NewReader builds a Reader over src using dec (a fresh *Decoder if nil).
func NewReader(src ByteSource, dec *Decoder, escapeTimeout time.Duration) *Reader {
	if dec == nil {
		dec = NewDecoder()
	}
	if escapeTimeout <= 0 {
		escapeTimeout = DefaultEscapeTimeout
	}
	return &Reader{dec: dec, src: src, escapeTimeout: escapeTimeout}
}

// ReadEvent waits up to timeout for the next decoded Event. It returns
// (nil, nil) on timeout with nothing decoded.
func (r *Reader) ReadEvent(timeout time.Duration) (Event, error) {
	if ev, ok := r.dequeue(); ok {
		return ev, nil
	}

	data, err := r.src.ReadTimeout(timeout)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	if err := r.feedAll(data); err != nil {
		return nil, err
	}
	if ev, ok := r.dequeue(); ok {
		return ev, nil
	}

	if !r.dec.IsPending() {
		return nil, nil
	}

	// A sequence is mid-flight (commonly a bare ESC). Give it a short,
	// bounded grace period for follow-up bytes before declaring it done.
	more, err := r.src.ReadTimeout(r.escapeTimeout)
	if err != nil {
		return nil, err
	}
	if len(more) == 0 {
		if ev := r.dec.Reset(); ev != nil {
			return ev, nil
		}
		return nil, nil
	}
	if err := r.feedAll(more); err != nil {
		return nil, err
	}
	if ev, ok := r.dequeue(); ok {
		return ev, nil
	}
	return nil, nil
}

func (r *Reader) feedAll(data []byte) error {
	for _, b := range data {
		ev, err := r.dec.Feed(b)
		if err != nil {
			return err
		}
		if ev != nil {
			r.queue = append(r.queue, ev)
		}
	}
	return nil
}

func (r *Reader) dequeue() (Event, bool) {
	if len(r.queue) == 0 {
		return nil, false
	}
	ev := r.queue[0]
	r.queue = r.queue[1:]
	return ev, true
}
