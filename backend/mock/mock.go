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

// Package mock provides a pure-Go backend.Backend implementation with
// no real tty, for driving decoder/renderer/compositor/backend tests:
// tests push raw bytes into the shared input decoding path and capture
// what WriteBytes received, without a terminal emulator in between.
package mock

import (
	"sync"
	"time"

	"github.com/gdamore/termgrid/backend"
	"github.com/gdamore/termgrid/input"
	"github.com/gdamore/termgrid/render"
)

// Backend is a fake backend.Backend over an in-memory byte queue.
// Tests call Feed to enqueue raw input bytes (as if typed/pasted) and
// Written/Reset to inspect what the renderer/facade wrote out.
type Backend struct {
	mu sync.Mutex

	opts backend.Options
	caps Capabilities
	size backend.Size

	reader *input.Reader
	inbox  chan []byte

	pendingResize *input.Resize

	written []byte
}

// Capabilities lets a test pre-configure what Init reports.
type Capabilities = backend.Capabilities

// Option configures a Backend before use.
type Option interface{ apply(*Backend) }

type optionFunc func(*Backend)

func (f optionFunc) apply(b *Backend) { f(b) }

// WithSize sets the initial reported terminal size (default 80x24).
func WithSize(w, h int) Option {
	return optionFunc(func(b *Backend) { b.size = backend.Size{Width: w, Height: h} })
}

// WithCapabilities overrides the capabilities Init reports (default:
// true color, mouse/paste/focus all on — a fully featured mock).
func WithCapabilities(caps Capabilities) Option {
	return optionFunc(func(b *Backend) { b.caps = caps })
}

// New returns a ready-to-Init mock backend.
func New(opts ...Option) *Backend {
	b := &Backend{
		size:  backend.Size{Width: 80, Height: 24},
		caps:  Capabilities{ColorDepth: render.TrueColor, Mouse: true, BracketedPaste: true, FocusEvents: true},
		inbox: make(chan []byte, 64),
	}
	for _, o := range opts {
		o.apply(b)
	}
	return b
}

// Init implements backend.Backend.
func (b *Backend) Init(opts backend.Options) (backend.Capabilities, backend.Size, error) {
	b.opts = opts
	b.reader = input.NewReader(b, nil, opts.EscapeTimeout)
	return b.caps, b.size, nil
}

// Deinit implements backend.Backend.
func (b *Backend) Deinit() error { return nil }

// Size implements backend.Backend.
func (b *Backend) Size() backend.Size {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// SetSize changes the reported size and, if resizeEvent is true,
// arranges for the next PollEvent to return a Resize ahead of any
// queued input bytes — mirroring the real backends' drain-pending-
// resize-first behavior.
func (b *Backend) SetSize(w, h int, resizeEvent bool) {
	b.mu.Lock()
	b.size = backend.Size{Width: w, Height: h}
	b.mu.Unlock()
	if resizeEvent {
		b.pendingResize = &input.Resize{Width: w, Height: h}
	}
}

// WriteBytes implements backend.Backend, recording everything written
// so a test can assert on renderer output.
func (b *Backend) WriteBytes(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.written = append(b.written, p...)
	return len(p), nil
}

// FlushOutput implements backend.Backend; this mock buffers nothing.
func (b *Backend) FlushOutput() error { return nil }

// Written returns everything passed to WriteBytes since the backend was
// created or last Reset.
func (b *Backend) Written() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]byte, len(b.written))
	copy(out, b.written)
	return out
}

// Reset clears the recorded output buffer.
func (b *Backend) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.written = nil
}

// Feed enqueues raw bytes as if they had arrived from the terminal
// (keystrokes, an SGR mouse report, a bracketed paste, …).
func (b *Backend) Feed(p []byte) {
	cp := make([]byte, len(p))
	copy(cp, p)
	b.inbox <- cp
}

// ReadTimeout implements input.ByteSource over the in-memory inbox.
func (b *Backend) ReadTimeout(d time.Duration) ([]byte, error) {
	select {
	case p := <-b.inbox:
		return p, nil
	case <-time.After(d):
		return nil, nil
	}
}

// PollEvent implements backend.Backend, draining any pending synthetic
// resize before delegating to the shared input.Reader over this
// backend's in-memory byte inbox.
func (b *Backend) PollEvent(timeout time.Duration) (input.Event, error) {
	if b.pendingResize != nil {
		r := *b.pendingResize
		b.pendingResize = nil
		return r, nil
	}
	return b.reader.ReadEvent(timeout)
}

// PeekEvent implements backend.Backend as a zero-timeout PollEvent.
func (b *Backend) PeekEvent() (input.Event, error) {
	return b.PollEvent(0)
}

var _ backend.Backend = (*Backend)(nil)
