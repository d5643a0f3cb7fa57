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

// Package backend defines the platform-independent capability set every
// concrete backend (backend/posix, backend/windows, backend/mock)
// implements: raw-mode acquisition, capability detection, signal-safe
// resize notification, and the event-loop poll contract. The platform
// implementation is selected at compile time; callers compose a Backend
// with input, render and plane directly.
package backend

import (
	"errors"
	"time"

	"github.com/gdamore/termgrid/input"
	"github.com/gdamore/termgrid/render"
)

// Errors surfaced at the package boundary.
var (
	ErrNotATerminal    = errors.New("backend: not a terminal")
	ErrSetModeFailed   = errors.New("backend: failed to set terminal mode")
	ErrWriteFailed     = errors.New("backend: write failed")
	ErrPartialWrite    = errors.New("backend: partial write")
	ErrReadFailed      = errors.New("backend: read failed")
	ErrPipeSetupFailed = errors.New("backend: resize pipe setup failed")
	ErrTooManyBackends = errors.New("backend: too many backends registered for signal-safe resize")
)

// PasteOverflow is returned from PollEvent when the decoder's paste
// buffer exceeds its cap; it wraps input.ErrPasteOverflow so callers can
// errors.Is against either.
func PasteOverflow(cause error) error {
	return errors.Join(cause, input.ErrPasteOverflow)
}

// Size is a terminal size in character cells, with an optional pixel
// size when the platform reports one.
type Size struct {
	Width, Height           int
	PixelWidth, PixelHeight int
}

// Capabilities is detected once at backend Init. Sixel is only
// ever set when Options.ProbeDeviceAttributes requested the Primary
// Device Attributes handshake and the terminal answered; it stays false
// under the default env-var-only probe.
type Capabilities struct {
	ColorDepth     render.ColorDepth
	Mouse          bool
	BracketedPaste bool
	FocusEvents    bool
	Sixel          bool
}

// Options are the init-time configuration knobs: a plain struct an
// embedding application constructs and passes to Open, not a CLI flag
// set.
type Options struct {
	// InstallSIGWINCH controls whether the POSIX backend registers with
	// the process-global self-pipe SIGWINCH registry. Ignored on
	// Windows, where resize is delivered as a console buffer-size event.
	InstallSIGWINCH bool

	// EnableMouse, EnableBracketedPaste and EnableFocusEvents gate
	// emission of the corresponding enable/disable escape sequences,
	// conditioned on the backend's detected Capabilities.
	EnableMouse          bool
	EnableBracketedPaste bool
	EnableFocusEvents    bool

	// EscapeTimeout bounds how long the backend's input.Reader waits for
	// follow-up bytes after a bare ESC before flushing it as Key(escape).
	EscapeTimeout time.Duration

	// ProbeDeviceAttributes, when set, makes backend/posix send a
	// Primary Device Attributes query at Init and wait briefly for a
	// reply, setting Capabilities.Sixel if the terminal claims sixel
	// support. Off by default: most terminals answer fine, but Init
	// should never depend on one answering to make progress.
	ProbeDeviceAttributes bool

	// DeviceAttributesTimeout bounds how long Init waits for a Primary
	// Device Attributes reply when ProbeDeviceAttributes is set. Zero
	// means DefaultDeviceAttributesTimeout.
	DeviceAttributesTimeout time.Duration
}

// DefaultDeviceAttributesTimeout is used when Options.ProbeDeviceAttributes
// is set but DeviceAttributesTimeout is zero.
const DefaultDeviceAttributesTimeout = 200 * time.Millisecond

// DefaultOptions returns the conservative default: SIGWINCH handling and
// all three optional protocols enabled, escape timeout at
// input.DefaultEscapeTimeout.
func DefaultOptions() Options {
	return Options{
		InstallSIGWINCH:      true,
		EnableMouse:          true,
		EnableBracketedPaste: true,
		EnableFocusEvents:    true,
		EscapeTimeout:        input.DefaultEscapeTimeout,
	}
}

// Backend is the capability set every platform backend shares.
// Init/Deinit failures are fatal to the caller; everything else that
// can fail surfaces a recoverable error instead of panicking or
// wedging the terminal.
type Backend interface {
	// Init acquires the terminal: raw mode, alternate screen, capability
	// probe, optional mouse/paste/focus enable sequences, SIGWINCH
	// registration. Returns the detected Capabilities and initial Size.
	Init(opts Options) (Capabilities, Size, error)

	// Deinit reverses every escape sequence Init emitted, restores the
	// saved terminal mode, and releases owned resources. Idempotent and
	// best-effort: never leaves the terminal in raw mode, even on a
	// partial failure.
	Deinit() error

	// PollEvent waits up to timeout for the next decoded input.Event:
	// drain pending resize
	// first, then decoder backlog, then block on the input source, then
	// apply the escape-timeout grace period. Returns (nil, nil) on
	// timeout with nothing to report.
	PollEvent(timeout time.Duration) (input.Event, error)

	// PeekEvent returns what PollEvent(0) returns. The backends keep no
	// lookahead buffer, so the returned event is consumed: it is not put
	// back and a following PollEvent does not return it again.
	PeekEvent() (input.Event, error)

	// Size returns the last known terminal size.
	Size() Size

	// WriteBytes writes raw bytes to the terminal's output stream
	// (typically renderer Flush output). If fewer than len(p) bytes
	// were written it returns that count together with ErrPartialWrite.
	WriteBytes(p []byte) (int, error)

	// FlushOutput flushes any internal output buffering to the
	// underlying fd/handle.
	FlushOutput() error
}
