//go:build windows

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

// Package windows implements backend.Backend for the Windows console:
// virtual-terminal mode on stdin/stdout, direct INPUT_RECORD
// translation (rather than routing through input.Decoder, which is a
// byte-stream parser the Windows console input API has no use for),
// UTF-16 surrogate pair buffering, and buffer-size-event-driven resize.
//
// This targets the modern VT-capable console (Windows 10 1511+), where
// ENABLE_VIRTUAL_TERMINAL_INPUT and _PROCESSING are available; older
// mixed msys/stty console worlds are not supported.
package windows

import (
	"fmt"
	"time"
	"unicode/utf16"

	"golang.org/x/sys/windows"

	"github.com/gdamore/termgrid/backend"
	"github.com/gdamore/termgrid/input"
	"github.com/gdamore/termgrid/render"
)

// Backend is the Windows console implementation of backend.Backend.
type Backend struct {
	hin, hout windows.Handle

	savedInMode, savedOutMode uint32
	savedOutCP                uint32

	opts backend.Options
	caps backend.Capabilities
	size backend.Size

	pendingSurrogate uint16
	haveSurrogate    bool

	queue []input.Event
}

// New acquires the console input/output handles for the current
// process's stdin/stdout.
func New() (*Backend, error) {
	hin, err := windows.GetStdHandle(windows.STD_INPUT_HANDLE)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", backend.ErrNotATerminal, err)
	}
	hout, err := windows.GetStdHandle(windows.STD_OUTPUT_HANDLE)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", backend.ErrNotATerminal, err)
	}
	var mode uint32
	if err := windows.GetConsoleMode(hin, &mode); err != nil {
		return nil, backend.ErrNotATerminal
	}
	return &Backend{hin: hin, hout: hout}, nil
}

// Init implements backend.Backend: saves modes/code page, switches to
// UTF-8, and enables ENABLE_VIRTUAL_TERMINAL_INPUT / _PROCESSING plus
// window/mouse input.
func (b *Backend) Init(opts backend.Options) (backend.Capabilities, backend.Size, error) {
	b.opts = opts

	if err := windows.GetConsoleMode(b.hin, &b.savedInMode); err != nil {
		return backend.Capabilities{}, backend.Size{}, fmt.Errorf("%w: %v", backend.ErrNotATerminal, err)
	}
	if err := windows.GetConsoleMode(b.hout, &b.savedOutMode); err != nil {
		return backend.Capabilities{}, backend.Size{}, fmt.Errorf("%w: %v", backend.ErrNotATerminal, err)
	}
	b.savedOutCP = windows.GetConsoleOutputCP()

	if err := windows.SetConsoleOutputCP(windows.CP_UTF8); err != nil {
		return backend.Capabilities{}, backend.Size{}, fmt.Errorf("%w: %v", backend.ErrSetModeFailed, err)
	}

	inMode := windows.ENABLE_VIRTUAL_TERMINAL_INPUT | windows.ENABLE_WINDOW_INPUT | windows.ENABLE_EXTENDED_FLAGS
	if opts.EnableMouse {
		inMode |= windows.ENABLE_MOUSE_INPUT
	}
	if err := windows.SetConsoleMode(b.hin, uint32(inMode)); err != nil {
		return backend.Capabilities{}, backend.Size{}, fmt.Errorf("%w: %v", backend.ErrSetModeFailed, err)
	}

	outMode := b.savedOutMode | windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING
	if err := windows.SetConsoleMode(b.hout, outMode); err != nil {
		return backend.Capabilities{}, backend.Size{}, fmt.Errorf("%w: %v", backend.ErrSetModeFailed, err)
	}

	b.caps = backend.Capabilities{
		ColorDepth:     colorDepthFromEnv(),
		Mouse:          opts.EnableMouse,
		BracketedPaste: opts.EnableBracketedPaste,
		FocusEvents:    opts.EnableFocusEvents,
	}

	sz, err := b.queryWinSize()
	if err != nil {
		sz = backend.Size{Width: 80, Height: 24}
	}
	b.size = sz

	if _, err := b.WriteBytes([]byte(backend.EnterSequence(opts, b.caps))); err != nil {
		return b.caps, b.size, err
	}
	return b.caps, b.size, nil
}

// colorDepthFromEnv reports TrueColor unconditionally; unlike
// backend.ProbeCapabilities it reads neither TERM nor COLORTERM. Once
// ENABLE_VIRTUAL_TERMINAL_PROCESSING is accepted at all, the console
// understands true-color SGR sequences (Windows 10 1511+), so there is
// no downgrade tier to detect the way there is over an arbitrary POSIX
// pty.
func colorDepthFromEnv() render.ColorDepth {
	return render.TrueColor
}

// Deinit implements backend.Backend.
func (b *Backend) Deinit() error {
	var firstErr error
	note := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	_, err := b.WriteBytes([]byte(backend.LeaveSequence(b.opts, b.caps)))
	note(err)

	note(windows.SetConsoleMode(b.hin, b.savedInMode))
	note(windows.SetConsoleMode(b.hout, b.savedOutMode))
	note(windows.SetConsoleOutputCP(b.savedOutCP))

	return firstErr
}

func (b *Backend) queryWinSize() (backend.Size, error) {
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(b.hout, &info); err != nil {
		return backend.Size{}, err
	}
	w := int(info.Window.Right-info.Window.Left) + 1
	h := int(info.Window.Bottom-info.Window.Top) + 1
	return backend.Size{Width: w, Height: h}, nil
}

// Size implements backend.Backend.
func (b *Backend) Size() backend.Size { return b.size }

// WriteBytes implements backend.Backend.
func (b *Backend) WriteBytes(p []byte) (int, error) {
	var n uint32
	err := windows.WriteFile(b.hout, p, &n, nil)
	if err != nil {
		return int(n), fmt.Errorf("%w: %v", backend.ErrWriteFailed, err)
	}
	if int(n) < len(p) {
		return int(n), backend.ErrPartialWrite
	}
	return int(n), nil
}

// FlushOutput implements backend.Backend. The console has no
// user-space output buffering layer to flush.
func (b *Backend) FlushOutput() error { return nil }

// PollEvent implements backend.Backend by waiting on the console input
// handle and translating whatever INPUT_RECORDs arrive directly into
// Events — the Windows console API delivers structured records, so
// unlike backend/posix there is no byte-stream decoder in this path.
func (b *Backend) PollEvent(timeout time.Duration) (input.Event, error) {
	if len(b.queue) > 0 {
		ev := b.queue[0]
		b.queue = b.queue[1:]
		return ev, nil
	}

	ms := uint32(windows.INFINITE)
	if timeout >= 0 {
		ms = uint32(timeout / time.Millisecond)
	}
	wait, err := windows.WaitForSingleObject(b.hin, ms)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", backend.ErrReadFailed, err)
	}
	if wait == uint32(windows.WAIT_TIMEOUT) {
		return nil, nil
	}

	records, err := readConsoleInput(b.hin)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", backend.ErrReadFailed, err)
	}
	for _, rec := range records {
		if ev := b.translate(rec); ev != nil {
			b.queue = append(b.queue, ev)
		}
	}
	if len(b.queue) == 0 {
		return nil, nil
	}
	ev := b.queue[0]
	b.queue = b.queue[1:]
	return ev, nil
}

// PeekEvent implements backend.Backend.
func (b *Backend) PeekEvent() (input.Event, error) {
	return b.PollEvent(0)
}

// translate converts one decoded console record into an Event,
// buffering the high half of a UTF-16 surrogate pair across records.
func (b *Backend) translate(rec inputRecord) input.Event {
	switch rec.kind {
	case recKey:
		if !rec.keyDown {
			return nil
		}
		if utf16.IsSurrogate(rune(rec.char)) {
			if !b.haveSurrogate {
				b.pendingSurrogate = rec.char
				b.haveSurrogate = true
				return nil
			}
			r := utf16.DecodeRune(rune(b.pendingSurrogate), rune(rec.char))
			b.haveSurrogate = false
			return &input.Key{Codepoint: r, Mods: rec.mods}
		}
		if special, ok := virtualKeyTable[rec.vk]; ok {
			return &input.Key{Special: special, Mods: rec.mods}
		}
		if rec.char == 0 {
			return nil
		}
		return canonicalKey(rune(rec.char), rec.mods)

	case recMouse:
		return translateMouseRecord(rec)

	case recResize:
		b.size = backend.Size{Width: rec.width, Height: rec.height}
		return input.Resize{Width: rec.width, Height: rec.height}

	case recFocus:
		if !b.opts.EnableFocusEvents {
			return nil
		}
		return input.Focus(rec.focused)
	}
	return nil
}

// canonicalKey applies the same canonicalization rules the byte-stream
// decoder enforces to a console character the virtual-key table didn't
// already resolve: control codes never leak through as raw codepoints.
func canonicalKey(cp rune, mods input.Modifiers) *input.Key {
	switch cp {
	case 9:
		return &input.Key{Special: input.KeyTab, Mods: mods}
	case 13:
		return &input.Key{Special: input.KeyEnter, Mods: mods}
	case 27:
		return &input.Key{Special: input.KeyEscape, Mods: mods}
	case 8, 127:
		return &input.Key{Special: input.KeyBackspace, Mods: mods}
	}
	if cp >= 1 && cp <= 26 {
		return &input.Key{Codepoint: 'a' + cp - 1, Mods: mods | input.ModCtrl}
	}
	return &input.Key{Codepoint: cp, Mods: mods}
}

var _ backend.Backend = (*Backend)(nil)
