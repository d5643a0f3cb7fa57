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

// Package input decodes a raw terminal input byte stream into canonical
// key, mouse, resize, paste and focus events.
//
// The decoder is a byte-at-a-time state machine (Decoder.Feed) wrapped by
// a small coordinator (Reader) that applies the escape-timeout policy a
// bare ESC byte requires. Neither type performs any I/O of its own —
// callers own the fd/console handle and hand bytes in one at a time (or
// in a loop over a read buffer).
package input

// Event is the tagged union produced by the decoder: exactly one of
// *Key, *Mouse, Resize, Paste or Focus.
type Event interface {
	isEvent()
}

// Modifiers records which modifier keys accompanied an input event. The
// bit values match the SGR modifier parameter convention used throughout
// CSI/SS3/Kitty dispatch: encoded modifier N means bits (N-1), so
// shift=1, alt=2, ctrl=4 — i.e. exactly these three bits.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModAlt
	ModCtrl
)

// modifiersFromParam decodes the SGR-style 1-based modifier parameter
// used by CSI, SS3 and Kitty `CSI u` sequences alike.
func modifiersFromParam(p int) Modifiers {
	if p <= 0 {
		return 0
	}
	return Modifiers(p-1) & (ModShift | ModAlt | ModCtrl)
}

// SpecialKey enumerates the non-codepoint keys the decoder can produce.
type SpecialKey int

const (
	KeyNone SpecialKey = iota
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// Key is a decoded keyboard event. Exactly one of Codepoint/Special is
// meaningful: Special != KeyNone means this is a special key and
// Codepoint must be ignored, otherwise Codepoint carries the rune.
//
// Canonicalization invariants enforced by the decoder (never violated by
// any code path): Enter is always Special==KeyEnter, never codepoint 13;
// Tab is always Special==KeyTab, never codepoint 9; Escape is always
// Special==KeyEscape, never codepoint 27; Backspace is always
// Special==KeyBackspace, never codepoint 127 or 8; Ctrl+letter is always
// Codepoint 'a'..'z' with ModCtrl set, never raw codepoint 1..26.
type Key struct {
	Codepoint rune
	Special   SpecialKey
	Mods      Modifiers
}

func (*Key) isEvent() {}

// HasCodepoint reports whether this Key carries a plain codepoint rather
// than a SpecialKey.
func (k *Key) HasCodepoint() bool { return k.Special == KeyNone }

// MouseButton enumerates the button/motion classification of a Mouse
// event.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseMiddle
	MouseRight
	MouseRelease
	MouseWheelUp
	MouseWheelDown
	MouseMove
)

// Mouse is a decoded SGR mouse event. X and Y are 0-indexed.
type Mouse struct {
	X, Y   int
	Button MouseButton
	Mods   Modifiers
}

func (*Mouse) isEvent() {}

// Resize reports the terminal's new size, in cells.
type Resize struct {
	Width, Height int
}

func (Resize) isEvent() {}

// Paste carries a bracketed-paste body. The byte slice aliases the
// decoder's internal paste buffer and is valid only until the next call
// to Decoder.Feed or Reader.ReadEvent — callers that need to retain it must
// copy.
type Paste []byte

func (Paste) isEvent() {}

// Focus reports a terminal focus-in (true) or focus-out (false) event.
type Focus bool

func (Focus) isEvent() {}
