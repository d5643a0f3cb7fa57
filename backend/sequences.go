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

package backend

// Enter/leave escape sequences. Both backend/posix and backend/windows
// (once ENABLE_VIRTUAL_TERMINAL_PROCESSING is set) emit the same ANSI
// bytes, so they live here rather than being duplicated per platform.
const (
	SeqAltScreenEnter = "\x1b[?1049h"
	SeqAltScreenLeave = "\x1b[?1049l"
	SeqCursorHide     = "\x1b[?25l"
	SeqCursorShow     = "\x1b[?25h"
	SeqMouseSGREnter  = "\x1b[?1006h\x1b[?1003h"
	SeqMouseSGRLeave  = "\x1b[?1003l\x1b[?1006l"
	SeqPasteEnter     = "\x1b[?2004h"
	SeqPasteLeave     = "\x1b[?2004l"
	SeqFocusEnter     = "\x1b[?1004h"
	SeqFocusLeave     = "\x1b[?1004l"
	SeqSGRReset       = "\x1b[0m"
	SeqClearHome      = "\x1b[2J\x1b[H"
)

// EnterSequence builds the full init escape sequence for the given
// options and detected capabilities: alternate screen, hide cursor,
// clear+home, then whichever of mouse/paste/focus were both requested
// and supported.
func EnterSequence(opts Options, caps Capabilities) string {
	s := SeqAltScreenEnter + SeqCursorHide + SeqClearHome
	if opts.EnableMouse && caps.Mouse {
		s += SeqMouseSGREnter
	}
	if opts.EnableBracketedPaste && caps.BracketedPaste {
		s += SeqPasteEnter
	}
	if opts.EnableFocusEvents && caps.FocusEvents {
		s += SeqFocusEnter
	}
	return s
}

// LeaveSequence builds the exit sequence, reversing exactly what
// EnterSequence emitted, in the opposite order.
func LeaveSequence(opts Options, caps Capabilities) string {
	s := ""
	if opts.EnableFocusEvents && caps.FocusEvents {
		s += SeqFocusLeave
	}
	if opts.EnableBracketedPaste && caps.BracketedPaste {
		s += SeqPasteLeave
	}
	if opts.EnableMouse && caps.Mouse {
		s += SeqMouseSGRLeave
	}
	s += SeqSGRReset + SeqCursorShow + SeqAltScreenLeave
	return s
}
