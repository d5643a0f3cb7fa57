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

import (
	"os"
	"strings"

	"github.com/gdamore/termgrid/render"
)

// modernTerminals is the TERM allowlist that grants
// mouse/bracketed-paste/focus support. Order doesn't matter;
// membership does.
var modernTerminals = []string{
	"xterm", "rxvt", "screen", "tmux", "kitty", "alacritty", "iterm2",
	"wezterm", "foot", "vte", "gnome", "konsole", "ghostty",
}

// ProbeCapabilities inspects TERM and COLORTERM: substring match
// against "mono"/"256color" and the modern terminal allowlist,
// COLORTERM truecolor/24bit for true color. An empty TERM reports Mono
// with no mouse/paste/focus; any other unrecognized TERM gets the
// conservative default: basic color, no mouse/paste/focus. The
// probe reads the environment directly rather than a terminfo
// database — this library carries a hardcoded sequence set and does
// not parse terminfo.
func ProbeCapabilities() Capabilities {
	term := strings.ToLower(os.Getenv("TERM"))
	colorterm := strings.ToLower(os.Getenv("COLORTERM"))

	caps := Capabilities{ColorDepth: render.Basic8}

	switch {
	case term == "":
		return Capabilities{ColorDepth: render.Mono}
	case strings.Contains(term, "mono"):
		caps.ColorDepth = render.Mono
		return caps
	case strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit"):
		caps.ColorDepth = render.TrueColor
	case strings.Contains(term, "256color"):
		caps.ColorDepth = render.Color256
	}

	if isModernTerminal(term) {
		caps.Mouse = true
		caps.BracketedPaste = true
		caps.FocusEvents = true
	}
	return caps
}

func isModernTerminal(term string) bool {
	for _, name := range modernTerminals {
		if strings.Contains(term, name) {
			return true
		}
	}
	return false
}
