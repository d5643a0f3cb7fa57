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

// Package wcwidth maps Unicode codepoints to terminal display width.
//
// Display width is not a property Unicode assigns directly; terminals
// approximate it from the East Asian Width property plus a handful of
// special-cased ranges (combining marks, control codes, zero-width
// joiners). This package uses github.com/mattn/go-runewidth's
// approximation rather than attempting full Unicode grapheme-cluster
// segmentation, which this library does not do.
package wcwidth

import (
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/width"
)

func init() {
	runewidth.DefaultCondition.EastAsianWidth = ambiguousIsWide()
}

// ambiguousIsWide decides, from the process locale, whether East-Asian
// "ambiguous width" runes (e.g. many box-drawing and Greek/Cyrillic
// characters) should be measured as one or two cells. CJK locales
// conventionally render them double-wide; everything else renders them
// narrow.
func ambiguousIsWide() bool {
	name := os.Getenv("LC_ALL")
	if name == "" {
		name = os.Getenv("LC_CTYPE")
	}
	if name == "" {
		name = os.Getenv("LANG")
	}
	name = strings.ToLower(name)
	for _, prefix := range []string{"zh", "ja", "ko"} {
		if strings.HasPrefix(name, prefix) {
			return !strings.Contains(name, "narrow") && !strings.Contains(name, "half")
		}
	}
	return false
}

// Rune returns the display width of r: 0 for combining/zero-width marks
// and most control codes, 1 for ordinary printable runes, 2 for wide
// (full-width or East-Asian-wide/ambiguous-in-CJK-locale) runes.
func Rune(r rune) int {
	if r == 0 {
		return 0
	}
	if r < 0x20 || r == 0x7f {
		return 0
	}
	// Fast path: runes x/text classifies as East Asian Fullwidth or Wide
	// are width 2; everything else, ambiguous-width runes included, falls
	// through to go-runewidth, which honors the ambiguous-width setting
	// configured in init().
	switch width.LookupRune(r).Kind() {
	case width.EastAsianFullwidth, width.EastAsianWide:
		return 2
	}
	return runewidth.RuneWidth(r)
}

// String returns the total display width of s, one grapheme base at a
// time (combining marks contribute 0).
func String(s string) int {
	w := 0
	for _, r := range s {
		w += Rune(r)
	}
	return w
}

// IsCombining reports whether r has zero display width and should be
// folded into the preceding cell as a combining mark rather than
// occupying a cell of its own.
func IsCombining(r rune) bool {
	return r != 0 && Rune(r) == 0
}
