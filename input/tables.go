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

// csiLetterKeys maps a CSI final letter (no numeric prefix, or the
// letter following a "1;N" modifier prefix) straight to a special key.
var csiLetterKeys = map[byte]SpecialKey{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
	'H': KeyHome,
	'F': KeyEnd,
	'Z': KeyBackTab,
}

// csiTildeKeys maps the numeric code preceding a `~` final byte to a
// special key.
var csiTildeKeys = map[int]SpecialKey{
	1:  KeyHome,
	7:  KeyHome,
	2:  KeyInsert,
	3:  KeyDelete,
	4:  KeyEnd,
	8:  KeyEnd,
	5:  KeyPageUp,
	6:  KeyPageDown,
	11: KeyF1,
	12: KeyF2,
	13: KeyF3,
	14: KeyF4,
	15: KeyF5,
	17: KeyF6,
	18: KeyF7,
	19: KeyF8,
	20: KeyF9,
	21: KeyF10,
	23: KeyF11,
	24: KeyF12,
}

// ss3Keys maps an SS3 (ESC O x) final byte to a special key: the
// arrow/home/end letters match their CSI counterparts, P/Q/R/S select
// f1..f4.
var ss3Keys = map[byte]SpecialKey{
	'P': KeyF1,
	'Q': KeyF2,
	'R': KeyF3,
	'S': KeyF4,
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
	'H': KeyHome,
	'F': KeyEnd,
}

// kittyPUAKeys maps the Kitty keyboard protocol's private-use-area
// codepoint range (0xE000-0xE0FF) to special keys: 0xE000 is escape,
// 0xE001 enter, and so on through 0xE014..0xE01F for f1..f12.
var kittyPUAKeys = map[rune]SpecialKey{
	0xE000: KeyEscape,
	0xE001: KeyEnter,
	0xE002: KeyTab,
	0xE003: KeyBackspace,
	0xE004: KeyInsert,
	0xE005: KeyDelete,
	0xE006: KeyLeft,
	0xE007: KeyRight,
	0xE008: KeyUp,
	0xE009: KeyDown,
	0xE00A: KeyPageUp,
	0xE00B: KeyPageDown,
	0xE00C: KeyHome,
	0xE00D: KeyEnd,
	0xE014: KeyF1,
	0xE015: KeyF2,
	0xE016: KeyF3,
	0xE017: KeyF4,
	0xE018: KeyF5,
	0xE019: KeyF6,
	0xE01A: KeyF7,
	0xE01B: KeyF8,
	0xE01C: KeyF9,
	0xE01D: KeyF10,
	0xE01E: KeyF11,
	0xE01F: KeyF12,
}

// kittyNumpadKeys folds Kitty's keypad enter and keypad navigation
// codepoints (57414, 57417-57426) into the ordinary key set. The keypad
// digit and operator codepoints of the 57399-57426 range are not in
// the table and decode as Keys carrying the raw Kitty codepoint.
var kittyNumpadKeys = map[rune]SpecialKey{
	57414: KeyEnter, // kp_enter
	57417: KeyLeft,  // kp_left
	57418: KeyRight, // kp_right
	57419: KeyUp,    // kp_up
	57420: KeyDown,  // kp_down
	57421: KeyPageUp,
	57422: KeyPageDown,
	57423: KeyHome,
	57424: KeyEnd,
	57425: KeyInsert,
	57426: KeyDelete,
}

// canonicalControl maps a C0 control byte (0x00-0x1F) plus 0x7F to the
// canonical Key it must always decode to. Of the bytes not present here,
// 0x01-0x1A decode to Codepoint 'a'+(b-1) with ModCtrl set; 0x00 and
// 0x1C-0x1F produce no event.
func canonicalControl(b byte) (Key, bool) {
	switch b {
	case '\r':
		return Key{Special: KeyEnter}, true
	case '\t':
		return Key{Special: KeyTab}, true
	case 0x1b:
		return Key{Special: KeyEscape}, true
	case 0x7f, 0x08:
		return Key{Special: KeyBackspace}, true
	}
	return Key{}, false
}
