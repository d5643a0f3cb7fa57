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

package cellbuf

// MaxCombining is the number of combining codepoints a Cell can carry
// beyond its base rune. Extra combiners beyond this cap are dropped
// silently by Buffer.Print. A fixed array keeps Cell comparable and
// allocation-free.
const MaxCombining = 4

// Cell is one rendered grid position: a base codepoint, up to
// MaxCombining combining marks riding on it, foreground/background
// colors and an attribute set.
//
// A Cell whose Base is 0 is a continuation marker: it follows a
// double-wide base cell at the preceding column and carries no glyph of
// its own. Continuation markers compare equal to each other regardless
// of their Fg/Bg/Attrs for diff purposes (see Cell.DiffEqual).
type Cell struct {
	Base         rune
	Combining    [MaxCombining]rune
	NumCombining int
	Fg, Bg       Color
	Attrs        AttrMask
}

// DefaultCell is the blank cell: a space, default colors, no attrs. It
// differs from the zero Cell, whose base 0 marks a continuation.
var DefaultCell = Cell{Base: ' '}

// IsContinuation reports whether c is the right-hand half of a
// double-wide character.
func (c Cell) IsContinuation() bool { return c.Base == 0 }

// DiffEqual reports whether c and other are indistinguishable for
// rendering purposes: same glyph, same combiners, same styling. Two
// continuation markers are always DiffEqual to each other, since a
// continuation cell carries no independent style; a continuation marker
// never matches a non-continuation cell.
func (c Cell) DiffEqual(other Cell) bool {
	if c.IsContinuation() || other.IsContinuation() {
		return c.IsContinuation() == other.IsContinuation()
	}
	if c.Base != other.Base || c.NumCombining != other.NumCombining {
		return false
	}
	for i := 0; i < c.NumCombining; i++ {
		if c.Combining[i] != other.Combining[i] {
			return false
		}
	}
	return c.Fg == other.Fg && c.Bg == other.Bg && c.Attrs == other.Attrs
}

// IsTransparent reports whether c should let whatever lies beneath it in
// a composited stack show through: default background, empty glyph (Base
// 0), no attributes. An untouched cell in a
// freshly created overlay plane is the zero-value Cell and satisfies this
// automatically; a continuation marker that inherited a non-default
// background or attribute from a printed wide character does not, so the
// compositor still paints it atomically alongside its base column.
func (c Cell) IsTransparent() bool {
	return c.Base == 0 && c.Bg.IsDefault() && c.Attrs == 0
}

// addCombining appends r to c's combining array if capacity remains; it
// silently drops r otherwise.
func (c *Cell) addCombining(r rune) {
	if c.NumCombining >= MaxCombining {
		return
	}
	c.Combining[c.NumCombining] = r
	c.NumCombining++
}
