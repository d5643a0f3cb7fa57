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

import "github.com/gdamore/termgrid/wcwidth"

// Buffer is a row-major grid of Cells with bounds-safe access: an
// out-of-range write is a no-op and an out-of-range read returns the
// default cell.
type Buffer struct {
	width, height int
	cells         []Cell
	blank         Cell
}

// NewBuffer allocates a Buffer of the given size, filled with DefaultCell
// cells. Negative dimensions are clamped to zero.
func NewBuffer(width, height int) *Buffer {
	return newBuffer(width, height, DefaultCell)
}

// NewTransparentBuffer allocates a Buffer of the given size, filled with
// the zero-value Cell rather than DefaultCell. An out-of-range read and a
// Clear both settle on the zero-value cell, which Cell.IsTransparent
// reports as transparent — the shape an overlay plane's own buffer
// needs so that an untouched cell lets whatever is beneath it in a
// composited stack show through.
func NewTransparentBuffer(width, height int) *Buffer {
	return newBuffer(width, height, Cell{})
}

func newBuffer(width, height int, blank Cell) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	b := &Buffer{width: width, height: height, blank: blank}
	b.cells = make([]Cell, width*height)
	b.Clear()
	return b
}

// Size returns the buffer's width and height.
func (b *Buffer) Size() (int, int) { return b.width, b.height }

func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.width && y < b.height
}

func (b *Buffer) index(x, y int) int { return y*b.width + x }

// GetCell returns the cell at (x,y), or the buffer's blank cell if out of
// bounds (DefaultCell for a Buffer from NewBuffer, the zero-value Cell for
// one from NewTransparentBuffer).
func (b *Buffer) GetCell(x, y int) Cell {
	if !b.inBounds(x, y) {
		return b.blank
	}
	return b.cells[b.index(x, y)]
}

// SetCell writes c at (x,y). Out-of-range positions are silently
// ignored.
func (b *Buffer) SetCell(x, y int, c Cell) {
	if !b.inBounds(x, y) {
		return
	}
	b.cells[b.index(x, y)] = c
}

// Clear resets every cell in the buffer to its blank cell.
func (b *Buffer) Clear() {
	for i := range b.cells {
		b.cells[i] = b.blank
	}
}

// Rect is an axis-aligned rectangle in buffer coordinates, half-open on
// the high end ([X, X+W) × [Y, Y+H)).
type Rect struct {
	X, Y, W, H int
}

// Fill sets every cell within r (clipped to the buffer bounds) to c.
func (b *Buffer) Fill(r Rect, c Cell) {
	x0, y0, x1, y1 := clipRect(r, b.width, b.height)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			b.cells[b.index(x, y)] = c
		}
	}
}

func clipRect(r Rect, width, height int) (x0, y0, x1, y1 int) {
	x0, y0 = r.X, r.Y
	x1, y1 = r.X+r.W, r.Y+r.H
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > width {
		x1 = width
	}
	if y1 > height {
		y1 = height
	}
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return
}

// Resize reallocates the buffer to the given size, discarding all prior
// content. Callers that diff against a resized buffer see every cell as
// fresh, which is what forces the full redraw after a terminal resize.
func (b *Buffer) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	b.width, b.height = width, height
	b.cells = make([]Cell, width*height)
	b.Clear()
}

// Print decodes s one grapheme at a time (base rune plus any trailing
// combining marks, per wcwidth.IsCombining) starting at (x,y), styling
// every base cell with fg, bg and attrs. A wide (width-2) base that
// would land in the buffer's last column cannot fit and is written as a
// single space instead. Combining marks always attach to the most
// recent base cell, never to a continuation column.
func (b *Buffer) Print(x, y int, s string, fg, bg Color, attrs AttrMask) {
	col := x
	var base *Cell
	for _, r := range s {
		if wcwidth.IsCombining(r) {
			if base != nil {
				base.addCombining(r)
			}
			continue
		}
		w := wcwidth.Rune(r)
		if w <= 0 {
			w = 1
		}
		if w == 2 && col == b.width-1 {
			c := Cell{Base: ' ', Fg: fg, Bg: bg, Attrs: attrs}
			b.SetCell(col, y, c)
			base = nil
			col++
			continue
		}
		c := Cell{Base: r, Fg: fg, Bg: bg, Attrs: attrs}
		b.SetCell(col, y, c)
		if b.inBounds(col, y) {
			base = &b.cells[b.index(col, y)]
		} else {
			base = nil
		}
		col++
		if w == 2 {
			b.SetCell(col, y, Cell{Base: 0, Fg: fg, Bg: bg, Attrs: attrs})
			col++
		}
	}
}
