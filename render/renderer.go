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

package render

import (
	"fmt"
	"io"

	"github.com/gdamore/termgrid/cellbuf"
)

// Renderer owns a front buffer (the terminal's last known state) and a
// back buffer (what the application draws into), and turns their
// difference into a minimal escape-sequence stream: cursor tracking
// elides redundant `CSI H` moves, a current-style latch elides
// redundant SGR, and a row-major walk emits only the dirty cells. The
// ColorDepth parameter makes the same Renderer downgrade colors to
// whatever the backend's capability probe determined.
type Renderer struct {
	front, back   *cellbuf.Buffer
	width, height int
	depth         ColorDepth

	cursorX, cursorY int
	curFg, curBg     cellbuf.Color
	curAttrs         cellbuf.AttrMask
	styleValid       bool
	fullRedraw       bool
}

// NewRenderer creates a Renderer for a width x height terminal at the
// given color depth. The first Flush is always a full redraw.
func NewRenderer(width, height int, depth ColorDepth) *Renderer {
	r := &Renderer{
		front:      cellbuf.NewBuffer(width, height),
		back:       cellbuf.NewBuffer(width, height),
		width:      width,
		height:     height,
		depth:      depth,
		cursorX:    -1,
		cursorY:    -1,
		fullRedraw: true,
	}
	return r
}

// Back returns the application-drawable buffer.
func (r *Renderer) Back() *cellbuf.Buffer { return r.back }

// Resize reallocates both buffers and forces a full redraw on the next
// Flush.
func (r *Renderer) Resize(width, height int) {
	r.width, r.height = width, height
	r.front = cellbuf.NewBuffer(width, height)
	r.back = cellbuf.NewBuffer(width, height)
	r.cursorX, r.cursorY = -1, -1
	r.styleValid = false
	r.fullRedraw = true
}

// SetDepth changes the color depth used by future Flush calls.
func (r *Renderer) SetDepth(depth ColorDepth) { r.depth = depth }

// Flush writes the bytes needed to bring the terminal from front's state
// to back's state, then copies back into front. Emission order per cell
// is cursor move, style, then glyph bytes.
func (r *Renderer) Flush(w io.Writer) error {
	var buf []byte
	for y := 0; y < r.height; y++ {
		x := 0
		for x < r.width {
			back := r.back.GetCell(x, y)
			front := r.front.GetCell(x, y)
			if !r.fullRedraw && back.DiffEqual(front) {
				x++
				continue
			}
			if back.IsContinuation() {
				// The base column to its left already advanced the
				// cursor across this cell; nothing to emit.
				r.front.SetCell(x, y, back)
				x++
				continue
			}
			buf = r.emitMove(buf, x, y)
			buf = r.emitStyle(buf, back.Fg, back.Bg, back.Attrs)
			buf = appendRune(buf, back.Base)
			for i := 0; i < back.NumCombining; i++ {
				buf = appendRune(buf, back.Combining[i])
			}
			width := 1
			if x+1 < r.width && r.back.GetCell(x+1, y).IsContinuation() {
				width = 2
			}
			r.cursorX += width
			r.front.SetCell(x, y, back)
			if width == 2 {
				r.front.SetCell(x+1, y, r.back.GetCell(x+1, y))
			}
			x += width
		}
	}
	r.fullRedraw = false
	if len(buf) == 0 {
		return nil
	}
	_, err := w.Write(buf)
	return err
}

func (r *Renderer) emitMove(buf []byte, x, y int) []byte {
	if r.cursorX == x && r.cursorY == y {
		return buf
	}
	buf = append(buf, fmt.Sprintf("\x1b[%d;%dH", y+1, x+1)...)
	r.cursorX, r.cursorY = x, y
	return buf
}

func (r *Renderer) emitStyle(buf []byte, fg, bg cellbuf.Color, attrs cellbuf.AttrMask) []byte {
	if r.styleValid && fg == r.curFg && bg == r.curBg && attrs == r.curAttrs {
		return buf
	}
	buf = append(buf, "\x1b[0m"...)
	if attrs.Has(cellbuf.AttrBold) {
		buf = append(buf, "\x1b[1m"...)
	}
	if attrs.Has(cellbuf.AttrDim) {
		buf = append(buf, "\x1b[2m"...)
	}
	if attrs.Has(cellbuf.AttrItalic) {
		buf = append(buf, "\x1b[3m"...)
	}
	if attrs.Has(cellbuf.AttrUnderline) {
		buf = append(buf, "\x1b[4m"...)
	}
	if attrs.Has(cellbuf.AttrBlink) {
		buf = append(buf, "\x1b[5m"...)
	}
	if attrs.Has(cellbuf.AttrReverse) {
		buf = append(buf, "\x1b[7m"...)
	}
	if attrs.Has(cellbuf.AttrStrikethrough) {
		buf = append(buf, "\x1b[9m"...)
	}
	buf = r.emitColor(buf, Downgrade(fg, r.depth), true)
	buf = r.emitColor(buf, Downgrade(bg, r.depth), false)
	r.curFg, r.curBg, r.curAttrs, r.styleValid = fg, bg, attrs, true
	return buf
}

func (r *Renderer) emitColor(buf []byte, c cellbuf.Color, fg bool) []byte {
	if c.IsDefault() {
		return buf
	}
	if c.IsRGB() {
		cr, cg, cb := c.RGBTriple()
		if fg {
			return append(buf, fmt.Sprintf("\x1b[38;2;%d;%d;%dm", cr, cg, cb)...)
		}
		return append(buf, fmt.Sprintf("\x1b[48;2;%d;%d;%dm", cr, cg, cb)...)
	}
	idx := c.Indexed()
	if idx < 8 {
		base := 30
		if !fg {
			base = 40
		}
		return append(buf, fmt.Sprintf("\x1b[%dm", base+idx)...)
	}
	if idx < 16 {
		base := 90
		if !fg {
			base = 100
		}
		return append(buf, fmt.Sprintf("\x1b[%dm", base+idx-8)...)
	}
	if fg {
		return append(buf, fmt.Sprintf("\x1b[38;5;%dm", idx)...)
	}
	return append(buf, fmt.Sprintf("\x1b[48;5;%dm", idx)...)
}

func appendRune(buf []byte, r rune) []byte {
	if r == 0 {
		return buf
	}
	var tmp [4]byte
	n := encodeRuneUTF8(tmp[:], r)
	return append(buf, tmp[:n]...)
}

// encodeRuneUTF8 is a minimal UTF-8 encoder kept local to render so the
// hot emission path (Flush) never allocates through unicode/utf8's
// string-returning helpers.
func encodeRuneUTF8(dst []byte, r rune) int {
	switch {
	case r < 0x80:
		dst[0] = byte(r)
		return 1
	case r < 0x800:
		dst[0] = 0xC0 | byte(r>>6)
		dst[1] = 0x80 | byte(r)&0x3F
		return 2
	case r < 0x10000:
		dst[0] = 0xE0 | byte(r>>12)
		dst[1] = 0x80 | byte(r>>6)&0x3F
		dst[2] = 0x80 | byte(r)&0x3F
		return 3
	default:
		dst[0] = 0xF0 | byte(r>>18)
		dst[1] = 0x80 | byte(r>>12)&0x3F
		dst[2] = 0x80 | byte(r>>6)&0x3F
		dst[3] = 0x80 | byte(r)&0x3F
		return 4
	}
}
