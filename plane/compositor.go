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

package plane

import (
	"github.com/gdamore/termgrid/cellbuf"
	"github.com/gdamore/termgrid/wcwidth"
)

// Target returns the composed buffer Compose writes into.
func (c *Compositor) Target() *cellbuf.Buffer { return c.target }

// Compose walks the plane tree in depth-first pre-order, drawing each
// visible plane's buffer onto the target within the accumulated dirty
// region, applying the transparency and wide-character-integrity rules.
// It returns the (coalesced) list of rectangles that were touched and
// clears the internal dirty list.
func (c *Compositor) Compose() []cellbuf.Rect {
	rects := coalesce(c.dirty)
	c.dirty = nil
	if len(rects) == 0 {
		return nil
	}
	for _, r := range rects {
		c.target.Fill(r, cellbuf.Cell{})
		c.composePlane(c.root, r)
	}
	return rects
}

// composePlane draws plane id's own cells that fall within dirtyRect,
// then recurses into its children in z-order (bottom sibling first, so
// later siblings — raised planes — paint over earlier ones).
func (c *Compositor) composePlane(id ID, dirtyRect cellbuf.Rect) {
	p := c.planes[id]
	if p == nil || !p.visible {
		return
	}
	onScreen := c.onScreenRect(id)
	region := intersect(onScreen, dirtyRect)
	if region.W > 0 && region.H > 0 {
		w, h := p.buf.Size()
		for ty := region.Y; ty < region.Y+region.H; ty++ {
			ly := ty - onScreen.Y
			if ly < 0 || ly >= h {
				continue
			}
			tw, _ := c.target.Size()
			for tx := region.X; tx < region.X+region.W; tx++ {
				lx := tx - onScreen.X
				if lx < 0 || lx >= w {
					continue
				}
				cell := p.buf.GetCell(lx, ly)
				if cell.IsTransparent() {
					continue
				}
				wide := wcwidth.Rune(cell.Base) == 2 && lx+1 < w
				if wide && tx+1 >= tw {
					// A wide base whose continuation would fall past the
					// target's right edge cannot fit; it degrades to a
					// space rather than overflowing.
					cell.Base = ' '
					wide = false
				}
				c.writeOpaque(tx, ty, cell)
				if wide {
					// Base and continuation land together, even when the
					// continuation column alone would have been skipped
					// as transparent.
					c.writeOpaque(tx+1, ty, p.buf.GetCell(lx+1, ly))
				}
			}
		}
	}
	for _, child := range p.children {
		c.composePlane(child, dirtyRect)
	}
}

// writeOpaque writes an opaque cell to the target at (x,y), maintaining
// wide-character integrity: if this cell is a continuation
// marker, nothing further is needed (the base column to its left already
// wrote atomically); if the column to the target's left currently holds
// a wide base whose continuation is about to be overwritten by this
// write, that base is blanked to a space so no orphan wide-base remains.
func (c *Compositor) writeOpaque(x, y int, cell cellbuf.Cell) {
	if cell.IsContinuation() {
		c.target.SetCell(x, y, cell)
		return
	}
	// If the cell currently at (x,y) is a continuation of a wide base at
	// (x-1,y), writing anything here orphans that base — blank it. A
	// base-0 cell whose left neighbor is not wide is just a cleared cell.
	if cur := c.target.GetCell(x, y); cur.IsContinuation() && x > 0 &&
		wcwidth.Rune(c.target.GetCell(x-1, y).Base) == 2 {
		c.target.SetCell(x-1, y, cellbuf.Cell{Base: ' '})
	}
	c.target.SetCell(x, y, cell)
}

func intersect(a, b cellbuf.Rect) cellbuf.Rect {
	x0 := maxInt(a.X, b.X)
	y0 := maxInt(a.Y, b.Y)
	x1 := minInt(a.X+a.W, b.X+b.W)
	y1 := minInt(a.Y+a.H, b.Y+b.H)
	if x1 <= x0 || y1 <= y0 {
		return cellbuf.Rect{}
	}
	return cellbuf.Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// coalesce merges overlapping rectangles in rs; rectangles that only
// touch along an edge are left separate. This is a
// simple O(n^2) pass adequate for the small dirty-rect counts a single
// compose cycle accumulates; it is not a general rectangle-union solver.
func coalesce(rs []cellbuf.Rect) []cellbuf.Rect {
	if len(rs) == 0 {
		return nil
	}
	out := append([]cellbuf.Rect{}, rs...)
	for {
		merged := false
		for i := 0; i < len(out); i++ {
			for j := i + 1; j < len(out); j++ {
				if overlaps(out[i], out[j]) {
					out[i] = union(out[i], out[j])
					out = append(out[:j], out[j+1:]...)
					merged = true
					break
				}
			}
			if merged {
				break
			}
		}
		if !merged {
			break
		}
	}
	return out
}

func overlaps(a, b cellbuf.Rect) bool {
	return a.X < b.X+b.W && b.X < a.X+a.W && a.Y < b.Y+b.H && b.Y < a.Y+a.H
}

func union(a, b cellbuf.Rect) cellbuf.Rect {
	x0 := minInt(a.X, b.X)
	y0 := minInt(a.Y, b.Y)
	x1 := maxInt(a.X+a.W, b.X+b.W)
	y1 := maxInt(a.Y+a.H, b.Y+b.H)
	return cellbuf.Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}
