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

// Package plane implements a z-ordered tree of drawable regions
// composed into one target buffer with dirty-region tracking.
//
// Planes are addressed by stable integer IDs rather than pointers, and
// parent/child links are IDs rather than owning handles — an arena of
// plane records indexed by ID, so the parent back-link cannot create a
// reference cycle. The children-of-parent list is the sole ownership
// edge; a plane's parent link is used only for lookup.
package plane

import "github.com/gdamore/termgrid/cellbuf"

// ID addresses a plane within a Compositor's arena. The zero ID is never
// valid; IDs are assigned sequentially starting at 1.
type ID int

// Plane is a sub-region drawable: its own buffer, an offset relative to
// its parent, a visibility flag, and its position in its parent's
// z-ordered child list.
type Plane struct {
	id       ID
	parent   ID
	children []ID
	x, y     int
	buf      *cellbuf.Buffer
	visible  bool
}

// Size returns the plane's width and height.
func (p *Plane) Size() (int, int) { return p.buf.Size() }

// Offset returns the plane's (x,y) position relative to its parent.
func (p *Plane) Offset() (int, int) { return p.x, p.y }

// Visible reports whether the plane is currently shown.
func (p *Plane) Visible() bool { return p.visible }

// Buffer returns the plane's backing cell buffer, for direct reads. Use
// the Compositor's SetCell/Fill/Print/Clear to mutate it so dirty
// tracking stays correct — writing through this buffer directly would
// silently skip invalidation.
func (p *Plane) Buffer() *cellbuf.Buffer { return p.buf }

// ClipToTarget documents the clipping rule: a plane's visible region
// clips only against the root target buffer, not against ancestor
// geometry, so a child may hang outside its parent and still draw
// wherever it overlaps the target. There is no runtime switch for this.
const ClipToTarget = true

// Compositor owns the plane arena and the target buffer planes are
// composed into.
type Compositor struct {
	planes map[ID]*Plane
	nextID ID
	root   ID

	target *cellbuf.Buffer
	dirty  []cellbuf.Rect
}

// NewCompositor creates a Compositor with a single full-screen root
// plane and marks the whole target dirty, so the first Compose paints
// everything.
func NewCompositor(width, height int) *Compositor {
	c := &Compositor{
		planes: make(map[ID]*Plane),
		target: cellbuf.NewTransparentBuffer(width, height),
	}
	c.root = c.newPlane(0, 0, 0, width, height)
	c.planes[c.root].visible = true
	c.markDirty(cellbuf.Rect{X: 0, Y: 0, W: width, H: height})
	return c
}

// Root returns the ID of the always-present, always-visible root plane.
func (c *Compositor) Root() ID { return c.root }

func (c *Compositor) newPlane(parent ID, x, y, w, h int) ID {
	c.nextID++
	id := c.nextID
	c.planes[id] = &Plane{
		id:      id,
		parent:  parent,
		x:       x,
		y:       y,
		buf:     cellbuf.NewTransparentBuffer(w, h),
		visible: true,
	}
	if parent != 0 {
		if p := c.planes[parent]; p != nil {
			p.children = append(p.children, id)
		}
	}
	return id
}

// NewPlane creates a visible child plane of parent at offset (x,y) with
// the given size, and invalidates its initial on-screen rectangle.
func (c *Compositor) NewPlane(parent ID, x, y, w, h int) ID {
	id := c.newPlane(parent, x, y, w, h)
	c.invalidatePlaneRect(id)
	return id
}

// Plane returns the plane record for id, or nil if id is unknown.
func (c *Compositor) Plane(id ID) *Plane { return c.planes[id] }

// onScreenRect returns id's unclipped rectangle in target-buffer
// coordinates, accumulating ancestor offsets. It never clips against
// ancestor rectangles (ClipToTarget); callers clip the result against
// the target buffer bounds only.
func (c *Compositor) onScreenRect(id ID) cellbuf.Rect {
	p := c.planes[id]
	if p == nil {
		return cellbuf.Rect{}
	}
	x, y := p.x, p.y
	for cur := p.parent; cur != 0; {
		anc := c.planes[cur]
		if anc == nil {
			break
		}
		x += anc.x
		y += anc.y
		cur = anc.parent
	}
	w, h := p.buf.Size()
	return cellbuf.Rect{X: x, Y: y, W: w, H: h}
}

func (c *Compositor) invalidatePlaneRect(id ID) {
	c.markDirty(c.onScreenRect(id))
}

func (c *Compositor) markDirty(r cellbuf.Rect) {
	tw, th := c.target.Size()
	x0, y0, x1, y1 := clipRectToTarget(r, tw, th)
	if x1 <= x0 || y1 <= y0 {
		return
	}
	c.dirty = append(c.dirty, cellbuf.Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0})
}

func clipRectToTarget(r cellbuf.Rect, tw, th int) (x0, y0, x1, y1 int) {
	x0, y0 = r.X, r.Y
	x1, y1 = r.X+r.W, r.Y+r.H
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > tw {
		x1 = tw
	}
	if y1 > th {
		y1 = th
	}
	return
}

// SetCell writes a single cell into id's buffer and dirties the plane's
// whole on-screen rectangle. Dirt is tracked at plane granularity, not
// cell granularity.
func (c *Compositor) SetCell(id ID, x, y int, cell cellbuf.Cell) {
	p := c.planes[id]
	if p == nil {
		return
	}
	p.buf.SetCell(x, y, cell)
	c.invalidatePlaneRect(id)
}

// Fill fills r (in plane-local coordinates) with cell and dirties id's
// on-screen rectangle.
func (c *Compositor) Fill(id ID, r cellbuf.Rect, cell cellbuf.Cell) {
	p := c.planes[id]
	if p == nil {
		return
	}
	p.buf.Fill(r, cell)
	c.invalidatePlaneRect(id)
}

// Print writes styled text into id's buffer at (x,y) and dirties id's
// on-screen rectangle.
func (c *Compositor) Print(id ID, x, y int, s string, fg, bg cellbuf.Color, attrs cellbuf.AttrMask) {
	p := c.planes[id]
	if p == nil {
		return
	}
	p.buf.Print(x, y, s, fg, bg, attrs)
	c.invalidatePlaneRect(id)
}

// Clear blanks id's entire buffer and dirties its on-screen rectangle.
func (c *Compositor) Clear(id ID) {
	p := c.planes[id]
	if p == nil {
		return
	}
	p.buf.Clear()
	c.invalidatePlaneRect(id)
}

// Move repositions id relative to its parent, invalidating both its old
// and new on-screen rectangles so the vacated area repaints along with
// the destination.
func (c *Compositor) Move(id ID, x, y int) {
	p := c.planes[id]
	if p == nil {
		return
	}
	c.invalidatePlaneRect(id)
	p.x, p.y = x, y
	c.invalidatePlaneRect(id)
}

// Resize reallocates id's buffer and invalidates both its old and new
// on-screen rectangles.
func (c *Compositor) Resize(id ID, w, h int) {
	p := c.planes[id]
	if p == nil {
		return
	}
	c.invalidatePlaneRect(id)
	p.buf.Resize(w, h)
	c.invalidatePlaneRect(id)
	if id == c.root {
		c.target.Resize(w, h)
		tw, th := c.target.Size()
		c.markDirty(cellbuf.Rect{X: 0, Y: 0, W: tw, H: th})
	}
}

// SetVisible shows or hides id. Hiding a plane requires the caller to
// have already invalidated it while still visible — SetVisible itself
// invalidates only on the
// showing transition, where the newly-visible rectangle is what needs
// painting; on the hiding transition it is the caller's responsibility
// to call Invalidate first so the old, now-vacated area is still
// computed from a tree where the plane was visible.
func (c *Compositor) SetVisible(id ID, visible bool) {
	p := c.planes[id]
	if p == nil {
		return
	}
	p.visible = visible
	if visible {
		c.invalidatePlaneRect(id)
	}
}

// Invalidate marks id's current on-screen rectangle dirty without
// otherwise changing it. Callers must call this before SetVisible(id,
// false) per the contract above.
func (c *Compositor) Invalidate(id ID) {
	c.invalidatePlaneRect(id)
}

// Raise moves id to the end of its parent's child list (topmost).
func (c *Compositor) Raise(id ID) {
	c.reorder(id, true)
}

// Lower moves id to the front of its parent's child list (bottommost).
func (c *Compositor) Lower(id ID) {
	c.reorder(id, false)
}

func (c *Compositor) reorder(id ID, toEnd bool) {
	p := c.planes[id]
	if p == nil || p.parent == 0 {
		return
	}
	parent := c.planes[p.parent]
	if parent == nil {
		return
	}
	siblings := parent.children
	idx := -1
	for i, s := range siblings {
		if s == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	siblings = append(siblings[:idx], siblings[idx+1:]...)
	if toEnd {
		siblings = append(siblings, id)
	} else {
		siblings = append([]ID{id}, siblings...)
	}
	parent.children = siblings
	c.invalidatePlaneRect(id)
}
