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

package termgrid

import (
	"time"

	"github.com/gdamore/termgrid/backend"
	"github.com/gdamore/termgrid/cellbuf"
	"github.com/gdamore/termgrid/input"
	"github.com/gdamore/termgrid/plane"
	"github.com/gdamore/termgrid/render"
	"github.com/gdamore/termgrid/wcwidth"
)

// Terminal is the glue layer composing a backend.Backend, a
// render.Renderer and a plane.Compositor into one lifecycle: acquire
// the terminal, draw into planes, compose and flush, release. The
// three pieces are explicit, independently-testable collaborators
// rather than one monolithic screen type.
type Terminal struct {
	be  backend.Backend
	ren *render.Renderer
	cmp *plane.Compositor

	caps backend.Capabilities
	size backend.Size
}

// Options configure Open. They are a thin rename of backend.Options so
// callers of this package's top-level API never need to import backend
// directly for the common case.
type Options = backend.Options

// DefaultOptions returns the default options: SIGWINCH handling and all
// optional protocols enabled.
func DefaultOptions() Options { return backend.DefaultOptions() }

// Open acquires a platform backend (posix or windows, selected at
// compile time), puts the terminal into raw/alternate-screen mode, and
// builds the renderer and compositor sized to match.
func Open(opts Options) (*Terminal, error) {
	be, err := newPlatformBackend()
	if err != nil {
		return nil, err
	}
	return OpenBackend(be, opts)
}

// OpenBackend is Open generalized over an already-constructed
// backend.Backend, the seam tests use to drive a Terminal over
// backend/mock instead of a real tty.
func OpenBackend(be backend.Backend, opts Options) (*Terminal, error) {
	caps, size, err := be.Init(opts)
	if err != nil {
		return nil, err
	}
	t := &Terminal{
		be:   be,
		ren:  render.NewRenderer(size.Width, size.Height, caps.ColorDepth),
		cmp:  plane.NewCompositor(size.Width, size.Height),
		caps: caps,
		size: size,
	}
	return t, nil
}

// Root returns the always-present, always-visible root plane spanning
// the whole terminal.
func (t *Terminal) Root() *plane.Plane {
	return t.cmp.Plane(t.cmp.Root())
}

// Compositor exposes the full plane API (NewPlane, Move, Raise, …) for
// callers building more than the root plane.
func (t *Terminal) Compositor() *plane.Compositor { return t.cmp }

// Capabilities returns the capability set detected at Open.
func (t *Terminal) Capabilities() backend.Capabilities { return t.caps }

// Size returns the terminal's current size in cells.
func (t *Terminal) Size() backend.Size { return t.size }

// PollEvent waits up to timeout for the next decoded input event,
// applying any Resize to the renderer and compositor before returning
// it — a resize reallocates the root plane and target buffer and forces
// a full redraw. Any buffer pointer the application held is stale after
// a Resize and must be re-acquired.
func (t *Terminal) PollEvent(timeout time.Duration) (input.Event, error) {
	ev, err := t.be.PollEvent(timeout)
	if err != nil {
		return nil, err
	}
	if resize, ok := ev.(input.Resize); ok {
		t.handleResize(resize)
	}
	return ev, nil
}

func (t *Terminal) handleResize(r input.Resize) {
	t.size.Width, t.size.Height = r.Width, r.Height
	t.ren.Resize(r.Width, r.Height)
	t.cmp.Resize(t.cmp.Root(), r.Width, r.Height)
}

// Render composes the plane tree's dirty regions into the compositor's
// target buffer, copies the touched cells into the renderer's back
// buffer, and flushes the resulting escape-sequence diff to the backend.
func (t *Terminal) Render() error {
	rects := t.cmp.Compose()
	if len(rects) == 0 {
		return nil
	}
	target := t.cmp.Target()
	back := t.ren.Back()
	for _, r := range rects {
		for y := r.Y; y < r.Y+r.H; y++ {
			for x := r.X; x < r.X+r.W; x++ {
				cell := target.GetCell(x, y)
				if cell.IsTransparent() && !isContinuationOfWide(target, x, y) {
					// Nothing composed here: the terminal shows its
					// default background, which for the renderer means
					// an explicit default cell — a bare Base-0 cell
					// would read as a wide-character continuation and
					// never erase what was on screen before.
					cell = cellbuf.DefaultCell
				}
				back.SetCell(x, y, cell)
			}
		}
	}
	if err := t.ren.Flush(backendWriter{t.be}); err != nil {
		return err
	}
	return t.be.FlushOutput()
}

// Close reverses everything Open did and releases the backend.
func (t *Terminal) Close() error {
	return t.be.Deinit()
}

// isContinuationOfWide reports whether (x,y) sits immediately to the
// right of a double-wide base cell in buf, making its Base-0 content a
// genuine continuation marker rather than an empty composed cell.
func isContinuationOfWide(buf *cellbuf.Buffer, x, y int) bool {
	if x == 0 {
		return false
	}
	return wcwidth.Rune(buf.GetCell(x-1, y).Base) == 2
}

// backendWriter adapts backend.Backend.WriteBytes to io.Writer for
// render.Renderer.Flush, which writes to an io.Writer so it can be
// exercised in tests without any real backend at all.
type backendWriter struct{ be backend.Backend }

func (w backendWriter) Write(p []byte) (int, error) { return w.be.WriteBytes(p) }
