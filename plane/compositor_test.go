package plane

import (
	"testing"

	"github.com/gdamore/termgrid/cellbuf"
)

// An overlay's transparent cells must let the plane beneath show
// through while its opaque cells win.
func TestZOrderWithTransparency(t *testing.T) {
	c := NewCompositor(10, 3)
	c.Print(c.Root(), 0, 0, "BACKGROUND", cellbuf.Default, cellbuf.Default, 0)

	overlay := c.NewPlane(c.Root(), 0, 0, 10, 1)
	for _, x := range []int{0, 2, 4} {
		c.SetCell(overlay, x, 0, cellbuf.Cell{Base: 'X', Bg: cellbuf.Red})
	}

	c.Compose()

	want := "XAXKXROUND"
	for i, want := range []rune(want) {
		got := c.Target().GetCell(i, 0).Base
		if got != want {
			t.Errorf("column %d = %q, want %q", i, got, want)
		}
	}
}

func TestComposeEmptyWhenNoChanges(t *testing.T) {
	c := NewCompositor(5, 5)
	c.Compose() // drains the initial full-dirty compose
	if rects := c.Compose(); rects != nil {
		t.Fatalf("expected no dirty rects on unchanged tree, got %v", rects)
	}
}

// Overwriting the continuation half of a wide character must blank the
// base column so no orphan wide-base survives.
func TestOrphanWideBaseBlanked(t *testing.T) {
	c := NewCompositor(3, 1)
	root := c.Root()
	c.SetCell(root, 0, 0, cellbuf.Cell{Base: '中'})
	c.SetCell(root, 1, 0, cellbuf.Cell{Base: 0}) // continuation
	c.Compose()

	overlay := c.NewPlane(root, 0, 0, 3, 1)
	c.SetCell(overlay, 1, 0, cellbuf.Cell{Base: 'Y', Bg: cellbuf.Red})
	c.Compose()

	if got := c.Target().GetCell(0, 0).Base; got != ' ' {
		t.Fatalf("orphaned wide base at column 0 = %q, want space", got)
	}
	if got := c.Target().GetCell(1, 0).Base; got != 'Y' {
		t.Fatalf("column 1 = %q, want 'Y'", got)
	}
}

func TestHiddenPlaneContractRequiresInvalidateFirst(t *testing.T) {
	c := NewCompositor(5, 1)
	p := c.NewPlane(c.Root(), 0, 0, 5, 1)
	c.SetCell(p, 0, 0, cellbuf.Cell{Base: 'Z', Bg: cellbuf.Red})
	c.Compose()
	if got := c.Target().GetCell(0, 0).Base; got != 'Z' {
		t.Fatalf("expected 'Z' painted before hide, got %q", got)
	}

	c.Invalidate(p)
	c.SetVisible(p, false)
	c.Compose()

	if got := c.Target().GetCell(0, 0).Base; got != 0 {
		t.Fatalf("hidden plane's area = %q, want transparent/default after hide", got)
	}
}

func TestRaiseChangesZOrder(t *testing.T) {
	c := NewCompositor(1, 1)
	root := c.Root()
	a := c.NewPlane(root, 0, 0, 1, 1)
	b := c.NewPlane(root, 0, 0, 1, 1)
	c.SetCell(a, 0, 0, cellbuf.Cell{Base: 'A', Bg: cellbuf.Red})
	c.SetCell(b, 0, 0, cellbuf.Cell{Base: 'B', Bg: cellbuf.Blue})
	c.Compose()
	if got := c.Target().GetCell(0, 0).Base; got != 'B' {
		t.Fatalf("later sibling should win by default, got %q", got)
	}

	c.Raise(a)
	c.Compose()
	if got := c.Target().GetCell(0, 0).Base; got != 'A' {
		t.Fatalf("after Raise(a), a should be topmost, got %q", got)
	}
}
