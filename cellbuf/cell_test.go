package cellbuf

import "testing"

func TestContinuationDiffEqual(t *testing.T) {
	a := Cell{Base: 0, Fg: Red, Attrs: AttrBold}
	b := Cell{Base: 0, Fg: Blue}
	if !a.DiffEqual(b) {
		t.Fatal("two continuation cells must diff-equal regardless of style")
	}
	normal := Cell{Base: 'x'}
	if a.DiffEqual(normal) || normal.DiffEqual(a) {
		t.Fatal("continuation and non-continuation cells must never diff-equal")
	}
}

func TestDiffEqualCombining(t *testing.T) {
	a := Cell{Base: 'e'}
	a.addCombining('́')
	b := Cell{Base: 'e'}
	b.addCombining('́')
	if !a.DiffEqual(b) {
		t.Fatal("identical base+combiners should diff-equal")
	}
	c := Cell{Base: 'e'}
	if a.DiffEqual(c) {
		t.Fatal("differing combiner count must not diff-equal")
	}
}

func TestAddCombiningCap(t *testing.T) {
	var c Cell
	for i := 0; i < MaxCombining+3; i++ {
		c.addCombining(rune('a' + i))
	}
	if c.NumCombining != MaxCombining {
		t.Fatalf("NumCombining = %d, want %d", c.NumCombining, MaxCombining)
	}
}

func TestIsTransparent(t *testing.T) {
	if !(Cell{}).IsTransparent() {
		t.Fatal("zero-value cell (default bg, empty glyph, no attrs) must be transparent")
	}
	if (Cell{Base: ' ', Bg: Red}).IsTransparent() {
		t.Fatal("space on a non-default bg must be opaque")
	}
	if !(Cell{Base: 0}).IsTransparent() {
		t.Fatal("continuation cell must be transparent")
	}
}
