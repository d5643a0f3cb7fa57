package cellbuf

import "testing"

func TestOutOfRangeAccessIsSafe(t *testing.T) {
	b := NewBuffer(3, 2)
	b.SetCell(-1, 0, Cell{Base: 'x'})
	b.SetCell(3, 0, Cell{Base: 'x'})
	b.SetCell(0, 2, Cell{Base: 'x'})

	for _, pos := range [][2]int{{-1, 0}, {3, 0}, {0, 2}, {100, 100}} {
		if got := b.GetCell(pos[0], pos[1]); got != DefaultCell {
			t.Errorf("GetCell(%d,%d) = %+v, want default cell", pos[0], pos[1], got)
		}
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			if got := b.GetCell(x, y); got.Base != ' ' {
				t.Errorf("in-range cell (%d,%d) corrupted by OOB writes: %+v", x, y, got)
			}
		}
	}
}

func TestPrintRoundTripsText(t *testing.T) {
	b := NewBuffer(20, 1)
	b.Print(0, 0, "hello", Red, Default, AttrBold)

	for i, want := range "hello" {
		c := b.GetCell(i, 0)
		if c.Base != want {
			t.Errorf("column %d = %q, want %q", i, c.Base, want)
		}
		if c.Fg != Red || c.Attrs != AttrBold {
			t.Errorf("column %d styling = fg %v attrs %v", i, c.Fg, c.Attrs)
		}
	}
}

func TestPrintWideCharacterWritesContinuation(t *testing.T) {
	b := NewBuffer(10, 1)
	b.Print(0, 0, "a中b", Default, Default, 0)

	if got := b.GetCell(0, 0).Base; got != 'a' {
		t.Fatalf("column 0 = %q, want 'a'", got)
	}
	if got := b.GetCell(1, 0).Base; got != '中' {
		t.Fatalf("column 1 = %q, want '中'", got)
	}
	if !b.GetCell(2, 0).IsContinuation() {
		t.Fatal("column 2 should be the wide base's continuation marker")
	}
	if got := b.GetCell(3, 0).Base; got != 'b' {
		t.Fatalf("column 3 = %q, want 'b'", got)
	}
}

func TestPrintWideAtLastColumnBecomesSpace(t *testing.T) {
	b := NewBuffer(3, 1)
	b.Print(0, 0, "aa中b", Default, Default, 0)

	if got := b.GetCell(2, 0).Base; got != ' ' {
		t.Fatalf("wide base at last column = %q, want space", got)
	}
	// The trailing 'b' lands past the right edge and is dropped; the
	// buffer does not wrap by itself.
	for _, pos := range [][2]int{{3, 0}, {4, 0}} {
		if got := b.GetCell(pos[0], pos[1]); got != DefaultCell {
			t.Errorf("past-edge cell (%d,%d) = %+v", pos[0], pos[1], got)
		}
	}
}

func TestPrintCombiningAttachesToBase(t *testing.T) {
	b := NewBuffer(10, 1)
	// e + COMBINING ACUTE ACCENT, then a plain x.
	b.Print(0, 0, "éx", Default, Default, 0)

	c := b.GetCell(0, 0)
	if c.Base != 'e' || c.NumCombining != 1 || c.Combining[0] != 0x0301 {
		t.Fatalf("cell 0 = %+v, want 'e' with one combining mark", c)
	}
	if got := b.GetCell(1, 0).Base; got != 'x' {
		t.Fatalf("column 1 = %q, want 'x'", got)
	}
}

func TestPrintCombiningOnWideAttachesToBaseColumn(t *testing.T) {
	b := NewBuffer(10, 1)
	b.Print(0, 0, "中́", Default, Default, 0)

	c := b.GetCell(0, 0)
	if c.NumCombining != 1 {
		t.Fatalf("combining mark should ride the wide base column, got %+v", c)
	}
	cont := b.GetCell(1, 0)
	if !cont.IsContinuation() || cont.NumCombining != 0 {
		t.Fatalf("continuation column should carry no combining marks, got %+v", cont)
	}
}

func TestFillClipsToBounds(t *testing.T) {
	b := NewBuffer(4, 4)
	b.Fill(Rect{X: -2, Y: -2, W: 4, H: 4}, Cell{Base: '#'})

	if got := b.GetCell(0, 0).Base; got != '#' {
		t.Fatalf("cell (0,0) = %q, want '#'", got)
	}
	if got := b.GetCell(1, 1).Base; got != '#' {
		t.Fatalf("cell (1,1) = %q, want '#'", got)
	}
	if got := b.GetCell(2, 2).Base; got != ' ' {
		t.Fatalf("cell (2,2) = %q, want untouched space", got)
	}
}

func TestClearAndResize(t *testing.T) {
	b := NewBuffer(3, 3)
	b.Print(0, 0, "abc", Default, Default, 0)
	b.Clear()
	if got := b.GetCell(0, 0); got != DefaultCell {
		t.Fatalf("Clear left cell %+v", got)
	}

	b.Print(0, 0, "abc", Default, Default, 0)
	b.Resize(5, 2)
	w, h := b.Size()
	if w != 5 || h != 2 {
		t.Fatalf("Size after Resize = %dx%d, want 5x2", w, h)
	}
	if got := b.GetCell(0, 0); got != DefaultCell {
		t.Fatalf("Resize should discard prior content, got %+v", got)
	}
}

func TestTransparentBufferBlank(t *testing.T) {
	b := NewTransparentBuffer(2, 2)
	if got := b.GetCell(0, 0); !got.IsTransparent() {
		t.Fatalf("fresh transparent buffer cell %+v is not transparent", got)
	}
	b.SetCell(0, 0, Cell{Base: 'x'})
	b.Clear()
	if got := b.GetCell(0, 0); !got.IsTransparent() {
		t.Fatalf("Clear on a transparent buffer left %+v", got)
	}
}
