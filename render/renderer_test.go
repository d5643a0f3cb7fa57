package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gdamore/termgrid/cellbuf"
)

// Changing one cell after a full paint must emit far fewer bytes than
// the full paint did.
func TestDiffMinimality(t *testing.T) {
	r := NewRenderer(20, 10, TrueColor)
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			r.Back().SetCell(x, y, cellbuf.Cell{Base: 'X'})
		}
	}
	var buf1 bytes.Buffer
	if err := r.Flush(&buf1); err != nil {
		t.Fatal(err)
	}
	l1 := buf1.Len()

	r.Back().SetCell(5, 5, cellbuf.Cell{Base: 'O'})
	var buf2 bytes.Buffer
	if err := r.Flush(&buf2); err != nil {
		t.Fatal(err)
	}
	l2 := buf2.Len()

	if l2 >= l1/2 {
		t.Fatalf("l2=%d not < l1/2=%d", l2, l1/2)
	}
	if !strings.Contains(buf2.String(), "O") {
		t.Fatalf("second flush %q does not contain 'O'", buf2.String())
	}
}

// unchanged state between two flushes should produce a tiny second
// output.
func TestIdempotentFlush(t *testing.T) {
	r := NewRenderer(10, 5, TrueColor)
	r.Back().SetCell(0, 0, cellbuf.Cell{Base: 'a'})
	var buf1 bytes.Buffer
	r.Flush(&buf1)

	var buf2 bytes.Buffer
	if err := r.Flush(&buf2); err != nil {
		t.Fatal(err)
	}
	if buf2.Len() > 8 {
		t.Fatalf("second flush with no changes emitted %d bytes: %q", buf2.Len(), buf2.String())
	}
}

func TestResizeForcesFullRedraw(t *testing.T) {
	r := NewRenderer(4, 4, TrueColor)
	r.Back().SetCell(0, 0, cellbuf.Cell{Base: 'a'})
	var buf1 bytes.Buffer
	r.Flush(&buf1)

	r.Resize(4, 4)
	r.Back().SetCell(0, 0, cellbuf.Cell{Base: 'a'})
	var buf2 bytes.Buffer
	if err := r.Flush(&buf2); err != nil {
		t.Fatal(err)
	}
	if buf2.Len() == 0 {
		t.Fatal("resize should force a full redraw even for unchanged cells")
	}
}

func TestDowngradeTrueToBasic8IsMonotonicOnBlackWhite(t *testing.T) {
	black := Downgrade(cellbuf.RGB(0, 0, 0), Basic8)
	white := Downgrade(cellbuf.RGB(255, 255, 255), Basic8)
	if black.Indexed() == white.Indexed() {
		t.Fatal("black and white must downgrade to different basic8 indices")
	}
}

func TestDowngradeMono(t *testing.T) {
	if got := Downgrade(cellbuf.RGB(255, 255, 255), Mono); !got.IsIndexed() {
		t.Fatalf("bright color should downgrade to a foreground index in mono, got %v", got)
	}
	if got := Downgrade(cellbuf.RGB(0, 0, 0), Mono); !got.IsDefault() {
		t.Fatalf("dark color should downgrade to default in mono, got %v", got)
	}
}

func TestRGBTo256GraycaleRamp(t *testing.T) {
	idx := rgbTo256(128, 128, 128)
	if idx < 232 || idx > 255 {
		t.Fatalf("gray rgb should map into the grayscale ramp, got %d", idx)
	}
}
