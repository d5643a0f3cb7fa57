package cellbuf

import "testing"

func TestColorDefault(t *testing.T) {
	if !Default.IsDefault() {
		t.Fatal("Default should be default")
	}
	if Default.IsRGB() || Default.IsIndexed() {
		t.Fatal("Default must not be RGB or indexed")
	}
}

func TestColorIndex(t *testing.T) {
	c := Index(200)
	if !c.IsIndexed() || c.IsRGB() || c.IsDefault() {
		t.Fatalf("Index(200) classified wrong: %v", c)
	}
	if got := c.Indexed(); got != 200 {
		t.Fatalf("Indexed() = %d, want 200", got)
	}
}

func TestColorIndexClamp(t *testing.T) {
	if got := Index(-5).Indexed(); got != 0 {
		t.Fatalf("Index(-5).Indexed() = %d, want 0", got)
	}
	if got := Index(500).Indexed(); got != 255 {
		t.Fatalf("Index(500).Indexed() = %d, want 255", got)
	}
}

func TestColorRGB(t *testing.T) {
	c := RGB(10, 20, 30)
	if !c.IsRGB() || c.IsIndexed() || c.IsDefault() {
		t.Fatalf("RGB classified wrong: %v", c)
	}
	r, g, b := c.RGBTriple()
	if r != 10 || g != 20 || b != 30 {
		t.Fatalf("RGBTriple() = %d,%d,%d, want 10,20,30", r, g, b)
	}
}

func TestNamedPrimaries(t *testing.T) {
	for i, c := range []Color{Black, Red, Green, Yellow, Blue, Magenta, Cyan, White,
		BrightBlack, BrightRed, BrightGreen, BrightYellow, BrightBlue, BrightMagenta, BrightCyan, BrightWhite} {
		if !c.IsIndexed() {
			t.Fatalf("primary %d not indexed", i)
		}
		if c.Indexed() != i {
			t.Fatalf("primary %d has index %d", i, c.Indexed())
		}
	}
}

func TestColorString(t *testing.T) {
	cases := []struct {
		c    Color
		want string
	}{
		{Default, "default"},
		{RGB(0xff, 0, 0), "#ff0000"},
		{Index(7), "index(7)"},
	}
	for _, tc := range cases {
		if got := tc.c.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}
