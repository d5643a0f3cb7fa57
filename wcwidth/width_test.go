package wcwidth

import "testing"

func TestRuneWidths(t *testing.T) {
	cases := []struct {
		r    rune
		want int
	}{
		{'a', 1},
		{' ', 1},
		{'中', 2},
		{'ｗ', 2},      // fullwidth latin
		{0x0301, 0},   // combining acute accent
		{0x200B, 0},   // zero-width space
		{0x07, 0},     // control
		{0, 0},
	}
	for _, tc := range cases {
		if got := Rune(tc.r); got != tc.want {
			t.Errorf("Rune(%U) = %d, want %d", tc.r, got, tc.want)
		}
	}
}

func TestStringWidth(t *testing.T) {
	cases := []struct {
		s    string
		want int
	}{
		{"hello", 5},
		{"a中b", 4},
		{"é", 1},
		{"", 0},
	}
	for _, tc := range cases {
		if got := String(tc.s); got != tc.want {
			t.Errorf("String(%q) = %d, want %d", tc.s, got, tc.want)
		}
	}
}

func TestIsCombining(t *testing.T) {
	if !IsCombining(0x0301) {
		t.Error("combining acute accent should be combining")
	}
	if IsCombining('a') {
		t.Error("'a' is not combining")
	}
	if IsCombining(0) {
		t.Error("rune 0 is the continuation marker, never a combining mark")
	}
}
