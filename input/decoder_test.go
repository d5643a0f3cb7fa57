package input

import "testing"

func feedAll(t *testing.T, d *Decoder, data []byte) []Event {
	t.Helper()
	var evs []Event
	for _, b := range data {
		ev, err := d.Feed(b)
		if err != nil {
			t.Fatalf("Feed(%#x) error: %v", b, err)
		}
		if ev != nil {
			evs = append(evs, ev)
		}
	}
	return evs
}

// An arrow sequence immediately followed by a control byte must come
// out as two distinct, canonical events.
func TestArrowThenCtrlC(t *testing.T) {
	d := NewDecoder()
	evs := feedAll(t, d, []byte{0x1b, '[', 'A', 0x03})
	if len(evs) != 2 {
		t.Fatalf("got %d events, want 2: %#v", len(evs), evs)
	}
	k1, ok := evs[0].(*Key)
	if !ok || k1.Special != KeyUp || k1.Mods != 0 {
		t.Errorf("event 1 = %#v, want Up with no mods", evs[0])
	}
	k2, ok := evs[1].(*Key)
	if !ok || k2.Codepoint != 'c' || k2.Mods != ModCtrl {
		t.Errorf("event 2 = %#v, want ctrl+c", evs[1])
	}
}

// A paste body containing a partial end marker must flush the
// diverged prefix back into the body rather than truncating.
func TestPasteWithPartialEndMarker(t *testing.T) {
	d := NewDecoder()
	input := "\x1b[200~abc\x1b[201 def\x1b[201~"
	evs := feedAll(t, d, []byte(input))
	if len(evs) != 1 {
		t.Fatalf("got %d events, want 1: %#v", len(evs), evs)
	}
	p, ok := evs[0].(Paste)
	if !ok {
		t.Fatalf("event = %#v, want Paste", evs[0])
	}
	if string(p) != "abc\x1b[201 def" {
		t.Fatalf("paste body = %q, want %q", string(p), "abc\x1b[201 def")
	}
}

func TestArrowKeysAndSS3(t *testing.T) {
	cases := []struct {
		name  string
		bytes []byte
		want  SpecialKey
	}{
		{"CSI-A", []byte{0x1b, '[', 'A'}, KeyUp},
		{"CSI-B", []byte{0x1b, '[', 'B'}, KeyDown},
		{"CSI-C", []byte{0x1b, '[', 'C'}, KeyRight},
		{"CSI-D", []byte{0x1b, '[', 'D'}, KeyLeft},
		{"SS3-A", []byte{0x1b, 'O', 'A'}, KeyUp},
		{"SS3-B", []byte{0x1b, 'O', 'B'}, KeyDown},
		{"SS3-C", []byte{0x1b, 'O', 'C'}, KeyRight},
		{"SS3-D", []byte{0x1b, 'O', 'D'}, KeyLeft},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := NewDecoder()
			evs := feedAll(t, d, tc.bytes)
			if len(evs) != 1 {
				t.Fatalf("got %d events, want 1", len(evs))
			}
			k, ok := evs[0].(*Key)
			if !ok || k.Special != tc.want || k.Mods != 0 {
				t.Fatalf("event = %#v, want %v with no mods", evs[0], tc.want)
			}
		})
	}
}

func TestAltBackspace(t *testing.T) {
	d := NewDecoder()
	evs := feedAll(t, d, []byte{0x1b, 0x7f})
	if len(evs) != 1 {
		t.Fatalf("got %d events, want 1", len(evs))
	}
	k, ok := evs[0].(*Key)
	if !ok || k.Special != KeyBackspace || k.Mods != ModAlt {
		t.Fatalf("event = %#v, want Alt+Backspace", evs[0])
	}
}

func TestCtrlCNeverRawCodepoint(t *testing.T) {
	d := NewDecoder()
	evs := feedAll(t, d, []byte{0x03})
	if len(evs) != 1 {
		t.Fatalf("got %d events, want 1", len(evs))
	}
	k, ok := evs[0].(*Key)
	if !ok || k.Codepoint != 'c' || k.Mods != ModCtrl {
		t.Fatalf("event = %#v, want codepoint 'c' with ModCtrl", evs[0])
	}
}

func TestEnterTabBackspaceCanonicalize(t *testing.T) {
	cases := []struct {
		b    byte
		want SpecialKey
	}{
		{'\r', KeyEnter},
		{'\t', KeyTab},
		{0x7f, KeyBackspace},
		{0x08, KeyBackspace},
	}
	for _, tc := range cases {
		d := NewDecoder()
		evs := feedAll(t, d, []byte{tc.b})
		if len(evs) != 1 {
			t.Fatalf("byte %#x: got %d events, want 1", tc.b, len(evs))
		}
		k, ok := evs[0].(*Key)
		if !ok || k.Special != tc.want {
			t.Fatalf("byte %#x: event = %#v, want %v", tc.b, evs[0], tc.want)
		}
	}
}

func TestMouseSGRLeftClick(t *testing.T) {
	d := NewDecoder()
	evs := feedAll(t, d, []byte("\x1b[<0;10;20M"))
	if len(evs) != 1 {
		t.Fatalf("got %d events, want 1", len(evs))
	}
	m, ok := evs[0].(*Mouse)
	if !ok {
		t.Fatalf("event = %#v, want *Mouse", evs[0])
	}
	if m.X != 9 || m.Y != 19 || m.Button != MouseLeft || m.Mods != 0 {
		t.Fatalf("mouse = %#v, want x=9 y=19 left no-mods", m)
	}
}

func TestMouseSGRRelease(t *testing.T) {
	d := NewDecoder()
	evs := feedAll(t, d, []byte("\x1b[<0;5;5m"))
	if len(evs) != 1 {
		t.Fatalf("got %d events, want 1", len(evs))
	}
	m := evs[0].(*Mouse)
	if m.Button != MouseRelease {
		t.Fatalf("button = %v, want MouseRelease", m.Button)
	}
}

func TestMouseWheel(t *testing.T) {
	d := NewDecoder()
	evs := feedAll(t, d, []byte("\x1b[<64;1;1M"))
	m := evs[0].(*Mouse)
	if m.Button != MouseWheelUp {
		t.Fatalf("button = %v, want MouseWheelUp", m.Button)
	}
}

func TestFocusEvents(t *testing.T) {
	d := NewDecoder()
	evs := feedAll(t, d, []byte{0x1b, '[', 'I'})
	if f, ok := evs[0].(Focus); !ok || bool(f) != true {
		t.Fatalf("event = %#v, want Focus(true)", evs[0])
	}
	evs = feedAll(t, d, []byte{0x1b, '[', 'O'})
	if f, ok := evs[0].(Focus); !ok || bool(f) != false {
		t.Fatalf("event = %#v, want Focus(false)", evs[0])
	}
}

func TestTildeNavigationCodes(t *testing.T) {
	cases := []struct {
		seq  string
		want SpecialKey
	}{
		{"\x1b[3~", KeyDelete},
		{"\x1b[5~", KeyPageUp},
		{"\x1b[6~", KeyPageDown},
		{"\x1b[1~", KeyHome},
		{"\x1b[4~", KeyEnd},
	}
	for _, tc := range cases {
		d := NewDecoder()
		evs := feedAll(t, d, []byte(tc.seq))
		if len(evs) != 1 {
			t.Fatalf("%q: got %d events, want 1", tc.seq, len(evs))
		}
		k := evs[0].(*Key)
		if k.Special != tc.want {
			t.Fatalf("%q: special = %v, want %v", tc.seq, k.Special, tc.want)
		}
	}
}

func TestKittyKeyboardCtrlA(t *testing.T) {
	d := NewDecoder()
	evs := feedAll(t, d, []byte("\x1b[97;5u"))
	if len(evs) != 1 {
		t.Fatalf("got %d events, want 1", len(evs))
	}
	k := evs[0].(*Key)
	if k.Codepoint != 'a' || k.Mods != ModCtrl {
		t.Fatalf("event = %#v, want ctrl+a", k)
	}
}

func TestKittyReleaseIgnored(t *testing.T) {
	d := NewDecoder()
	evs := feedAll(t, d, []byte("\x1b[97;1:3u"))
	if len(evs) != 0 {
		t.Fatalf("got %d events, want 0 (release suppressed): %#v", len(evs), evs)
	}
}

func TestKittyPUAEscape(t *testing.T) {
	d := NewDecoder()
	evs := feedAll(t, d, []byte("\x1b[57344;1u")) // 0xE000
	if len(evs) != 1 {
		t.Fatalf("got %d events, want 1", len(evs))
	}
	k := evs[0].(*Key)
	if k.Special != KeyEscape {
		t.Fatalf("special = %v, want KeyEscape", k.Special)
	}
}

func TestUTF8Multibyte(t *testing.T) {
	d := NewDecoder()
	evs := feedAll(t, d, []byte("中"))
	if len(evs) != 1 {
		t.Fatalf("got %d events, want 1", len(evs))
	}
	k := evs[0].(*Key)
	if k.Codepoint != '中' {
		t.Fatalf("codepoint = %q, want %q", k.Codepoint, '中')
	}
}

func TestUTF8InvalidContinuationResets(t *testing.T) {
	d := NewDecoder()
	// 0xE4 starts a 3-byte sequence but is immediately followed by an
	// ASCII byte, which is not a valid continuation.
	evs := feedAll(t, d, []byte{0xe4, 'x'})
	if len(evs) != 1 {
		t.Fatalf("got %d events, want 1: %#v", len(evs), evs)
	}
	k, ok := evs[0].(*Key)
	if !ok || k.Codepoint != 'x' {
		t.Fatalf("event = %#v, want codepoint 'x' after resync", evs[0])
	}
}

func TestResetReturnsPendingEscape(t *testing.T) {
	d := NewDecoder()
	feedAll(t, d, []byte{0x1b})
	if !d.IsPending() {
		t.Fatal("decoder should be pending after a bare ESC byte")
	}
	ev := d.Reset()
	k, ok := ev.(*Key)
	if !ok || k.Special != KeyEscape {
		t.Fatalf("Reset() = %#v, want Escape key", ev)
	}
	if d.IsPending() {
		t.Fatal("decoder should not be pending after Reset")
	}
}

func TestPrintableASCIIKey(t *testing.T) {
	d := NewDecoder()
	evs := feedAll(t, d, []byte("A"))
	if len(evs) != 1 {
		t.Fatalf("got %d events", len(evs))
	}
	k := evs[0].(*Key)
	if k.Codepoint != 'A' || k.Special != KeyNone {
		t.Fatalf("event = %#v", k)
	}
}
