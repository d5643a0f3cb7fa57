package backend

import "testing"

func TestParseDeviceAttributesResponseSixel(t *testing.T) {
	sixel, ok := ParseDeviceAttributesResponse([]byte("\x1b[?62;1;4;6c"))
	if !ok {
		t.Fatal("expected a well-formed reply to parse")
	}
	if !sixel {
		t.Fatal("expected sixel=true for a reply containing attribute 4")
	}
}

func TestParseDeviceAttributesResponseNoSixel(t *testing.T) {
	sixel, ok := ParseDeviceAttributesResponse([]byte("\x1b[?1;2c"))
	if !ok {
		t.Fatal("expected a well-formed reply to parse")
	}
	if sixel {
		t.Fatal("expected sixel=false without attribute 4")
	}
}

func TestParseDeviceAttributesResponseMalformed(t *testing.T) {
	if _, ok := ParseDeviceAttributesResponse([]byte("garbage")); ok {
		t.Fatal("expected ok=false for a non-DA byte stream")
	}
}

func TestParseDeviceAttributesResponseIgnoresLeadingNoise(t *testing.T) {
	sixel, ok := ParseDeviceAttributesResponse([]byte("hello\x1b[?1;4c"))
	if !ok || !sixel {
		t.Fatalf("expected leading bytes before the reply to be skipped, got sixel=%v ok=%v", sixel, ok)
	}
}
