package vm

import (
	"bytes"
	"testing"
)

// Invariant 7: loader round-trip.
func TestLoadImageRoundTrip(t *testing.T) {
	origin := uint16(0x3000)
	words := []uint16{0x1234, 0xBEEF, 0x0001}

	var buf bytes.Buffer
	buf.WriteByte(byte(origin >> 8))
	buf.WriteByte(byte(origin))
	for _, w := range words {
		buf.WriteByte(byte(w >> 8))
		buf.WriteByte(byte(w))
	}

	mem := NewMemory(nil)
	if err := LoadImage(mem, &buf); err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	for i, want := range words {
		if got := mem.ReadRaw(origin + uint16(i)); got != want {
			t.Errorf("M[%#04x] = %#04x, want %#04x", origin+uint16(i), got, want)
		}
	}
}

func TestLoadImageTruncated(t *testing.T) {
	buf := bytes.NewReader([]byte{0x30, 0x00, 0xAB}) // dangling odd byte
	mem := NewMemory(nil)
	if err := LoadImage(mem, buf); err == nil {
		t.Fatalf("expected error for truncated image, got nil")
	}
}

func TestLoadImageTwoOverlappingImages(t *testing.T) {
	mem := NewMemory(nil)
	first := bytes.NewReader([]byte{0x30, 0x00, 0x00, 0x01, 0x00, 0x02})
	second := bytes.NewReader([]byte{0x30, 0x01, 0x00, 0xFF})

	if err := LoadImage(mem, first); err != nil {
		t.Fatalf("first LoadImage: %v", err)
	}
	if err := LoadImage(mem, second); err != nil {
		t.Fatalf("second LoadImage: %v", err)
	}
	if got := mem.ReadRaw(0x3000); got != 0x0001 {
		t.Errorf("M[0x3000] = %#04x, want 0x0001 (untouched by second image)", got)
	}
	if got := mem.ReadRaw(0x3001); got != 0x00FF {
		t.Errorf("M[0x3001] = %#04x, want 0x00FF (overwritten)", got)
	}
}
