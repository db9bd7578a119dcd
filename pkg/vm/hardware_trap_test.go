package vm

import (
	"bytes"
	"context"
	"testing"

	"github.com/bassosimone/lc3vm/internal/osimage"
)

// loadEmbeddedOS loads the bundled trap-vector-table OS image into mem,
// exactly as cmd/lc3vm/main.go does unless --no-default-os is given.
func loadEmbeddedOS(t *testing.T, mem *Memory) {
	t.Helper()
	if err := LoadImage(mem, bytes.NewReader(osimage.Bytes())); err != nil {
		t.Fatalf("loading embedded OS image: %v", err)
	}
}

// TestHardwareTrapHalt exercises the embedded OS image's HALT routine
// through TrapModeHardware: TRAP 0x25 must vector through the trap
// table into the bundled handler, which prints "HALT\n" and clears MCR.
func TestHardwareTrapHalt(t *testing.T) {
	dev := &fakeDevice{}
	mem := NewMemory(dev)
	loadEmbeddedOS(t, mem)
	loadWords(mem, 0x3000, 0xF025) // TRAP HALT

	e := NewEngine(mem)
	if err := e.Run(context.Background(), 0x3000, TrapModeHardware); err != nil {
		t.Fatalf("Run: %v", err)
	}

	halted, err := e.ShouldHalt()
	if err != nil {
		t.Fatalf("ShouldHalt: %v", err)
	}
	if !halted {
		t.Fatalf("expected MCR clock-enable bit clear after TRAP HALT")
	}
	if got := dev.out.String(); got != "HALT\n" {
		t.Errorf("output = %q, want %q", got, "HALT\n")
	}
}

// TestHardwareTrapGETCOut round-trips a character through the embedded
// OS image's GETC and OUT routines under TrapModeHardware: GETC must
// poll KBSR/KBDR via the trap table's own LDI loop (not the engine's
// virtual trap path) and OUT must echo it back out through DDR.
func TestHardwareTrapGETCOut(t *testing.T) {
	dev := &fakeDevice{in: []byte{'Q'}}
	mem := NewMemory(dev)
	loadEmbeddedOS(t, mem)
	loadWords(mem, 0x3000,
		0xF020, // TRAP GETC
		0xF021, // TRAP OUT
		0xF025, // TRAP HALT
	)

	e := NewEngine(mem)
	if err := e.Run(context.Background(), 0x3000, TrapModeHardware); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := e.Regs.Get(0) & 0xFF; got != uint16('Q') {
		t.Errorf("R0 low byte = %#02x, want %#02x ('Q')", got, uint16('Q'))
	}
	if got := dev.out.String(); got != "Q"+"HALT\n" {
		t.Errorf("output = %q, want %q", got, "Q"+"HALT\n")
	}
}
