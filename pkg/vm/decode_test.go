package vm

import "testing"

// Invariant 6: sign extension round-trips; imm5 = -1 (0b11111) decodes
// to the full 16-bit word 0xFFFF.
func TestImm5SignExtension(t *testing.T) {
	// ADD R0,R0,#-1 -> opcode=1, DR=0, SR1=0, imm-mode bit set, imm5=0b11111
	w := uint16(0b0001_000_000_1_11111)
	if got := Imm5(w); got != 0xFFFF {
		t.Errorf("Imm5(%#016b) = %#04x, want 0xFFFF", w, got)
	}
}

func TestSignExtensionFields(t *testing.T) {
	cases := []struct {
		name string
		w    uint16
		want uint16
		fn   func(uint16) uint16
	}{
		{"imm5 positive", 0b0000_0000_0000_1111, 0x000F, Imm5},
		{"imm5 negative", 0b0000_0000_0001_0000, 0xFFF0, Imm5},
		{"imm6 negative", 0b0000_0000_0010_0000, 0xFFE0, Imm6},
		{"imm9 negative", 0b0000_0001_0000_0000, 0xFF00, Imm9},
		{"imm11 negative", 0b0000_0100_0000_0000, 0xFC00, Imm11},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.fn(tc.w); got != tc.want {
				t.Errorf("got %#04x, want %#04x", got, tc.want)
			}
		})
	}
}

func TestOpcodeDecodeIsTotal(t *testing.T) {
	for v := 0; v < 16; v++ {
		w := uint16(v) << 12
		op := Opcode(w)
		if int(op) != v {
			t.Errorf("Opcode(%#04x) = %v, want numeric value %d", w, op, v)
		}
		if op.String() == "" {
			t.Errorf("opcode %d has empty mnemonic", v)
		}
	}
}

func TestTrapCodeDecodeIsPartial(t *testing.T) {
	for raw := 0x20; raw <= 0x25; raw++ {
		if _, ok := DecodeTrapCode(uint8(raw)); !ok {
			t.Errorf("trap code %#02x should decode", raw)
		}
	}
	if _, ok := DecodeTrapCode(0x99); ok {
		t.Errorf("trap code 0x99 should not decode")
	}
}

func TestRegisterFields(t *testing.T) {
	// ADD (register mode) DR=5, SR1=3, SR2=2:
	// opcode(0001) DR(101) SR1(011) mode(0) unused(00) SR2(010)
	w := uint16(0b0001_101_011_0_00_010)
	if got := Reg1(w); got != 5 {
		t.Errorf("Reg1 = %d, want 5", got)
	}
	if got := Reg2(w); got != 3 {
		t.Errorf("Reg2 = %d, want 3", got)
	}
	if got := Reg3(w); got != 2 {
		t.Errorf("Reg3 = %d, want 2", got)
	}
}

func TestIsBitSet(t *testing.T) {
	w := uint16(0b0010_0000)
	if !IsBitSet(w, 5) {
		t.Errorf("bit 5 of %#06b should be set", w)
	}
	if IsBitSet(w, 4) {
		t.Errorf("bit 4 of %#06b should be clear", w)
	}
}
