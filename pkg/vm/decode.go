// Package vm implements the LC-3 (Little Computer 3) instruction set:
// a 16-bit educational architecture with sixteen opcodes, eight general
// purpose registers, a 65,536-word memory, and a small memory-mapped
// I/O surface.
//
// Instruction encoding
//
// Every instruction is 16 bits wide. Bits [15:12] select the OpCode;
// the remaining 12 bits carry operands whose layout depends on the
// opcode:
//
//	 XXXX   XXXXXXXXXXXX
//	│    │ │            │
//	└────┘ └────────────┘
//	opcode   operands
//
// The functions in this file are pure bit-slicing helpers over a raw
// instruction word; they carry no VM state and never fail, mirroring
// the fact that every field they read is mechanically present in every
// instruction word regardless of opcode (callers consult only the
// fields their opcode actually uses).
package vm

// Opcode extracts the instruction's OpCode from bits [15:12].
func Opcode(w uint16) OpCode {
	return OpCode(w >> 12)
}

// CondCodesOf extracts a 3-bit condition code mask from bits [11:9].
// This is BR's branch-enable mask, not the live CC register.
func CondCodesOf(w uint16) CondCodes {
	return FromLowBits(w >> 9)
}

// Reg1 extracts the DR/SR register field from bits [11:9].
func Reg1(w uint16) Reg {
	return RegFromBits(w >> 9)
}

// Reg2 extracts the BaseR/SR1 register field from bits [8:6].
func Reg2(w uint16) Reg {
	return RegFromBits(w >> 6)
}

// Reg3 extracts the SR2 register field from bits [2:0].
func Reg3(w uint16) Reg {
	return RegFromBits(w)
}

// TrapCodeOf extracts the trap code from bits [7:0], reporting whether
// it names one of the six known trap service routines.
func TrapCodeOf(w uint16) (TrapCode, bool) {
	return DecodeTrapCode(uint8(w & 0xFF))
}

// IsBitSet reports whether bit b (0-indexed from the LSB) of w is set.
func IsBitSet(w uint16, b uint) bool {
	return (w>>b)&1 != 0
}

// signExtend sign-extends the low bits-wide field of w into a full
// 16-bit two's-complement value.
func signExtend(w uint16, bits uint) uint16 {
	mask := uint16(1) << (bits - 1)
	field := w & ((uint16(1) << bits) - 1)
	if field&mask != 0 {
		return field | (^uint16(0) << bits)
	}
	return field
}

// Imm5 extracts and sign-extends the 5-bit immediate in bits [4:0].
func Imm5(w uint16) uint16 { return signExtend(w, 5) }

// Imm6 extracts and sign-extends the 6-bit offset in bits [5:0].
func Imm6(w uint16) uint16 { return signExtend(w, 6) }

// Imm8 extracts and sign-extends the 8-bit field in bits [7:0]. This is
// also TRAP's trapvect8 operand, read unextended by TrapCodeOf.
func Imm8(w uint16) uint16 { return signExtend(w, 8) }

// Imm9 extracts and sign-extends the 9-bit PC-relative offset in bits [8:0].
func Imm9(w uint16) uint16 { return signExtend(w, 9) }

// Imm11 extracts and sign-extends the 11-bit PC-relative offset in bits [10:0].
func Imm11(w uint16) uint16 { return signExtend(w, 11) }
