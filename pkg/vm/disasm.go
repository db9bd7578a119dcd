package vm

import "fmt"

// Disassemble renders a single instruction word as LC-3 assembly text.
// It is used only by -v tracing; the engine itself never calls it.
func Disassemble(w uint16) string {
	op := Opcode(w)
	switch op {
	case OpADD, OpAND:
		dr, sr1 := Reg1(w), Reg2(w)
		if IsBitSet(w, 5) {
			return fmt.Sprintf("%s r%d r%d %d", op, dr, sr1, int16(Imm5(w)))
		}
		return fmt.Sprintf("%s r%d r%d r%d", op, dr, sr1, Reg3(w))
	case OpNOT:
		return fmt.Sprintf("not r%d r%d", Reg1(w), Reg2(w))
	case OpBR:
		return fmt.Sprintf("br%s %d", CondCodesOf(w), int16(Imm9(w)))
	case OpJMP:
		r := Reg2(w)
		if r == 7 {
			return "ret"
		}
		return fmt.Sprintf("jmp r%d", r)
	case OpJSR:
		if IsBitSet(w, 11) {
			return fmt.Sprintf("jsr %d", int16(Imm11(w)))
		}
		return fmt.Sprintf("jsrr r%d", Reg2(w))
	case OpLD:
		return fmt.Sprintf("ld r%d %d", Reg1(w), int16(Imm9(w)))
	case OpLDI:
		return fmt.Sprintf("ldi r%d %d", Reg1(w), int16(Imm9(w)))
	case OpLDR:
		return fmt.Sprintf("ldr r%d r%d %d", Reg1(w), Reg2(w), int16(Imm6(w)))
	case OpLEA:
		return fmt.Sprintf("lea r%d %d", Reg1(w), int16(Imm9(w)))
	case OpST:
		return fmt.Sprintf("st r%d %d", Reg1(w), int16(Imm9(w)))
	case OpSTI:
		return fmt.Sprintf("sti r%d %d", Reg1(w), int16(Imm9(w)))
	case OpSTR:
		return fmt.Sprintf("str r%d r%d %d", Reg1(w), Reg2(w), int16(Imm6(w)))
	case OpTRAP:
		if code, ok := TrapCodeOf(w); ok {
			return fmt.Sprintf("trap %s", code)
		}
		return fmt.Sprintf("trap %#02x", w&0xFF)
	case OpRTI:
		return "rti"
	case OpRES:
		return "<reserved>"
	default:
		return fmt.Sprintf("<unknown instruction: %#04x>", w)
	}
}
