package vm

import "fmt"

// OpCode identifies one of the sixteen LC-3 instructions. It occupies
// bits [15:12] of every instruction word, so decoding an OpCode is a
// total function: every 4-bit pattern names a variant, even RES which
// is reserved and always rejected by the engine.
type OpCode uint8

// The sixteen LC-3 opcodes, numbered by their bit-pattern encoding.
const (
	OpBR  OpCode = 0x0
	OpADD OpCode = 0x1
	OpLD  OpCode = 0x2
	OpST  OpCode = 0x3
	OpJSR OpCode = 0x4
	OpAND OpCode = 0x5
	OpLDR OpCode = 0x6
	OpSTR OpCode = 0x7
	OpRTI OpCode = 0x8
	OpNOT OpCode = 0x9
	OpLDI OpCode = 0xA
	OpSTI OpCode = 0xB
	OpJMP OpCode = 0xC
	OpRES OpCode = 0xD
	OpLEA OpCode = 0xE
	OpTRAP OpCode = 0xF
)

var opcodeNames = [16]string{
	OpBR: "BR", OpADD: "ADD", OpLD: "LD", OpST: "ST",
	OpJSR: "JSR", OpAND: "AND", OpLDR: "LDR", OpSTR: "STR",
	OpRTI: "RTI", OpNOT: "NOT", OpLDI: "LDI", OpSTI: "STI",
	OpJMP: "JMP", OpRES: "RES", OpLEA: "LEA", OpTRAP: "TRAP",
}

// String renders the opcode mnemonic used by the reference assembler.
func (op OpCode) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return fmt.Sprintf("OpCode(%#x)", uint8(op))
}

// TrapCode identifies one of the six well-known LC-3 trap service
// routines. Unlike OpCode, decoding a TrapCode is partial: the trap
// field is eight bits wide but only the range 0x20-0x25 names a known
// routine, so decoding reports a bool alongside the value.
type TrapCode uint8

// The six standard LC-3 trap codes.
const (
	TrapGETC  TrapCode = 0x20
	TrapOUT   TrapCode = 0x21
	TrapPUTS  TrapCode = 0x22
	TrapIN    TrapCode = 0x23
	TrapPUTSP TrapCode = 0x24
	TrapHALT  TrapCode = 0x25
)

var trapCodeNames = map[TrapCode]string{
	TrapGETC:  "GETC",
	TrapOUT:   "OUT",
	TrapPUTS:  "PUTS",
	TrapIN:    "IN",
	TrapPUTSP: "PUTSP",
	TrapHALT:  "HALT",
}

// String renders the trap mnemonic, or a numeric fallback for a code
// outside the known range.
func (t TrapCode) String() string {
	if name, ok := trapCodeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TRAP(%#02x)", uint8(t))
}

// DecodeTrapCode reports whether raw names one of the six known trap
// service routines, alongside the routine itself when it does.
func DecodeTrapCode(raw uint8) (TrapCode, bool) {
	t := TrapCode(raw)
	_, ok := trapCodeNames[t]
	return t, ok
}
