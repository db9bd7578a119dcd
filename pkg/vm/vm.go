package vm

import (
	"context"
	"fmt"
	"time"
)

// TrapMode selects how TRAP instructions are dispatched.
type TrapMode int

const (
	// TrapModeHardware jumps through the in-memory trap vector table
	// at M[trapvect8], exactly as real LC-3 hardware does. This
	// requires an operating system image (such as the one embedded in
	// internal/osimage) to be resident at the vectored addresses.
	TrapModeHardware TrapMode = iota

	// TrapModeVirtual decodes the trap code natively and executes the
	// corresponding service routine inside the engine, without ever
	// dereferencing the trap vector table.
	TrapModeVirtual
)

// Engine ties together a register file and a memory unit and executes
// LC-3 instructions against them. Engine is not goroutine safe; a
// single goroutine should drive one Engine at a time.
type Engine struct {
	Regs Registers
	Mem  *Memory
}

// NewEngine returns an Engine backed by mem with all data registers
// zero and CC set to Z.
func NewEngine(mem *Memory) *Engine {
	e := &Engine{Mem: mem}
	e.Regs.CC = Z
	return e
}

// Status reports the outcome of a single Step.
type Status int

const (
	// StatusRunning indicates the instruction executed normally and
	// the caller should keep stepping.
	StatusRunning Status = iota

	// StatusHalted indicates MCR's clock-enable bit is now clear and
	// the caller should stop stepping.
	StatusHalted
)

// ShouldHalt reports whether MCR's bit 15 is clear, i.e. whether the
// engine has been asked to stop.
func (e *Engine) ShouldHalt() (bool, error) {
	mcr, err := e.Mem.Read(AddrMCR)
	if err != nil {
		return false, err
	}
	return mcr&0x8000 == 0, nil
}

// Reset sets MCR's clock-enable bit, the conventional precondition for
// starting or resuming a Run.
func (e *Engine) Reset() error {
	return e.Mem.Write(AddrMCR, 0x8000)
}

// Halt clears MCR's clock-enable bit, the same effect TRAP HALT has.
func (e *Engine) Halt() error {
	return e.Mem.Write(AddrMCR, 0x0000)
}

// Run sets PC to startAddr, enables the clock, and steps the engine
// until MCR's clock-enable bit clears, ctx is done, or an error occurs.
// A returned error is ErrUnsupportedOpcode (RTI/RES executed), an error
// wrapping ErrDevice, ctx.Err() once ctx is done, or the error for a
// virtual GETC/IN run with no device attached; a clean halt returns nil.
func (e *Engine) Run(ctx context.Context, startAddr uint16, trapMode TrapMode) error {
	e.Regs.PC = startAddr
	if err := e.Reset(); err != nil {
		return err
	}
	for {
		if ctx != nil {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		status, err := e.Step(trapMode)
		if err != nil {
			return err
		}
		if status == StatusHalted {
			return nil
		}
	}
}

// Step fetches, decodes, and executes exactly one instruction.
func (e *Engine) Step(trapMode TrapMode) (Status, error) {
	w, err := e.Mem.Read(e.Regs.PC)
	if err != nil {
		return StatusRunning, fmt.Errorf("vm: fetch at %#04x: %w", e.Regs.PC, err)
	}
	e.Regs.PC++

	if err := e.execute(w, trapMode); err != nil {
		return StatusRunning, err
	}

	halted, err := e.ShouldHalt()
	if err != nil {
		return StatusRunning, err
	}
	if halted {
		return StatusHalted, nil
	}
	return StatusRunning, nil
}

// execute dispatches a single already-fetched instruction word.
func (e *Engine) execute(w uint16, trapMode TrapMode) error {
	op := Opcode(w)
	switch op {
	case OpADD:
		sr1 := e.Regs.Get(Reg2(w))
		var rhs uint16
		if IsBitSet(w, 5) {
			rhs = Imm5(w)
		} else {
			rhs = e.Regs.Get(Reg3(w))
		}
		e.Regs.Set(Reg1(w), sr1+rhs)

	case OpAND:
		sr1 := e.Regs.Get(Reg2(w))
		var rhs uint16
		if IsBitSet(w, 5) {
			rhs = Imm5(w)
		} else {
			rhs = e.Regs.Get(Reg3(w))
		}
		e.Regs.Set(Reg1(w), sr1&rhs)

	case OpNOT:
		e.Regs.Set(Reg1(w), ^e.Regs.Get(Reg2(w)))

	case OpBR:
		mask := CondCodesOf(w)
		if mask.Intersects(e.Regs.CC) {
			e.Regs.PC += Imm9(w)
		}

	case OpJMP:
		e.Regs.PC = e.Regs.Get(Reg2(w))

	case OpJSR:
		e.Regs.SetRaw(7, e.Regs.PC)
		if IsBitSet(w, 11) {
			e.Regs.PC += Imm11(w)
		} else {
			e.Regs.PC = e.Regs.Get(Reg2(w))
		}

	case OpLD:
		v, err := e.Mem.Read(e.Regs.PC + Imm9(w))
		if err != nil {
			return err
		}
		e.Regs.Set(Reg1(w), v)

	case OpLDI:
		ptr, err := e.Mem.Read(e.Regs.PC + Imm9(w))
		if err != nil {
			return err
		}
		v, err := e.Mem.Read(ptr)
		if err != nil {
			return err
		}
		e.Regs.Set(Reg1(w), v)

	case OpLDR:
		v, err := e.Mem.Read(e.Regs.Get(Reg2(w)) + Imm6(w))
		if err != nil {
			return err
		}
		e.Regs.Set(Reg1(w), v)

	case OpLEA:
		e.Regs.Set(Reg1(w), e.Regs.PC+Imm9(w))

	case OpST:
		return e.Mem.Write(e.Regs.PC+Imm9(w), e.Regs.Get(Reg1(w)))

	case OpSTI:
		ptr, err := e.Mem.Read(e.Regs.PC + Imm9(w))
		if err != nil {
			return err
		}
		return e.Mem.Write(ptr, e.Regs.Get(Reg1(w)))

	case OpSTR:
		return e.Mem.Write(e.Regs.Get(Reg2(w))+Imm6(w), e.Regs.Get(Reg1(w)))

	case OpTRAP:
		return e.trap(w, trapMode)

	case OpRTI, OpRES:
		return fmt.Errorf("%w: %s", ErrUnsupportedOpcode, op)

	default:
		// Unreachable: Opcode's range is exactly the 4-bit field w was
		// decoded from, so every case above is exhaustive.
		return fmt.Errorf("%w: %s", ErrUnsupportedOpcode, op)
	}
	return nil
}

// trap dispatches a TRAP instruction according to trapMode.
func (e *Engine) trap(w uint16, trapMode TrapMode) error {
	e.Regs.SetRaw(7, e.Regs.PC)
	trapvect8 := Imm8(w) & 0xFF

	if trapMode == TrapModeHardware {
		addr, err := e.Mem.Read(trapvect8)
		if err != nil {
			return err
		}
		e.Regs.PC = addr
		return nil
	}

	code, ok := DecodeTrapCode(uint8(trapvect8))
	if !ok {
		return e.writeString("UNDEFINED TRAP EXECUTED")
	}
	switch code {
	case TrapGETC:
		return e.trapGETC()
	case TrapOUT:
		return e.trapOUT()
	case TrapPUTS:
		return e.trapPUTS()
	case TrapIN:
		return e.trapIN()
	case TrapPUTSP:
		return e.trapPUTSP()
	case TrapHALT:
		return e.trapHALT()
	default:
		return e.writeString("UNDEFINED TRAP EXECUTED")
	}
}

// trapGETC reads one character from the input device into R0's low
// byte without echoing it, and sets CC from R0.
func (e *Engine) trapGETC() error {
	b, err := e.readByteBlocking()
	if err != nil {
		return err
	}
	e.Regs.Set(0, uint16(b))
	return nil
}

// trapOUT writes R0's low byte to the output device.
func (e *Engine) trapOUT() error {
	return e.writeByte(byte(e.Regs.Get(0)))
}

// trapPUTS writes the NUL-terminated string of full words starting at
// the address in R0, one character per word: only each word's low byte
// is written.
func (e *Engine) trapPUTS() error {
	addr := e.Regs.Get(0)
	for {
		w, err := e.Mem.Read(addr)
		if err != nil {
			return err
		}
		if w == 0 {
			break
		}
		if err := e.writeByte(byte(w)); err != nil {
			return err
		}
		addr++
	}
	return e.Mem.Flush()
}

// trapIN prints a prompt, reads one character, echoes it, and leaves
// it in R0 without touching CC, matching the reference OS's IN routine.
func (e *Engine) trapIN() error {
	if err := e.writeString("Enter a character: "); err != nil {
		return err
	}
	b, err := e.readByteBlocking()
	if err != nil {
		return err
	}
	if err := e.writeByte(b); err != nil {
		return err
	}
	e.Regs.SetRaw(0, uint16(b))
	return nil
}

// trapPUTSP writes the NUL-terminated packed-byte string starting at
// the address in R0: two characters per word, low byte first, high
// byte second, stopping at the first NUL byte (not NUL word) so an odd
// number of characters terminates cleanly with a zero high byte.
//
// This is the fully correct two-characters-per-word semantics; the
// bundled hardware-mode OS image's PUTSP routine only emits the low
// byte of each word because the LC-3 ISA has no shift instruction to
// extract the high byte cheaply in hand-assembled code. A caller that
// needs exact PUTSP output should run with TrapModeVirtual.
func (e *Engine) trapPUTSP() error {
	addr := e.Regs.Get(0)
outer:
	for {
		w, err := e.Mem.Read(addr)
		if err != nil {
			return err
		}
		lo := byte(w)
		hi := byte(w >> 8)
		if lo == 0 {
			break outer
		}
		if err := e.writeByte(lo); err != nil {
			return err
		}
		if hi == 0 {
			break outer
		}
		if err := e.writeByte(hi); err != nil {
			return err
		}
		addr++
	}
	return e.Mem.Flush()
}

// trapHALT prints a farewell message and clears MCR's clock-enable bit.
func (e *Engine) trapHALT() error {
	if err := e.writeString("HALT\n"); err != nil {
		return err
	}
	return e.Halt()
}

// writeString is a small convenience around repeated writeByte calls,
// used by the virtual trap handlers that print literal diagnostic text.
func (e *Engine) writeString(s string) error {
	for i := 0; i < len(s); i++ {
		if err := e.writeByte(s[i]); err != nil {
			return err
		}
	}
	return e.Mem.Flush()
}

// writeByte routes a single output byte through the DDR write path so
// it observes the same MMIO semantics a program's own STI to DDR would.
func (e *Engine) writeByte(b byte) error {
	return e.Mem.Write(AddrDDR, uint16(b))
}

// readByteBlocking polls the input device until a byte is available
// and returns it. Trap-emulated GETC/IN are defined to block until the
// user supplies a character, unlike the non-blocking KBSR/KBDR poll
// path a running program would use.
func (e *Engine) readByteBlocking() (byte, error) {
	dev := e.Mem.device
	if dev == nil {
		return 0, fmt.Errorf("vm: trap read with no input device attached")
	}
	for !dev.Poll() {
		time.Sleep(time.Millisecond)
	}
	var buf [1]byte
	for {
		n, err := dev.Read(buf[:])
		if err != nil {
			return 0, fmt.Errorf("%w: reading input: %w", ErrDevice, err)
		}
		if n > 0 {
			return buf[0], nil
		}
	}
}
