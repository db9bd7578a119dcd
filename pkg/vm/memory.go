package vm

import "fmt"

// MemorySize is the number of addressable 16-bit words: the LC-3
// address space is exactly 2^16 words wide.
const MemorySize = 1 << 16

// The memory-mapped I/O register addresses. Addresses outside this set
// behave as ordinary RAM.
const (
	AddrKBSR uint16 = 0xFE00 // keyboard status register
	AddrKBDR uint16 = 0xFE02 // keyboard data register
	AddrDSR  uint16 = 0xFE04 // display status register
	AddrDDR  uint16 = 0xFE06 // display data register
	AddrMCR  uint16 = 0xFFFE // machine control register
)

// statusReady is the "device ready" bit pattern shared by KBSR and DSR.
const statusReady uint16 = 0x8000

// Memory is the LC-3's 65,536-word address space, with five addresses
// overlaid by memory-mapped I/O registers backed by a Device.
//
// Read is side-effecting when the address is KBDR: a ready read
// consumes one input byte from the device. Because of this, Memory is
// always used through a pointer receiver; there is no read-only
// borrowing path, matching the LC-3's actual hardware where reading
// the keyboard data register clears the keyboard status register.
type Memory struct {
	words  [MemorySize]uint16
	device Device
}

// NewMemory returns a zeroed Memory unit backed by device. device may
// be nil if the program under emulation never touches MMIO (tests of
// pure arithmetic instructions commonly do this).
func NewMemory(device Device) *Memory {
	return &Memory{device: device}
}

// Read returns the word at addr, applying the MMIO overlay table.
// Reading KBDR while input is ready consumes one byte from the device.
func (m *Memory) Read(addr uint16) (uint16, error) {
	switch addr {
	case AddrKBSR:
		if m.device != nil && m.device.Poll() {
			return statusReady, nil
		}
		return 0, nil
	case AddrKBDR:
		if m.device == nil || !m.device.Poll() {
			return 0, nil
		}
		var b [1]byte
		n, err := m.device.Read(b[:])
		if err != nil {
			return 0, fmt.Errorf("%w: reading KBDR: %w", ErrDevice, err)
		}
		if n == 0 {
			return 0, nil
		}
		return uint16(b[0]), nil
	case AddrDSR:
		return statusReady, nil
	case AddrDDR:
		return 0, nil
	default:
		return m.words[addr], nil
	}
}

// Write stores value at addr, applying the MMIO overlay table. Writes
// to KBSR, KBDR, and DSR are silently discarded (they are read-only
// from the program's point of view); a write to DDR emits the low
// byte to the device and flushes; a write to MCR lands in the backing
// array like ordinary RAM, where Engine's halt check reads it back.
func (m *Memory) Write(addr uint16, value uint16) error {
	switch addr {
	case AddrKBSR, AddrKBDR, AddrDSR:
		return nil
	case AddrDDR:
		if m.device == nil {
			return nil
		}
		b := [1]byte{byte(value)}
		if _, err := m.device.Write(b[:]); err != nil {
			return fmt.Errorf("%w: writing DDR: %w", ErrDevice, err)
		}
		if err := m.device.Flush(); err != nil {
			return fmt.Errorf("%w: flushing DDR: %w", ErrDevice, err)
		}
		return nil
	default:
		m.words[addr] = value
		return nil
	}
}

// ReadRaw returns the backing word at addr without applying the MMIO
// overlay. Used by tests that need to inspect memory without triggering
// device side effects.
func (m *Memory) ReadRaw(addr uint16) uint16 {
	return m.words[addr]
}

// WriteRaw stores value at addr without applying the MMIO overlay.
// Used by the loader to deposit image words, including into the MCR
// and trap-vector-table regions, without routing through Device.
func (m *Memory) WriteRaw(addr uint16, value uint16) {
	m.words[addr] = value
}

// Flush commits any output buffered by the backing device, if any.
func (m *Memory) Flush() error {
	if m.device == nil {
		return nil
	}
	if err := m.device.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrDevice, err)
	}
	return nil
}
