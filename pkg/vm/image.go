package vm

import (
	"encoding/binary"
	"fmt"
	"io"
)

// LoadImage reads a binary LC-3 object from r and deposits its words
// into mem. The format is a two-byte big-endian origin address
// followed by a contiguous run of big-endian 16-bit words, loaded
// starting at origin. Loading is raw: it bypasses the MMIO overlay, so
// an image may legitimately pre-seed the MCR word or the low-memory
// trap vector table.
//
// Images may be loaded one after another into the same Memory; a later
// image's words simply overwrite an earlier one's.
func LoadImage(mem *Memory, r io.Reader) error {
	var originBuf [2]byte
	if _, err := io.ReadFull(r, originBuf[:]); err != nil {
		return fmt.Errorf("vm: reading image origin: %w", err)
	}
	addr := binary.BigEndian.Uint16(originBuf[:])

	var wordBuf [2]byte
	for {
		_, err := io.ReadFull(r, wordBuf[:])
		switch {
		case err == io.EOF:
			return nil
		case err == io.ErrUnexpectedEOF:
			return fmt.Errorf("vm: truncated image word at offset %#04x", addr)
		case err != nil:
			return fmt.Errorf("vm: reading image: %w", err)
		}
		mem.WriteRaw(addr, binary.BigEndian.Uint16(wordBuf[:]))
		addr++ // wraps modulo 2^16, matching the address space itself
	}
}
