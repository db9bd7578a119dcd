package vm

import (
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// TTY is a Device backed by the process's controlling terminal. It
// disables canonical mode and local echo so that GETC/Poll observe
// individual keystrokes instead of waiting for a newline, and restores
// the prior terminal state when closed.
//
// The user of this struct is supposed to create a new instance by
// calling NewTTY. The user shall defer calling Close. The user shall
// otherwise not manipulate the TTY and should pass it to NewMemory.
type TTY struct {
	in, out *os.File
	fd      int
	saved   *term.State
}

// NewTTY places the terminal backing in into raw input mode (ICANON
// and ECHO cleared, everything else left as the shell set it) and
// returns a TTY reading from in and writing to out.
func NewTTY(in, out *os.File) (*TTY, error) {
	fd := int(in.Fd())

	saved, err := term.GetState(fd)
	if err != nil {
		return nil, err
	}

	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return nil, err
	}
	termios.Lflag &^= unix.ICANON | unix.ECHO
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, termios); err != nil {
		return nil, err
	}

	return &TTY{in: in, out: out, fd: fd, saved: saved}, nil
}

// Close restores the terminal attributes captured at construction.
func (t *TTY) Close() error {
	return term.Restore(t.fd, t.saved)
}

// Poll implements Device.Poll via a zero-timeout select(2) on the
// input file descriptor, so it never blocks the caller.
func (t *TTY) Poll() bool {
	fdSet := &unix.FdSet{}
	fdSet.Set(t.fd)
	timeout := unix.Timeval{Sec: 0, Usec: 0}
	n, err := unix.Select(t.fd+1, fdSet, nil, nil, &timeout)
	return err == nil && n > 0
}

// Read implements Device.Read.
func (t *TTY) Read(buf []byte) (int, error) {
	return t.in.Read(buf)
}

// Write implements Device.Write.
func (t *TTY) Write(buf []byte) (int, error) {
	return t.out.Write(buf)
}

// Flush implements Device.Flush. Standard output on a terminal is
// unbuffered at the os.File level, so there is nothing to commit.
func (t *TTY) Flush() error {
	return nil
}

var _ Device = &TTY{}
