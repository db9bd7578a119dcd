package vm

import "errors"

// The following errors may be returned by Engine.Run and Engine.Step.
var (
	// ErrUnsupportedOpcode indicates that the fetched instruction was
	// RTI or the reserved opcode, neither of which this engine
	// implements (there is no privileged mode to return from and the
	// reserved encoding has no defined behavior).
	ErrUnsupportedOpcode = errors.New("vm: unsupported opcode")
)
