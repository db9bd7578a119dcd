// Package osimage embeds the default LC-3 operating-system image: the
// trap-vector-table routines that back hardware-mode TRAP dispatch
// when the caller does not supply its own OS.
//
// The embedded asset is generated by gen/gen_os_image.py, a small
// standalone symbolic assembler kept alongside the asset so its
// provenance is auditable; it is not part of this package's build.
package osimage

import _ "embed"

//go:embed assets/lc3os.obj
var bytes []byte

// Bytes returns the raw LC-3 object image, ready to be passed to
// vm.LoadImage.
func Bytes() []byte {
	return bytes
}
