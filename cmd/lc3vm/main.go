// Command lc3vm runs LC-3 object images.
//
// Usage:
//
//	lc3vm [--no-default-os] [--virtual-trap-vector-table] [-v] IMAGE...
//
// Each IMAGE is a binary LC-3 object file: a two-byte big-endian origin
// followed by big-endian 16-bit words, loaded contiguously starting at
// origin. Images are loaded in argument order into the same address
// space, so a later image may overwrite an earlier one's words.
//
// Unless --no-default-os is given, an embedded trap-vector-table
// operating system image is loaded first, underneath the user images.
// Execution begins at 0x3000, the conventional LC-3 user program
// origin.
package main

import (
	"bytes"
	"fmt"
	"log"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/bassosimone/lc3vm/internal/osimage"
	"github.com/bassosimone/lc3vm/pkg/vm"
)

// userProgramOrigin is the conventional LC-3 address at which user
// programs begin execution.
const userProgramOrigin = 0x3000

// license is printed alongside usage whenever lc3vm is invoked with no
// image arguments, matching the banner the reference implementation
// prints under the same condition.
const license = "lc3vm  Copyright (c) 2026  The lc3vm authors"

const usage = `lc3vm: a virtual machine for the LC-3 architecture

Usage:
  lc3vm [--no-default-os] [--virtual-trap-vector-table] [-v] -- IMAGE...

Flags:
`

func main() {
	log.SetFlags(0)

	noDefaultOS := flag.Bool("no-default-os", false, "do not load the embedded OS image")
	virtualTraps := flag.Bool("virtual-trap-vector-table", false, "emulate TRAP service routines natively instead of jumping through the in-memory trap vector table")
	verbose := flag.BoolP("verbose", "v", false, "trace each fetched instruction to stderr")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	images := flag.Args()
	if len(images) == 0 {
		fmt.Fprintln(os.Stderr, license)
		flag.Usage()
		os.Exit(2)
	}

	tty, err := vm.NewTTY(os.Stdin, os.Stdout)
	if err != nil {
		log.Printf("lc3vm: %s", err)
		os.Exit(2)
	}
	defer tty.Close()
	// os.Exit skips deferred calls, so error exits restore the terminal
	// explicitly first.
	exit := func(code int) {
		tty.Close()
		os.Exit(code)
	}

	mem := vm.NewMemory(tty)

	if !*noDefaultOS {
		if err := vm.LoadImage(mem, bytes.NewReader(osimage.Bytes())); err != nil {
			log.Printf("lc3vm: loading embedded OS image: %s", err)
			exit(2)
		}
	}

	for _, path := range images {
		if err := loadImageFile(mem, path); err != nil {
			log.Printf("lc3vm: %s", err)
			exit(2)
		}
	}

	trapMode := vm.TrapModeHardware
	if *virtualTraps {
		trapMode = vm.TrapModeVirtual
	}

	engine := vm.NewEngine(mem)
	engine.Regs.PC = userProgramOrigin
	if err := engine.Reset(); err != nil {
		log.Printf("lc3vm: %s", err)
		exit(2)
	}

	for {
		if *verbose {
			w, _ := mem.Read(engine.Regs.PC)
			log.Printf("lc3vm: pc=%#04x ir=%#04x %s", engine.Regs.PC, w, vm.Disassemble(w))
		}
		status, err := engine.Step(trapMode)
		if err != nil {
			log.Printf("lc3vm: %s", err)
			exit(1)
		}
		if status == vm.StatusHalted {
			break
		}
	}
}

func loadImageFile(mem *vm.Memory, path string) error {
	fp, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	if err := vm.LoadImage(mem, fp); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}
