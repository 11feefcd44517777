// Package elfx loads SBF shared objects into analysis inputs.
// Everything downstream consumes only the resulting sbf.Program; no
// ELF type leaks past this package.
package elfx

import (
	"bytes"
	"debug/elf"
	"errors"
	"fmt"
	"os"

	"unsbf/internal/sbf"
)

// EM_SBF is Solana's own machine number; older toolchains tag programs
// with the generic EM_BPF instead, and both are accepted.
const EM_SBF elf.Machine = 263

var (
	ErrNotELF    = errors.New("elfx: not an ELF file")
	ErrNotSBF    = errors.New("elfx: not an SBF object (EM_SBF or EM_BPF)")
	ErrNotShared = errors.New("elfx: not a shared object")
	ErrNot64Bit  = errors.New("elfx: not 64-bit ELF")
	ErrNoText    = errors.New("elfx: no .text section")
)

// Load reads an SBF shared object and produces the program image for
// analysis: the whole file (it is mapped wholesale into the rodata
// region at run time), the text and rodata byte ranges, and the
// entrypoint slot.
func Load(path string) (*sbf.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("elfx: read: %w", err)
	}
	return Parse(data)
}

// Parse builds an sbf.Program from an in-memory SBF shared object.
func Parse(data []byte) (*sbf.Program, error) {
	ef, err := elf.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotELF, err)
	}
	defer ef.Close()

	if ef.Class != elf.ELFCLASS64 {
		return nil, ErrNot64Bit
	}
	if ef.Machine != EM_SBF && ef.Machine != elf.EM_BPF {
		return nil, fmt.Errorf("%w: machine %v", ErrNotSBF, ef.Machine)
	}
	if ef.Type != elf.ET_DYN {
		return nil, ErrNotShared
	}

	text := ef.Section(".text")
	if text == nil {
		return nil, ErrNoText
	}

	prog := &sbf.Program{
		Bytes:     data,
		TextStart: text.Offset,
		TextEnd:   text.Offset + text.Size,
	}

	// The loader maps the entire file read-only, so absent a .rodata
	// section the whole image is fair game for string recovery.
	if ro := ef.Section(".rodata"); ro != nil {
		prog.RodataStart = ro.Offset
		prog.RodataEnd = ro.Offset + ro.Size
	} else {
		prog.RodataEnd = uint64(len(data))
	}

	if ef.Entry >= text.Addr {
		prog.Entry = (ef.Entry - text.Addr) / sbf.InsnSize
	}

	if err := prog.Validate(); err != nil {
		return nil, err
	}
	return prog, nil
}
