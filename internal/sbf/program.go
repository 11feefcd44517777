package sbf

import (
	"errors"
	"fmt"
)

var (
	// ErrBadRange is returned when a segment range does not fit inside
	// the program image.
	ErrBadRange = errors.New("sbf: segment range outside program image")
	// ErrBadEntry is returned when the entrypoint does not land on an
	// instruction slot inside the text segment.
	ErrBadEntry = errors.New("sbf: entrypoint outside text segment")
)

// Program is the loaded, read-only input of an analysis run: the flat
// program image (mapped at MMRodataStart in the SBF memory map) plus the
// byte ranges of the text and read-only data segments and the entrypoint
// slot index. Supplied whole by the loader; nothing here mutates it.
type Program struct {
	Bytes       []byte
	TextStart   uint64 // byte offset into Bytes, inclusive
	TextEnd     uint64 // exclusive
	RodataStart uint64
	RodataEnd   uint64
	Entry       uint64 // entry slot index, relative to TextStart
}

// Validate checks the segment ranges and entrypoint against the image.
// Any failure here is fatal for the whole analysis; partial output over
// a malformed image is not meaningful.
func (p *Program) Validate() error {
	size := uint64(len(p.Bytes))
	if p.TextStart > p.TextEnd || p.TextEnd > size {
		return fmt.Errorf("%w: text [0x%x, 0x%x) in %d bytes", ErrBadRange, p.TextStart, p.TextEnd, size)
	}
	if p.RodataStart > p.RodataEnd || p.RodataEnd > size {
		return fmt.Errorf("%w: rodata [0x%x, 0x%x) in %d bytes", ErrBadRange, p.RodataStart, p.RodataEnd, size)
	}
	if (p.TextEnd-p.TextStart)%InsnSize != 0 {
		return fmt.Errorf("%w: text length 0x%x not slot-aligned", ErrTruncated, p.TextEnd-p.TextStart)
	}
	if p.Entry >= (p.TextEnd-p.TextStart)/InsnSize {
		return fmt.Errorf("%w: slot %d", ErrBadEntry, p.Entry)
	}
	return nil
}

// Text returns the text segment bytes.
func (p *Program) Text() []byte {
	return p.Bytes[p.TextStart:p.TextEnd]
}

// RodataBase returns the virtual address of the first image byte; byte
// offset o in the image lives at virtual address RodataBase()+o.
func (p *Program) RodataBase() uint64 { return MMRodataStart }

// InRodataVA reports whether a virtual address falls inside the
// read-only data segment.
func (p *Program) InRodataVA(va uint64) bool {
	if va < MMRodataStart {
		return false
	}
	off := va - MMRodataStart
	return off >= p.RodataStart && off < p.RodataEnd
}

// SliceVA returns up to n image bytes starting at a virtual address,
// bounds-checked against the rodata segment. The returned slice is
// shorter than n when the segment ends first; ok is false when the
// address itself is outside rodata.
func (p *Program) SliceVA(va, n uint64) (b []byte, ok bool) {
	if !p.InRodataVA(va) {
		return nil, false
	}
	start := va - MMRodataStart
	end := start + n
	if end > p.RodataEnd {
		end = p.RodataEnd
	}
	return p.Bytes[start:end], true
}
