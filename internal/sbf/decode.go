package sbf

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrTruncated is returned when the text buffer is not a whole
	// number of instruction slots.
	ErrTruncated = errors.New("sbf: truncated text buffer")
)

// Instruction is one decoded instruction slot. Immutable once decoded.
// PC is the slot index within the text segment; a wide immediate load
// occupies two slots, so the following instruction's PC is two higher.
type Instruction struct {
	PC     uint64
	Opcode byte
	Spec   OpSpec
	Dst    uint8
	Src    uint8
	Off    int16
	Imm    int32
	Imm64  uint64 // assembled 64-bit constant for wide immediate loads
	Wide   bool   // consumed a second slot
	Raw    uint64 // raw slot bytes, little-endian
}

// Invalid reports whether the slot was reserved or malformed under the
// active revision.
func (in Instruction) Invalid() bool { return in.Spec.Kind == KindInvalid }

// Kind returns the decoded operation kind.
func (in Instruction) Kind() Kind { return in.Spec.Kind }

// IsControlTransfer reports whether the instruction ends a straight-line
// run: jumps, branches, calls, syscalls, and exits.
func (in Instruction) IsControlTransfer() bool {
	switch in.Spec.Kind {
	case KindJump, KindBranch, KindCall, KindCallReg, KindSyscall, KindExit:
		return true
	}
	return false
}

// JumpTarget returns the slot index a jump or branch transfers to.
func (in Instruction) JumpTarget() uint64 {
	return uint64(int64(in.PC) + 1 + int64(in.Off))
}

// CallTarget returns the slot index a call-by-immediate transfers to.
func (in Instruction) CallTarget() uint64 {
	return uint64(int64(in.PC) + 1 + int64(in.Imm))
}

func (in Instruction) String() string {
	if in.Invalid() {
		return fmt.Sprintf("invalid@%d(0x%02x)", in.PC, in.Opcode)
	}
	return fmt.Sprintf("%s@%d", in.Spec.Name, in.PC)
}

// Decode decodes a text segment into its instruction sequence under the
// given revision. Reserved opcodes and malformed wide immediate loads
// become Invalid-kind instructions; slot boundaries are fixed-width, so
// a bad slot never desynchronizes the slots after it. The only error is
// a buffer that is not slot-aligned.
func Decode(text []byte, rev Revision) ([]Instruction, error) {
	if len(text)%InsnSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrTruncated, len(text), InsnSize)
	}

	n := len(text) / InsnSize
	insns := make([]Instruction, 0, n)

	for slot := 0; slot < n; slot++ {
		off := slot * InsnSize
		raw := binary.LittleEndian.Uint64(text[off : off+InsnSize])

		in := Instruction{
			PC:     uint64(slot),
			Opcode: text[off],
			Dst:    text[off+1] & 0x0f,
			Src:    text[off+1] >> 4,
			Off:    int16(binary.LittleEndian.Uint16(text[off+2 : off+4])),
			Imm:    int32(binary.LittleEndian.Uint32(text[off+4 : off+8])),
			Raw:    raw,
		}

		spec := Lookup(in.Opcode, rev)
		if spec.Valid() && in.Dst <= MaxRegister && in.Src <= MaxRegister {
			in.Spec = spec
		}

		if in.Spec.Kind == KindLoadImm {
			// The second slot must carry the designated second-slot
			// opcode (0x00); anything else marks this slot invalid and
			// decoding resumes at the very next slot.
			next := off + InsnSize
			if slot+1 >= n || text[next] != 0x00 {
				in.Spec = OpSpec{}
				insns = append(insns, in)
				continue
			}
			high := binary.LittleEndian.Uint32(text[next+4 : next+8])
			in.Imm64 = uint64(uint32(in.Imm)) | uint64(high)<<32
			in.Wide = true
			slot++
		}

		insns = append(insns, in)
	}

	return insns, nil
}
