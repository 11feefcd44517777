// Package sbf models the Solana BPF (SBF) instruction set across its
// revisions: instruction encoding, the opcode mapping tables, and the
// fixed-width decoder.
package sbf

const (
	// InsnSize is the size of one instruction slot in bytes.
	InsnSize = 8
	// MaxRegister is the highest addressable register (r10, frame pointer).
	MaxRegister = 10
	// FramePtrReg is the frame pointer register.
	FramePtrReg = 10
)

// Memory map region bases. Regions are (1 << 32) bytes apart; the flat
// program image (text and rodata) is mapped at MMRodataStart.
const (
	MMRodataStart uint64 = 0x100000000
	MMStackStart  uint64 = 0x200000000
	MMHeapStart   uint64 = 0x300000000
	MMInputStart  uint64 = 0x400000000
)

// Call-convention argument registers r1..r5. The immediate tracker only
// accepts length hints written to one of these.
const (
	FirstArgReg = 1
	LastArgReg  = 5
)
