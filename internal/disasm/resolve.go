package disasm

import (
	"fmt"
	"strings"

	"unsbf/internal/sbf"
)

// DefaultStringLen is the fallback number of rodata bytes decoded for a
// reference whose length could not be recovered from the surrounding
// instructions. A tunable display heuristic, not a derived invariant.
const DefaultStringLen = 50

// Resolver runs the single forward pass that ties the register tracker
// to the immediate tracker: every load that resolves to a rodata address
// registers a range and yields a printable annotation.
type Resolver struct {
	prog *sbf.Program
	regs *RegisterTracker
	imm  *ImmediateTracker
}

// NewResolver returns a resolver for one analysis run over prog.
func NewResolver(prog *sbf.Program) *Resolver {
	return &Resolver{
		prog: prog,
		regs: NewRegisterTracker(),
		imm:  NewImmediateTracker(),
	}
}

// Run processes the instruction stream in program order and returns the
// byte-string annotation per instruction PC for every load that resolved
// into the read-only data segment. Tracker state is reset first; the
// pass never aborts on unresolvable addresses or lengths.
func (r *Resolver) Run(insns []sbf.Instruction) map[uint64]string {
	r.regs.Reset()
	ann := make(map[uint64]string)

	for i, in := range insns {
		va, ok := r.effectiveAddress(in)
		// The source register is read before the transfer function runs
		// so a load through its own destination still resolves.
		r.regs.Update(in)
		if !ok {
			continue
		}

		length := lengthHint(insns, i)
		if va >= sbf.MMRodataStart && va < sbf.MMStackStart {
			r.imm.Register(va, length)
		}
		if b, inRodata := r.prog.SliceVA(va, length); inRodata {
			ann[in.PC] = FormatBytes(b)
		}
	}
	return ann
}

// Ranges returns the final, post-truncation immediate ranges.
func (r *Resolver) Ranges() []ImmediateRange {
	return r.imm.Ranges()
}

// effectiveAddress returns the rodata-candidate virtual address an
// instruction references, if any: the assembled constant of a wide
// immediate load, or src+offset of a register-addressed load when the
// source register is fully known.
func (r *Resolver) effectiveAddress(in sbf.Instruction) (uint64, bool) {
	switch in.Kind() {
	case sbf.KindLoadImm:
		if in.Imm64 >= sbf.MMRodataStart && in.Imm64 < sbf.MMStackStart {
			return in.Imm64, true
		}
	case sbf.KindLoad:
		src := r.regs.Get(in.Src)
		if src.State == RegKnown {
			return src.Val + uint64(int64(in.Off)), true
		}
	}
	return 0, false
}

// lengthHint scans forward from the load for the nearest instruction
// that sets an argument register to a positive literal, stopping at the
// next control transfer. By Solana calling convention the length of a
// buffer travels in an argument register right next to its pointer.
func lengthHint(insns []sbf.Instruction, loadIdx int) uint64 {
	for j := loadIdx + 1; j < len(insns); j++ {
		in := insns[j]
		if in.IsControlTransfer() {
			break
		}
		if in.Spec.ALU == sbf.ALUMov && !in.Spec.Src &&
			in.Dst >= sbf.FirstArgReg && in.Dst <= sbf.LastArgReg && in.Imm > 0 {
			return uint64(in.Imm)
		}
	}
	return DefaultStringLen
}

// FormatBytes renders a byte slice as a byte-string literal: printable
// ASCII as-is, everything else as a \xHH escape.
func FormatBytes(b []byte) string {
	var sb strings.Builder
	sb.WriteString(`b"`)
	for _, c := range b {
		if c >= 0x20 && c <= 0x7e {
			sb.WriteByte(c)
		} else {
			fmt.Fprintf(&sb, `\x%02x`, c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
