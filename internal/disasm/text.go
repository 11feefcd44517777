package disasm

import (
	"fmt"

	"unsbf/internal/sbf"
)

// Text renders one instruction as a disassembly line body (mnemonic and
// operands, no label or annotation). Jump targets render as lbb_<pc>
// block identifiers so listings and graphs cross-reference each other.
func Text(in sbf.Instruction, rev sbf.Revision) string {
	if in.Invalid() {
		// Keep the raw slot visible; a reserved opcode under this
		// revision may be meaningful under another.
		return fmt.Sprintf(".8byte 0x%016x", in.Raw)
	}

	spec := in.Spec
	switch spec.Kind {
	case sbf.KindALU32, sbf.KindALU64, sbf.KindPQR:
		switch spec.ALU {
		case sbf.ALUNeg:
			return fmt.Sprintf("%s r%d", spec.Name, in.Dst)
		case sbf.ALULE, sbf.ALUBE:
			return fmt.Sprintf("%s%d r%d", spec.Name, in.Imm, in.Dst)
		}
		if spec.Src {
			return fmt.Sprintf("%s r%d, r%d", spec.Name, in.Dst, in.Src)
		}
		return fmt.Sprintf("%s r%d, %d", spec.Name, in.Dst, in.Imm)

	case sbf.KindLoadImm:
		return fmt.Sprintf("lddw r%d, 0x%x", in.Dst, in.Imm64)

	case sbf.KindLoad:
		return fmt.Sprintf("%s r%d, [r%d%s]", spec.Name, in.Dst, in.Src, offRef(in.Off))

	case sbf.KindStore:
		if spec.Src {
			return fmt.Sprintf("%s [r%d%s], r%d", spec.Name, in.Dst, offRef(in.Off), in.Src)
		}
		return fmt.Sprintf("%s [r%d%s], %d", spec.Name, in.Dst, offRef(in.Off), in.Imm)

	case sbf.KindJump:
		return fmt.Sprintf("ja lbb_%d", in.JumpTarget())

	case sbf.KindBranch:
		if spec.Src {
			return fmt.Sprintf("%s r%d, r%d, lbb_%d", spec.Name, in.Dst, in.Src, in.JumpTarget())
		}
		return fmt.Sprintf("%s r%d, %d, lbb_%d", spec.Name, in.Dst, in.Imm, in.JumpTarget())

	case sbf.KindCall:
		return fmt.Sprintf("call function_%d", in.CallTarget())

	case sbf.KindCallReg:
		if rev.CallxUsesSrc() {
			return fmt.Sprintf("callx r%d", in.Src)
		}
		return fmt.Sprintf("callx r%d", in.Imm)

	case sbf.KindSyscall:
		return fmt.Sprintf("syscall %d", in.Imm)

	case sbf.KindExit:
		return spec.Name
	}
	return fmt.Sprintf(".8byte 0x%016x", in.Raw)
}

func offRef(off int16) string {
	if off < 0 {
		return fmt.Sprintf("-0x%x", -int32(off))
	}
	return fmt.Sprintf("+0x%x", off)
}
