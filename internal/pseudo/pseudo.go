// Package pseudo renders per-instruction Rust-equivalence expressions
// for the disassembly listing's right-hand column. The expressions spell
// out the wrapping/width semantics the mnemonic hides, e.g. that a
// 32-bit add zero-extends from v2 but sign-extends before it.
package pseudo

import (
	"fmt"
	"strings"

	"unsbf/internal/sbf"
)

// Translate returns the pseudo-expression for one instruction, or false
// when the opcode has no useful equivalence (loads, stores, calls,
// exits) or is invalid under rev.
func Translate(in sbf.Instruction, rev sbf.Revision) (string, bool) {
	if in.Invalid() {
		return "", false
	}
	switch in.Spec.Kind {
	case sbf.KindALU32:
		return alu32(in, rev)
	case sbf.KindALU64:
		return alu64(in, rev)
	case sbf.KindPQR:
		return pqr(in)
	case sbf.KindLoadImm:
		return fmt.Sprintf("r%d load str located at %d", in.Dst, int64(in.Imm64)), true
	case sbf.KindJump:
		return fmt.Sprintf("if true { pc += %d }", in.Off), true
	case sbf.KindBranch:
		return branch(in)
	}
	return "", false
}

func alu32(in sbf.Instruction, rev sbf.Revision) (string, bool) {
	d, s, i := in.Dst, in.Src, in.Imm

	// The promotion applied to the 32-bit result changed at v2: it was
	// sign-extended, now it is zero-extended.
	ext := "u64"
	if rev < sbf.V2 {
		ext = "i32 as i64 as u64"
	}

	switch in.Spec.ALU {
	case sbf.ALUAdd:
		if in.Spec.Src {
			return fmt.Sprintf("r%d += r%d   ///  r%d = (r%d as u32).wrapping_add(r%d as u32) as %s", d, s, d, d, s, ext), true
		}
		return fmt.Sprintf("r%d += %d    ///  r%d = (r%d as u32).wrapping_add(%d) as %s", d, i, d, d, i, ext), true
	case sbf.ALUSub:
		if in.Spec.Src {
			return fmt.Sprintf("r%d -= r%d   ///  r%d = (r%d as u32).wrapping_sub(r%d as u32) as %s", d, s, d, d, s, ext), true
		}
		if rev < sbf.V2 {
			return fmt.Sprintf("r%d = %d - r%d   ///  r%d = (r%d as u32).wrapping_sub(%d) as u64", d, i, d, d, d, i), true
		}
		return fmt.Sprintf("r%d = %d - r%d   ///  r%d = %d.wrapping_sub(r%d as u32) as u64", d, i, d, d, i, d), true
	case sbf.ALUMul:
		if in.Spec.Src {
			return fmt.Sprintf("r%d *= r%d   ///  r%d = (r%d as i32).wrapping_mul(r%d as i32) as i64 as u64", d, s, d, d, s), true
		}
		return fmt.Sprintf("r%d *= %d   ///  r%d = (r%d as i32).wrapping_mul(%d as i32) as i64 as u64", d, i, d, d, i), true
	case sbf.ALUDiv:
		if in.Spec.Src {
			return fmt.Sprintf("r%d /= r%d   ///  r%d = ((r%d as u32) / (r%d as u32)) as u64", d, s, d, d, s), true
		}
		return fmt.Sprintf("r%d /= %d   ///  r%d = ((r%d as u32) / %d) as u64", d, i, d, d, i), true
	case sbf.ALUMod:
		if in.Spec.Src {
			return fmt.Sprintf("r%d %%= r%d   ///  r%d = ((r%d as u32) %% (r%d as u32)) as u64", d, s, d, d, s), true
		}
		return fmt.Sprintf("r%d %%= %d   ///  r%d = ((r%d as u32) %% %d) as u64", d, i, d, d, i), true
	case sbf.ALUOr:
		if in.Spec.Src {
			return fmt.Sprintf("r%d |= r%d   ///  r%d = (r%d as u32).or(r%d as u32) as u64", d, s, d, d, s), true
		}
		return fmt.Sprintf("r%d |= %d   ///  r%d = (r%d as u32).or(%d) as u64", d, i, d, d, i), true
	case sbf.ALUAnd:
		if in.Spec.Src {
			return fmt.Sprintf("r%d &= r%d   ///  r%d = (r%d as u32).and(r%d as u32) as u64", d, s, d, d, s), true
		}
		return fmt.Sprintf("r%d &= %d   ///  r%d = (r%d as u32).and(%d) as u64", d, i, d, d, i), true
	case sbf.ALUXor:
		if in.Spec.Src {
			return fmt.Sprintf("r%d ^= r%d   ///  r%d = (r%d as u32).xor(r%d as u32) as u64", d, s, d, d, s), true
		}
		return fmt.Sprintf("r%d ^= %d   ///  r%d = (r%d as u32).xor(%d) as u64", d, i, d, d, i), true
	case sbf.ALULsh:
		if in.Spec.Src {
			return fmt.Sprintf("r%d <<= r%d   ///  r%d = (r%d as u32).wrapping_shl(r%d as u32) as u64", d, s, d, d, s), true
		}
		return fmt.Sprintf("r%d <<= %d   ///  r%d = (r%d as u32).wrapping_shl(%d) as u64", d, i, d, d, i), true
	case sbf.ALURsh:
		if in.Spec.Src {
			return fmt.Sprintf("r%d >>= r%d   ///  r%d = (r%d as u32).wrapping_shr(r%d as u32) as u64", d, s, d, d, s), true
		}
		return fmt.Sprintf("r%d >>= %d   ///  r%d = (r%d as u32).wrapping_shr(%d) as u64", d, i, d, d, i), true
	case sbf.ALUArsh:
		if in.Spec.Src {
			return fmt.Sprintf("r%d >>= r%d (signed)  ///  r%d = (r%d as i32).wrapping_shr(r%d as u32) as u32 as u64", d, s, d, d, s), true
		}
		return fmt.Sprintf("r%d >>= %d (signed)  ///  r%d = (r%d as i32).wrapping_shr(%d) as u32 as u64", d, i, d, d, i), true
	case sbf.ALUNeg:
		return fmt.Sprintf("r%d = -r%d   ///  r%d = (r%d as i32).wrapping_neg() as u32 as u64", d, d, d, d), true
	case sbf.ALUMov:
		if in.Spec.Src {
			ext := "i32 as i64 as u64"
			if rev < sbf.V2 {
				ext = "u32 as u64"
			}
			return fmt.Sprintf("r%d = r%d as %s", d, s, ext), true
		}
		return fmt.Sprintf("r%d = %d as u64", d, i), true
	case sbf.ALULE:
		return fmt.Sprintf("r%d = r%d as u32 as u64", d, d), true
	case sbf.ALUBE:
		return fmt.Sprintf("r%d = match %d { 16 => (r%d as u16).swap_bytes() as u64, 32 => (r%d as u32).swap_bytes() as u64, 64 => r%d.swap_bytes(), _ => r%d }", d, i, d, d, d, d), true
	}
	return "", false
}

func alu64(in sbf.Instruction, rev sbf.Revision) (string, bool) {
	d, s, i := in.Dst, in.Src, in.Imm

	switch in.Spec.ALU {
	case sbf.ALUAdd:
		if in.Spec.Src {
			return fmt.Sprintf("r%d += r%d   ///  r%d = r%d.wrapping_add(r%d)", d, s, d, d, s), true
		}
		return fmt.Sprintf("r%d += %d   ///  r%d = r%d.wrapping_add(%d as i32 as i64 as u64)", d, i, d, d, i), true
	case sbf.ALUSub:
		if in.Spec.Src {
			return fmt.Sprintf("r%d -= r%d   ///  r%d = r%d.wrapping_sub(r%d)", d, s, d, d, s), true
		}
		// Operand order swapped at v2.
		if rev < sbf.V2 {
			return fmt.Sprintf("r%d -= %d   ///  r%d = r%d.wrapping_sub(%d as i32 as i64 as u64)", d, i, d, d, i), true
		}
		return fmt.Sprintf("r%d -= %d   ///  r%d = (%d as i32 as i64 as u64).wrapping_sub(r%d)", d, i, d, i, d), true
	case sbf.ALUMul:
		if in.Spec.Src {
			return fmt.Sprintf("r%d *= r%d   ///  r%d = r%d.wrapping_mul(r%d)", d, s, d, d, s), true
		}
		return fmt.Sprintf("r%d *= %d   ///  r%d = r%d.wrapping_mul(%d as u64)", d, i, d, d, i), true
	case sbf.ALUDiv:
		if in.Spec.Src {
			return fmt.Sprintf("r%d /= r%d   ///  r%d = r%d / r%d", d, s, d, d, s), true
		}
		return fmt.Sprintf("r%d /= %d   ///  r%d = r%d / (%d as u64)", d, i, d, d, i), true
	case sbf.ALUMod:
		if in.Spec.Src {
			return fmt.Sprintf("r%d %%= r%d   ///  r%d = r%d %% r%d", d, s, d, d, s), true
		}
		return fmt.Sprintf("r%d %%= %d   ///  r%d = r%d %% (%d as u64)", d, i, d, d, i), true
	case sbf.ALUOr:
		if in.Spec.Src {
			return fmt.Sprintf("r%d |= r%d   ///  r%d = r%d.or(r%d)", d, s, d, d, s), true
		}
		return fmt.Sprintf("r%d |= %d   ///  r%d = r%d.or(%d)", d, i, d, d, i), true
	case sbf.ALUAnd:
		if in.Spec.Src {
			return fmt.Sprintf("r%d &= r%d   ///  r%d = r%d.and(r%d)", d, s, d, d, s), true
		}
		return fmt.Sprintf("r%d &= %d   ///  r%d = r%d.and(%d)", d, i, d, d, i), true
	case sbf.ALUXor:
		if in.Spec.Src {
			return fmt.Sprintf("r%d ^= r%d   ///  r%d = r%d.xor(r%d)", d, s, d, d, s), true
		}
		return fmt.Sprintf("r%d ^= %d   ///  r%d = r%d.xor(%d)", d, i, d, d, i), true
	case sbf.ALULsh:
		if in.Spec.Src {
			return fmt.Sprintf("r%d <<= r%d   ///  r%d = r%d.wrapping_shl(r%d as u32)", d, s, d, d, s), true
		}
		return fmt.Sprintf("r%d <<= %d   ///  r%d = r%d.wrapping_shl(%d)", d, i, d, d, i), true
	case sbf.ALURsh:
		if in.Spec.Src {
			return fmt.Sprintf("r%d >>= r%d   ///  r%d = r%d.wrapping_shr(r%d as u32)", d, s, d, d, s), true
		}
		return fmt.Sprintf("r%d >>= %d   ///  r%d = r%d.wrapping_shr(%d)", d, i, d, d, i), true
	case sbf.ALUArsh:
		if in.Spec.Src {
			return fmt.Sprintf("r%d >>= r%d (signed)  ///  r%d = (r%d as i64).wrapping_shr(r%d as u32)", d, s, d, d, s), true
		}
		return fmt.Sprintf("r%d >>= %d (signed)   ///  r%d = (r%d as i64).wrapping_shr(%d)", d, i, d, d, i), true
	case sbf.ALUNeg:
		return fmt.Sprintf("r%d = -r%d   ///  r%d = (r%d as i64).wrapping_neg() as u64", d, d, d, d), true
	case sbf.ALUMov:
		if in.Spec.Src {
			return fmt.Sprintf("r%d = r%d", d, s), true
		}
		return fmt.Sprintf("r%d = %d as i32 as i64 as u64", d, i), true
	case sbf.ALUHor:
		return fmt.Sprintf("r%d = r%d | ((%d as u64) << 32)   ///  r%d = r%d.or((%d as u64).wrapping_shl(32))", d, d, i, d, d, i), true
	}
	return "", false
}

func pqr(in sbf.Instruction) (string, bool) {
	d, s, i := in.Dst, in.Src, in.Imm
	wide := strings.HasSuffix(in.Spec.Name, "64")
	op := fmt.Sprintf("%d", i)
	if in.Spec.Src {
		op = fmt.Sprintf("r%d", s)
	}

	switch in.Spec.ALU {
	case sbf.ALUUHMul:
		return fmt.Sprintf("r%d = (r%d * %s) >> 64   ///  r%d = (r%d as u128).wrapping_mul(%s as u128).wrapping_shr(64) as u64", d, d, op, d, d, op), true
	case sbf.ALUSHMul:
		arg := fmt.Sprintf("%d as i32", i)
		if in.Spec.Src {
			arg = fmt.Sprintf("r%d as i64", s)
		}
		return fmt.Sprintf("r%d = (r%d * %s) >> 64   ///  r%d = (r%d as i128).wrapping_mul(%s as i128).wrapping_shr(64) as i64 as u64", d, d, op, d, d, arg), true
	case sbf.ALULMul:
		if wide {
			arg := fmt.Sprintf("%d as u64", i)
			if in.Spec.Src {
				arg = fmt.Sprintf("r%d", s)
			}
			return fmt.Sprintf("r%d = (r%d * %s) as u64   ///  r%d = r%d.wrapping_mul(%s)", d, d, op, d, d, arg), true
		}
		return fmt.Sprintf("r%d = (r%d * %s) as u32   ///  r%d = (r%d as i32).wrapping_mul(%s as i32) as u32 as u64", d, d, op, d, d, op), true
	case sbf.ALUUDiv:
		if wide {
			if in.Spec.Src {
				return fmt.Sprintf("r%d = r%d / r%d", d, d, s), true
			}
			return fmt.Sprintf("r%d = r%d / (%d as u64)", d, d, i), true
		}
		if in.Spec.Src {
			return fmt.Sprintf("r%d = ((r%d as u32) / (r%d as u32)) as u64", d, d, s), true
		}
		return fmt.Sprintf("r%d = ((r%d as u32) / %d) as u64", d, d, i), true
	case sbf.ALUURem:
		if wide {
			if in.Spec.Src {
				return fmt.Sprintf("r%d = r%d %% r%d", d, d, s), true
			}
			return fmt.Sprintf("r%d = r%d %% (%d as u64)", d, d, i), true
		}
		if in.Spec.Src {
			return fmt.Sprintf("r%d = ((r%d as u32) %% (r%d as u32)) as u64", d, d, s), true
		}
		return fmt.Sprintf("r%d = ((r%d as u32) %% %d) as u64", d, d, i), true
	case sbf.ALUSDiv:
		if wide {
			return fmt.Sprintf("r%d = ((r%d as i64) / (%s as i64)) as u64", d, d, op), true
		}
		return fmt.Sprintf("r%d = ((r%d as i32) / (%s as i32)) as u32 as u64", d, d, op), true
	case sbf.ALUSRem:
		if wide {
			return fmt.Sprintf("r%d = ((r%d as i64) %% (%s as i64)) as u64", d, d, op), true
		}
		return fmt.Sprintf("r%d = ((r%d as i32) %% (%s as i32)) as u32 as u64", d, d, op), true
	}
	return "", false
}

func branch(in sbf.Instruction) (string, bool) {
	d, s, i, o := in.Dst, in.Src, in.Imm, in.Off

	if in.Spec.Cond == sbf.CondSet {
		if in.Spec.Src {
			return fmt.Sprintf("if r%d & r%d { pc += %d }   ///  if r%d.and(r%d) != 0 { pc += %d }", d, s, o, d, s, o), true
		}
		return fmt.Sprintf("if r%d & %d { pc += %d }   ///  if r%d.and(%d as i32 as i64 as u64) != 0 { pc += %d }", d, i, o, d, i, o), true
	}

	unsigned := map[sbf.Cond]string{
		sbf.CondEq: "==", sbf.CondGt: ">", sbf.CondGe: ">=",
		sbf.CondLt: "<", sbf.CondLe: "<=", sbf.CondNe: "!=",
	}
	signed := map[sbf.Cond]string{
		sbf.CondSGt: ">", sbf.CondSGe: ">=", sbf.CondSLt: "<", sbf.CondSLe: "<=",
	}

	if op, ok := unsigned[in.Spec.Cond]; ok {
		if in.Spec.Src {
			return fmt.Sprintf("if r%d %s r%d { pc += %d }", d, op, s, o), true
		}
		return fmt.Sprintf("if r%d %s (%d as i32 as i64 as u64) { pc += %d }", d, op, i, o), true
	}
	if op, ok := signed[in.Spec.Cond]; ok {
		if in.Spec.Src {
			return fmt.Sprintf("if (r%d as i64) %s (r%d as i64) { pc += %d }", d, op, s, o), true
		}
		return fmt.Sprintf("if (r%d as i64) %s (%d as i32 as i64) { pc += %d }", d, op, i, o), true
	}
	return "", false
}
