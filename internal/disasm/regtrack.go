// Package disasm implements the analysis passes over a decoded SBF
// instruction stream: register-value tracking, immediate-range tracking
// with string recovery, instruction text, and the control-flow graph.
package disasm

import "unsbf/internal/sbf"

// RegState classifies how much of a register's value is known.
type RegState uint8

const (
	RegUnknown RegState = iota
	RegPartialLow       // low 32 bits known, high bits unconfirmed
	RegKnown
)

// RegValue is the tracked abstract value of one register.
type RegValue struct {
	State RegState
	Val   uint64
}

// value returns the concrete value usable in arithmetic, treating a
// partial low half as zero-extended.
func (v RegValue) value() (uint64, bool) {
	switch v.State {
	case RegKnown:
		return v.Val, true
	case RegPartialLow:
		return v.Val & 0xffffffff, true
	}
	return 0, false
}

// RegisterTracker is a best-effort forward abstract interpreter over the
// instruction stream in program order. It does not follow branches and
// does not merge states at join points; it exists to reconstruct rodata
// addresses assembled across several instructions once direct 64-bit
// immediate loads are gone (v2+). Reset at the start of a pass, then fed
// every instruction exactly once, in order.
type RegisterTracker struct {
	regs [sbf.MaxRegister + 1]RegValue
}

// NewRegisterTracker returns a tracker with every register unknown.
func NewRegisterTracker() *RegisterTracker {
	return &RegisterTracker{}
}

// Reset forgets all register state.
func (t *RegisterTracker) Reset() {
	t.regs = [sbf.MaxRegister + 1]RegValue{}
}

// Get returns the tracked state of a register.
func (t *RegisterTracker) Get(reg uint8) RegValue {
	if reg > sbf.MaxRegister {
		return RegValue{}
	}
	return t.regs[reg]
}

func (t *RegisterTracker) set(reg uint8, v RegValue) {
	if reg <= sbf.MaxRegister {
		t.regs[reg] = v
	}
}

func (t *RegisterTracker) invalidate(reg uint8) {
	t.set(reg, RegValue{})
}

// Update applies one instruction's transfer function. Unlisted
// operations that write their destination conservatively invalidate it.
func (t *RegisterTracker) Update(in sbf.Instruction) {
	if in.Invalid() {
		t.invalidate(in.Dst)
		return
	}

	switch in.Kind() {
	case sbf.KindALU32:
		t.updateALU32(in)
	case sbf.KindALU64:
		t.updateALU64(in)
	case sbf.KindPQR, sbf.KindLoad, sbf.KindLoadImm:
		t.invalidate(in.Dst)
	case sbf.KindCall, sbf.KindCallReg, sbf.KindSyscall:
		// r0 carries the return value.
		t.invalidate(0)
	}
	// Stores, jumps, branches and exits write no register.
}

func (t *RegisterTracker) updateALU32(in sbf.Instruction) {
	switch in.Spec.ALU {
	case sbf.ALUMov:
		if !in.Spec.Src {
			t.set(in.Dst, RegValue{State: RegPartialLow, Val: uint64(uint32(in.Imm))})
			return
		}
	case sbf.ALUAdd:
		if a, ok := t.Get(in.Dst).value(); ok {
			if b, bok := t.operand32(in); bok {
				sum := uint32(a) + b
				t.set(in.Dst, RegValue{State: RegKnown, Val: uint64(sum)})
				return
			}
		}
	}
	t.invalidate(in.Dst)
}

func (t *RegisterTracker) updateALU64(in sbf.Instruction) {
	switch in.Spec.ALU {
	case sbf.ALUMov:
		if in.Spec.Src {
			t.set(in.Dst, t.Get(in.Src))
		} else {
			t.set(in.Dst, RegValue{State: RegKnown, Val: uint64(int64(in.Imm))})
		}
		return
	case sbf.ALUHor:
		// hor64 confirms the high half of a value whose low half was
		// staged with mov32.
		cur := t.Get(in.Dst)
		if cur.State == RegPartialLow || cur.State == RegKnown {
			low := cur.Val & 0xffffffff
			t.set(in.Dst, RegValue{State: RegKnown, Val: low | uint64(uint32(in.Imm))<<32})
			return
		}
	case sbf.ALUAdd:
		if a, ok := t.Get(in.Dst).value(); ok {
			if b, bok := t.operand64(in); bok {
				t.set(in.Dst, RegValue{State: RegKnown, Val: a + b})
				return
			}
		}
	}
	t.invalidate(in.Dst)
}

func (t *RegisterTracker) operand64(in sbf.Instruction) (uint64, bool) {
	if in.Spec.Src {
		return t.Get(in.Src).value()
	}
	return uint64(int64(in.Imm)), true
}

func (t *RegisterTracker) operand32(in sbf.Instruction) (uint32, bool) {
	if in.Spec.Src {
		v, ok := t.Get(in.Src).value()
		return uint32(v), ok
	}
	return uint32(in.Imm), true
}
