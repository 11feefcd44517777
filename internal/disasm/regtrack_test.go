package disasm

import (
	"testing"

	"unsbf/internal/sbf"
)

// ins builds a synthetic instruction from an opcode byte under rev.
func ins(t *testing.T, rev sbf.Revision, op byte, dst, src uint8, off int16, imm int32) sbf.Instruction {
	t.Helper()
	in := sbf.Instruction{PC: 0, Opcode: op, Dst: dst, Src: src, Off: off, Imm: imm}
	in.Spec = sbf.Lookup(op, rev)
	if !in.Spec.Valid() {
		t.Fatalf("opcode 0x%02x invalid under %s", op, rev)
	}
	return in
}

func TestTrackerMovHorPair(t *testing.T) {
	// mov32 r1, 0x3000 ; hor64 r1, 0x10000000
	tr := NewRegisterTracker()
	tr.Update(ins(t, sbf.V2, 0xb4, 1, 0, 0, 0x3000))

	if got := tr.Get(1); got.State != RegPartialLow || got.Val != 0x3000 {
		t.Fatalf("after mov32: %+v, want PartialLow(0x3000)", got)
	}

	tr.Update(ins(t, sbf.V2, 0xf7, 1, 0, 0, 0x10000000))
	got := tr.Get(1)
	if got.State != RegKnown || got.Val != 0x1000000000003000 {
		t.Fatalf("after hor64: %+v, want Known(0x1000000000003000)", got)
	}
}

func TestTrackerMov64(t *testing.T) {
	tr := NewRegisterTracker()
	tr.Update(ins(t, sbf.V0, 0xb7, 3, 0, 0, -1))
	if got := tr.Get(3); got.State != RegKnown || got.Val != 0xffffffffffffffff {
		t.Errorf("mov64 r3, -1: %+v, want sign-extended Known", got)
	}

	// mov64 r4, r3 copies the state.
	tr.Update(ins(t, sbf.V0, 0xbf, 4, 3, 0, 0))
	if got := tr.Get(4); got.State != RegKnown || got.Val != 0xffffffffffffffff {
		t.Errorf("mov64 r4, r3: %+v, want copy", got)
	}
}

func TestTrackerAdd64(t *testing.T) {
	tr := NewRegisterTracker()
	tr.Update(ins(t, sbf.V0, 0xb7, 1, 0, 0, 0x1000))
	tr.Update(ins(t, sbf.V0, 0x07, 1, 0, 0, 0x20)) // add64 r1, 0x20
	if got := tr.Get(1); got.State != RegKnown || got.Val != 0x1020 {
		t.Errorf("add64 imm: %+v, want Known(0x1020)", got)
	}

	tr.Update(ins(t, sbf.V0, 0xb7, 2, 0, 0, 0x8))
	tr.Update(ins(t, sbf.V0, 0x0f, 1, 2, 0, 0)) // add64 r1, r2
	if got := tr.Get(1); got.State != RegKnown || got.Val != 0x1028 {
		t.Errorf("add64 reg: %+v, want Known(0x1028)", got)
	}
}

func TestTrackerConservativeInvalidation(t *testing.T) {
	tr := NewRegisterTracker()
	tr.Update(ins(t, sbf.V0, 0xb7, 1, 0, 0, 5))
	tr.Update(ins(t, sbf.V0, 0x2f, 1, 2, 0, 0)) // mul64 r1, r2
	if got := tr.Get(1); got.State != RegUnknown {
		t.Errorf("mul64 should invalidate: %+v", got)
	}
}

func TestTrackerHorWithoutLow(t *testing.T) {
	tr := NewRegisterTracker()
	tr.Update(ins(t, sbf.V2, 0xf7, 5, 0, 0, 0x1))
	if got := tr.Get(5); got.State != RegUnknown {
		t.Errorf("hor64 on unknown reg: %+v, want Unknown", got)
	}
}

func TestTrackerCallClobbersR0(t *testing.T) {
	tr := NewRegisterTracker()
	tr.Update(ins(t, sbf.V0, 0xb7, 0, 0, 0, 5))
	tr.Update(ins(t, sbf.V0, 0x85, 0, 0, 0, 10))
	if got := tr.Get(0); got.State != RegUnknown {
		t.Errorf("call should clobber r0: %+v", got)
	}
}

func TestTrackerReset(t *testing.T) {
	tr := NewRegisterTracker()
	tr.Update(ins(t, sbf.V0, 0xb7, 1, 0, 0, 5))
	tr.Reset()
	if got := tr.Get(1); got.State != RegUnknown {
		t.Errorf("after reset: %+v", got)
	}
}
