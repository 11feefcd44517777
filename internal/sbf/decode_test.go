package sbf

import (
	"encoding/binary"
	"testing"
)

// slot assembles one raw instruction slot.
func slot(op byte, dst, src uint8, off int16, imm int32) []byte {
	b := make([]byte, InsnSize)
	b[0] = op
	b[1] = dst&0x0f | src<<4
	binary.LittleEndian.PutUint16(b[2:4], uint16(off))
	binary.LittleEndian.PutUint32(b[4:8], uint32(imm))
	return b
}

func text(slots ...[]byte) []byte {
	var out []byte
	for _, s := range slots {
		out = append(out, s...)
	}
	return out
}

func TestDecodeLDDW(t *testing.T) {
	// lddw r1, 0x100000018 (low slot, then second slot with high half)
	prog := text(
		slot(0x18, 1, 0, 0, 0x18),
		slot(0x00, 0, 0, 0, 0x1),
		slot(0x95, 0, 0, 0, 0), // exit
	)
	insns, err := Decode(prog, V0)
	if err != nil {
		t.Fatal(err)
	}
	if len(insns) != 2 {
		t.Fatalf("insns = %d, want 2", len(insns))
	}
	in := insns[0]
	if in.Kind() != KindLoadImm || !in.Wide {
		t.Fatalf("insn 0 = %+v, want wide lddw", in)
	}
	if in.Imm64 != 0x100000018 {
		t.Errorf("imm64 = 0x%x, want 0x100000018", in.Imm64)
	}
	// The exit lives two slots further on.
	if insns[1].PC != 2 {
		t.Errorf("exit pc = %d, want 2", insns[1].PC)
	}
	if insns[1].Kind() != KindExit {
		t.Errorf("insn 1 kind = %v, want exit", insns[1].Kind())
	}
}

func TestDecodeLDDWBadSecondSlot(t *testing.T) {
	// The slot after the lddw is a mov64, not the second-slot opcode.
	// The lddw must decode as invalid and the mov64 must still decode,
	// since slot boundaries are fixed.
	prog := text(
		slot(0x18, 1, 0, 0, 0x18),
		slot(0xb7, 2, 0, 0, 7),
	)
	insns, err := Decode(prog, V0)
	if err != nil {
		t.Fatal(err)
	}
	if len(insns) != 2 {
		t.Fatalf("insns = %d, want 2", len(insns))
	}
	if !insns[0].Invalid() {
		t.Errorf("insn 0 should be invalid, got %v", insns[0])
	}
	if insns[1].Spec.Name != "mov64" || insns[1].Imm != 7 {
		t.Errorf("insn 1 = %v, want mov64 r2, 7", insns[1])
	}
}

func TestDecodeLDDWTruncatedSecondSlot(t *testing.T) {
	prog := slot(0x18, 1, 0, 0, 0x18)
	insns, err := Decode(prog, V0)
	if err != nil {
		t.Fatal(err)
	}
	if len(insns) != 1 || !insns[0].Invalid() {
		t.Fatalf("want one invalid insn, got %v", insns)
	}
}

func TestDecodeRevisionDependentOpcode(t *testing.T) {
	// 0x2c is mul32 (register) until v2 and ldxb from v2.
	prog := slot(0x2c, 1, 2, 0, 0)

	insns, err := Decode(prog, V0)
	if err != nil {
		t.Fatal(err)
	}
	if insns[0].Spec.Name != "mul32" || insns[0].Kind() != KindALU32 {
		t.Errorf("v0: got %v, want mul32", insns[0].Spec)
	}

	insns, err = Decode(prog, V2)
	if err != nil {
		t.Fatal(err)
	}
	if insns[0].Spec.Name != "ldxb" || insns[0].Kind() != KindLoad {
		t.Errorf("v2: got %v, want ldxb", insns[0].Spec)
	}
}

func TestDecodeReservedOpcode(t *testing.T) {
	// lddw is reserved from v2; decoding continues past it either way.
	prog := text(
		slot(0x18, 1, 0, 0, 0),
		slot(0x00, 0, 0, 0, 0),
		slot(0x95, 0, 0, 0, 0),
	)
	insns, err := Decode(prog, V2)
	if err != nil {
		t.Fatal(err)
	}
	if !insns[0].Invalid() {
		t.Errorf("lddw should be invalid under v2")
	}
	if len(insns) != 3 {
		t.Fatalf("insns = %d, want 3 (no slot pairing under v2)", len(insns))
	}
}

func TestDecodeBadRegister(t *testing.T) {
	prog := slot(0xb7, 12, 0, 0, 1) // dst out of range
	insns, err := Decode(prog, V0)
	if err != nil {
		t.Fatal(err)
	}
	if !insns[0].Invalid() {
		t.Errorf("dst=12 should decode as invalid")
	}
}

func TestDecodeTruncatedBuffer(t *testing.T) {
	if _, err := Decode(make([]byte, 12), V0); err == nil {
		t.Fatal("want error for non-slot-aligned buffer")
	}
}

func TestDecodeSyscallEpoch(t *testing.T) {
	prog := slot(0x95, 0, 0, 0, 3)
	insns, _ := Decode(prog, V2)
	if insns[0].Kind() != KindExit {
		t.Errorf("v2: 0x95 = %v, want exit", insns[0].Kind())
	}
	insns, _ = Decode(prog, V3)
	if insns[0].Kind() != KindSyscall {
		t.Errorf("v3: 0x95 = %v, want syscall", insns[0].Kind())
	}
}

func TestJumpTarget(t *testing.T) {
	in := Instruction{PC: 4, Off: -3}
	if got := in.JumpTarget(); got != 2 {
		t.Errorf("target = %d, want 2", got)
	}
}
