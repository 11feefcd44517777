package sbf

// Kind is the broad operation class of a decoded instruction.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindALU32
	KindALU64
	KindPQR
	KindLoadImm // two-slot wide immediate load (lddw)
	KindLoad    // register-addressed memory load
	KindStore   // memory store (immediate or register source)
	KindJump    // unconditional
	KindBranch  // conditional, has fallthrough
	KindCall
	KindCallReg
	KindSyscall
	KindExit
)

// ALUOp is the arithmetic semantics carried by ALU and PQR instructions.
// It is recorded on the instruction for the register tracker and the
// pseudo-code annotator; the decoder never evaluates it.
type ALUOp uint8

const (
	ALUNone ALUOp = iota
	ALUAdd
	ALUSub
	ALUMul
	ALUDiv
	ALUMod
	ALUOr
	ALUAnd
	ALUXor
	ALULsh
	ALURsh
	ALUArsh
	ALUNeg
	ALUMov
	ALUHor // or into bits 32..63
	ALULE
	ALUBE
	ALUUHMul
	ALULMul
	ALUSHMul
	ALUUDiv
	ALUSDiv
	ALUURem
	ALUSRem
)

// Cond is the comparison of a conditional branch.
type Cond uint8

const (
	CondNone Cond = iota
	CondEq
	CondGt
	CondGe
	CondLt
	CondLe
	CondSet
	CondNe
	CondSGt
	CondSGe
	CondSLt
	CondSLe
)

// OpSpec describes one opcode's meaning under some revision range.
type OpSpec struct {
	Name string // mnemonic
	Kind Kind
	ALU  ALUOp
	Cond Cond
	Src  bool  // second operand comes from the src register
	Size uint8 // access width in bytes for loads/stores
}

// Valid reports whether the spec denotes a defined operation.
func (s OpSpec) Valid() bool { return s.Kind != KindInvalid }

// row gates one OpSpec to a revision interval [since, until).
type row struct {
	spec  OpSpec
	since Revision
	until Revision // exclusive; revEnd = open-ended
}

const revEnd = Revision(99)

func untilV2(s OpSpec) row  { return row{spec: s, since: V0, until: V2} }
func fromV2(s OpSpec) row   { return row{spec: s, since: V2, until: revEnd} }
func fromV3(s OpSpec) row   { return row{spec: s, since: V3, until: revEnd} }
func untilV3(s OpSpec) row  { return row{spec: s, since: V0, until: V3} }
func allRevs(s OpSpec) row  { return row{spec: s, since: V0, until: revEnd} }

func alu32(name string, op ALUOp, src bool) OpSpec {
	return OpSpec{Name: name, Kind: KindALU32, ALU: op, Src: src}
}

func alu64(name string, op ALUOp, src bool) OpSpec {
	return OpSpec{Name: name, Kind: KindALU64, ALU: op, Src: src}
}

func pqr(name string, op ALUOp, src bool) OpSpec {
	return OpSpec{Name: name, Kind: KindPQR, ALU: op, Src: src}
}

func load(name string, size uint8) OpSpec {
	return OpSpec{Name: name, Kind: KindLoad, Size: size, Src: true}
}

func store(name string, size uint8, src bool) OpSpec {
	return OpSpec{Name: name, Kind: KindStore, Size: size, Src: src}
}

func branch(name string, c Cond, src bool) OpSpec {
	return OpSpec{Name: name, Kind: KindBranch, Cond: c, Src: src}
}

// opcodeRows is the full (opcode byte, revision epoch) -> operation
// mapping. Bytes absent here are reserved under every revision. Where a
// byte has several rows, the epochs are disjoint; the same value may be
// an ALU operation until v2 and a memory access from v2.
var opcodeRows = map[byte][]row{
	// Wide immediate load, two slots.
	0x18: {untilV2(OpSpec{Name: "lddw", Kind: KindLoadImm})},

	// Legacy memory classes (until v2).
	0x61: {untilV2(load("ldxw", 4))},
	0x69: {untilV2(load("ldxh", 2))},
	0x71: {untilV2(load("ldxb", 1))},
	0x79: {untilV2(load("ldxdw", 8))},
	0x62: {untilV2(store("stw", 4, false))},
	0x6a: {untilV2(store("sth", 2, false))},
	0x72: {untilV2(store("stb", 1, false))},
	0x7a: {untilV2(store("stdw", 8, false))},
	0x63: {untilV2(store("stxw", 4, true))},
	0x6b: {untilV2(store("stxh", 2, true))},
	0x73: {untilV2(store("stxb", 1, true))},
	0x7b: {untilV2(store("stxdw", 8, true))},

	// ALU32.
	0x04: {allRevs(alu32("add32", ALUAdd, false))},
	0x0c: {allRevs(alu32("add32", ALUAdd, true))},
	0x14: {allRevs(alu32("sub32", ALUSub, false))},
	0x1c: {allRevs(alu32("sub32", ALUSub, true))},
	0x24: {untilV2(alu32("mul32", ALUMul, false))},
	0x2c: {
		untilV2(alu32("mul32", ALUMul, true)),
		fromV2(load("ldxb", 1)),
	},
	0x34: {untilV2(alu32("div32", ALUDiv, false))},
	0x3c: {
		untilV2(alu32("div32", ALUDiv, true)),
		fromV2(load("ldxh", 2)),
	},
	0x44: {allRevs(alu32("or32", ALUOr, false))},
	0x4c: {allRevs(alu32("or32", ALUOr, true))},
	0x54: {allRevs(alu32("and32", ALUAnd, false))},
	0x5c: {allRevs(alu32("and32", ALUAnd, true))},
	0x64: {allRevs(alu32("lsh32", ALULsh, false))},
	0x6c: {allRevs(alu32("lsh32", ALULsh, true))},
	0x74: {allRevs(alu32("rsh32", ALURsh, false))},
	0x7c: {allRevs(alu32("rsh32", ALURsh, true))},
	0x84: {untilV2(alu32("neg32", ALUNeg, false))},
	0x94: {untilV2(alu32("mod32", ALUMod, false))},
	0x9c: {
		untilV2(alu32("mod32", ALUMod, true)),
		fromV2(load("ldxdw", 8)),
	},
	0xa4: {allRevs(alu32("xor32", ALUXor, false))},
	0xac: {allRevs(alu32("xor32", ALUXor, true))},
	0xb4: {allRevs(alu32("mov32", ALUMov, false))},
	0xbc: {allRevs(alu32("mov32", ALUMov, true))},
	0xc4: {allRevs(alu32("arsh32", ALUArsh, false))},
	0xcc: {allRevs(alu32("arsh32", ALUArsh, true))},
	0xd4: {untilV2(alu32("le", ALULE, false))},
	0xdc: {allRevs(alu32("be", ALUBE, false))},

	// ALU64, interleaved from v2 with the moved store encodings.
	0x07: {allRevs(alu64("add64", ALUAdd, false))},
	0x0f: {allRevs(alu64("add64", ALUAdd, true))},
	0x17: {allRevs(alu64("sub64", ALUSub, false))},
	0x1f: {allRevs(alu64("sub64", ALUSub, true))},
	0x27: {
		untilV2(alu64("mul64", ALUMul, false)),
		fromV2(store("stb", 1, false)),
	},
	0x2f: {
		untilV2(alu64("mul64", ALUMul, true)),
		fromV2(store("stxb", 1, true)),
	},
	0x37: {
		untilV2(alu64("div64", ALUDiv, false)),
		fromV2(store("sth", 2, false)),
	},
	0x3f: {
		untilV2(alu64("div64", ALUDiv, true)),
		fromV2(store("stxh", 2, true)),
	},
	0x47: {allRevs(alu64("or64", ALUOr, false))},
	0x4f: {allRevs(alu64("or64", ALUOr, true))},
	0x57: {allRevs(alu64("and64", ALUAnd, false))},
	0x5f: {allRevs(alu64("and64", ALUAnd, true))},
	0x67: {allRevs(alu64("lsh64", ALULsh, false))},
	0x6f: {allRevs(alu64("lsh64", ALULsh, true))},
	0x77: {allRevs(alu64("rsh64", ALURsh, false))},
	0x7f: {allRevs(alu64("rsh64", ALURsh, true))},
	0x87: {
		untilV2(alu64("neg64", ALUNeg, false)),
		fromV2(store("stw", 4, false)),
	},
	0x8c: {fromV2(load("ldxw", 4))},
	0x8f: {fromV2(store("stxw", 4, true))},
	0x97: {
		untilV2(alu64("mod64", ALUMod, false)),
		fromV2(store("stdw", 8, false)),
	},
	0x9f: {
		untilV2(alu64("mod64", ALUMod, true)),
		fromV2(store("stxdw", 8, true)),
	},
	0xa7: {allRevs(alu64("xor64", ALUXor, false))},
	0xaf: {allRevs(alu64("xor64", ALUXor, true))},
	0xb7: {allRevs(alu64("mov64", ALUMov, false))},
	0xbf: {allRevs(alu64("mov64", ALUMov, true))},
	0xc7: {allRevs(alu64("arsh64", ALUArsh, false))},
	0xcf: {allRevs(alu64("arsh64", ALUArsh, true))},
	0xf7: {fromV2(alu64("hor64", ALUHor, false))},

	// PQR class (from v2).
	0x36: {fromV2(pqr("uhmul64", ALUUHMul, false))},
	0x3e: {fromV2(pqr("uhmul64", ALUUHMul, true))},
	0x46: {fromV2(pqr("udiv32", ALUUDiv, false))},
	0x4e: {fromV2(pqr("udiv32", ALUUDiv, true))},
	0x56: {fromV2(pqr("udiv64", ALUUDiv, false))},
	0x5e: {fromV2(pqr("udiv64", ALUUDiv, true))},
	0x66: {fromV2(pqr("urem32", ALUURem, false))},
	0x6e: {fromV2(pqr("urem32", ALUURem, true))},
	0x76: {fromV2(pqr("urem64", ALUURem, false))},
	0x7e: {fromV2(pqr("urem64", ALUURem, true))},
	0x86: {fromV2(pqr("lmul32", ALULMul, false))},
	0x8e: {fromV2(pqr("lmul32", ALULMul, true))},
	0x96: {fromV2(pqr("lmul64", ALULMul, false))},
	0x9e: {fromV2(pqr("lmul64", ALULMul, true))},
	0xb6: {fromV2(pqr("shmul64", ALUSHMul, false))},
	0xbe: {fromV2(pqr("shmul64", ALUSHMul, true))},
	0xc6: {fromV2(pqr("sdiv32", ALUSDiv, false))},
	0xce: {fromV2(pqr("sdiv32", ALUSDiv, true))},
	0xd6: {fromV2(pqr("sdiv64", ALUSDiv, false))},
	0xde: {fromV2(pqr("sdiv64", ALUSDiv, true))},
	0xe6: {fromV2(pqr("srem32", ALUSRem, false))},
	0xee: {fromV2(pqr("srem32", ALUSRem, true))},
	0xf6: {fromV2(pqr("srem64", ALUSRem, false))},
	0xfe: {fromV2(pqr("srem64", ALUSRem, true))},

	// Jump class.
	0x05: {allRevs(OpSpec{Name: "ja", Kind: KindJump})},
	0x15: {allRevs(branch("jeq", CondEq, false))},
	0x1d: {allRevs(branch("jeq", CondEq, true))},
	0x25: {allRevs(branch("jgt", CondGt, false))},
	0x2d: {allRevs(branch("jgt", CondGt, true))},
	0x35: {allRevs(branch("jge", CondGe, false))},
	0x3d: {allRevs(branch("jge", CondGe, true))},
	0x45: {allRevs(branch("jset", CondSet, false))},
	0x4d: {allRevs(branch("jset", CondSet, true))},
	0x55: {allRevs(branch("jne", CondNe, false))},
	0x5d: {allRevs(branch("jne", CondNe, true))},
	0x65: {allRevs(branch("jsgt", CondSGt, false))},
	0x6d: {allRevs(branch("jsgt", CondSGt, true))},
	0x75: {allRevs(branch("jsge", CondSGe, false))},
	0x7d: {allRevs(branch("jsge", CondSGe, true))},
	0xa5: {allRevs(branch("jlt", CondLt, false))},
	0xad: {allRevs(branch("jlt", CondLt, true))},
	0xb5: {allRevs(branch("jle", CondLe, false))},
	0xbd: {allRevs(branch("jle", CondLe, true))},
	0xc5: {allRevs(branch("jslt", CondSLt, false))},
	0xcd: {allRevs(branch("jslt", CondSLt, true))},
	0xd5: {allRevs(branch("jsle", CondSLe, false))},
	0xdd: {allRevs(branch("jsle", CondSLe, true))},

	0x85: {allRevs(OpSpec{Name: "call", Kind: KindCall})},
	0x8d: {allRevs(OpSpec{Name: "callx", Kind: KindCallReg})},
	0x95: {
		untilV3(OpSpec{Name: "exit", Kind: KindExit}),
		fromV3(OpSpec{Name: "syscall", Kind: KindSyscall}),
	},
	0x9d: {fromV3(OpSpec{Name: "return", Kind: KindExit})},
}

// tables holds the precomputed opcode -> OpSpec mapping per revision,
// built once at init. Reserved slots stay zero-valued (KindInvalid).
var tables [V3 + 1][256]OpSpec

func init() {
	for rev := V0; rev <= V3; rev++ {
		for op, rows := range opcodeRows {
			for _, r := range rows {
				if rev >= r.since && rev < r.until {
					tables[rev][op] = r.spec
				}
			}
		}
	}
}

// Lookup resolves an opcode byte under a revision. The zero OpSpec
// (Kind == KindInvalid) is returned for reserved slots.
func Lookup(opcode byte, rev Revision) OpSpec {
	if rev < V0 || rev > V3 {
		return OpSpec{}
	}
	return tables[rev][opcode]
}
