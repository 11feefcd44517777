package sbf

import "fmt"

// Revision selects which opcode mapping table applies. Revisions are
// ordered; opcode meaning changes at the V2 and V3 boundaries (V1 changed
// runtime behavior only, no encodings).
type Revision int

const (
	V0 Revision = iota
	V1
	V2
	V3
)

func (r Revision) String() string {
	switch r {
	case V0:
		return "v0"
	case V1:
		return "v1"
	case V2:
		return "v2"
	case V3:
		return "v3"
	}
	return fmt.Sprintf("Revision(%d)", int(r))
}

// ParseRevision maps a CLI revision name ("v0".."v3") to a Revision.
func ParseRevision(s string) (Revision, error) {
	switch s {
	case "v0":
		return V0, nil
	case "v1":
		return V1, nil
	case "v2":
		return V2, nil
	case "v3":
		return V3, nil
	}
	return 0, fmt.Errorf("sbf: unknown revision %q", s)
}

// EnableLDDW reports whether the two-slot wide immediate load exists.
func (r Revision) EnableLDDW() bool { return r < V2 }

// EnableLE reports whether the le byte-swap instruction exists.
func (r Revision) EnableLE() bool { return r < V2 }

// EnableNeg reports whether neg32/neg64 exist.
func (r Revision) EnableNeg() bool { return r < V2 }

// EnablePQR reports whether the product/quotient/remainder class exists.
func (r Revision) EnablePQR() bool { return r >= V2 }

// MoveMemoryClasses reports whether load/store encodings use the slots
// vacated by the removed ALU mul/div/mod/neg opcodes.
func (r Revision) MoveMemoryClasses() bool { return r >= V2 }

// SwapSubOperands reports whether sub-by-immediate computes imm - dst
// instead of dst - imm.
func (r Revision) SwapSubOperands() bool { return r >= V2 }

// CallxUsesSrc reports whether callx takes its target from the src
// register field rather than the immediate.
func (r Revision) CallxUsesSrc() bool { return r >= V2 }

// StaticSyscalls reports whether opcode 0x95 means syscall and 0x9d
// means return. Until v3, 0x95 is exit and 0x9d is unassigned.
func (r Revision) StaticSyscalls() bool { return r >= V3 }

// ExplicitSignExt reports whether 32-bit ALU results are zero-extended
// to 64 bits (from v2) instead of sign-extended (until v2).
func (r Revision) ExplicitSignExt() bool { return r < V2 }
