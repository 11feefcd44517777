package disasm

import (
	"testing"

	"unsbf/internal/sbf"
)

func TestImmediateTrackerTruncation(t *testing.T) {
	base := uint64(sbf.MMRodataStart)
	tr := NewImmediateTracker()

	// A long range, then a later one, then a middle one that splits the first.
	tr.Register(base+0x10, 0x40)
	tr.Register(base+0x60, 0x10)
	tr.Register(base+0x30, 0x10)

	cases := []struct {
		start, end uint64
	}{
		{base + 0x10, base + 0x30}, // truncated by the 0x30 registration
		{base + 0x30, base + 0x40},
		{base + 0x60, base + 0x70},
	}
	if got := tr.Len(); got != len(cases) {
		t.Fatalf("Len() = %d, want %d: %v", got, len(cases), tr.Ranges())
	}
	for _, c := range cases {
		r, ok := tr.Range(c.start)
		if !ok {
			t.Errorf("no range at 0x%x", c.start)
			continue
		}
		if r.End != c.end {
			t.Errorf("range 0x%x: end 0x%x, want 0x%x", c.start, r.End, c.end)
		}
	}
}

func TestImmediateTrackerClampToNext(t *testing.T) {
	base := uint64(sbf.MMRodataStart)
	tr := NewImmediateTracker()

	tr.Register(base+0x100, 0x10)
	tr.Register(base+0xf0, 0x80) // would cover 0x100; must stop there

	r, ok := tr.Range(base + 0xf0)
	if !ok || r.End != base+0x100 {
		t.Fatalf("clamped range = %+v ok=%v, want end 0x%x", r, ok, base+0x100)
	}
}

func TestImmediateTrackerNoOverlap(t *testing.T) {
	base := uint64(sbf.MMRodataStart)
	tr := NewImmediateTracker()

	regs := []struct {
		start  uint64
		length uint64
	}{
		{base + 0x00, 0x50},
		{base + 0x200, 0x10},
		{base + 0x20, 0x100},
		{base + 0x10, 0x08},
		{base + 0x1f0, 0x40},
	}
	for _, r := range regs {
		tr.Register(r.start, r.length)
	}

	ranges := tr.Ranges()
	for i := 1; i < len(ranges); i++ {
		if ranges[i-1].End > ranges[i].Start {
			t.Errorf("overlap: [0x%x,0x%x) and [0x%x,0x%x)",
				ranges[i-1].Start, ranges[i-1].End, ranges[i].Start, ranges[i].End)
		}
	}
}

func TestImmediateTrackerReRegister(t *testing.T) {
	base := uint64(sbf.MMRodataStart)
	tr := NewImmediateTracker()

	tr.Register(base, 0x10)
	tr.Register(base, 0x20)
	if tr.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tr.Len())
	}
	r, _ := tr.Range(base)
	if r.End != base+0x20 {
		t.Errorf("end = 0x%x, want 0x%x", r.End, base+0x20)
	}
}
