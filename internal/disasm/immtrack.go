package disasm

import "sort"

// ImmediateRange is a half-open [Start, End) byte interval of virtual
// addresses into the read-only data segment.
type ImmediateRange struct {
	Start uint64
	End   uint64
}

// ImmediateTracker maintains the set of rodata ranges referenced by load
// instructions. Its central invariant: no two stored ranges overlap,
// enforced by truncation on insert. Truncation can under-report a
// range's true content length; only the reported ranges are disjoint,
// the program itself may read overlapping memory.
type ImmediateTracker struct {
	starts []uint64 // ascending
	ends   map[uint64]uint64
}

// NewImmediateTracker returns an empty tracker.
func NewImmediateTracker() *ImmediateTracker {
	return &ImmediateTracker{ends: make(map[uint64]uint64)}
}

// Register inserts a candidate range [start, start+length), truncating
// as needed to keep stored ranges disjoint:
//   - the new end is clamped to the next registered start, and
//   - an existing range that covers start is cut short at start.
func (t *ImmediateTracker) Register(start, length uint64) {
	end := start + length
	if end < start { // wrapped
		end = ^uint64(0)
	}

	// idx is the insertion point: first stored start greater than start.
	idx := sort.Search(len(t.starts), func(i int) bool { return t.starts[i] > start })
	if idx < len(t.starts) && end > t.starts[idx] {
		end = t.starts[idx]
	}

	// Cut short any earlier range reaching past start.
	for j := idx - 1; j >= 0; j-- {
		s := t.starts[j]
		if s == start {
			continue
		}
		if t.ends[s] > start {
			t.ends[s] = start
		}
	}

	if _, exists := t.ends[start]; !exists {
		t.starts = append(t.starts, 0)
		copy(t.starts[idx+1:], t.starts[idx:])
		t.starts[idx] = start
	}
	t.ends[start] = end
}

// Range returns the stored range beginning exactly at start.
func (t *ImmediateTracker) Range(start uint64) (ImmediateRange, bool) {
	end, ok := t.ends[start]
	if !ok {
		return ImmediateRange{}, false
	}
	return ImmediateRange{Start: start, End: end}, true
}

// Ranges returns all stored ranges in ascending start order.
func (t *ImmediateTracker) Ranges() []ImmediateRange {
	out := make([]ImmediateRange, 0, len(t.starts))
	for _, s := range t.starts {
		out = append(out, ImmediateRange{Start: s, End: t.ends[s]})
	}
	return out
}

// Len returns the number of stored ranges.
func (t *ImmediateTracker) Len() int { return len(t.starts) }
