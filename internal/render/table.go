package render

import (
	"fmt"
	"io"

	"unsbf/internal/disasm"
	"unsbf/internal/sbf"
)

// WriteImmediateTable writes one line per recovered immediate range:
// the virtual address, the image offset, and the decoded bytes.
// Degenerate or out-of-image ranges are skipped, not reported; the
// tracker records what the bytecode referenced, and the bytecode may
// reference padding or junk.
func WriteImmediateTable(w io.Writer, prog *sbf.Program, ranges []disasm.ImmediateRange) error {
	for _, r := range ranges {
		if r.End <= r.Start {
			continue
		}
		b, ok := prog.SliceVA(r.Start, r.End-r.Start)
		if !ok || len(b) == 0 {
			continue
		}
		offset := r.Start - sbf.MMRodataStart
		if _, err := fmt.Fprintf(w, "0x%x (+ 0x%x): %s\n", r.Start, offset, disasm.FormatBytes(b)); err != nil {
			return err
		}
	}
	return nil
}
