// Package render serializes analysis results: the disassembly listing,
// the immediate data table, and the Graphviz DOT control-flow graph.
package render

import (
	"fmt"
	"io"
	"unicode/utf8"

	"unsbf/internal/disasm"
	"unsbf/internal/pseudo"
	"unsbf/internal/sbf"
)

// maxListingLineLen caps annotated listing lines; a recovered byte
// string can otherwise stretch a line past any useful width.
const maxListingLineLen = 2 * disasm.DefaultStringLen

// WriteListing writes the disassembly listing: instructions grouped
// under block labels, annotations appended after " --> ", and the
// pseudo-expression column starting at column 40.
func WriteListing(w io.Writer, g *disasm.Graph, insns []sbf.Instruction, rev sbf.Revision, ann map[uint64]string) error {
	for idx, in := range insns {
		if g.IsBlockStart(in.PC) {
			if c := g.ClusterFor(in.PC); c != nil && c.Leader == in.PC {
				if idx > 0 {
					fmt.Fprintln(w)
				}
				fmt.Fprintf(w, "%s:\n", c.Label)
			} else {
				fmt.Fprintf(w, "lbb_%d:\n", in.PC)
			}
		}

		line := disasm.Text(in, rev)
		if a := ann[in.PC]; a != "" {
			line += " --> " + a
			line = truncate(line, maxListingLineLen)
		}

		eq := ""
		if expr, ok := pseudo.Translate(in, rev); ok {
			eq = "        " + expr
		}
		if _, err := fmt.Fprintf(w, "    %-40s%s\n", line, eq); err != nil {
			return err
		}
	}
	return nil
}

// truncate caps s at max runes, marking the cut with a single ellipsis.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "…"
}
