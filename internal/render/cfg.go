package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"unsbf/internal/disasm"
	"unsbf/internal/sbf"
)

// maxCellLen caps the operand cell of a CFG node row; the mnemonic cell
// is never truncated.
const maxCellLen = 15 + disasm.DefaultStringLen

const dotHeader = `digraph {
graph [
rankdir=LR;
concentrate=True;
style=filled;
color=lightgrey;
];
node [
shape=rect;
style=filled;
fillcolor=white;
fontname="Courier New";
];
edge [
fontname="Courier New";
];
`

// WriteDOT writes the control-flow graph as Graphviz DOT: one subgraph
// cluster per function, one HTML-table node per basic block, solid
// edges for control flow and dotted direction-less edges for the
// address-order back-references. Identifiers are stable across views
// (cluster_<leader>, lbb_<start>), so a reduced graph and a full graph
// of the same program can be merged by identity downstream.
func WriteDOT(w io.Writer, g *disasm.Graph, insns []sbf.Instruction, rev sbf.Revision, ann map[uint64]string) error {
	byPC := make(map[uint64]sbf.Instruction, len(insns))
	for _, in := range insns {
		byPC[in.PC] = in
	}

	if _, err := io.WriteString(w, dotHeader); err != nil {
		return err
	}

	for _, c := range g.Clusters {
		fmt.Fprintf(w, "  subgraph cluster_%d {\n", c.Leader)
		fmt.Fprintf(w, "    label=%q;\n", htmlEscape(c.Label))
		fmt.Fprintf(w, "    tooltip=lbb_%d;\n", c.Leader)
		for _, start := range c.Blocks {
			writeNode(w, g.Blocks[start], byPC, rev, ann)
		}
		fmt.Fprintln(w, "  }")
	}

	for _, start := range g.Order {
		blk := g.Blocks[start]
		if blk.HasPred {
			fmt.Fprintf(w, "  lbb_%d -> lbb_%d [style=dotted; arrowhead=none];\n", blk.Start, blk.Pred)
		}
		if len(blk.Succs) == 0 {
			continue
		}
		targets := dedupSorted(blk.Succs)
		names := make([]string, len(targets))
		for i, t := range targets {
			names[i] = fmt.Sprintf("lbb_%d", t)
		}
		if _, err := fmt.Fprintf(w, "  lbb_%d -> {%s};\n", blk.Start, strings.Join(names, " ")); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, "}")
	return err
}

// writeNode emits one basic block as an HTML table, one row per
// instruction with the mnemonic and the operands in separate cells.
func writeNode(w io.Writer, blk *disasm.BasicBlock, byPC map[uint64]sbf.Instruction, rev sbf.Revision, ann map[uint64]string) {
	var rows strings.Builder
	for _, pc := range blk.Insns {
		in := byPC[pc]
		desc := disasm.Text(in, rev)
		if a := ann[pc]; a != "" {
			desc += " --> " + a
		}

		if sp := strings.IndexByte(desc, ' '); sp >= 0 {
			rest := truncate(desc[sp+1:], maxCellLen)
			fmt.Fprintf(&rows, `<tr><td align="left">%s</td><td align="left">%s</td></tr>`,
				htmlEscape(desc[:sp]), htmlEscape(rest))
		} else {
			fmt.Fprintf(&rows, `<tr><td align="left">%s</td></tr>`, htmlEscape(desc))
		}
	}
	fmt.Fprintf(w, "    lbb_%d [label=<<table border=\"0\" cellborder=\"0\" cellpadding=\"3\">%s</table>>];\n",
		blk.Start, rows.String())
}

func dedupSorted(in []uint64) []uint64 {
	out := append([]uint64(nil), in...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	n := 0
	for i, v := range out {
		if i == 0 || v != out[n-1] {
			out[n] = v
			n++
		}
	}
	return out[:n]
}

// htmlEscape escapes a string for use inside DOT HTML labels.
func htmlEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}
