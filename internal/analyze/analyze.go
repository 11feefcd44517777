// Package analyze wires the pipeline together: decode, track, build the
// graph, and write the output artifacts.
package analyze

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	latrender "github.com/zboralski/lattice/render"

	"unsbf/internal/callgraph"
	"unsbf/internal/disasm"
	"unsbf/internal/render"
	"unsbf/internal/sbf"
)

// Output filenames, fixed under the caller-supplied directory.
const (
	FileDisassembly    = "disassembly.out"
	FileImmediateTable = "immediate_data_table.out"
	FileCFG            = "cfg.dot"
	FileCallGraph      = "callgraph.dot"
)

// Mode selects which artifact families a run produces.
type Mode uint8

const (
	ModeDisass Mode = iota // listing + immediate data table
	ModeCFG                // DOT control-flow graph
	ModeBoth
)

// ParseMode maps the CLI spelling to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "disass":
		return ModeDisass, nil
	case "cfg":
		return ModeCFG, nil
	case "both":
		return ModeBoth, nil
	}
	return 0, fmt.Errorf("analyze: unknown mode %q (want disass, cfg or both)", s)
}

// Options configures one analysis run.
type Options struct {
	Revision       sbf.Revision
	Mode           Mode
	OutDir         string
	Reduced        bool // drop clusters at or before the entrypoint
	EntrypointOnly bool // keep only the entrypoint cluster
	Labeling       bool // entrypoint/function_N cluster labels
	CallGraph      bool // also write callgraph.dot
	Logger         *log.Logger
}

// Run executes the pipeline over a validated program and writes the
// artifacts selected by opts.Mode into opts.OutDir.
func Run(prog *sbf.Program, opts Options) error {
	lg := opts.Logger
	if lg == nil {
		lg = log.New(io.Discard)
	}

	if err := prog.Validate(); err != nil {
		return err
	}

	lg.Debug("decoding", "revision", opts.Revision, "text_bytes", len(prog.Text()))
	insns, err := sbf.Decode(prog.Text(), opts.Revision)
	if err != nil {
		return err
	}

	resolver := disasm.NewResolver(prog)
	ann := resolver.Run(insns)
	lg.Debug("resolved immediates", "annotations", len(ann), "ranges", len(resolver.Ranges()))

	g := disasm.BuildGraph(insns, prog.Entry, opts.Labeling)
	lg.Debug("graph built", "blocks", len(g.Order), "clusters", len(g.Clusters))

	if opts.Mode == ModeDisass || opts.Mode == ModeBoth {
		if err := writeFile(opts.OutDir, FileDisassembly, func(w io.Writer) error {
			return render.WriteListing(w, g, insns, opts.Revision, ann)
		}); err != nil {
			return err
		}
		if err := writeFile(opts.OutDir, FileImmediateTable, func(w io.Writer) error {
			return render.WriteImmediateTable(w, prog, resolver.Ranges())
		}); err != nil {
			return err
		}
	}

	if opts.Mode == ModeCFG || opts.Mode == ModeBoth {
		view := g
		switch {
		case opts.EntrypointOnly:
			view = g.EntrypointOnly()
		case opts.Reduced:
			view = g.Reduced()
		}
		if err := writeFile(opts.OutDir, FileCFG, func(w io.Writer) error {
			return render.WriteDOT(w, view, insns, opts.Revision, ann)
		}); err != nil {
			return err
		}
	}

	if opts.CallGraph {
		cg := callgraph.Build(g)
		dot := latrender.DOT(cg, "callgraph")
		if err := writeFile(opts.OutDir, FileCallGraph, func(w io.Writer) error {
			_, err := io.WriteString(w, dot)
			return err
		}); err != nil {
			return err
		}
	}
	return nil
}

// Strings writes just the immediate data table to w; the listing and
// graph passes are skipped.
func Strings(w io.Writer, prog *sbf.Program, rev sbf.Revision) error {
	if err := prog.Validate(); err != nil {
		return err
	}
	insns, err := sbf.Decode(prog.Text(), rev)
	if err != nil {
		return err
	}
	resolver := disasm.NewResolver(prog)
	resolver.Run(insns)
	return render.WriteImmediateTable(w, prog, resolver.Ranges())
}

func writeFile(dir, name string, fill func(io.Writer) error) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	if err := fill(f); err != nil {
		f.Close()
		return fmt.Errorf("analyze: write %s: %w", name, err)
	}
	return f.Close()
}
