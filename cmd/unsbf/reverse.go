package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"unsbf/internal/analyze"
	"unsbf/internal/elfx"
	"unsbf/internal/logging"
	"unsbf/internal/sbf"
)

var reverseFlags struct {
	mode           string
	out            string
	revision       string
	reduced        bool
	entrypointOnly bool
	noLabels       bool
	graph          bool
}

var reverseCmd = &cobra.Command{
	Use:   "reverse <program.so>",
	Short: "Disassemble a program and emit its control-flow graph",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := analyze.ParseMode(reverseFlags.mode)
		if err != nil {
			return err
		}
		rev, err := sbf.ParseRevision(reverseFlags.revision)
		if err != nil {
			return err
		}
		if reverseFlags.reduced && reverseFlags.entrypointOnly {
			return fmt.Errorf("--reduced and --entrypoint-only are mutually exclusive")
		}

		prog, err := elfx.Load(args[0])
		if err != nil {
			return err
		}

		lg := logging.NewLogger()
		lg.Info("analyzing", "bin", args[0], "revision", rev, "out", reverseFlags.out)

		return analyze.Run(prog, analyze.Options{
			Revision:       rev,
			Mode:           mode,
			OutDir:         reverseFlags.out,
			Reduced:        reverseFlags.reduced,
			EntrypointOnly: reverseFlags.entrypointOnly,
			Labeling:       !reverseFlags.noLabels,
			CallGraph:      reverseFlags.graph,
			Logger:         lg,
		})
	},
}

func init() {
	f := reverseCmd.Flags()
	f.StringVar(&reverseFlags.mode, "mode", "both", "outputs to produce: disass, cfg or both")
	f.StringVarP(&reverseFlags.out, "out", "o", ".", "output directory")
	f.StringVar(&reverseFlags.revision, "revision", "v0", "SBF revision: v0, v1, v2 or v3")
	f.BoolVar(&reverseFlags.reduced, "reduced", false, "drop runtime clusters at or before the entrypoint from the CFG")
	f.BoolVar(&reverseFlags.entrypointOnly, "entrypoint-only", false, "keep only the entrypoint cluster in the CFG")
	f.BoolVar(&reverseFlags.noLabels, "no-labels", false, "name every cluster lbb_<pc> instead of entrypoint/function_<pc>")
	f.BoolVar(&reverseFlags.graph, "graph", false, "also write the cluster-level call graph (callgraph.dot)")
}
