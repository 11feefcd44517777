package main

import (
	"os"

	"github.com/spf13/cobra"

	"unsbf/internal/analyze"
	"unsbf/internal/elfx"
	"unsbf/internal/sbf"
)

var stringsRevision string

var stringsCmd = &cobra.Command{
	Use:   "strings <program.so>",
	Short: "Print the recovered immediate data table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rev, err := sbf.ParseRevision(stringsRevision)
		if err != nil {
			return err
		}
		prog, err := elfx.Load(args[0])
		if err != nil {
			return err
		}
		return analyze.Strings(os.Stdout, prog, rev)
	},
}

func init() {
	stringsCmd.Flags().StringVar(&stringsRevision, "revision", "v0", "SBF revision: v0, v1, v2 or v3")
}
