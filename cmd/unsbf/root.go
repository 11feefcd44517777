package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "unsbf",
	Short:         "Static analysis for Solana SBF programs",
	Long:          "unsbf disassembles SBF shared objects, recovers embedded read-only data strings and emits Graphviz control-flow and call graphs.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.AddCommand(reverseCmd)
	rootCmd.AddCommand(stringsCmd)
}
