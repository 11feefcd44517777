// Command unsbf statically analyzes Solana SBF programs: disassembly
// listings, recovered rodata strings and DOT control-flow graphs.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
)

func main() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
