// gapseek finds gapped nucleotide motifs in a reference sequence.
// Single binary: one automaton pass over the genome, every pattern at once.
package main

import (
	"fmt"
	"os"

	"github.com/corey/gapseek/cmd/gapseek/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if code := cmd.ExitCode(err); code >= 0 {
			os.Exit(code)
		}
		fmt.Fprintf(os.Stderr, "gapseek: %v\n", err)
		os.Exit(2)
	}
}
