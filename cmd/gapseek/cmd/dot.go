package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/corey/gapseek/internal/adapters/fasta"
	"github.com/corey/gapseek/internal/domain/matcher"
)

var (
	dotMinSeed int
	dotLimit   int
	dotOut     string
)

var dotCmd = &cobra.Command{
	Use:   "dot <patterns>",
	Short: "Export the seed automaton as Graphviz DOT",
	Long: `Compile a pattern file and write its seed automaton as a Graphviz
digraph: goto edges labelled by symbol, failure links dashed, output
states filled. Large automata are cut at --limit states.

  gapseek dot patterns.txt | dot -Tsvg > automaton.svg`,
	Args:          cobra.ExactArgs(1),
	RunE:          runDot,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	dotCmd.Flags().IntVar(&dotMinSeed, "min-seed", 3, "Minimum literal run used as a seed")
	dotCmd.Flags().IntVar(&dotLimit, "limit", 200, "Draw at most this many states (0 = all)")
	dotCmd.Flags().StringVarP(&dotOut, "out", "o", "", "Write to file instead of stdout")
}

func runDot(cmd *cobra.Command, args []string) error {
	_, _, l, err := setup(cmd)
	if err != nil {
		return err
	}
	patterns, err := fasta.LoadPatterns(args[0])
	if err != nil {
		return err
	}
	e := matcher.NewEngine(patterns, matcher.Options{MinSeed: dotMinSeed})
	ac := e.Automaton()
	if dotLimit > 0 && ac.NodeCount() > dotLimit {
		l.Warn("automaton truncated", "states", ac.NodeCount(), "limit", dotLimit)
	}

	var w io.Writer = cmd.OutOrStdout()
	if dotOut != "" {
		f, err := os.Create(dotOut)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := ac.WriteDOT(w, dotLimit); err != nil {
		return fmt.Errorf("write dot: %w", err)
	}
	return nil
}
