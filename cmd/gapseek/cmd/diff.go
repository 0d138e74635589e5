package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/gapseek/internal/adapters/fasta"
	"github.com/corey/gapseek/internal/domain/mutation"
)

var diffFiles bool

var diffCmd = &cobra.Command{
	Use:   "diff <seq-a> <seq-b>",
	Short: "List point mutations between two sequences",
	Long: `Walk two sequences side by side and report SNPs, single-base insertions
and deletions, and complex changes. Arguments are literal sequences, or
FASTA files with --files.`,
	Args:          cobra.ExactArgs(2),
	RunE:          runDiff,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	diffCmd.Flags().BoolVarP(&diffFiles, "files", "f", false, "Treat arguments as FASTA files")
}

func runDiff(cmd *cobra.Command, args []string) error {
	a, b := strings.ToUpper(args[0]), strings.ToUpper(args[1])
	if diffFiles {
		sa, err := fasta.LoadSequence(args[0])
		if err != nil {
			return err
		}
		sb, err := fasta.LoadSequence(args[1])
		if err != nil {
			return err
		}
		a, b = string(sa), string(sb)
	}

	changes := mutation.Compare(a, b)
	out := cmd.OutOrStdout()
	if len(changes) == 0 {
		fmt.Fprintln(out, "sequences are identical")
		return nil
	}

	color := resolveColor("auto")
	fmt.Fprintln(out, paint(color, colorBold, "Differences:"))
	for _, c := range changes {
		fmt.Fprintf(out, "  - %s\n", c)
	}
	counts := mutation.Counts(changes)
	var parts []string
	for k := mutation.SNP; k <= mutation.EndInsertion; k++ {
		if n := counts[k]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, k))
		}
	}
	fmt.Fprintln(out, paint(color, colorDim, strings.Join(parts, ", ")))
	return nil
}
