package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/corey/gapseek/internal/adapters/fasta"
	"github.com/corey/gapseek/internal/domain/generator"
)

var (
	genCount  int
	genLength int
	genGaps   float64
	genPrefix string
	genSeed   uint64
	genUnique bool
	genOut    string
	genRecord string
)

var generateCmd = &cobra.Command{
	Use:   "generate <fasta>",
	Short: "Cut random gapped patterns out of a reference",
	Long: `Draw random motifs from a reference sequence and replace a share of
each motif's positions with '.' gaps. Every generated pattern occurs at
least once in the reference it was drawn from.

Without --count/--length the standard preset sets are written:
10x10, 50x12 and 200x20, as <prefix>_<count>.txt.`,
	Args:          cobra.ExactArgs(1),
	RunE:          runGenerate,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	f := generateCmd.Flags()
	f.IntVarP(&genCount, "count", "n", 0, "Number of patterns (custom set)")
	f.IntVarP(&genLength, "length", "l", 0, "Pattern length (custom set)")
	f.Float64Var(&genGaps, "gaps", 0.2, "Share of each pattern replaced by gaps, 0 to 0.9")
	f.StringVar(&genPrefix, "prefix", "patterns", "Output file prefix")
	f.Uint64Var(&genSeed, "seed", 0, "Random seed (default: time-based)")
	f.BoolVar(&genUnique, "unique", false, "Never emit the same pattern twice in a set")
	f.StringVarP(&genOut, "out", "o", ".", "Output directory")
	f.StringVar(&genRecord, "record", "", "Draw from this FASTA record only (default: all records)")
}

// loadRecord streams path and returns the sequence of the record named id.
func loadRecord(path, id string) ([]byte, error) {
	recs := make(chan fasta.Record)
	errc := make(chan error, 1)
	go func() { errc <- fasta.Stream(path, recs) }()

	var seq []byte
	found := false
	for rec := range recs {
		if !found && rec.ID == id {
			seq, found = rec.Seq, true
		}
	}
	if err := <-errc; err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("record %q not found in %s", id, path)
	}
	return seq, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	_, _, l, err := setup(cmd)
	if err != nil {
		l.Error("load config", "err", err)
		return errFailed
	}

	presets := generator.Presets
	if genCount > 0 || genLength > 0 {
		if genCount <= 0 || genLength <= 0 {
			l.Error("--count and --length must be given together")
			return errFailed
		}
		presets = []generator.Preset{{Count: genCount, Length: genLength}}
	}

	var text []byte
	if genRecord != "" {
		text, err = loadRecord(args[0], genRecord)
	} else {
		text, err = fasta.LoadSequence(args[0])
	}
	if err != nil {
		l.Error("load reference", "err", err)
		return errFailed
	}
	seed := genSeed
	if !cmd.Flags().Changed("seed") {
		seed = uint64(time.Now().UnixNano())
	}
	l.Debug("generating", "bases", len(text), "seed", seed, "sets", len(presets))

	out := cmd.OutOrStdout()
	for i, p := range presets {
		patterns, err := generator.Generate(text, generator.Options{
			Count:       p.Count,
			Length:      p.Length,
			GapFraction: genGaps,
			Seed:        seed + uint64(i),
			Unique:      genUnique,
		})
		if err != nil {
			l.Error("generate", "set", fmt.Sprintf("%dx%d", p.Count, p.Length), "err", err)
			return errFailed
		}
		path := filepath.Join(genOut, generator.FileName(genPrefix, p.Count))
		if err := fasta.WritePatterns(path, patterns); err != nil {
			l.Error("write patterns", "path", path, "err", err)
			return errFailed
		}
		fmt.Fprintf(out, "wrote %s (%d patterns, length %d)\n", path, len(patterns), p.Length)
	}
	return nil
}
