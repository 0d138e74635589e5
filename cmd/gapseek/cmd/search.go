package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	fsw "github.com/corey/gapseek/internal/adapters/fsnotify"
	"github.com/corey/gapseek/internal/app"
	"github.com/corey/gapseek/internal/config"
	"github.com/corey/gapseek/internal/domain/matcher"
	"github.com/corey/gapseek/internal/report"
)

var (
	searchMinSeed    int
	searchDedup      bool
	searchFormat     string
	searchColor      string
	searchCount      bool
	searchQuiet      bool
	searchStats      bool
	searchStore      bool
	searchCrosscheck bool
	searchWatch      bool
)

var searchCmd = &cobra.Command{
	Use:   "search <fasta> <patterns>",
	Short: "Find every occurrence of every pattern in a sequence",
	Long: `Find every occurrence of every gapped pattern in a reference sequence.

<fasta> is a FASTA file (gzip accepted, "-" for stdin); all records are
concatenated into one text. <patterns> holds one pattern per line.

Pattern syntax:
  A C G T    literal bases (case-insensitive)
  N          matches any base
  .          a gap of one position
  {k}        a gap of k positions

Exit codes: 0 = matches found, 1 = no matches, 2 = error.`,
	Args:          cobra.ExactArgs(2),
	RunE:          runSearch,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	f := searchCmd.Flags()
	f.IntVar(&searchMinSeed, "min-seed", 3, "Minimum literal run used as a seed")
	f.BoolVar(&searchDedup, "dedup", false, "Report each occurrence once, even if several seeds anchor it")
	f.StringVar(&searchFormat, "format", "text", "Output format: text, tsv, json, msgpack")
	f.StringVar(&searchColor, "color", "auto", "Color output: auto, always, never")
	f.BoolVarP(&searchCount, "count", "c", false, "Only print the number of matches")
	f.BoolVarP(&searchQuiet, "quiet", "q", false, "Print nothing; exit status only")
	f.BoolVar(&searchStats, "stats", false, "Print build and scan statistics to stderr")
	f.BoolVar(&searchStore, "store", false, "Save the run to the run store")
	f.BoolVar(&searchCrosscheck, "crosscheck", false, "Check gap-free patterns against an independent matcher")
	f.BoolVarP(&searchWatch, "watch", "w", false, "Re-run whenever an input file changes")
}

// applySearchFlags lets explicitly set flags override the config file.
func applySearchFlags(cmd *cobra.Command, s *config.Config) {
	f := cmd.Flags()
	if f.Changed("min-seed") {
		s.Search.MinSeed = searchMinSeed
	}
	if f.Changed("dedup") {
		s.Search.Dedup = searchDedup
	}
	if f.Changed("crosscheck") {
		s.Search.Crosscheck = searchCrosscheck
	}
	if f.Changed("format") {
		s.Output.Format = searchFormat
	}
	if f.Changed("color") {
		s.Output.Color = searchColor
	}
	if f.Changed("store") {
		s.Store.Enabled = searchStore
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	paths, settings, l, err := setup(cmd)
	if err != nil {
		l.Error("load config", "err", err)
		return errFailed
	}
	applySearchFlags(cmd, settings)
	if err := settings.Validate(); err != nil {
		l.Error(err.Error())
		return errFailed
	}
	format, err := report.ParseFormat(settings.Output.Format)
	if err != nil {
		l.Error(err.Error())
		return errFailed
	}

	a, err := newApp(paths, settings, l)
	if err != nil {
		if isDBLockError(err) {
			l.Error("run store is locked by another gapseek process", "path", paths.Resolve(settings.Store.Path))
		} else {
			l.Error(err.Error())
		}
		return errFailed
	}
	defer a.Close()

	req := app.SearchRequest{
		FastaPath:    args[0],
		PatternsPath: args[1],
		Options: matcher.Options{
			MinSeed: settings.Search.MinSeed,
			Dedup:   settings.Search.Dedup,
		},
		Crosscheck: settings.Search.Crosscheck,
		Save:       settings.Store.Enabled,
	}
	pr := &printer{
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
		format: format,
		opts:   report.Options{Color: resolveColor(settings.Output.Color), Count: searchCount},
		quiet:  searchQuiet,
		stats:  searchStats,
	}

	if searchWatch {
		return watchSearch(cmd.Context(), a, req, pr)
	}

	out, err := a.Search(req)
	if err != nil {
		l.Error(err.Error())
		return errFailed
	}
	if err := pr.print(out); err != nil {
		l.Error("write output", "err", err)
		return errFailed
	}
	if out.RunID != 0 {
		l.Info("run saved", "id", out.RunID)
	}
	if len(out.Discrepancies) > 0 {
		l.Error("crosscheck failed", "discrepancies", len(out.Discrepancies))
		return errFailed
	}
	if len(out.Result.Matches) == 0 {
		return errNoMatch
	}
	return nil
}

// watchSearch re-runs the search on input changes until interrupted.
func watchSearch(parent context.Context, a *app.App, req app.SearchRequest, pr *printer) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := fsw.NewWatcher()
	if err != nil {
		a.Log.Error("start watcher", "err", err)
		return errFailed
	}
	defer w.Stop()

	err = a.Watch(ctx, req, w, func(out *app.Outcome, err error) {
		if err != nil {
			a.Log.Error(err.Error())
			return
		}
		if err := pr.print(out); err != nil {
			a.Log.Error("write output", "err", err)
		}
	})
	if err != nil {
		if errors.Is(err, app.ErrWatchStdin) {
			a.Log.Error("--watch needs file inputs, not stdin")
		} else {
			a.Log.Error(err.Error())
		}
		return errFailed
	}
	return nil
}

// printer renders search outcomes according to the output flags.
type printer struct {
	out    io.Writer
	errOut io.Writer
	format report.Format
	opts   report.Options
	quiet  bool
	stats  bool
}

func (p *printer) print(o *app.Outcome) error {
	if !p.quiet {
		if err := report.Write(p.out, o.Result, o.Patterns, p.format, p.opts); err != nil {
			return err
		}
	}
	if p.stats {
		if err := report.WriteStats(p.errOut, o.Result.Stats, p.opts.Color); err != nil {
			return fmt.Errorf("write stats: %w", err)
		}
	}
	return nil
}
