package cmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/corey/gapseek/internal/app"
	"github.com/corey/gapseek/internal/report"
)

var (
	runsShowFormat string
	runsShowCount  bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect searches saved in the run store",
	Long: "List, show and delete search runs saved with --store or [store] enabled = true. " +
		"The store is a single bbolt file under .gapseek/.",
}

var runsListCmd = &cobra.Command{
	Use:           "list",
	Short:         "List saved runs",
	Args:          cobra.NoArgs,
	RunE:          runRunsList,
	SilenceErrors: true,
	SilenceUsage:  true,
}

var runsShowCmd = &cobra.Command{
	Use:           "show <id>",
	Short:         "Print the matches of a saved run",
	Args:          cobra.ExactArgs(1),
	RunE:          runRunsShow,
	SilenceErrors: true,
	SilenceUsage:  true,
}

var runsRmCmd = &cobra.Command{
	Use:           "rm <id>...",
	Short:         "Delete saved runs",
	Args:          cobra.MinimumNArgs(1),
	RunE:          runRunsRm,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	runsShowCmd.Flags().StringVar(&runsShowFormat, "format", "text", "Output format: text, tsv, json, msgpack")
	runsShowCmd.Flags().BoolVarP(&runsShowCount, "count", "c", false, "Only print the number of matches")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsRmCmd)
}

// openStore builds an App with the run store forced on.
func openStore(cmd *cobra.Command) (*app.App, error) {
	paths, settings, l, err := setup(cmd)
	if err != nil {
		return nil, err
	}
	settings.Store.Enabled = true
	a, err := newApp(paths, settings, l)
	if err != nil {
		if isDBLockError(err) {
			return nil, fmt.Errorf("run store is locked by another gapseek process: %w", err)
		}
		return nil, err
	}
	return a, nil
}

func parseRunID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid run id %q", s)
	}
	return id, nil
}

func runRunsList(cmd *cobra.Command, args []string) error {
	a, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	runs, err := a.Runs()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no saved runs")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tFASTA\tPATTERNS\tMIN SEED\tMATCHES")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.FastaPath,
			len(r.Patterns), r.MinSeed, r.Stats.Matches)
	}
	return tw.Flush()
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	id, err := parseRunID(args[0])
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(runsShowFormat)
	if err != nil {
		return err
	}
	a, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	r, err := a.Run(id)
	if err != nil {
		return err
	}
	if r == nil {
		return fmt.Errorf("run %d not found", id)
	}
	return report.Write(cmd.OutOrStdout(), app.ResultFromRun(r), r.Patterns, format,
		report.Options{Color: resolveColor(a.Settings.Output.Color), Count: runsShowCount})
}

func runRunsRm(cmd *cobra.Command, args []string) error {
	ids := make([]uint64, len(args))
	for i, s := range args {
		id, err := parseRunID(s)
		if err != nil {
			return err
		}
		ids[i] = id
	}
	a, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	for _, id := range ids {
		if err := a.DeleteRun(id); err != nil {
			return fmt.Errorf("delete run %d: %w", id, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed run %d\n", id)
	}
	return nil
}
