package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/corey/gapseek/internal/config"
)

var configInit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long: "Shows the project root, config file, run store and the settings in effect. " +
		"--init writes a default config file if none exists.",
	Args:          cobra.NoArgs,
	RunE:          runConfig,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	configCmd.Flags().BoolVar(&configInit, "init", false, "Write the default config file if missing")
}

func runConfig(cmd *cobra.Command, args []string) error {
	paths, settings, _, err := setup(cmd)
	if err != nil {
		return err
	}
	cfgPath := configPath(paths)
	out := cmd.OutOrStdout()
	color := resolveColor(settings.Output.Color)

	state := "defaults (no file)"
	if configInit {
		s, created, err := config.InitConfig(cfgPath)
		if err != nil {
			return err
		}
		settings = s
		if created {
			state = paint(color, colorGreen, "created")
		} else {
			state = "already present"
		}
	} else if _, err := os.Stat(cfgPath); err == nil {
		state = "loaded"
	}

	store := "disabled"
	if settings.Store.Enabled {
		store = "enabled"
	}

	fmt.Fprintln(out, paint(color, colorBold, "gapseek config"))
	fmt.Fprintf(out, "  Root:        %s\n", paths.ProjectRoot)
	fmt.Fprintf(out, "  Config:      %s %s\n", cfgPath, paint(color, colorDim, "("+state+")"))
	fmt.Fprintf(out, "  Store:       %s (%s)\n", paths.Resolve(settings.Store.Path), store)
	fmt.Fprintf(out, "  Min seed:    %d\n", settings.Search.MinSeed)
	fmt.Fprintf(out, "  Dedup:       %t\n", settings.Search.Dedup)
	fmt.Fprintf(out, "  Crosscheck:  %t\n", settings.Search.Crosscheck)
	fmt.Fprintf(out, "  Format:      %s\n", paint(color, colorCyan, settings.Output.Format))
	fmt.Fprintf(out, "  Color:       %s\n", settings.Output.Color)
	fmt.Fprintf(out, "  Log level:   %s\n", settings.Log.Level)

	if err := settings.Validate(); err != nil {
		return err
	}
	return nil
}
