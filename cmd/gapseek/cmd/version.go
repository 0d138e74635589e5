package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set at build time: -ldflags "-X github.com/corey/gapseek/cmd/gapseek/cmd.version=..."
var (
	version = "dev"
	commit  = "none"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gapseek %s (%s)\n", version, commit)
	},
}
