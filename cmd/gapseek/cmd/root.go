package cmd

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/corey/gapseek/internal/app"
	"github.com/corey/gapseek/internal/config"
	"github.com/corey/gapseek/internal/logger"
)

var (
	rootProject string
	rootConfig  string
	rootDebug   bool
)

var rootCmd = &cobra.Command{
	Use:   "gapseek",
	Short: "gapseek: gapped nucleotide motif search",
	Long: "Finds every occurrence of many gapped DNA patterns in a reference sequence " +
		"with a single Aho-Corasick pass over seed fragments and per-hit verification.",
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootProject, "project", "", "Project root holding .gapseek/ (default: working directory)")
	pf.StringVar(&rootConfig, "config", "", "Config file (default: <project>/.gapseek/config.toml)")
	pf.BoolVar(&rootDebug, "debug", false, "Debug logging with timestamps")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(dotCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// projectPaths resolves the project root (cwd by default).
func projectPaths() (*app.Paths, error) {
	root := rootProject
	if root == "" {
		dir, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		root = dir
	}
	return app.NewPaths(root), nil
}

// configPath returns the active config file path.
func configPath(paths *app.Paths) string {
	if rootConfig != "" {
		return rootConfig
	}
	return paths.Config
}

// setup resolves paths and settings and applies the log level. Flags win
// over the config file, which wins over defaults. The logger is never nil.
func setup(cmd *cobra.Command) (*app.Paths, *config.Config, *log.Logger, error) {
	paths, err := projectPaths()
	if err != nil {
		return nil, nil, logger.New(cmd.Name(), cmd.ErrOrStderr()), err
	}
	settings, err := config.Load(configPath(paths))
	if err != nil {
		return nil, nil, logger.New(cmd.Name(), cmd.ErrOrStderr()), err
	}
	level := settings.Log.Level
	if rootDebug {
		level = "debug"
	}
	if err := logger.SetLevel(level); err != nil {
		log.Warn("unknown log level, using warn", "level", level)
	}
	return paths, settings, logger.New(cmd.Name(), cmd.ErrOrStderr()), nil
}

// newApp wires an App for the command.
func newApp(paths *app.Paths, settings *config.Config, l *log.Logger) (*app.App, error) {
	return app.New(app.Config{
		ProjectRoot: paths.ProjectRoot,
		Settings:    settings,
		Logger:      l,
	})
}
