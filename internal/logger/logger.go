// Package logger builds charmbracelet/log loggers for the commands.
// Logs go to stderr so that stdout carries match output only.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// styles highlights the keys the search pipeline logs most. Colors only
// render when w is a terminal.
func styles() *log.Styles {
	s := log.DefaultStyles()
	s.Values["pattern"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"})
	s.Values["only_in"] = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#b4637a", Dark: "#eb6f92"})
	s.Keys["err"] = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#b4637a", Dark: "#eb6f92"})
	return s
}

// New creates a logger that respects the global log level.
// A nil w writes to stderr.
func New(prefix string, w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	l := log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: log.GetLevel() <= log.DebugLevel,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
	l.SetStyles(styles())
	return l
}

// SetLevel parses level and applies it globally. Unknown levels fall back to
// warn and are reported as an error.
func SetLevel(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.SetLevel(log.WarnLevel)
		return err
	}
	log.SetLevel(lvl)
	return nil
}
