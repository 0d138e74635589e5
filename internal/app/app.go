// Package app wires together all adapters and domain logic.
// Commands build one App per invocation, run searches through it and close it.
package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/corey/gapseek/internal/adapters/ahocorasick"
	"github.com/corey/gapseek/internal/adapters/bbolt"
	"github.com/corey/gapseek/internal/adapters/fasta"
	"github.com/corey/gapseek/internal/config"
	"github.com/corey/gapseek/internal/domain/matcher"
	"github.com/corey/gapseek/internal/logger"
	"github.com/corey/gapseek/internal/ports"
)

// ErrNoStore is returned by run-store operations when persistence is off.
var ErrNoStore = errors.New("run store disabled (enable [store] or pass --store)")

// App is the top-level container wiring all components together.
type App struct {
	Paths    *Paths
	Settings *config.Config
	Store    ports.RunStore // nil unless the store is enabled
	Log      *log.Logger

	exact func([]ahocorasick.Entry) ports.ExactMatcher
}

// Config holds initialization parameters for the App.
type Config struct {
	ProjectRoot string
	Settings    *config.Config // nil = defaults
	Logger      *log.Logger    // nil = stderr logger
}

// New creates an App with all dependencies wired. The run store is opened
// only when Settings.Store.Enabled is set.
func New(cfg Config) (*App, error) {
	if cfg.ProjectRoot == "" {
		return nil, fmt.Errorf("project root required")
	}
	if cfg.Settings == nil {
		cfg.Settings = config.DefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.New("gapseek", nil)
	}

	a := &App{
		Paths:    NewPaths(cfg.ProjectRoot),
		Settings: cfg.Settings,
		Log:      cfg.Logger,
		exact: func(entries []ahocorasick.Entry) ports.ExactMatcher {
			return ahocorasick.NewExactScanner(entries)
		},
	}

	if cfg.Settings.Store.Enabled {
		dbPath := a.Paths.Resolve(cfg.Settings.Store.Path)
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
		store, err := bbolt.NewStore(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		a.Store = store
	}
	return a, nil
}

// Close releases the run store, if open.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	err := a.Store.Close()
	a.Store = nil
	return err
}

// SearchRequest describes one search run.
type SearchRequest struct {
	FastaPath    string
	PatternsPath string
	Options      matcher.Options
	Crosscheck   bool
	Save         bool // persist the run when a store is open
}

// Outcome is everything a search run produced.
type Outcome struct {
	Patterns      []string
	Engine        *matcher.Engine
	Result        *matcher.Result
	Discrepancies []Discrepancy
	RunID         uint64 // 0 when not saved
}

// Search loads the inputs, builds the engine and scans the text once.
func (a *App) Search(req SearchRequest) (*Outcome, error) {
	t0 := time.Now()
	patterns, err := fasta.LoadPatterns(req.PatternsPath)
	if err != nil {
		return nil, fmt.Errorf("load patterns: %w", err)
	}
	text, err := fasta.LoadSequence(req.FastaPath)
	if err != nil {
		return nil, fmt.Errorf("load sequence: %w", err)
	}
	a.Log.Debug("inputs loaded", "patterns", len(patterns), "bases", len(text), "elapsed", time.Since(t0))

	engine := matcher.NewEngine(patterns, req.Options)
	for _, r := range engine.Rejected() {
		a.Log.Warn("pattern rejected", "id", r.PatternID, "pattern", r.Source, "err", r.Err)
	}
	for _, id := range engine.Unseedable() {
		a.Log.Debug("pattern has no literal content and cannot match", "id", id, "pattern", patterns[id])
	}

	res := engine.Run(text)
	a.Log.Debug("scan complete",
		"nodes", res.Stats.Nodes,
		"seeds", res.Stats.Seeds,
		"build", res.Stats.BuildTime,
		"scan", res.Stats.ScanTime,
		"matches", res.Stats.Matches)

	out := &Outcome{Patterns: patterns, Engine: engine, Result: res}

	if req.Crosscheck {
		out.Discrepancies = Crosscheck(engine, res, text, a.exact)
		for _, d := range out.Discrepancies {
			a.Log.Error("crosscheck mismatch", "id", d.PatternID, "pattern", patterns[d.PatternID],
				"start", d.Start, "end", d.End, "only_in", d.OnlyIn)
		}
	}

	if req.Save && a.Store != nil {
		report, err := NewRunReport(req, patterns, res)
		if err != nil {
			return out, fmt.Errorf("save run: %w", err)
		}
		id, err := a.Store.SaveRun(report)
		if err != nil {
			return out, fmt.Errorf("save run: %w", err)
		}
		out.RunID = id
		a.Log.Debug("run saved", "id", id)
	}
	return out, nil
}
