package app

import (
	"errors"
	"fmt"
	"math"

	"github.com/corey/gapseek/internal/domain/matcher"
	"github.com/corey/gapseek/internal/ports"
)

// ErrRunTooLarge is returned when a run does not fit the stored match
// layout (32-bit pattern IDs and positions).
var ErrRunTooLarge = errors.New("run exceeds stored position range")

// NewRunReport converts a finished search into its stored form.
func NewRunReport(req SearchRequest, patterns []string, res *matcher.Result) (*ports.RunReport, error) {
	if uint64(res.Stats.TextLength) > math.MaxUint32 || uint64(len(patterns)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d bp, %d patterns", ErrRunTooLarge, res.Stats.TextLength, len(patterns))
	}
	r := &ports.RunReport{
		RunSummary: ports.RunSummary{
			FastaPath:    req.FastaPath,
			PatternsPath: req.PatternsPath,
			MinSeed:      req.Options.MinSeed,
			Dedup:        req.Options.Dedup,
			Patterns:     patterns,
			Stats:        ports.RunStats(res.Stats),
		},
		Matches: make([]ports.MatchRecord, len(res.Matches)),
	}
	for i, m := range res.Matches {
		if uint64(m.End) > math.MaxUint32 || uint64(m.PatternID) > math.MaxUint32 {
			return nil, fmt.Errorf("%w: match %d-%d of pattern %d", ErrRunTooLarge, m.Start, m.End, m.PatternID)
		}
		r.Matches[i] = ports.MatchRecord{PatternID: uint32(m.PatternID), Start: uint32(m.Start), End: uint32(m.End)}
	}
	return r, nil
}

// ResultFromRun rebuilds a matcher result from a stored run, for rendering.
func ResultFromRun(r *ports.RunReport) *matcher.Result {
	res := &matcher.Result{
		Stats:   matcher.Stats(r.Stats),
		Matches: make([]matcher.Match, len(r.Matches)),
	}
	for i, m := range r.Matches {
		res.Matches[i] = matcher.Match{PatternID: int(m.PatternID), Start: int(m.Start), End: int(m.End)}
	}
	return res
}

// Runs lists stored runs.
func (a *App) Runs() ([]ports.RunSummary, error) {
	if a.Store == nil {
		return nil, ErrNoStore
	}
	return a.Store.ListRuns()
}

// Run loads one stored run; nil, nil when absent.
func (a *App) Run(id uint64) (*ports.RunReport, error) {
	if a.Store == nil {
		return nil, ErrNoStore
	}
	return a.Store.LoadRun(id)
}

// DeleteRun removes a stored run.
func (a *App) DeleteRun(id uint64) error {
	if a.Store == nil {
		return ErrNoStore
	}
	return a.Store.DeleteRun(id)
}
