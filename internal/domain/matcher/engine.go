// Package matcher ties the gapped matching pipeline together: patterns are
// compiled into seeds, the seeds into one automaton, and a single scan of the
// text verifies every seed hit against its full pattern.
package matcher

import (
	"time"

	"github.com/corey/gapseek/internal/domain/automaton"
	"github.com/corey/gapseek/internal/domain/pattern"
)

// Options configure an Engine.
type Options struct {
	MinSeed int  // minimum seed length; <= 0 selects pattern.DefaultMinSeed
	Dedup   bool // report each (pattern, start, end) once
}

// Rejection records a pattern that could not be compiled. It never matches.
type Rejection struct {
	PatternID int
	Source    string
	Err       error
}

// Stats summarises one run.
type Stats struct {
	TextLength int           `json:"text_length" msgpack:"text_length"`
	Patterns   int           `json:"patterns" msgpack:"patterns"`
	Seeds      int           `json:"seeds" msgpack:"seeds"`
	Unseedable int           `json:"unseedable" msgpack:"unseedable"`
	Rejected   int           `json:"rejected" msgpack:"rejected"`
	Nodes      int           `json:"nodes" msgpack:"nodes"`
	BuildTime  time.Duration `json:"build_ns" msgpack:"build_ns"`
	ScanTime   time.Duration `json:"scan_ns" msgpack:"scan_ns"`
	Matches    int           `json:"matches" msgpack:"matches"`
}

// Result holds the matches of one run in report order, i.e. by seed end
// position.
type Result struct {
	Matches []Match
	Stats   Stats
}

// ByPattern groups the result's matches by pattern ID.
func (r *Result) ByPattern() map[int][]Match {
	out := make(map[int][]Match)
	for _, m := range r.Matches {
		out[m.PatternID] = append(out[m.PatternID], m)
	}
	return out
}

// Engine is a compiled pattern set. It is read-only after NewEngine and can
// run against any number of texts.
type Engine struct {
	opts       Options
	patterns   []*pattern.Pattern // by pattern ID; nil for rejected patterns
	sources    []string
	ac         *automaton.Automaton
	unseedable []int
	rejected   []Rejection
	buildTime  time.Duration
}

// NewEngine compiles sources (pattern ID = index) and builds the automaton
// from all of their seeds. Patterns with malformed gap lengths are recorded as
// rejections; patterns without literal content are recorded as unseedable.
// Neither stops the build.
func NewEngine(sources []string, opts Options) *Engine {
	if opts.MinSeed <= 0 {
		opts.MinSeed = pattern.DefaultMinSeed
	}
	t0 := time.Now()

	e := &Engine{
		opts:     opts,
		patterns: make([]*pattern.Pattern, len(sources)),
		sources:  sources,
	}
	b := automaton.NewBuilder()
	for id, src := range sources {
		p, seeds, err := pattern.Compile(id, src, opts.MinSeed)
		if err != nil {
			e.rejected = append(e.rejected, Rejection{PatternID: id, Source: src, Err: err})
			continue
		}
		e.patterns[id] = p
		if len(seeds) == 0 {
			e.unseedable = append(e.unseedable, id)
			continue
		}
		for _, s := range seeds {
			b.Add(s)
		}
	}
	e.ac = b.Build()
	e.buildTime = time.Since(t0)
	return e
}

// Run scans text once and returns every verified match.
func (e *Engine) Run(text []byte) *Result {
	col := NewCollector(e.opts.Dedup)

	t0 := time.Now()
	e.ac.Scan(text, func(h automaton.Hit) bool {
		if m, ok := Verify(text, h, e.patterns[h.PatternID]); ok {
			col.Add(m)
		}
		return true
	})
	scan := time.Since(t0)

	return &Result{
		Matches: col.Matches(),
		Stats: Stats{
			TextLength: len(text),
			Patterns:   len(e.sources),
			Seeds:      e.ac.SeedCount(),
			Unseedable: len(e.unseedable),
			Rejected:   len(e.rejected),
			Nodes:      e.ac.NodeCount(),
			BuildTime:  e.buildTime,
			ScanTime:   scan,
			Matches:    col.Count(),
		},
	}
}

// Automaton exposes the compiled automaton (for inspection and export).
func (e *Engine) Automaton() *automaton.Automaton { return e.ac }

// Pattern returns the compiled pattern with the given ID, or nil if it was
// rejected or out of range.
func (e *Engine) Pattern(id int) *pattern.Pattern {
	if id < 0 || id >= len(e.patterns) {
		return nil
	}
	return e.patterns[id]
}

// Sources returns the pattern strings the engine was built from.
func (e *Engine) Sources() []string { return e.sources }

// Unseedable returns the IDs of patterns without literal content.
func (e *Engine) Unseedable() []int { return e.unseedable }

// Rejected returns the patterns that failed to compile.
func (e *Engine) Rejected() []Rejection { return e.rejected }

// Options returns the effective options.
func (e *Engine) Options() Options { return e.opts }
