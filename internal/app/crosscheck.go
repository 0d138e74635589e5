package app

import (
	"sort"

	"github.com/corey/gapseek/internal/adapters/ahocorasick"
	"github.com/corey/gapseek/internal/domain/matcher"
	"github.com/corey/gapseek/internal/ports"
)

// Sides of a Discrepancy.
const (
	OnlyEngine  = "engine"
	OnlyLibrary = "library"
)

// Discrepancy is an occurrence of a plain pattern that only one of the two
// matchers reported.
type Discrepancy struct {
	PatternID int
	Start     int
	End       int
	OnlyIn    string // OnlyEngine or OnlyLibrary
}

// Crosscheck re-scans text with a library automaton built from every plain
// pattern of e (a single literal without wildcards) and compares its
// occurrences with the engine's. Duplicate engine reports are ignored.
func Crosscheck(e *matcher.Engine, res *matcher.Result, text []byte, build func([]ahocorasick.Entry) ports.ExactMatcher) []Discrepancy {
	var entries []ahocorasick.Entry
	plain := make(map[int]bool)
	for id, src := range e.Sources() {
		if p := e.Pattern(id); p != nil && p.IsPlain() {
			entries = append(entries, ahocorasick.Entry{ID: id, Pattern: src})
			plain[id] = true
		}
	}
	if len(entries) == 0 {
		return nil
	}

	engine := make(map[ports.TextMatch]bool)
	for _, m := range res.Matches {
		if plain[m.PatternID] {
			engine[ports.TextMatch{PatternID: m.PatternID, Start: m.Start, End: m.End}] = true
		}
	}
	library := make(map[ports.TextMatch]bool)
	for _, m := range build(entries).Scan(text) {
		library[m] = true
	}

	var out []Discrepancy
	for m := range engine {
		if !library[m] {
			out = append(out, Discrepancy{PatternID: m.PatternID, Start: m.Start, End: m.End, OnlyIn: OnlyEngine})
		}
	}
	for m := range library {
		if !engine[m] {
			out = append(out, Discrepancy{PatternID: m.PatternID, Start: m.Start, End: m.End, OnlyIn: OnlyLibrary})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PatternID != out[j].PatternID {
			return out[i].PatternID < out[j].PatternID
		}
		return out[i].Start < out[j].Start
	})
	return out
}
