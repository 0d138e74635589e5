// Package ahocorasick provides exact multi-pattern matching using an Aho-Corasick automaton.
// It wraps the petar-dambovaliev/aho-corasick library for O(n + m + z) matching
// and serves as an independent reference for the gapped matcher on plain patterns.
package ahocorasick

import (
	"strings"

	aho "github.com/petar-dambovaliev/aho-corasick"

	"github.com/corey/gapseek/internal/ports"
)

// Entry is a plain pattern and the ID it is reported under.
type Entry struct {
	ID      int
	Pattern string
}

// ExactScanner implements ports.ExactMatcher over a fixed pattern set.
// Identical patterns share one automaton entry and are reported under every
// ID that carries them.
type ExactScanner struct {
	automaton aho.AhoCorasick
	unique    []string
	ids       [][]int // unique pattern index -> entry IDs
}

var _ ports.ExactMatcher = (*ExactScanner)(nil)

// NewExactScanner builds a case-insensitive scanner from entries. Empty
// patterns are ignored.
func NewExactScanner(entries []Entry) *ExactScanner {
	s := &ExactScanner{}
	index := make(map[string]int, len(entries))
	for _, e := range entries {
		p := strings.ToUpper(e.Pattern)
		if p == "" {
			continue
		}
		i, ok := index[p]
		if !ok {
			i = len(s.unique)
			index[p] = i
			s.unique = append(s.unique, p)
			s.ids = append(s.ids, nil)
		}
		s.ids[i] = append(s.ids[i], e.ID)
	}

	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		AsciiCaseInsensitive: true,
		DFA:                  true,
	})
	s.automaton = builder.Build(s.unique)
	return s
}

// Scan finds all pattern occurrences in text, overlaps included, ordered by
// end offset.
func (s *ExactScanner) Scan(text []byte) []ports.TextMatch {
	if len(s.unique) == 0 {
		return nil
	}
	iter := s.automaton.IterOverlappingByte(text)
	var matches []ports.TextMatch
	for next := iter.Next(); next != nil; next = iter.Next() {
		m := *next
		for _, id := range s.ids[m.Pattern()] {
			matches = append(matches, ports.TextMatch{
				PatternID: id,
				Start:     m.Start(),
				End:       m.End(),
			})
		}
	}
	return matches
}

// PatternCount returns the number of distinct patterns in the automaton.
func (s *ExactScanner) PatternCount() int {
	return len(s.unique)
}
