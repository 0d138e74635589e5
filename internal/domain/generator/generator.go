// Package generator cuts random motifs out of a reference sequence and
// punches gaps into them, producing pattern sets for benchmarking the
// matcher against a known genome.
package generator

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/tchap/go-patricia/v2/patricia"
)

var (
	ErrTextTooShort   = errors.New("reference shorter than motif length")
	ErrBadGapFraction = errors.New("gap fraction must be within [0, 0.9]")
	ErrBadShape       = errors.New("count and length must be positive")
	ErrExhausted      = errors.New("could not draw enough unique motifs")
)

// MaxGapFraction bounds Options.GapFraction.
const MaxGapFraction = 0.9

// Options describe one pattern set.
type Options struct {
	Count       int
	Length      int
	GapFraction float64 // share of each motif replaced by '.'
	Seed        uint64  // PCG seed; equal seeds give equal sets
	Unique      bool    // reject duplicate motifs
	MaxAttempts int     // draw cap when Unique; <= 0 means 100 per motif
}

// Preset is a (count, length) pair.
type Preset struct {
	Count  int
	Length int
}

// Presets are the standard benchmark sizes.
var Presets = []Preset{
	{Count: 10, Length: 10},
	{Count: 50, Length: 12},
	{Count: 200, Length: 20},
}

// FileName names the output file of a preset run.
func FileName(prefix string, count int) string {
	return fmt.Sprintf("%s_%d.txt", prefix, count)
}

// Generate draws opts.Count motifs of opts.Length from text. Each motif
// starts at a uniformly random position in [0, len(text)-Length). When
// GapFraction is positive, max(1, floor(Length*GapFraction)) distinct
// positions of the motif are replaced by '.'.
func Generate(text []byte, opts Options) ([]string, error) {
	if opts.Count <= 0 || opts.Length <= 0 {
		return nil, ErrBadShape
	}
	if opts.GapFraction < 0 || opts.GapFraction > MaxGapFraction {
		return nil, fmt.Errorf("%w: %g", ErrBadGapFraction, opts.GapFraction)
	}
	span := len(text) - opts.Length
	if span < 1 {
		return nil, fmt.Errorf("%w: %d < %d", ErrTextTooShort, len(text), opts.Length+1)
	}

	r := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	draw := func() string {
		i := r.IntN(span)
		motif := []byte(string(text[i : i+opts.Length]))
		punchGaps(r, motif, opts.GapFraction)
		return string(motif)
	}

	out := make([]string, 0, opts.Count)
	if !opts.Unique {
		for len(out) < opts.Count {
			out = append(out, draw())
		}
		return out, nil
	}

	limit := opts.MaxAttempts
	if limit <= 0 {
		limit = 100 * opts.Count
	}
	set := NewSet()
	for attempt := 0; len(out) < opts.Count; attempt++ {
		if attempt >= limit {
			return out, fmt.Errorf("%w: %d of %d after %d draws", ErrExhausted, len(out), opts.Count, limit)
		}
		if m := draw(); set.Add(m) {
			out = append(out, m)
		}
	}
	return out, nil
}

func punchGaps(r *rand.Rand, motif []byte, fraction float64) {
	if fraction <= 0 {
		return
	}
	n := max(1, int(float64(len(motif))*fraction))
	for _, i := range r.Perm(len(motif))[:n] {
		motif[i] = '.'
	}
}

// Set is a set of pattern strings backed by a patricia trie.
type Set struct {
	trie *patricia.Trie
	n    int
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{trie: patricia.NewTrie()}
}

// Add inserts p and reports whether it was new.
func (s *Set) Add(p string) bool {
	if s.trie.Insert(patricia.Prefix(p), struct{}{}) {
		s.n++
		return true
	}
	return false
}

// Contains reports whether p is in the set.
func (s *Set) Contains(p string) bool {
	return s.trie.Match(patricia.Prefix(p))
}

// Len returns the number of members.
func (s *Set) Len() int { return s.n }

// Sorted returns the members in lexicographic order.
func (s *Set) Sorted() []string {
	out := make([]string, 0, s.n)
	_ = s.trie.Visit(func(p patricia.Prefix, _ patricia.Item) error {
		out = append(out, string(p))
		return nil
	})
	slices.Sort(out)
	return out
}
