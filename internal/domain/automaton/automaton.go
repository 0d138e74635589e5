// Package automaton implements an Aho-Corasick automaton over the five-letter
// nucleotide alphabet. It is built once from the seeds of all patterns and
// scanned once over the text; every seed occurrence fires a Hit.
//
// States live in a flat arena addressed by index. Root is state 0. Each state
// carries its explicit transitions, one failure link and the full output set
// inherited through the failure chain, so the scan never walks outputs of
// other states.
package automaton

import (
	"iter"
	"sync/atomic"

	"github.com/corey/gapseek/internal/domain/pattern"
)

const (
	root   = 0
	noEdge = -1
)

// Output identifies the seed completed at a state.
type Output struct {
	PatternID int
	Offset    int // seed start within its pattern
	Length    int // seed length
}

// Hit is one seed occurrence. End is the text index of the seed's last symbol.
type Hit struct {
	End int
	Output
}

type state struct {
	next [pattern.AlphabetSize]int32
	fail int32
	out  []Output
}

func newState() state {
	s := state{}
	for i := range s.next {
		s.next[i] = noEdge
	}
	return s
}

// Automaton is immutable after construction and safe for concurrent scans.
type Automaton struct {
	states []state
	seeds  int
}

// Builder accumulates seeds before the failure links are computed.
type Builder struct {
	states []state
	seeds  int
	built  bool
}

// NewBuilder returns a builder holding only the root state.
func NewBuilder() *Builder {
	return &Builder{states: []state{newState()}}
}

// Add inserts one seed into the trie and attaches its output record to the
// terminal state. Add panics after Build.
func (b *Builder) Add(s pattern.Seed) {
	if b.built {
		panic("automaton: Add after Build")
	}
	cur := int32(root)
	for i := 0; i < len(s.Content); i++ {
		c := pattern.SymbolOf(s.Content[i])
		nxt := b.states[cur].next[c]
		if nxt == noEdge {
			nxt = int32(len(b.states))
			b.states = append(b.states, newState())
			b.states[cur].next[c] = nxt
		}
		cur = nxt
	}
	b.states[cur].out = append(b.states[cur].out, Output{
		PatternID: s.PatternID,
		Offset:    s.Offset,
		Length:    s.Length,
	})
	b.seeds++
}

// Build computes failure links breadth-first and closes every output set over
// its failure chain. Root's missing transitions become self-loops so that the
// failure walk always terminates.
func (b *Builder) Build() *Automaton {
	b.built = true
	states := b.states

	queue := make([]int32, 0, len(states))
	for c := 0; c < pattern.AlphabetSize; c++ {
		child := states[root].next[c]
		if child == noEdge {
			states[root].next[c] = root
			continue
		}
		states[child].fail = root
		queue = append(queue, child)
	}

	for head := 0; head < len(queue); head++ {
		r := queue[head]
		for c := 0; c < pattern.AlphabetSize; c++ {
			u := states[r].next[c]
			if u == noEdge {
				continue
			}
			queue = append(queue, u)

			v := states[r].fail
			for states[v].next[c] == noEdge {
				v = states[v].fail
			}
			f := states[v].next[c]
			states[u].fail = f
			// f precedes u in BFS order, so its set is already closed.
			if inherited := states[f].out; len(inherited) > 0 {
				states[u].out = append(states[u].out, inherited...)
			}
		}
	}

	return &Automaton{states: states, seeds: b.seeds}
}

// New builds an automaton from seeds in one step.
func New(seeds []pattern.Seed) *Automaton {
	b := NewBuilder()
	for _, s := range seeds {
		b.Add(s)
	}
	return b.Build()
}

// NodeCount returns the number of states, root included.
func (a *Automaton) NodeCount() int { return len(a.states) }

// SeedCount returns the number of seeds inserted.
func (a *Automaton) SeedCount() int { return a.seeds }

// step advances from cur on symbol c, following failure links as needed.
func (a *Automaton) step(cur int32, c pattern.Symbol) int32 {
	for a.states[cur].next[c] == noEdge {
		cur = a.states[cur].fail
	}
	return a.states[cur].next[c]
}

// Scan runs the automaton over text once, calling fn for every output of
// every state reached, in text order. A byte outside the alphabet resets the
// automaton to the root. Scan stops early when fn returns false.
func (a *Automaton) Scan(text []byte, fn func(Hit) bool) {
	cur := int32(root)
	for i := 0; i < len(text); i++ {
		c, ok := pattern.TextSymbol(text[i])
		if !ok {
			cur = root
			continue
		}
		cur = a.step(cur, c)
		for _, o := range a.states[cur].out {
			if !fn(Hit{End: i, Output: o}) {
				return
			}
		}
	}
}

// Hits returns the seed occurrences of text as a lazy sequence ordered by
// end index. The sequence is single-use: only the first range scans, later
// ranges yield nothing.
func (a *Automaton) Hits(text []byte) iter.Seq[Hit] {
	var used atomic.Bool
	return func(yield func(Hit) bool) {
		if used.Swap(true) {
			return
		}
		a.Scan(text, yield)
	}
}
