package matcher

import (
	"math"
	"math/rand/v2"
	"sort"
	"strings"
	"testing"

	"github.com/corey/gapseek/internal/domain/automaton"
	"github.com/corey/gapseek/internal/domain/pattern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, text string, minSeed int, patterns ...string) *Result {
	t.Helper()
	e := NewEngine(patterns, Options{MinSeed: minSeed})
	return e.Run([]byte(text))
}

func compile(t *testing.T, src string) *pattern.Pattern {
	t.Helper()
	p, _, err := pattern.Compile(0, src, pattern.DefaultMinSeed)
	require.NoError(t, err)
	return p
}

// hitFor builds the seed hit that anchors src at start via its first token.
func hitFor(p *pattern.Pattern, start int) automaton.Hit {
	n := p.Tokens[0].Len()
	return automaton.Hit{End: start + n - 1, Output: automaton.Output{PatternID: p.ID, Offset: 0, Length: n}}
}

// =============================================================================
// Scenarios
// =============================================================================

func TestScenario_PlainPattern(t *testing.T) {
	res := run(t, "ACGTACGT", 3, "ACGT")
	assert.Equal(t, []Match{{0, 0, 4}, {0, 4, 8}}, res.Matches)
	assert.Equal(t, 2, res.Stats.Matches)
}

func TestScenario_DotGap(t *testing.T) {
	res := run(t, "AACCGGTT", 2, "AA.CGG")
	require.NotEmpty(t, res.Matches)
	for _, m := range res.Matches {
		assert.Equal(t, Match{0, 0, 6}, m)
	}
	// Both seeds ("AA" and "CGG") anchor the same occurrence.
	assert.Len(t, res.Matches, 2)
}

func TestScenario_BraceGapSkipsContent(t *testing.T) {
	res := run(t, "AXXXT", 3, "A{3}T")
	assert.Equal(t, []Match{{0, 0, 5}}, res.Matches)
}

func TestScenario_PatternWildcard(t *testing.T) {
	for _, text := range []string{"AAAAA", "AACAA"} {
		res := run(t, text, 3, "AANAA")
		assert.Equal(t, []Match{{0, 0, 5}}, res.Matches, text)
	}
}

func TestScenario_LiteralRejectsUnmappedText(t *testing.T) {
	p := compile(t, "AAGAA")
	for _, text := range []string{"AAXAA", "AANAA"} {
		_, ok := Verify([]byte(text), hitFor(p, 0), p)
		assert.False(t, ok, text)
	}
	_, ok := Verify([]byte("AAGAA"), hitFor(p, 0), p)
	assert.True(t, ok)
}

func TestScenario_FallbackSeedMatches(t *testing.T) {
	e := NewEngine([]string{"AC"}, Options{MinSeed: 3})
	assert.Equal(t, 1, e.Automaton().SeedCount())
	res := e.Run([]byte("GACGAC"))
	assert.Equal(t, []Match{{0, 1, 3}, {0, 4, 6}}, res.Matches)
}

// =============================================================================
// Verifier
// =============================================================================

func TestVerify_OutOfRange(t *testing.T) {
	p := compile(t, "ACG..T")
	text := []byte("ACGTTT")

	// Seed "ACG" reported too close to the start.
	_, ok := Verify(text, automaton.Hit{End: 1, Output: automaton.Output{Offset: 0, Length: 3}}, p)
	assert.False(t, ok)

	// Candidate running past the end.
	_, ok = Verify([]byte("ACGTT"), automaton.Hit{End: 2, Output: automaton.Output{Offset: 0, Length: 3}}, p)
	assert.False(t, ok)

	m, ok := Verify(text, automaton.Hit{End: 2, Output: automaton.Output{Offset: 0, Length: 3}}, p)
	assert.True(t, ok)
	assert.Equal(t, Match{0, 0, 6}, m)
}

func TestVerify_HugePatternLengthRejected(t *testing.T) {
	// Built by hand: Compile refuses spans this large.
	p := &pattern.Pattern{
		Tokens: []pattern.Token{pattern.NewLiteral("ACG"), {Kind: pattern.Gap, Gap: math.MaxInt - 3}},
		Length: math.MaxInt,
	}
	_, ok := Verify([]byte("ACGTTTTT"), hitFor(p, 0), p)
	assert.False(t, ok)
}

func TestVerify_CaseInsensitive(t *testing.T) {
	p := compile(t, "ACGT")
	_, ok := Verify([]byte("acgt"), hitFor(p, 0), p)
	assert.True(t, ok)
}

func TestVerify_GapContentNeverMatters(t *testing.T) {
	p := compile(t, "GA{4}TC..A")
	r := rand.New(rand.NewPCG(7, 7))
	const fill = "ACGTNX-*acgt"
	for i := 0; i < 200; i++ {
		text := []byte("GA????TC??A")
		for j := range text {
			if text[j] == '?' {
				text[j] = fill[r.IntN(len(fill))]
			}
		}
		m, ok := Verify(text, hitFor(p, 0), p)
		require.True(t, ok, string(text))
		assert.Equal(t, Match{0, 0, 11}, m)
	}
}

func TestCandidateStart(t *testing.T) {
	h := automaton.Hit{End: 10, Output: automaton.Output{Offset: 4, Length: 3}}
	assert.Equal(t, 4, CandidateStart(h))
}

// =============================================================================
// Collector
// =============================================================================

func TestCollector_KeepsDuplicates(t *testing.T) {
	c := NewCollector(false)
	assert.True(t, c.Add(Match{0, 1, 4}))
	assert.True(t, c.Add(Match{0, 1, 4}))
	assert.Equal(t, 2, c.Count())
}

func TestCollector_Dedup(t *testing.T) {
	c := NewCollector(true)
	assert.True(t, c.Add(Match{0, 1, 4}))
	assert.False(t, c.Add(Match{0, 1, 4}))
	assert.True(t, c.Add(Match{1, 1, 4}))
	assert.Equal(t, []Match{{0, 1, 4}, {1, 1, 4}}, c.Matches())
}

func TestCollector_ByPattern(t *testing.T) {
	c := NewCollector(false)
	c.Add(Match{1, 0, 2})
	c.Add(Match{0, 3, 5})
	c.Add(Match{1, 4, 6})
	assert.Equal(t, map[int][]Match{
		0: {{0, 3, 5}},
		1: {{1, 0, 2}, {1, 4, 6}},
	}, c.ByPattern())
}

// =============================================================================
// Engine
// =============================================================================

func TestEngine_DedupOption(t *testing.T) {
	e := NewEngine([]string{"AA.CGG"}, Options{MinSeed: 2, Dedup: true})
	res := e.Run([]byte("AACCGGTT"))
	assert.Equal(t, []Match{{0, 0, 6}}, res.Matches)
}

func TestEngine_UnseedableAndRejected(t *testing.T) {
	e := NewEngine([]string{"{3}", "AC{-1}GT", "ACGT"}, Options{})
	assert.Equal(t, []int{0}, e.Unseedable())
	require.Len(t, e.Rejected(), 1)
	assert.Equal(t, 1, e.Rejected()[0].PatternID)
	assert.ErrorIs(t, e.Rejected()[0].Err, pattern.ErrInvalidGapLength)
	assert.Nil(t, e.Pattern(1))

	res := e.Run([]byte("TTACGTTT"))
	assert.Equal(t, []Match{{2, 2, 6}}, res.Matches)
	assert.Equal(t, 3, res.Stats.Patterns)
	assert.Equal(t, 1, res.Stats.Unseedable)
	assert.Equal(t, 1, res.Stats.Rejected)
}

func TestEngine_OverflowingGapIsRejected(t *testing.T) {
	pats := []string{"ACG{9223372036854775807}T", "ACG{9223372036854775805}", "ACG"}
	e := NewEngine(pats, Options{})
	require.Len(t, e.Rejected(), 2)
	for _, r := range e.Rejected() {
		assert.ErrorIs(t, r.Err, pattern.ErrInvalidGapLength)
	}

	var res *Result
	require.NotPanics(t, func() { res = e.Run([]byte("ACGTTTTT")) })
	assert.Equal(t, []Match{{2, 0, 3}}, res.Matches)
}

func TestEngine_DefaultMinSeed(t *testing.T) {
	e := NewEngine(nil, Options{})
	assert.Equal(t, pattern.DefaultMinSeed, e.Options().MinSeed)
	res := e.Run([]byte("ACGT"))
	assert.Empty(t, res.Matches)
	assert.Equal(t, 1, res.Stats.Nodes)
}

func TestEngine_StatsAndDeterminism(t *testing.T) {
	pats := []string{"GATTACA", "TA.A", "C{2}GG", "NNACG"}
	text := []byte(strings.Repeat("GATTACAGGCCGGACGTTAGA", 20))

	a := NewEngine(pats, Options{})
	b := NewEngine(pats, Options{})
	ra, rb := a.Run(text), b.Run(text)

	assert.Equal(t, ra.Matches, rb.Matches)
	assert.Equal(t, ra.Stats.Nodes, rb.Stats.Nodes)
	assert.Equal(t, len(text), ra.Stats.TextLength)
	assert.Equal(t, len(ra.Matches), ra.Stats.Matches)
	assert.Equal(t, 4, ra.Stats.Patterns)
}

func TestEngine_MatchesStayInBounds(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 9))
	text := make([]byte, 500)
	for i := range text {
		text[i] = "ACGTN"[r.IntN(5)]
	}
	pats := []string{"AC.G", "T{3}A", "GG", "A", "CNNC", "..TT.."}
	res := NewEngine(pats, Options{MinSeed: 2}).Run(text)

	require.NotEmpty(t, res.Matches)
	for _, m := range res.Matches {
		assert.GreaterOrEqual(t, m.Start, 0)
		assert.LessOrEqual(t, m.End, len(text))
		p := compile(t, pats[m.PatternID])
		assert.Equal(t, p.Length, m.Len())
	}
}

func TestEngine_AgreesWithBruteForce(t *testing.T) {
	r := rand.New(rand.NewPCG(11, 5))
	letters := "ACGT"
	for round := 0; round < 30; round++ {
		text := make([]byte, 300)
		for i := range text {
			text[i] = "ACGTNX"[r.IntN(6)]
		}
		var pats []string
		for len(pats) < 6 {
			var b strings.Builder
			n := 2 + r.IntN(6)
			for j := 0; j < n; j++ {
				switch r.IntN(6) {
				case 0:
					b.WriteByte('.')
				case 1:
					b.WriteByte('N')
				default:
					b.WriteByte(letters[r.IntN(4)])
				}
			}
			// An all-wildcard pattern is anchored on N and only fires on text N.
			if strings.ContainsAny(b.String(), letters) {
				pats = append(pats, b.String())
			}
		}

		got := NewEngine(pats, Options{MinSeed: 2, Dedup: true}).Run(text).Matches
		want := bruteForce(t, text, pats)
		sortMatches(got)
		sortMatches(want)
		require.Equal(t, want, got, "round %d patterns %q", round, pats)
	}
}

// bruteForce verifies every pattern with literal content at every start.
func bruteForce(t *testing.T, text []byte, pats []string) []Match {
	var out []Match
	for id, src := range pats {
		p, _, err := pattern.Compile(id, src, 1)
		require.NoError(t, err)
		if !p.HasLiteral() {
			continue
		}
		for start := 0; start+p.Length <= len(text); start++ {
			if ok := verifyAt(text, start, p); ok {
				out = append(out, Match{id, start, start + p.Length})
			}
		}
	}
	return out
}

func verifyAt(text []byte, start int, p *pattern.Pattern) bool {
	pos := start
	for _, tok := range p.Tokens {
		if tok.Kind == pattern.Gap {
			pos += tok.Gap
			continue
		}
		for i := 0; i < len(tok.Literal); i++ {
			if tok.Literal[i] == 'N' {
				continue
			}
			if text[pos+i] != tok.Literal[i] {
				return false
			}
		}
		pos += len(tok.Literal)
	}
	return true
}

func sortMatches(m []Match) {
	sort.Slice(m, func(i, j int) bool {
		if m[i].PatternID != m[j].PatternID {
			return m[i].PatternID < m[j].PatternID
		}
		return m[i].Start < m[j].Start
	})
}
