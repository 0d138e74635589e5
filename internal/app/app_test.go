package app

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/gapseek/internal/adapters/ahocorasick"
	"github.com/corey/gapseek/internal/adapters/fasta"
	"github.com/corey/gapseek/internal/config"
	"github.com/corey/gapseek/internal/domain/matcher"
	"github.com/corey/gapseek/internal/ports"
)

// =============================================================================
// Fixtures
// =============================================================================

type fixture struct {
	dir      string
	fasta    string
	patterns string
	logs     *bytes.Buffer
}

func newFixture(t *testing.T, genome string, patterns ...string) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{
		dir:      dir,
		fasta:    filepath.Join(dir, "genome.fa"),
		patterns: filepath.Join(dir, "patterns.txt"),
		logs:     &bytes.Buffer{},
	}
	require.NoError(t, os.WriteFile(f.fasta, []byte(">chr1\n"+genome+"\n"), 0644))
	require.NoError(t, fasta.WritePatterns(f.patterns, patterns))
	return f
}

func (f *fixture) app(t *testing.T, mutate func(*config.Config)) *App {
	t.Helper()
	settings := config.DefaultConfig()
	if mutate != nil {
		mutate(settings)
	}
	a, err := New(Config{
		ProjectRoot: f.dir,
		Settings:    settings,
		Logger:      log.NewWithOptions(f.logs, log.Options{Level: log.DebugLevel}),
	})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func (f *fixture) request() SearchRequest {
	return SearchRequest{FastaPath: f.fasta, PatternsPath: f.patterns, Options: matcher.Options{MinSeed: 3}}
}

// =============================================================================
// Search
// =============================================================================

func TestNew_RequiresProjectRoot(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestSearch_Basic(t *testing.T) {
	f := newFixture(t, "ACGTACGT", "acgt")
	a := f.app(t, nil)

	out, err := a.Search(f.request())
	require.NoError(t, err)
	assert.Equal(t, []string{"ACGT"}, out.Patterns)
	assert.Equal(t, []matcher.Match{{PatternID: 0, Start: 0, End: 4}, {PatternID: 0, Start: 4, End: 8}}, out.Result.Matches)
	assert.Zero(t, out.RunID)
	assert.Nil(t, a.Store)
}

func TestSearch_LogsRejectedAndUnseedable(t *testing.T) {
	f := newFixture(t, "ACGTACGT", "AC{x}GT", "...", "ACGT")
	a := f.app(t, nil)

	out, err := a.Search(f.request())
	require.NoError(t, err)
	assert.Equal(t, 1, out.Result.Stats.Rejected)
	assert.Equal(t, 1, out.Result.Stats.Unseedable)
	assert.Len(t, out.Result.Matches, 2)

	logs := f.logs.String()
	assert.Contains(t, logs, "pattern rejected")
	assert.Contains(t, logs, "cannot match")
}

func TestSearch_MissingInput(t *testing.T) {
	f := newFixture(t, "ACGT", "ACGT")
	a := f.app(t, nil)

	req := f.request()
	req.FastaPath = filepath.Join(f.dir, "missing.fa")
	_, err := a.Search(req)
	assert.ErrorIs(t, err, fasta.ErrInputUnavailable)

	req = f.request()
	req.PatternsPath = filepath.Join(f.dir, "missing.txt")
	_, err = a.Search(req)
	assert.ErrorIs(t, err, fasta.ErrInputUnavailable)
}

func TestSearch_SavesRun(t *testing.T) {
	f := newFixture(t, "AACCGGTT", "AA.CGG", "GGTT")
	a := f.app(t, func(c *config.Config) { c.Store.Enabled = true })
	require.NotNil(t, a.Store)
	assert.FileExists(t, filepath.Join(f.dir, ".gapseek", "runs.db"))

	req := f.request()
	req.Options.MinSeed = 2
	req.Save = true
	out, err := a.Search(req)
	require.NoError(t, err)
	require.NotZero(t, out.RunID)

	stored, err := a.Run(out.RunID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, []string{"AA.CGG", "GGTT"}, stored.Patterns)
	assert.Equal(t, 2, stored.MinSeed)
	assert.Equal(t, out.Result.Matches, ResultFromRun(stored).Matches)

	runs, err := a.Runs()
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	require.NoError(t, a.DeleteRun(out.RunID))
	stored, err = a.Run(out.RunID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestRuns_WithoutStore(t *testing.T) {
	f := newFixture(t, "ACGT", "ACGT")
	a := f.app(t, nil)

	_, err := a.Runs()
	assert.ErrorIs(t, err, ErrNoStore)
	_, err = a.Run(1)
	assert.ErrorIs(t, err, ErrNoStore)
	assert.ErrorIs(t, a.DeleteRun(1), ErrNoStore)
}

func TestRunReport_RoundTrip(t *testing.T) {
	res := &matcher.Result{
		Matches: []matcher.Match{{PatternID: 1, Start: 5, End: 9}},
		Stats:   matcher.Stats{Patterns: 2, Nodes: 4, Matches: 1},
	}
	req := SearchRequest{FastaPath: "a.fa", PatternsPath: "p.txt", Options: matcher.Options{MinSeed: 4, Dedup: true}}
	r, err := NewRunReport(req, []string{"A", "ACGT"}, res)
	require.NoError(t, err)

	assert.Equal(t, "a.fa", r.FastaPath)
	assert.True(t, r.Dedup)
	assert.Equal(t, []ports.MatchRecord{{PatternID: 1, Start: 5, End: 9}}, r.Matches)
	assert.Equal(t, res, ResultFromRun(r))
}

func TestRunReport_RejectsPositionsPast32Bits(t *testing.T) {
	req := SearchRequest{FastaPath: "big.fa", PatternsPath: "p.txt"}

	_, err := NewRunReport(req, []string{"A"}, &matcher.Result{
		Stats: matcher.Stats{TextLength: math.MaxUint32 + 1},
	})
	assert.ErrorIs(t, err, ErrRunTooLarge)

	_, err = NewRunReport(req, []string{"A"}, &matcher.Result{
		Matches: []matcher.Match{{PatternID: 0, Start: math.MaxUint32, End: math.MaxUint32 + 1}},
	})
	assert.ErrorIs(t, err, ErrRunTooLarge)

	r, err := NewRunReport(req, []string{"A"}, &matcher.Result{
		Matches: []matcher.Match{{PatternID: 0, Start: math.MaxUint32 - 1, End: math.MaxUint32}},
		Stats:   matcher.Stats{TextLength: math.MaxUint32},
	})
	require.NoError(t, err)
	assert.Equal(t, uint32(math.MaxUint32), r.Matches[0].End)
}

// =============================================================================
// Crosscheck
// =============================================================================

func TestCrosscheck_Agrees(t *testing.T) {
	f := newFixture(t, "GATTACAGATTACA", "GATTACA", "TTA", "GA.TA", "ACAG")
	a := f.app(t, nil)

	req := f.request()
	req.Crosscheck = true
	out, err := a.Search(req)
	require.NoError(t, err)
	assert.Empty(t, out.Discrepancies)
}

type fakeExact []ports.TextMatch

func (f fakeExact) Scan([]byte) []ports.TextMatch { return f }

func TestCrosscheck_ReportsBothSides(t *testing.T) {
	text := []byte("ACGTACGT")
	e := matcher.NewEngine([]string{"ACGT", "AC.T"}, matcher.Options{})
	res := e.Run(text)

	var gotEntries []ahocorasick.Entry
	build := func(entries []ahocorasick.Entry) ports.ExactMatcher {
		gotEntries = entries
		return fakeExact{{PatternID: 0, Start: 0, End: 4}, {PatternID: 0, Start: 2, End: 6}}
	}

	d := Crosscheck(e, res, text, build)
	assert.Equal(t, []ahocorasick.Entry{{ID: 0, Pattern: "ACGT"}}, gotEntries, "only plain patterns are checked")
	assert.Equal(t, []Discrepancy{
		{PatternID: 0, Start: 2, End: 6, OnlyIn: OnlyLibrary},
		{PatternID: 0, Start: 4, End: 8, OnlyIn: OnlyEngine},
	}, d)
}

func TestCrosscheck_NoPlainPatterns(t *testing.T) {
	e := matcher.NewEngine([]string{"A.C"}, matcher.Options{})
	called := false
	d := Crosscheck(e, e.Run([]byte("AGC")), []byte("AGC"), func([]ahocorasick.Entry) ports.ExactMatcher {
		called = true
		return fakeExact{}
	})
	assert.Nil(t, d)
	assert.False(t, called)
}

func writePatterns(path string, patterns ...string) error {
	return fasta.WritePatterns(path, patterns)
}
