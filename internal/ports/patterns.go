package ports

// ExactMatcher finds ungapped, wildcard-free patterns in text using a
// library multi-pattern automaton. It is an independent reference for the
// gapped matcher: both must agree on every plain pattern.
type ExactMatcher interface {
	// Scan returns every occurrence of every pattern, overlaps included.
	// Returns nil if nothing matches.
	Scan(text []byte) []TextMatch
}

// TextMatch is an exact occurrence of pattern PatternID at [Start, End).
type TextMatch struct {
	PatternID int
	Start     int
	End       int
}
