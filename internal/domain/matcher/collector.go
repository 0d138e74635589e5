package matcher

// Collector accumulates verified matches in the order they are reported.
//
// The same occurrence is reported once per seed of its pattern that fires,
// so without Dedup a pattern with several seeds yields repeated intervals.
type Collector struct {
	matches []Match
	seen    map[Match]struct{} // nil unless deduplicating
}

// NewCollector returns an empty collector. With dedup set, each
// (pattern, start, end) triple is kept only the first time it is added.
func NewCollector(dedup bool) *Collector {
	c := &Collector{}
	if dedup {
		c.seen = make(map[Match]struct{})
	}
	return c
}

// Add records m. It returns false when m was dropped as a duplicate.
func (c *Collector) Add(m Match) bool {
	if c.seen != nil {
		if _, dup := c.seen[m]; dup {
			return false
		}
		c.seen[m] = struct{}{}
	}
	c.matches = append(c.matches, m)
	return true
}

// Count returns the number of recorded matches.
func (c *Collector) Count() int { return len(c.matches) }

// Matches returns the recorded matches in report order. The slice is shared;
// callers must not modify it.
func (c *Collector) Matches() []Match { return c.matches }

// ByPattern groups the matches by pattern ID, preserving report order within
// each group.
func (c *Collector) ByPattern() map[int][]Match {
	out := make(map[int][]Match)
	for _, m := range c.matches {
		out[m.PatternID] = append(out[m.PatternID], m)
	}
	return out
}
