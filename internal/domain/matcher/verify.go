package matcher

import (
	"github.com/corey/gapseek/internal/domain/automaton"
	"github.com/corey/gapseek/internal/domain/pattern"
)

// Match is a verified pattern occurrence, half-open [Start, End) in text
// coordinates.
type Match struct {
	PatternID int `json:"pattern_id" msgpack:"p"`
	Start     int `json:"start" msgpack:"s"`
	End       int `json:"end" msgpack:"e"`
}

// Len returns the span of the match.
func (m Match) Len() int { return m.End - m.Start }

// CandidateStart places the pattern relative to a seed hit.
func CandidateStart(h automaton.Hit) int {
	return h.End - (h.Length - 1) - h.Offset
}

// Verify reconstructs the full-pattern candidate anchored by h and checks it
// token by token. Literal characters compare case-insensitively; a pattern N
// accepts any text byte, while any other literal rejects text bytes outside
// A, C, G, T. Gaps accept anything. Candidates that would start before the
// text or run past its end are rejected.
func Verify(text []byte, h automaton.Hit, p *pattern.Pattern) (Match, bool) {
	start := CandidateStart(h)
	if start < 0 || p.Length > len(text)-start {
		return Match{}, false
	}

	pos := start
	for _, tok := range p.Tokens {
		if tok.Kind == pattern.Gap {
			pos += tok.Gap
			continue
		}
		for i := 0; i < len(tok.Literal); i++ {
			pc := tok.Literal[i]
			if pc == 'N' {
				continue
			}
			tc := text[pos+i]
			if !pattern.IsBase(tc) || pattern.SymbolOf(tc) != pattern.SymbolOf(pc) {
				return Match{}, false
			}
		}
		pos += len(tok.Literal)
	}
	return Match{PatternID: p.ID, Start: start, End: start + p.Length}, true
}
