package pattern

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidGapLength is returned for a "{k}" gap whose k is negative, not a
// number, or so large that the pattern span would overflow int.
var ErrInvalidGapLength = errors.New("invalid gap length")

// TokenKind tags a Token as a literal run or a gap.
type TokenKind uint8

const (
	Literal TokenKind = iota
	Gap
)

func (k TokenKind) String() string {
	if k == Gap {
		return "gap"
	}
	return "literal"
}

// Token is one element of a tokenized pattern: either a run of literal
// nucleotides (upper case, N allowed) or a gap of fixed length.
type Token struct {
	Kind    TokenKind
	Literal string
	Gap     int
}

// NewLiteral returns a literal token for run, upper-cased.
func NewLiteral(run string) Token {
	return Token{Kind: Literal, Literal: strings.ToUpper(run)}
}

// NewGap returns a gap token of length k. Negative lengths are rejected.
func NewGap(k int) (Token, error) {
	if k < 0 {
		return Token{}, fmt.Errorf("%w: %d", ErrInvalidGapLength, k)
	}
	return Token{Kind: Gap, Gap: k}, nil
}

// Len is the number of text positions the token spans.
func (t Token) Len() int {
	if t.Kind == Gap {
		return t.Gap
	}
	return len(t.Literal)
}

func (t Token) String() string {
	if t.Kind == Gap {
		return fmt.Sprintf("{%d}", t.Gap)
	}
	return t.Literal
}

func isLiteralByte(b byte) bool {
	switch upper(b) {
	case 'A', 'C', 'G', 'T', 'N':
		return true
	}
	return false
}

// Tokenize splits a gapped pattern into literal and gap tokens, left to right.
//
//   - a run of A/C/G/T/N (either case) is one literal token
//   - a run of '.' is a gap of the run's length
//   - "{k}" is a gap of length k
//   - a '{' without a closing '}' is a gap of length 1 and consumes only the brace
//   - any other byte is skipped
//
// The only error is ErrInvalidGapLength for a braced gap that is not a
// non-negative integer or that pushes the total span past math.MaxInt.
func Tokenize(s string) ([]Token, error) {
	var toks []Token
	span := 0 // literal and dot runs are bounded by len(s)
	n := len(s)
	for i := 0; i < n; {
		c := s[i]
		switch {
		case isLiteralByte(c):
			j := i
			for j < n && isLiteralByte(s[j]) {
				j++
			}
			toks = append(toks, NewLiteral(s[i:j]))
			span += j - i
			i = j

		case c == '.':
			j := i
			for j < n && s[j] == '.' {
				j++
			}
			toks = append(toks, Token{Kind: Gap, Gap: j - i})
			span += j - i
			i = j

		case c == '{':
			end := strings.IndexByte(s[i+1:], '}')
			if end < 0 {
				// Unterminated brace.
				toks = append(toks, Token{Kind: Gap, Gap: 1})
				span++
				i++
				continue
			}
			body := s[i+1 : i+1+end]
			k, err := strconv.Atoi(strings.TrimSpace(body))
			if err != nil {
				return nil, fmt.Errorf("%w: {%s}", ErrInvalidGapLength, body)
			}
			gap, err := NewGap(k)
			if err != nil {
				return nil, err
			}
			// Remaining bytes of s can add at most n-i more positions.
			if k > math.MaxInt-span-n {
				return nil, fmt.Errorf("%w: {%s} overflows pattern span", ErrInvalidGapLength, body)
			}
			span += k
			toks = append(toks, gap)
			i += end + 2

		default:
			i++
		}
	}
	return toks, nil
}

// SpanOf sums the lengths of all tokens.
func SpanOf(toks []Token) int {
	total := 0
	for _, t := range toks {
		total += t.Len()
	}
	return total
}
