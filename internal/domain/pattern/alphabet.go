// Package pattern parses gapped nucleotide motifs into tokens and derives the
// seeds that anchor them in the multi-pattern automaton.
//
// A pattern is written as runs of nucleotides with optional gaps:
//
//	ACGT        literal
//	AA.CGG      "." skips one position, ".." two, and so on
//	A{3}T       "{k}" skips exactly k positions
//	AANAA       "N" matches any base at that position
//
// Everything else in a pattern string is ignored.
package pattern

// Symbol is an index into the fixed five-letter alphabet.
type Symbol uint8

const (
	A Symbol = iota
	C
	G
	T
	Wildcard
)

// AlphabetSize is the number of transition slots per automaton state.
const AlphabetSize = 5

var (
	symbolTable [256]Symbol
	textTable   [256]bool
)

func init() {
	for i := range symbolTable {
		symbolTable[i] = Wildcard
	}
	for b, s := range map[byte]Symbol{'A': A, 'C': C, 'G': G, 'T': T} {
		symbolTable[b] = s
		symbolTable[b+'a'-'A'] = s
	}
	for _, b := range []byte("ACGTNacgtn") {
		textTable[b] = true
	}
}

// SymbolOf maps a byte to its alphabet symbol. Anything outside A, C, G, T
// (either case) is the wildcard.
func SymbolOf(b byte) Symbol {
	return symbolTable[b]
}

// TextSymbol classifies a byte of the searched sequence. Only A, C, G, T and N
// belong to the alphabet; for any other byte ok is false and the scanner must
// drop its partial match.
func TextSymbol(b byte) (s Symbol, ok bool) {
	return symbolTable[b], textTable[b]
}

// IsBase reports whether b is one of A, C, G, T (either case).
func IsBase(b byte) bool {
	return symbolTable[b] != Wildcard
}

func (s Symbol) String() string {
	if s >= AlphabetSize {
		return "?"
	}
	return string("ACGTN"[s])
}

// upper folds ASCII lower case without allocating.
func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}
