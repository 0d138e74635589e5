package pattern

// DefaultMinSeed is the minimum seed length used when none is configured.
const DefaultMinSeed = 3

// Pattern is a tokenized motif. Length is the total span of its tokens.
type Pattern struct {
	ID     int
	Source string
	Tokens []Token
	Length int
}

// Seed is a gap-free, wildcard-free piece of a pattern used as an automaton
// anchor. Offset is the seed's start relative to the pattern start.
type Seed struct {
	Content   string
	PatternID int
	Offset    int
	Length    int
}

// Compile tokenizes source and extracts its seeds.
func Compile(id int, source string, minSeed int) (*Pattern, []Seed, error) {
	toks, err := Tokenize(source)
	if err != nil {
		return nil, nil, err
	}
	p := &Pattern{
		ID:     id,
		Source: source,
		Tokens: toks,
		Length: SpanOf(toks),
	}
	return p, ExtractSeeds(p, minSeed), nil
}

// HasLiteral reports whether the pattern contains any literal content.
func (p *Pattern) HasLiteral() bool {
	for _, t := range p.Tokens {
		if t.Kind == Literal && len(t.Literal) > 0 {
			return true
		}
	}
	return false
}

// IsPlain reports whether the pattern is a single literal with no wildcard,
// i.e. an exact substring query.
func (p *Pattern) IsPlain() bool {
	if len(p.Tokens) != 1 || p.Tokens[0].Kind != Literal {
		return false
	}
	for i := 0; i < len(p.Tokens[0].Literal); i++ {
		if !IsBase(p.Tokens[0].Literal[i]) {
			return false
		}
	}
	return len(p.Tokens[0].Literal) > 0
}

// ExtractSeeds selects the anchors of p. Every maximal wildcard-free run of a
// literal token at least minSeed long becomes a seed. If none qualifies, the
// first non-empty run is used regardless of length, and if every literal
// character is a wildcard the first non-empty literal token is used as is.
// A pattern without literal content yields no seeds and can never match.
func ExtractSeeds(p *Pattern, minSeed int) []Seed {
	if minSeed < 1 {
		minSeed = 1
	}

	var (
		seeds    []Seed
		firstRun *Seed
		firstLit *Seed
		offset   int
	)
	for _, tok := range p.Tokens {
		if tok.Kind == Gap {
			offset += tok.Gap
			continue
		}
		lit := tok.Literal
		if firstLit == nil && len(lit) > 0 {
			firstLit = &Seed{Content: lit, PatternID: p.ID, Offset: offset, Length: len(lit)}
		}
		for i := 0; i < len(lit); {
			if !IsBase(lit[i]) {
				i++
				continue
			}
			j := i
			for j < len(lit) && IsBase(lit[j]) {
				j++
			}
			s := Seed{Content: lit[i:j], PatternID: p.ID, Offset: offset + i, Length: j - i}
			if firstRun == nil {
				firstRun = &s
			}
			if s.Length >= minSeed {
				seeds = append(seeds, s)
			}
			i = j
		}
		offset += len(lit)
	}

	if len(seeds) > 0 {
		return seeds
	}
	switch {
	case firstRun != nil:
		return []Seed{*firstRun}
	case firstLit != nil:
		return []Seed{*firstLit}
	}
	return nil
}
