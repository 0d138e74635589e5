// Package mutation classifies the differences between two aligned-ish
// sequences with a single greedy left-to-right pass. It is a quick
// approximation, not an alignment: each mismatch is resolved by looking one
// character ahead in both sequences.
package mutation

import "fmt"

// Kind is the class of a Change.
type Kind uint8

const (
	SNP Kind = iota
	Deletion
	Insertion
	Complex
	EndDeletion
	EndInsertion
)

var kindNames = [...]string{
	SNP:          "snp",
	Deletion:     "deletion",
	Insertion:    "insertion",
	Complex:      "complex",
	EndDeletion:  "end-deletion",
	EndInsertion: "end-insertion",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Change is one difference. PosA and PosB are the cursors into a and b when
// the change was classified. From is the affected base of a (0 if none), To
// the affected base of b (0 if none).
type Change struct {
	Kind Kind `json:"kind"`
	PosA int  `json:"pos_a"`
	PosB int  `json:"pos_b"`
	From byte `json:"from,omitempty"`
	To   byte `json:"to,omitempty"`
}

func (c Change) String() string {
	switch c.Kind {
	case SNP:
		return fmt.Sprintf("SNP at pos %d: %c -> %c", c.PosA, c.From, c.To)
	case Deletion:
		return fmt.Sprintf("Deletion at pos %d: deleted %c", c.PosA, c.From)
	case Insertion:
		return fmt.Sprintf("Insertion at pos %d: inserted %c", c.PosA, c.To)
	case Complex:
		return fmt.Sprintf("Complex mutation around pos %d/%d", c.PosA, c.PosB)
	case EndDeletion:
		return fmt.Sprintf("Deletion at end: %c", c.From)
	case EndInsertion:
		return fmt.Sprintf("Insertion at end: %c", c.To)
	}
	return c.Kind.String()
}

// Compare walks a (reference) and b (variant) with two cursors and returns
// the changes in the order they were found. Equal characters advance both
// cursors. On a mismatch:
//
//	a[i+1] == b[j+1]  SNP, advance both
//	a[i+1] == b[j]    deletion of a[i]
//	a[i]   == b[j+1]  insertion of b[j]
//	otherwise         complex, advance both
//
// Whatever remains of a once b is exhausted is reported as end deletions, and
// the remainder of b as end insertions. Comparison is byte-exact.
func Compare(a, b string) []Change {
	var changes []Change
	i, j := 0, 0
	la, lb := len(a), len(b)

	for i < la && j < lb {
		if a[i] == b[j] {
			i++
			j++
			continue
		}
		switch {
		case i+1 < la && j+1 < lb && a[i+1] == b[j+1]:
			changes = append(changes, Change{Kind: SNP, PosA: i, PosB: j, From: a[i], To: b[j]})
			i++
			j++
		case i+1 < la && a[i+1] == b[j]:
			changes = append(changes, Change{Kind: Deletion, PosA: i, PosB: j, From: a[i]})
			i++
		case j+1 < lb && a[i] == b[j+1]:
			changes = append(changes, Change{Kind: Insertion, PosA: i, PosB: j, To: b[j]})
			j++
		default:
			changes = append(changes, Change{Kind: Complex, PosA: i, PosB: j, From: a[i], To: b[j]})
			i++
			j++
		}
	}
	for ; i < la; i++ {
		changes = append(changes, Change{Kind: EndDeletion, PosA: i, PosB: j, From: a[i]})
	}
	for ; j < lb; j++ {
		changes = append(changes, Change{Kind: EndInsertion, PosA: i, PosB: j, To: b[j]})
	}
	return changes
}

// Counts tallies changes by kind.
func Counts(changes []Change) map[Kind]int {
	out := make(map[Kind]int)
	for _, c := range changes {
		out[c.Kind]++
	}
	return out
}
