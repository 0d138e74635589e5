package automaton

import (
	"bufio"
	"fmt"
	"io"

	"github.com/corey/gapseek/internal/domain/pattern"
)

// WriteDOT renders the automaton as a Graphviz digraph. Only states with an
// index below limit are drawn; limit <= 0 draws every state. Root self-loops
// are omitted and failure links are dashed.
func (a *Automaton) WriteDOT(w io.Writer, limit int) error {
	n := len(a.states)
	if limit > 0 && limit < n {
		n = limit
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph aho {")
	fmt.Fprintln(bw, "  rankdir=LR;")
	fmt.Fprintln(bw, "  node [shape=circle,fontname=Helvetica];")

	for i := 0; i < n; i++ {
		if out := len(a.states[i].out); out > 0 {
			fmt.Fprintf(bw, "  n%d [label=\"%d\\nout=%d\",style=filled,fillcolor=lightblue];\n", i, i, out)
		} else {
			fmt.Fprintf(bw, "  n%d [label=\"%d\"];\n", i, i)
		}
	}

	for i := 0; i < n; i++ {
		for c, nxt := range a.states[i].next {
			if nxt == noEdge || int(nxt) >= n || (i == root && nxt == root) {
				continue
			}
			fmt.Fprintf(bw, "  n%d -> n%d [label=\"%s\"];\n", i, nxt, pattern.Symbol(c))
		}
	}

	for i := 1; i < n; i++ {
		if f := int(a.states[i].fail); f < n {
			fmt.Fprintf(bw, "  n%d -> n%d [style=dashed,color=gray,label=\"f\"];\n", i, f)
		}
	}

	fmt.Fprintln(bw, "}")
	return bw.Flush()
}
