// Package printer renders an ETDG in Graphviz DOT syntax.
package printer

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/tdg/internal/etdg"
)

// WriteDOT writes g as a digraph with one cluster per SubGraph. Node labels
// carry the outline name (or directive) and the locus of the construct, plus
// the annotation once the enrichment pass has run.
func WriteDOT(w io.Writer, g *etdg.Graph) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "digraph %s {\n", quote("etdg_"+g.Function()))
	fmt.Fprintln(bw, "  node [shape=box];")

	for _, sub := range g.Subs() {
		fmt.Fprintf(bw, "  subgraph cluster_%d {\n", sub.Index())
		fmt.Fprintf(bw, "    label=%s;\n", quote(sub.Level()))
		for _, id := range sub.Members() {
			n, _ := g.Node(id)
			fmt.Fprintf(bw, "    n%d [label=%s];\n", id, quote(Label(n)))
		}
		fmt.Fprintln(bw, "  }")
	}
	for _, sub := range g.Subs() {
		for _, e := range sub.Edges() {
			fmt.Fprintf(bw, "  n%d -> n%d;\n", e[0], e[1])
		}
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

// Label is the text shown for n.
func Label(n *etdg.Node) string {
	var b strings.Builder
	tk := n.Task()
	switch {
	case tk != nil && tk.Outline != "":
		b.WriteString(tk.Outline)
	case tk == nil || tk.Construct == nil:
		fmt.Fprintf(&b, "node %d", n.ID())
	default:
		b.WriteString(tk.Construct.Directive())
	}
	if tk != nil && tk.Construct != nil && !tk.Construct.Line.Locus.IsZero() {
		fmt.Fprintf(&b, "\n%s", tk.Construct.Line.Locus)
	}
	if a := n.Annotation; a.DataSize > 0 || a.Device != "" {
		fmt.Fprintf(&b, "\n%d bytes", a.DataSize)
		if a.Device != "" {
			fmt.Fprintf(&b, " on %s", a.Device)
		}
	}
	return b.String()
}

// quote makes s a DOT string literal.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}
