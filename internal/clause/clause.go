// Package clause models a directive line and its clauses as written in the
// source, before any semantic analysis.
package clause

import (
	"strings"

	"github.com/specialistvlad/tdg/internal/locus"
)

// Clause is one clause occurrence: `depend(in: a, b)` has Name "depend" and
// the raw argument text "in: a, b".
type Clause struct {
	Name  string
	Raw   string
	Locus locus.Locus
}

// Arguments splits the raw argument text at top-level commas.
func (c Clause) Arguments() []string {
	return Tokenize(c.Raw)
}

// Line is a directive with its clauses in source order, e.g.
// `#pragma omp task in(a) out(b)`.
type Line struct {
	Directive string
	Clauses   []Clause
	Locus     locus.Locus
}

// Coalesced is every occurrence of one clause merged into a single argument
// list, in source order.
type Coalesced struct {
	Name string
	Args []string
	// Loci holds the position of every merged occurrence.
	Loci []locus.Locus
}

// Defined reports whether the clause appears at least once.
func (c Coalesced) Defined() bool { return len(c.Loci) > 0 }

// Locus returns the position of the first occurrence.
func (c Coalesced) Locus() locus.Locus {
	if len(c.Loci) == 0 {
		return locus.Locus{}
	}
	return c.Loci[0]
}

// Clause coalesces the occurrences of name and of its deprecated aliases.
// Clause names are matched case-insensitively.
func (l Line) Clause(name string, aliases ...string) Coalesced {
	out := Coalesced{Name: name}
	for _, c := range l.Clauses {
		if !matches(c.Name, name, aliases) {
			continue
		}
		out.Args = append(out.Args, c.Arguments()...)
		loc := c.Locus
		if loc.IsZero() {
			loc = l.Locus
		}
		out.Loci = append(out.Loci, loc)
	}
	return out
}

// Has reports whether a clause named name is present.
func (l Line) Has(name string) bool {
	for _, c := range l.Clauses {
		if strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

// Unknown returns the clauses whose names are not in known, in source
// order.
func (l Line) Unknown(known map[string]bool) []Clause {
	var out []Clause
	for _, c := range l.Clauses {
		if !known[strings.ToLower(c.Name)] {
			out = append(out, c)
		}
	}
	return out
}

func matches(got, name string, aliases []string) bool {
	if strings.EqualFold(got, name) {
		return true
	}
	for _, a := range aliases {
		if strings.EqualFold(got, a) {
			return true
		}
	}
	return false
}

// Tokenize splits a clause argument list at commas that are not nested in
// brackets, parentheses or braces. Empty arguments are dropped.
func Tokenize(raw string) []string {
	var (
		args  []string
		depth int
		start int
	)
	flush := func(end int) {
		if arg := strings.TrimSpace(raw[start:end]); arg != "" {
			args = append(args, arg)
		}
	}
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				flush(i)
				start = i + 1
			}
		}
	}
	flush(len(raw))
	return args
}
