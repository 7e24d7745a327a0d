package clause

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/tdg/internal/locus"
)

// ParseClauses splits the clause part of a directive, e.g.
// `in(x) out(y[0:4]) nowait`, into clauses. Clauses are separated by blanks
// or commas; the argument text between the outer parentheses is kept
// verbatim. Every clause gets loc.
func ParseClauses(text string, loc locus.Locus) ([]Clause, error) {
	var out []Clause
	i := 0
	for {
		for i < len(text) && (isSpace(text[i]) || text[i] == ',') {
			i++
		}
		if i >= len(text) {
			return out, nil
		}
		start := i
		for i < len(text) && isNameByte(text[i]) {
			i++
		}
		if start == i {
			return nil, fmt.Errorf("%s: expected clause name at column %d, found '%c'", loc, i+1, text[i])
		}
		c := Clause{Name: text[start:i], Locus: loc}

		j := i
		for j < len(text) && isSpace(text[j]) {
			j++
		}
		if j < len(text) && text[j] == '(' {
			end, err := closing(text, j)
			if err != nil {
				return nil, fmt.Errorf("%s: clause '%s': %w", loc, c.Name, err)
			}
			c.Raw = strings.TrimSpace(text[j+1 : end])
			i = end + 1
		}
		out = append(out, c)
	}
}

// closing returns the index of the parenthesis matching the one at open.
func closing(text string, open int) (int, error) {
	depth := 0
	for k := open; k < len(text); k++ {
		switch text[k] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return k, nil
			}
		}
	}
	return 0, fmt.Errorf("unbalanced '(' at column %d", open+1)
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }

func isNameByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
