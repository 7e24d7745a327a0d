package weighted

import (
	"sort"
	"strings"
)

// ParseFunctions splits a list of function names separated by commas or
// blanks. Duplicates collapse; the result is sorted.
func ParseFunctions(s string) []string {
	set := make(map[string]bool)
	for _, f := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
		set[f] = true
	}
	out := make([]string, 0, len(set))
	for f := range set {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// CallGraph maps a function to the functions it calls.
type CallGraph map[string][]string

// Select returns the functions of program (in program order) that the phase
// analyses. An empty selection means every function. With closure set, the
// functions reachable through calls from the selected ones are added.
func Select(program []string, calls CallGraph, selected []string, closure bool) []string {
	if len(selected) == 0 {
		return append([]string(nil), program...)
	}
	want := make(map[string]bool, len(selected))
	var queue []string
	for _, f := range selected {
		if !want[f] {
			want[f] = true
			queue = append(queue, f)
		}
	}
	for closure && len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]
		for _, callee := range calls[f] {
			if !want[callee] {
				want[callee] = true
				queue = append(queue, callee)
			}
		}
	}

	var out []string
	for _, f := range program {
		if want[f] {
			out = append(out, f)
		}
	}
	return out
}
