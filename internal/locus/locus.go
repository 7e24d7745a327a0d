// Package locus describes positions in the analysed source program.
package locus

import "fmt"

// Locus is a position in a source file. Line and Column are 1-based; a zero
// Column means the column is unknown.
type Locus struct {
	File   string
	Line   int
	Column int
}

// New creates a locus for the given file and line.
func New(file string, line int) Locus {
	return Locus{File: file, Line: line}
}

// WithColumn returns a copy of the locus pointing at the given column.
func (l Locus) WithColumn(col int) Locus {
	l.Column = col
	return l
}

// IsZero reports whether the locus carries no position at all.
func (l Locus) IsZero() bool {
	return l.File == "" && l.Line == 0 && l.Column == 0
}

// String renders the locus the way compilers prefix their messages,
// e.g. `main.c:12:7`.
func (l Locus) String() string {
	file := l.File
	if file == "" {
		file = "<unknown>"
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", file, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", file, l.Line)
}
