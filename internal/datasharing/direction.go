package datasharing

import (
	"fmt"

	"github.com/specialistvlad/tdg/internal/ast"
	"github.com/specialistvlad/tdg/internal/locus"
)

// Direction is the access mode a task declares for a data reference.
type Direction int

const (
	Undefined Direction = iota
	In
	// InValue is an input captured by value at task creation.
	InValue
	Out
	InOut
	InPrivate
	Concurrent
	Commutative
)

// String returns the clause name of the direction. InValue prints as "in".
func (d Direction) String() string {
	switch d {
	case In, InValue:
		return "in"
	case Out:
		return "out"
	case InOut:
		return "inout"
	case InPrivate:
		return "inprivate"
	case Concurrent:
		return "concurrent"
	case Commutative:
		return "commutative"
	default:
		return "<<undefined-dependence>>"
	}
}

// MarshalText renders the direction name in reports.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Reads reports whether the task reads the data.
func (d Direction) Reads() bool {
	switch d {
	case In, InValue, InOut, InPrivate, Concurrent, Commutative:
		return true
	}
	return false
}

// Writes reports whether the task may modify the data.
func (d Direction) Writes() bool {
	switch d {
	case Out, InOut, Concurrent, Commutative:
		return true
	}
	return false
}

// Item is one dependency of a task: an access expression and its
// direction. Items are never mutated once added to an Environment.
type Item struct {
	Expr      ast.Expr
	Direction Direction
	// Base is the symbol Expr is based on.
	Base *ast.Symbol
}

// NewItem creates a dependency item.
func NewItem(expr ast.Expr, dir Direction, base *ast.Symbol) Item {
	return Item{Expr: expr, Direction: dir, Base: base}
}

// Locus returns the position of the expression.
func (it Item) Locus() locus.Locus {
	if it.Expr == nil {
		return locus.Locus{}
	}
	return it.Expr.Pos()
}

func (it Item) String() string {
	return fmt.Sprintf("%s(%s)", it.Direction, ast.Format(it.Expr))
}
