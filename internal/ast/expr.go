package ast

import "github.com/specialistvlad/tdg/internal/locus"

// Expr is a parsed, type-checked access expression. The interface is closed:
// only the node types of this package implement it.
type Expr interface {
	Pos() locus.Locus
	Type() *Type
	exprNode()
}

// Base carries the position and computed type of a node.
type Base struct {
	Loc locus.Locus
	Typ *Type
}

func (b *Base) Pos() locus.Locus { return b.Loc }
func (b *Base) Type() *Type { return b.Typ }
func (*Base) exprNode() {}

// SymbolRef names a symbol: `a`.
type SymbolRef struct {
	Base
	Sym *Symbol
}

// ThisRef is the implicit object expression of a member function.
type ThisRef struct {
	Base
	Sym *Symbol
}

// IntLit is an integer constant.
type IntLit struct {
	Base
	Value int64
}

// ArraySubscript indexes Array with one entry per dimension: `a[i][j]`,
// `a(i, j)`. A subscript may be a *Range.
type ArraySubscript struct {
	Base
	Array      Expr
	Subscripts []Expr
	// Paren marks Fortran-style `a(i)` spelling.
	Paren bool
}

// Range is an array section bound pair. With Length set the pair is
// `lower;length` (OmpSs) instead of `lower:upper`. Missing bounds are nil.
type Range struct {
	Base
	Lower, Upper Expr
	Length       bool
}

// MemberAccess selects a data member: `c.z`, `p->z`, `t%z`.
type MemberAccess struct {
	Base
	Object Expr
	Member *Symbol
	// Sep is the spelling of the access operator: ".", "->" or "%".
	Sep string
}

// Dereference is `*p`.
type Dereference struct {
	Base
	Operand Expr
}

// AddressOf is `&x`.
type AddressOf struct {
	Base
	Operand Expr
}

// Shaping casts a pointer to an array shape: `[10][20] p`.
type Shaping struct {
	Base
	Shape   []Expr
	Operand Expr
}

// Binary is an arithmetic expression.
type Binary struct {
	Base
	Op       string
	LHS, RHS Expr
}

// Unary is `-x` or `+x`.
type Unary struct {
	Base
	Op      string
	Operand Expr
}

// MultiDependency is the OmpSs `{a[i], i=0;N}` shorthand. It is recognized so
// that it can be rejected explicitly.
type MultiDependency struct {
	Base
	Text string
}

// ErrExpr stands in for an expression that failed to parse or type-check.
type ErrExpr struct {
	Base
	Text string
	Msg  string
}

// ConstValue folds integer constant expressions.
func ConstValue(e Expr) (int64, bool) {
	switch n := e.(type) {
	case *IntLit:
		return n.Value, true
	case *Unary:
		v, ok := ConstValue(n.Operand)
		if !ok {
			return 0, false
		}
		if n.Op == "-" {
			return -v, true
		}
		return v, true
	case *Binary:
		l, okL := ConstValue(n.LHS)
		r, okR := ConstValue(n.RHS)
		if !okL || !okR {
			return 0, false
		}
		switch n.Op {
		case "+":
			return l + r, true
		case "-":
			return l - r, true
		case "*":
			return l * r, true
		case "/":
			if r == 0 {
				return 0, false
			}
			return l / r, true
		case "%":
			if r == 0 {
				return 0, false
			}
			return l % r, true
		}
	}
	return 0, false
}

// Children returns the direct sub-expressions of e, in source order. The
// member of a MemberAccess is a symbol, not a child.
func Children(e Expr) []Expr {
	switch n := e.(type) {
	case *ArraySubscript:
		return append([]Expr{n.Array}, n.Subscripts...)
	case *Range:
		var out []Expr
		if n.Lower != nil {
			out = append(out, n.Lower)
		}
		if n.Upper != nil {
			out = append(out, n.Upper)
		}
		return out
	case *MemberAccess:
		return []Expr{n.Object}
	case *Dereference:
		return []Expr{n.Operand}
	case *AddressOf:
		return []Expr{n.Operand}
	case *Shaping:
		return append(append([]Expr(nil), n.Shape...), n.Operand)
	case *Binary:
		return []Expr{n.LHS, n.RHS}
	case *Unary:
		return []Expr{n.Operand}
	default:
		return nil
	}
}

// Inspect walks e in pre-order. When fn returns false the children of the
// current node are skipped.
func Inspect(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	for _, c := range Children(e) {
		Inspect(c, fn)
	}
}
