// Package dataref decides whether an expression denotes a data reference,
// i.e. a piece of storage a task can depend on, and finds its base symbol.
package dataref

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/tdg/internal/ast"
)

// Ref is the result of analysing one expression.
type Ref struct {
	Expr ast.Expr
	// Valid reports whether Expr denotes storage.
	Valid bool
	// Base is the symbol whose storage the reference lives in: `a` for
	// `a[i].z`, `p` for `*(p + 1)`, the receiver for `this->z`.
	Base *ast.Symbol
	// errs collects the reasons an expression is not a data reference,
	// innermost first.
	errs []string
}

// ErrorLog explains why the expression is not a data reference.
func (r Ref) ErrorLog() string {
	return strings.Join(r.errs, "\n")
}

// Analyze analyses e.
func Analyze(e ast.Expr) Ref {
	r := Ref{Expr: e}
	base, err := baseOf(e)
	if err != nil {
		r.errs = append(r.errs, err.Error())
		return r
	}
	r.Valid = true
	r.Base = base
	return r
}

func baseOf(e ast.Expr) (*ast.Symbol, error) {
	switch n := e.(type) {
	case *ast.SymbolRef:
		if !n.Sym.IsVariable() {
			return nil, fmt.Errorf("'%s' does not designate an object", n.Sym.Name)
		}
		return n.Sym, nil
	case *ast.ThisRef:
		return n.Sym, nil
	case *ast.ArraySubscript:
		base, err := baseOf(n.Array)
		if err != nil {
			return nil, fmt.Errorf("subscripted expression is not a data reference: %w", err)
		}
		return base, nil
	case *ast.MemberAccess:
		base, err := baseOf(n.Object)
		if err != nil {
			return nil, fmt.Errorf("accessed object of '%s' is not a data reference: %w", ast.Format(e), err)
		}
		return base, nil
	case *ast.Dereference:
		base, err := pointerBase(n.Operand)
		if err != nil {
			return nil, fmt.Errorf("dereferenced expression '%s' has no base pointer: %w", ast.Format(n.Operand), err)
		}
		return base, nil
	case *ast.Shaping:
		base, err := pointerBase(n.Operand)
		if err != nil {
			return nil, fmt.Errorf("shaped expression '%s' has no base pointer: %w", ast.Format(n.Operand), err)
		}
		return base, nil
	case *ast.Binary:
		if !isPointerLike(n.Type()) {
			return nil, fmt.Errorf("'%s' is an arithmetic expression", ast.Format(e))
		}
		return pointerBase(n)
	case *ast.IntLit:
		return nil, fmt.Errorf("constant '%d' is not a data reference", n.Value)
	case *ast.AddressOf:
		return nil, fmt.Errorf("address '%s' is not a data reference", ast.Format(e))
	case *ast.Unary:
		return nil, fmt.Errorf("'%s' is an arithmetic expression", ast.Format(e))
	case *ast.MultiDependency:
		return nil, fmt.Errorf("multi-dependency '%s' is not a single data reference", n.Text)
	case *ast.ErrExpr:
		return nil, fmt.Errorf("%s", n.Msg)
	case nil:
		return nil, fmt.Errorf("missing expression")
	default:
		return nil, fmt.Errorf("unexpected expression %T", e)
	}
}

// pointerBase finds the pointer a pointer-valued expression is derived from:
// `p`, `p + i`, `a[i].ptr`.
func pointerBase(e ast.Expr) (*ast.Symbol, error) {
	if b, ok := e.(*ast.Binary); ok {
		switch {
		case isPointerLike(b.LHS.Type()):
			return pointerBase(b.LHS)
		case isPointerLike(b.RHS.Type()):
			return pointerBase(b.RHS)
		default:
			return nil, fmt.Errorf("'%s' is not pointer arithmetic", ast.Format(e))
		}
	}
	if !isPointerLike(e.Type()) {
		return nil, fmt.Errorf("'%s' does not have pointer type", ast.Format(e))
	}
	return baseOf(e)
}

func isPointerLike(t *ast.Type) bool {
	t = t.NoRef()
	return t.IsPointer() || t.IsArray()
}
