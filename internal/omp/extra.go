package omp

import (
	"github.com/specialistvlad/tdg/internal/ast"
	"github.com/specialistvlad/tdg/internal/datasharing"
)

// extraSet collects extra symbols without duplicates, in discovery order.
type extraSet struct {
	symbols []*ast.Symbol
	seen    map[*ast.Symbol]bool
}

func (s *extraSet) add(sym *ast.Symbol) {
	if s.seen == nil {
		s.seen = make(map[*ast.Symbol]bool)
	}
	if s.seen[sym] {
		return
	}
	s.seen[sym] = true
	s.symbols = append(s.symbols, sym)
}

// discover walks the addressing parts of the dependency expression e: the
// size or bounds of array-typed symbols, subscripts, shapes and the object
// of a member access. Every variable found there without an explicit
// data-sharing in env is an extra symbol. The selected member of a member
// access is never visited.
func (s *extraSet) discover(e ast.Expr, env *datasharing.Environment, lang ast.Language) {
	ast.Inspect(e, func(n ast.Expr) bool {
		switch n := n.(type) {
		case *ast.SymbolRef:
			t := n.Sym.Type.NoRef()
			if !t.IsArray() {
				break
			}
			if lang.IsFortran() {
				s.collect(t.Lower, env)
				s.collect(t.Upper, env)
			} else {
				s.collect(t.Length, env)
			}
		case *ast.Shaping:
			for _, dim := range n.Shape {
				s.collect(dim, env)
			}
		case *ast.ArraySubscript:
			for _, sub := range n.Subscripts {
				s.collect(sub, env)
			}
		case *ast.MemberAccess:
			s.collect(n.Object, env)
		}
		return true
	})
}

// collect adds every symbol occurring in e that still lacks an explicit
// data-sharing. Fortran named constants are not storage and are skipped.
func (s *extraSet) collect(e ast.Expr, env *datasharing.Environment) {
	ast.Inspect(e, func(n ast.Expr) bool {
		var sym *ast.Symbol
		switch n := n.(type) {
		case *ast.SymbolRef:
			sym = n.Sym
		case *ast.ThisRef:
			sym = n.Sym
		default:
			return true
		}
		if !sym.IsVariable() || sym.IsFortranParameter() {
			return true
		}
		if env.Attribute(sym, false).Kind() == datasharing.Unset {
			s.add(sym)
		}
		return true
	})
}

// defaultExtraSymbols gives every extra symbol that is still unassigned its
// default data-sharing.
func (c *Core) defaultExtraSymbols(con *Construct, env *datasharing.Environment, extra []*ast.Symbol) {
	for _, sym := range extra {
		if _, ok := env.Get(sym, false); ok {
			continue
		}
		switch def := env.Default(); def {
		case datasharing.DefaultAuto, datasharing.DefaultShared, datasharing.DefaultFirstprivate:
			env.Set(sym, def.Attribute()|datasharing.Implicit, "'default("+def.String()+")'")
		case datasharing.DefaultNone:
			c.sink.Errorf(con.Line.Locus, "'%s' must have an explicit data-sharing because of 'default(none)'", sym.Name)
		default:
			if sym.Global || sym.Static {
				env.Set(sym, datasharing.Shared|datasharing.Implicit, "the variable has static storage")
				continue
			}
			if parent := env.Parent(); parent != nil && parent.Attribute(sym, true).Kind() == datasharing.Shared {
				env.Set(sym, datasharing.Shared|datasharing.Implicit, "the variable is shared in the enclosing construct")
				continue
			}
			env.Set(sym, datasharing.Firstprivate|datasharing.Implicit,
				"the variable is used in a dependence expression and it did not have an explicit data-sharing")
		}
	}
}
