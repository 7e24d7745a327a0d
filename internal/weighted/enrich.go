package weighted

import (
	"github.com/specialistvlad/tdg/internal/ast"
	"github.com/specialistvlad/tdg/internal/datasharing"
	"github.com/specialistvlad/tdg/internal/diag"
	"github.com/specialistvlad/tdg/internal/etdg"
	"github.com/specialistvlad/tdg/internal/omp"
)

// Enrich computes the cost and placement annotation of one task: the static
// size of every symbol, subscript and member operand of its dependences, plus
// the size of every explicitly scoped symbol no dependence already covers, and
// the first device it targets. Operands of any other kind contribute nothing
// and are reported.
func Enrich(tk *omp.Task, sink *diag.Sink) etdg.Annotation {
	var a etdg.Annotation
	if tk == nil {
		return a
	}
	if len(tk.Devices) > 0 {
		a.Device = tk.Devices[0]
	}
	if tk.Env == nil {
		return a
	}

	covered := make(map[*ast.Symbol]bool)
	for _, item := range tk.Env.Dependences() {
		if sym := dependenceBase(item); sym != nil {
			covered[sym] = true
		}
		switch e := item.Expr.(type) {
		case *ast.SymbolRef, *ast.ArraySubscript, *ast.MemberAccess:
			size, ok := e.Type().Size()
			if !ok {
				sink.Warnf(e.Pos(), "size of '%s' is not constant, it does not contribute to the task data size", ast.Format(e))
				continue
			}
			a.DataSize += size
		default:
			sink.Warnf(item.Locus(), "unhandled node of kind '%s' while computing the weighted ETDG", kindName(e))
		}
	}

	for _, entry := range tk.Env.Entries() {
		sym := entry.Symbol
		if !entry.Attribute.IsExplicit() || covered[sym] || sym == nil || sym.Type == nil {
			continue
		}
		size, ok := sym.Type.Size()
		if !ok {
			sink.Warnf(sym.Locus, "size of '%s' is not constant, it does not contribute to the task data size", sym.Name)
			continue
		}
		a.DataSize += size
	}
	return a
}

// dependenceBase is the symbol a dependence designates storage of.
func dependenceBase(item datasharing.Item) *ast.Symbol {
	if item.Base != nil {
		return item.Base
	}
	e := item.Expr
	for {
		switch v := e.(type) {
		case *ast.SymbolRef:
			return v.Sym
		case *ast.ArraySubscript:
			e = v.Array
		case *ast.MemberAccess:
			e = v.Object
		default:
			return nil
		}
	}
}

func kindName(e ast.Expr) string {
	switch e.(type) {
	case *ast.SymbolRef:
		return "symbol"
	case *ast.ThisRef:
		return "this"
	case *ast.IntLit:
		return "integer literal"
	case *ast.ArraySubscript:
		return "array subscript"
	case *ast.Range:
		return "array section"
	case *ast.MemberAccess:
		return "member access"
	case *ast.Dereference:
		return "dereference"
	case *ast.AddressOf:
		return "address-of"
	case *ast.Shaping:
		return "shaping"
	case *ast.Binary:
		return "binary operation"
	case *ast.Unary:
		return "unary operation"
	case *ast.MultiDependency:
		return "multi-dependence"
	case *ast.ErrExpr:
		return "invalid expression"
	default:
		return "unknown"
	}
}
