package omp

import (
	"github.com/specialistvlad/tdg/internal/ast"
	"github.com/specialistvlad/tdg/internal/datasharing"
)

const reasonNoExplicit = "the variable is mentioned in a dependence and it did not have an explicit data-sharing"

// classify decides the data-sharing of the base symbol sym of the accepted
// dependency expression e. The result is always implicit, so an explicit
// attribute already present in env is kept.
//
// The storage of a dependence is always shared. What varies is how the base
// symbol reaches the task: `x`, `a[4]`, `a[1:2]` and `c.z` need the original
// object, while `*p`, `p[1:2]` or `[10][20] p` only need the pointer value.
func (c *Core) classify(e ast.Expr, sym *ast.Symbol, env *datasharing.Environment) (datasharing.Attribute, string) {
	if env.Default() == datasharing.DefaultAuto {
		return datasharing.Auto | datasharing.Implicit, "'default(auto)'"
	}
	if !c.InOmpSsMode() || c.cfg.Language.IsFortran() {
		return datasharing.Shared | datasharing.Implicit, reasonNoExplicit
	}

	if _, ok := e.(*ast.SymbolRef); ok {
		return datasharing.Shared | datasharing.Implicit, reasonNoExplicit
	}
	t := sym.Type
	switch {
	case t.IsArray() || (t.IsAnyReference() && t.ReferencesTo().IsArray()):
		return datasharing.Shared | datasharing.Implicit,
			"the variable is an array mentioned in a non-trivial dependence and it did not have an explicit data-sharing"
	case t.IsClass():
		return datasharing.Shared | datasharing.Implicit,
			"the variable is an object mentioned in a non-trivial dependence and it did not have an explicit data-sharing"
	default:
		return datasharing.Firstprivate | datasharing.Implicit,
			"the variable is a non-array mentioned in a non-trivial dependence and it did not have an explicit data-sharing"
	}
}
