package clause

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/specialistvlad/tdg/internal/diag"
)

// NestingLevel evaluates a clause that takes one constant positive integer,
// such as `collapse(2)`. The argument may be a constant arithmetic
// expression. Every violation is an ErrMalformed *diag.Error.
func NestingLevel(c Coalesced) (int, error) {
	loc := c.Locus()
	if len(c.Args) != 1 {
		return 0, diag.Malformedf(loc, "'%s' clause needs exactly one argument, got %d", c.Name, len(c.Args))
	}
	arg := c.Args[0]

	start := hcl.Pos{Line: max(loc.Line, 1), Column: max(loc.Column, 1)}
	expr, diags := hclsyntax.ParseExpression([]byte(arg), loc.File, start)
	if diags.HasErrors() {
		return 0, diag.Malformedf(loc, "'%s' argument '%s' is not a valid expression", c.Name, arg)
	}
	if len(expr.Variables()) > 0 {
		return 0, diag.Malformedf(loc, "'%s' argument '%s' must be a constant expression", c.Name, arg)
	}

	val, diags := expr.Value(nil)
	if diags.HasErrors() || !val.IsKnown() || val.IsNull() || val.Type() != cty.Number {
		return 0, diag.Malformedf(loc, "'%s' argument '%s' must be a constant integer expression", c.Name, arg)
	}

	var n int
	if err := gocty.FromCtyValue(val, &n); err != nil {
		return 0, diag.Malformedf(loc, "'%s' argument '%s' must be an integer: %s", c.Name, arg, err)
	}
	if n <= 0 {
		return 0, diag.Malformedf(loc, "'%s' argument '%s' must be positive", c.Name, arg)
	}
	return n, nil
}
