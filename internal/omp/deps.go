package omp

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/tdg/internal/ast"
	"github.com/specialistvlad/tdg/internal/clause"
	"github.com/specialistvlad/tdg/internal/ctxlog"
	"github.com/specialistvlad/tdg/internal/dataref"
	"github.com/specialistvlad/tdg/internal/datasharing"
	"github.com/specialistvlad/tdg/internal/exprparse"
	"github.com/specialistvlad/tdg/internal/locus"
)

// extendedOrder is the order in which the named dependency clauses are
// processed, each with its deprecated aliases.
var extendedOrder = []struct {
	name    string
	aliases []string
	dir     datasharing.Direction
}{
	{"in", []string{"input"}, datasharing.In},
	{"inprivate", nil, datasharing.InPrivate},
	{"out", []string{"output"}, datasharing.Out},
	{"inout", nil, datasharing.InOut},
	{"concurrent", nil, datasharing.Concurrent},
	{"commutative", nil, datasharing.Commutative},
}

// GetDependencesInfo parses every dependency clause of con, adds the accepted
// items to env and assigns the data-sharing of their base symbols. The named
// clauses are processed first (OmpSs mode only), depend last. It returns the
// extra symbols found in the addressing parts of the accepted items.
func (c *Core) GetDependencesInfo(ctx context.Context, con *Construct, env *datasharing.Environment) []*ast.Symbol {
	var extra extraSet
	if c.InOmpSsMode() {
		for _, ec := range extendedOrder {
			cl := con.Line.Clause(ec.name, ec.aliases...)
			if !cl.Defined() {
				continue
			}
			exprs := c.parseExtendedClause(con, cl)
			c.addDataSharings(ctx, exprs, env, ec.dir, ec.name, &extra)
		}
	}

	depend := con.Line.Clause("depend")
	if depend.Defined() {
		in, out, inout := c.parseDependClause(con, depend)
		c.addDataSharings(ctx, in, env, datasharing.In, "depend(in:)", &extra)
		c.addDataSharings(ctx, out, env, datasharing.Out, "depend(out:)", &extra)
		c.addDataSharings(ctx, inout, env, datasharing.InOut, "depend(inout:)", &extra)
	}
	return extra.symbols
}

// parseExtendedClause parses the arguments of a named dependency clause.
// Multi-dependencies are reported as unsupported and dropped.
func (c *Core) parseExtendedClause(con *Construct, cl clause.Coalesced) []ast.Expr {
	var out []ast.Expr
	for _, arg := range cl.Args {
		e := c.parseItem(con, cl.Locus(), arg)
		if md, ok := e.(*ast.MultiDependency); ok {
			c.sink.Errorf(md.Pos(), "OmpSs multi-dependences not supported yet")
			continue
		}
		out = append(out, e)
	}
	return out
}

// parseDependClause splits the coalesced arguments of every depend clause by
// direction. A `direction:` prefix applies to its own argument and to the
// unprefixed ones that follow it, across clause boundaries.
func (c *Core) parseDependClause(con *Construct, cl clause.Coalesced) (in, out, inout []ast.Expr) {
	var current *[]ast.Expr
	for _, arg := range cl.Args {
		dir, rest, ok := splitDirection(arg, c.cfg.Language.IsFortran())
		if ok {
			switch dir {
			case "in":
				current = &in
			case "out":
				current = &out
			case "inout":
				current = &inout
			}
			arg = rest
		} else if current == nil {
			c.sink.Warnf(cl.Locus(), "skipping item '%s' in 'depend' clause because it lacks dependence-type", arg)
			continue
		}
		*current = append(*current, c.parseItem(con, cl.Locus(), arg))
	}
	return in, out, inout
}

// splitDirection recognizes `in:`, `out:` and `inout:` prefixes. Blanks may
// surround the keyword; everything after the colon is returned verbatim.
func splitDirection(arg string, fold bool) (dir, rest string, ok bool) {
	i := 0
	for i < len(arg) && isBlank(arg[i]) {
		i++
	}
	start := i
	for i < len(arg) && isLetter(arg[i]) {
		i++
	}
	word := arg[start:i]
	if fold {
		word = strings.ToLower(word)
	}
	if word != "in" && word != "out" && word != "inout" {
		return "", "", false
	}
	for i < len(arg) && isBlank(arg[i]) {
		i++
	}
	if i >= len(arg) || arg[i] != ':' {
		return "", "", false
	}
	return word, arg[i+1:], true
}

func isBlank(b byte) bool  { return b == ' ' || b == '\t' }
func isLetter(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }

// parseItem parses one clause argument in the construct's scope. The text is
// re-parsed at the directive's line through a `#line` marker. Parse failures
// come back as *ast.ErrExpr so that they are reported as invalid items.
func (c *Core) parseItem(con *Construct, loc locus.Locus, text string) ast.Expr {
	if loc.IsZero() {
		loc = con.Line.Locus
	}
	src := fmt.Sprintf("#line %d %q\n%s", max(loc.Line, 1), loc.File, text)
	opts := exprparse.Options{Language: c.cfg.Language, Locus: loc}
	e, err := c.cache.Parse(src, con.Scope, opts)
	if err != nil {
		return &ast.ErrExpr{Base: ast.Base{Loc: loc}, Text: strings.TrimSpace(text), Msg: err.Error()}
	}
	return e
}

// addDataSharings validates each expression as a dependency of direction
// dir, records the accepted ones and classifies their base symbols.
func (c *Core) addDataSharings(ctx context.Context, exprs []ast.Expr, env *datasharing.Environment,
	dir datasharing.Direction, clauseName string, extra *extraSet) {
	logger := ctxlog.FromContext(ctx)
	for _, e := range exprs {
		ref := dataref.Analyze(e)
		if !ref.Valid {
			if log := ref.ErrorLog(); log != "" {
				c.sink.Warnf(e.Pos(), "%s", log)
			}
			c.sink.Warnf(e.Pos(), "invalid dependency expression '%s', skipping", ast.Format(e))
			continue
		}
		sym := ref.Base

		if !c.InOmpSsMode() {
			// Dependences over non-static data members are not valid OpenMP.
			if _, isMember := e.(*ast.MemberAccess); isMember || sym.IsNonStaticMember() {
				c.sink.Warnf(e.Pos(), "invalid dependency expression '%s', skipping", ast.Format(e))
				c.sink.Infof(e.Pos(), "dependences over non-static data members are not allowed in OpenMP")
				continue
			}
			if sym.ImplicitObject {
				c.sink.Warnf(e.Pos(), "invalid dependency expression '%s', skipping", ast.Format(e))
				continue
			}
		}

		attr, reason := c.classify(e, sym, env)
		env.Set(sym, attr, reason)
		logger.Debug("Dependence accepted.", "clause", clauseName, "expr", ast.Format(e), "base", sym.Name, "attribute", attr.String())

		env.AddDependence(datasharing.NewItem(e, dir, sym))
		extra.discover(e, env, c.cfg.Language)
	}
}
