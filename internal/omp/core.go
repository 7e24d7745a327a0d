// Package omp analyses task-parallel directives: it parses the dependency
// clauses of both dialects, classifies every referenced symbol and fills the
// data-sharing environment of each construct.
//
// A Core holds the state of one analysis run. Nothing is shared between
// runs; in particular the outline counter restarts with every Core.
package omp

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/tdg/internal/ast"
	"github.com/specialistvlad/tdg/internal/clause"
	"github.com/specialistvlad/tdg/internal/ctxlog"
	"github.com/specialistvlad/tdg/internal/datasharing"
	"github.com/specialistvlad/tdg/internal/diag"
	"github.com/specialistvlad/tdg/internal/exprparse"
)

// Mode selects the directive dialect.
type Mode int

const (
	// ModeOmpSs accepts the named dependency clauses (in, out, inout, ...)
	// in addition to depend.
	ModeOmpSs Mode = iota
	// ModeOpenMP accepts only the standard depend clause.
	ModeOpenMP
)

// ParseMode maps "ompss" and "openmp" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ompss":
		return ModeOmpSs, nil
	case "openmp":
		return ModeOpenMP, nil
	}
	return ModeOmpSs, fmt.Errorf("unknown mode %q: must be 'ompss' or 'openmp'", s)
}

func (m Mode) String() string {
	if m == ModeOpenMP {
		return "openmp"
	}
	return "ompss"
}

// Config configures a Core.
type Config struct {
	Mode     Mode
	Language ast.Language
	// ParseCacheSize bounds the expression parse cache. Zero disables it.
	ParseCacheSize int
}

// Construct is a directive together with what the analysis needs from the
// surrounding program.
type Construct struct {
	Line clause.Line
	// Scope resolves the names used in clause arguments.
	Scope ast.Scope
	// Function is the name of the function containing the construct.
	Function string
	// Statement is the kind of the associated statement, e.g. "for".
	Statement string
}

// Directive returns the normalized directive name.
func (c *Construct) Directive() string {
	return strings.ToLower(strings.Join(strings.Fields(c.Line.Directive), " "))
}

// Task is the analysed form of a construct.
type Task struct {
	Construct *Construct
	Env       *datasharing.Environment
	// Outline names the function the construct body is outlined to.
	Outline string
	// Collapse is the nesting level of a `collapse` clause, 0 without one.
	Collapse int
	// Devices lists the target devices in clause order.
	Devices []string
	// ExtraSymbols are the symbols found in addressing expressions of the
	// dependences, in discovery order.
	ExtraSymbols []*ast.Symbol
}

// Core analyses the constructs of one run.
type Core struct {
	cfg      Config
	sink     *diag.Sink
	cache    *exprparse.Cache
	outlines int
}

// NewCore creates a Core reporting diagnostics to sink.
func NewCore(cfg Config, sink *diag.Sink) (*Core, error) {
	c := &Core{cfg: cfg, sink: sink}
	if cfg.ParseCacheSize > 0 {
		cache, err := exprparse.NewCache(cfg.ParseCacheSize)
		if err != nil {
			return nil, err
		}
		c.cache = cache
	}
	return c, nil
}

// Mode returns the dialect of the run.
func (c *Core) Mode() Mode { return c.cfg.Mode }

// Language returns the host language of the run.
func (c *Core) Language() ast.Language { return c.cfg.Language }

// InOmpSsMode reports whether the extended dialect is active.
func (c *Core) InOmpSsMode() bool { return c.cfg.Mode == ModeOmpSs }

// Sink returns the diagnostics sink of the run.
func (c *Core) Sink() *diag.Sink { return c.sink }

// CacheStats returns the hit and miss counts of the parse cache.
func (c *Core) CacheStats() (hits, misses int) { return c.cache.Stats() }

// ProcessTask analyses one construct. enclosing is the environment of the
// innermost enclosing construct, nil at function level. A returned error is a
// *diag.Error and means the construct could not be analysed at all.
func (c *Core) ProcessTask(ctx context.Context, con *Construct, enclosing *datasharing.Environment) (*Task, error) {
	logger := ctxlog.FromContext(ctx)
	directive := con.Directive()
	logger.Debug("Processing construct.", "directive", directive, "function", con.Function, "locus", con.Line.Locus.String())

	task := &Task{Construct: con}
	if directive == "section" {
		if enclosing == nil || !isSections(enclosing.Construct()) {
			return nil, diag.Malformedf(con.Line.Locus, "'section' construct is not inside a 'sections' construct")
		}
		// A section shares the environment of its sections construct.
		task.Env = enclosing
	} else {
		task.Env = datasharing.New(directive, enclosing)
	}

	c.checkClauses(con)

	if err := c.explicitDataSharing(con, task.Env); err != nil {
		return nil, err
	}

	if coll := con.Line.Clause("collapse"); coll.Defined() {
		if con.Statement != "for" {
			return nil, diag.Malformedf(coll.Locus(), "collapsed '#pragma omp %s' requires a for-statement", directive)
		}
		n, err := clause.NestingLevel(coll)
		if err != nil {
			return nil, err
		}
		task.Collapse = n
	}

	devices, err := c.devices(con)
	if err != nil {
		return nil, err
	}
	task.Devices = devices

	extra := c.GetDependencesInfo(ctx, con, task.Env)
	task.ExtraSymbols = extra
	c.defaultExtraSymbols(con, task.Env, extra)

	if outlined(directive) {
		task.Outline = fmt.Sprintf("_ol_%d_%s", c.outlines, con.Function)
		c.outlines++
	}
	logger.Debug("Construct processed.",
		"directive", directive,
		"dependences", len(task.Env.Dependences()),
		"extra_symbols", len(extra),
		"outline", task.Outline)
	return task, nil
}

func isSections(construct string) bool {
	return construct == "sections" || construct == "parallel sections"
}

// outlined reports whether the body of a directive becomes its own function.
func outlined(directive string) bool {
	switch directive {
	case "task", "parallel", "parallel for", "parallel sections", "target":
		return true
	}
	return false
}

var (
	extendedClauses = []string{"in", "input", "out", "output", "inout", "inprivate", "concurrent", "commutative"}

	standardClauses = []string{
		"depend", "shared", "private", "firstprivate", "default", "collapse",
		"device", "if", "final", "untied", "priority", "nowait", "label",
		"schedule", "num_threads", "reduction", "copy_in", "copy_out", "copy_inout",
	}
)

// checkClauses warns about clauses the active dialect does not recognize.
func (c *Core) checkClauses(con *Construct) {
	known := make(map[string]bool, len(standardClauses)+len(extendedClauses))
	for _, name := range standardClauses {
		known[name] = true
	}
	if c.InOmpSsMode() {
		for _, name := range extendedClauses {
			known[name] = true
		}
	}
	for _, cl := range con.Line.Unknown(known) {
		loc := cl.Locus
		if loc.IsZero() {
			loc = con.Line.Locus
		}
		if isExtended(cl.Name) {
			c.sink.Warnf(loc, "'%s' clause is an OmpSs extension, ignored in OpenMP mode", strings.ToLower(cl.Name))
			continue
		}
		c.sink.Warnf(loc, "ignoring unknown clause '%s'", cl.Name)
	}
}

func isExtended(name string) bool {
	for _, n := range extendedClauses {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}
