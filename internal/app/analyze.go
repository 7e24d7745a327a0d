package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/tdg/internal/ast"
	"github.com/specialistvlad/tdg/internal/clause"
	"github.com/specialistvlad/tdg/internal/config"
	"github.com/specialistvlad/tdg/internal/ctxlog"
	"github.com/specialistvlad/tdg/internal/datasharing"
	"github.com/specialistvlad/tdg/internal/diag"
	"github.com/specialistvlad/tdg/internal/etdg"
	"github.com/specialistvlad/tdg/internal/omp"
)

// analysis is the result for one function.
type analysis struct {
	function string
	// tasks holds every analysed construct in program order.
	tasks []*omp.Task
	// nodes maps a task to its node in graph, for tasks that are nodes.
	nodes map[*omp.Task]etdg.NodeID
	graph *etdg.Graph
}

// graphNode reports whether constructs with directive become task nodes.
func graphNode(directive string) bool {
	switch directive {
	case "task", "target":
		return true
	}
	return false
}

type walker struct {
	core    *omp.Core
	prog    *program
	fn      *config.Function
	tasks   []*omp.Task
	entries []etdg.Entry
}

// analyzeFunction processes the constructs of f and builds its graph. A
// *diag.Error from a construct aborts the function.
func analyzeFunction(ctx context.Context, core *omp.Core, prog *program, f *config.Function) (*analysis, error) {
	ctx = ctxlog.With(ctx, "function", f.Name)
	logger := ctxlog.FromContext(ctx)
	scope, err := prog.functionScope(f)
	if err != nil {
		return nil, err
	}

	w := &walker{core: core, prog: prog, fn: f}
	if err := w.walk(ctx, f.Constructs, scope, nil, f.Name); err != nil {
		return nil, err
	}

	graph, err := etdg.Build(ctx, f.Name, w.entries)
	if err != nil {
		return nil, fmt.Errorf("building the graph of '%s': %w", f.Name, err)
	}
	a := &analysis{function: f.Name, tasks: w.tasks, graph: graph, nodes: make(map[*omp.Task]etdg.NodeID)}
	for id := etdg.NodeID(0); int(id) < graph.Len(); id++ {
		n, _ := graph.Node(id)
		a.nodes[n.Task()] = id
	}
	logger.Debug("Function analysed.", "constructs", len(w.tasks), "nodes", graph.Len())
	return a, nil
}

// walk analyses constructs nested in the construct owning enclosing. level
// names the nesting level for the graph.
func (w *walker) walk(ctx context.Context, constructs []*config.Construct, scope *ast.Block,
	enclosing *datasharing.Environment, level string) error {
	for i, c := range constructs {
		clauses, err := clause.ParseClauses(c.Clauses, c.Locus)
		if err != nil {
			return diag.Malformedf(c.Locus, "%v", err)
		}
		con := &omp.Construct{
			Line:      clause.Line{Directive: c.Directive, Clauses: clauses, Locus: c.Locus},
			Scope:     scope,
			Function:  w.fn.Name,
			Statement: c.Statement,
		}
		tk, err := w.core.ProcessTask(ctx, con, enclosing)
		if err != nil {
			return err
		}
		w.tasks = append(w.tasks, tk)
		if graphNode(con.Directive()) {
			w.entries = append(w.entries, etdg.Entry{Level: level, Task: tk})
		}

		if len(c.Body) == 0 && len(c.Symbols) == 0 {
			continue
		}
		name := fmt.Sprintf("%s#%d", con.Directive(), i)
		inner := ast.NewBlock(name, scope)
		if err := w.prog.declare(inner, c.Symbols); err != nil {
			return fmt.Errorf("construct at %s: %w", c.Locus, err)
		}
		if err := w.walk(ctx, c.Body, inner, tk.Env, level+"::"+name); err != nil {
			return err
		}
	}
	return nil
}
