package etdg

import (
	"context"
	"fmt"

	"github.com/specialistvlad/tdg/internal/ast"
	"github.com/specialistvlad/tdg/internal/ctxlog"
	"github.com/specialistvlad/tdg/internal/datasharing"
	"github.com/specialistvlad/tdg/internal/omp"
)

// Entry is one task instance in program order.
type Entry struct {
	// Level names the enclosing scope of the task. Tasks with the same level
	// end up in the same SubGraph.
	Level string
	Task  *omp.Task
}

type access struct {
	node NodeID
	dir  datasharing.Direction
}

// history is the ordered list of accesses to each base symbol in one level.
type history map[*ast.Symbol][]access

// Build creates the graph of function from entries. Each dependence of a task
// is linked to the earlier accesses of the same base symbol it conflicts
// with; the backward scan stops at the first conflicting write.
func Build(ctx context.Context, function string, entries []Entry) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	g := New(function)

	subs := make(map[string]*SubGraph)
	hist := make(map[*SubGraph]history)
	for _, e := range entries {
		sub, ok := subs[e.Level]
		if !ok {
			sub = g.NewSub(e.Level)
			subs[e.Level] = sub
			hist[sub] = make(history)
		}
		id := sub.AddNode(e.Task)
		h := hist[sub]

		for _, item := range e.Task.Env.Dependences() {
			prev := h[item.Base]
			for i := len(prev) - 1; i >= 0; i-- {
				p := prev[i]
				if !Conflicts(p.dir, item.Direction) {
					continue
				}
				if p.node != id {
					if err := g.Connect(p.node, id); err != nil {
						return nil, fmt.Errorf("linking '%s': %w", item, err)
					}
					logger.Debug("Dependence edge added.", "from", p.node, "to", id, "symbol", item.Base.Name)
				}
				if p.dir == datasharing.Out || p.dir == datasharing.InOut {
					break
				}
			}
			h[item.Base] = append(prev, access{node: id, dir: item.Direction})
		}
	}

	for _, sub := range g.subs {
		sub.ComputeRoots()
		if err := sub.Validate(); err != nil {
			return nil, err
		}
		logger.Debug("SubETDG built.", "level", sub.level, "nodes", len(sub.members), "roots", len(sub.roots))
	}
	return g, nil
}

// Conflicts reports whether an access of direction b must wait for an earlier
// access of direction a to the same data.
func Conflicts(a, b datasharing.Direction) bool {
	if a == b && (a == datasharing.Concurrent || a == datasharing.Commutative) {
		return false
	}
	return a.Writes() || b.Writes()
}
