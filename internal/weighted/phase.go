// Package weighted runs the weighted task dependency graph phase: it walks
// every SubGraph of the selected functions once from its roots and then
// annotates each task with its data size and target device.
package weighted

import (
	"context"
	"fmt"
	"io"

	"github.com/specialistvlad/tdg/internal/ctxlog"
	"github.com/specialistvlad/tdg/internal/diag"
	"github.com/specialistvlad/tdg/internal/etdg"
	"github.com/specialistvlad/tdg/internal/printer"
)

// Options configures a Phase.
type Options struct {
	// PrintTDG writes every graph in DOT syntax to DOT before the traversal.
	PrintTDG bool
	DOT      io.Writer
}

// Pass records the nodes one traversal of a SubGraph reached, in visit order.
type Pass struct {
	Function string
	Level    string
	Visited  []etdg.NodeID
}

// Phase is the weighted TDG phase of one run.
type Phase struct {
	opts Options
	sink *diag.Sink
}

// NewPhase creates a phase reporting to sink.
func NewPhase(opts Options, sink *diag.Sink) *Phase {
	return &Phase{opts: opts, sink: sink}
}

// Run processes graphs in order. The visited marks of every SubGraph are
// cleared after its roots have all been walked, so the graphs can be
// traversed again afterwards.
func (p *Phase) Run(ctx context.Context, graphs []*etdg.Graph) ([]Pass, error) {
	logger := ctxlog.FromContext(ctx)

	if p.opts.PrintTDG && p.opts.DOT != nil {
		for _, g := range graphs {
			if err := printer.WriteDOT(p.opts.DOT, g); err != nil {
				return nil, fmt.Errorf("printing the graph of '%s': %w", g.Function(), err)
			}
		}
	}

	var passes []Pass
	for _, g := range graphs {
		for _, sub := range g.Subs() {
			pass := Pass{Function: g.Function(), Level: sub.Level()}
			err := sub.Traverse(func(n *etdg.Node) error {
				pass.Visited = append(pass.Visited, n.ID())
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("traversing '%s' level '%s': %w", g.Function(), sub.Level(), err)
			}
			if err := sub.ClearVisits(); err != nil {
				return nil, err
			}
			logger.Debug("SubETDG traversed.", "function", g.Function(), "level", sub.Level(), "visited", len(pass.Visited))
			passes = append(passes, pass)
		}
	}

	// Enrichment visits every task, not only the reachable ones.
	for _, g := range graphs {
		for id := etdg.NodeID(0); int(id) < g.Len(); id++ {
			n, _ := g.Node(id)
			n.Annotation = Enrich(n.Task(), p.sink)
		}
	}
	return passes, nil
}
