// Package etdg holds the expanded task dependency graph of a function.
//
// Nodes live in one arena owned by the Graph and are addressed by NodeID.
// Edges and SubGraph membership are stored as IDs, so a node can be reached
// from several containers without being owned by any of them. A SubGraph is
// the partition of the graph at one nesting level; edges never cross
// SubGraphs.
//
// None of the types here are safe for concurrent use. A traversal marks the
// nodes it visits and the marks stay in place until ClearVisits is called on
// the SubGraph.
package etdg

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/tdg/internal/omp"
)

var (
	// ErrSelfEdge is returned when a node would depend on itself.
	ErrSelfEdge = errors.New("self-referential edge not allowed")
	// ErrUnknownNode is returned for an ID that is not in the arena.
	ErrUnknownNode = errors.New("node not found")
	// ErrCrossLevelEdge is returned for an edge between two SubGraphs.
	ErrCrossLevelEdge = errors.New("edge crosses nesting levels")
	// ErrCycle is returned by Validate when a SubGraph is not acyclic.
	ErrCycle = errors.New("cycle detected")
	// ErrTraversalActive is returned when a SubGraph is traversed or reset
	// while one of its traversals is still running.
	ErrTraversalActive = errors.New("traversal already in progress")
	// ErrDirtyVisits is returned when a traversal starts before the marks of
	// the previous one were cleared.
	ErrDirtyVisits = errors.New("visited marks of a previous pass were not cleared")
)

// NodeID addresses a node in the arena of its Graph.
type NodeID int

// Annotation is the cost and placement data attached to a node by the
// enrichment pass.
type Annotation struct {
	// DataSize is the sum in bytes of the static sizes of the dependence
	// operands of the task.
	DataSize int64
	// Device is the first device the task targets, empty when none is given.
	Device string
}

// Node is one task instance.
type Node struct {
	id      NodeID
	sub     int
	task    *omp.Task
	visited bool
	inputs  []NodeID
	outputs []NodeID

	Annotation Annotation
}

// ID returns the handle of the node.
func (n *Node) ID() NodeID { return n.id }

// Task returns the analysed construct the node stands for.
func (n *Node) Task() *omp.Task { return n.task }

// Visited reports whether the current pass has reached the node.
func (n *Node) Visited() bool { return n.visited }

// Inputs returns the nodes this one depends on, in insertion order.
func (n *Node) Inputs() []NodeID { return append([]NodeID(nil), n.inputs...) }

// Outputs returns the nodes depending on this one, in insertion order.
func (n *Node) Outputs() []NodeID { return append([]NodeID(nil), n.outputs...) }

// Graph is the ETDG of one function.
type Graph struct {
	function string
	nodes    []*Node
	subs     []*SubGraph
}

// New creates an empty graph for function.
func New(function string) *Graph {
	return &Graph{function: function}
}

// Function returns the name of the function the graph describes.
func (g *Graph) Function() string { return g.function }

// NewSub adds an empty SubGraph for the nesting level named level.
func (g *Graph) NewSub(level string) *SubGraph {
	s := &SubGraph{g: g, index: len(g.subs), level: level}
	g.subs = append(g.subs, s)
	return s
}

// Subs returns the SubGraphs in creation order.
func (g *Graph) Subs() []*SubGraph { return append([]*SubGraph(nil), g.subs...) }

// Len returns the number of nodes in the arena.
func (g *Graph) Len() int { return len(g.nodes) }

// Node returns the node with the given ID.
func (g *Graph) Node(id NodeID) (*Node, bool) {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil, false
	}
	return g.nodes[id], true
}

// Connect adds an edge making to depend on from. Adding an existing edge is a
// no-op.
func (g *Graph) Connect(from, to NodeID) error {
	if from == to {
		return fmt.Errorf("%w: %d -> %d", ErrSelfEdge, from, from)
	}
	src, ok := g.Node(from)
	if !ok {
		return fmt.Errorf("source %w: %d", ErrUnknownNode, from)
	}
	dst, ok := g.Node(to)
	if !ok {
		return fmt.Errorf("destination %w: %d", ErrUnknownNode, to)
	}
	if src.sub != dst.sub {
		return fmt.Errorf("%w: '%s' -> '%s'", ErrCrossLevelEdge, g.subs[src.sub].level, g.subs[dst.sub].level)
	}
	for _, id := range src.outputs {
		if id == to {
			return nil
		}
	}
	src.outputs = append(src.outputs, to)
	dst.inputs = append(dst.inputs, from)
	return nil
}

// SubGraph is the part of the ETDG at one nesting level.
type SubGraph struct {
	g       *Graph
	index   int
	level   string
	members []NodeID
	roots   []NodeID
	active  bool
}

// Level names the nesting level, e.g. the enclosing construct.
func (s *SubGraph) Level() string { return s.level }

// Index returns the position of the SubGraph in its Graph.
func (s *SubGraph) Index() int { return s.index }

// Graph returns the graph owning the SubGraph.
func (s *SubGraph) Graph() *Graph { return s.g }

// AddNode puts a new node for task into the arena as a member of s.
func (s *SubGraph) AddNode(task *omp.Task) NodeID {
	id := NodeID(len(s.g.nodes))
	s.g.nodes = append(s.g.nodes, &Node{id: id, sub: s.index, task: task})
	s.members = append(s.members, id)
	return id
}

// Members returns the IDs of the nodes of s in insertion order.
func (s *SubGraph) Members() []NodeID { return append([]NodeID(nil), s.members...) }

// Roots returns the entry nodes of s.
func (s *SubGraph) Roots() []NodeID { return append([]NodeID(nil), s.roots...) }

// ComputeRoots sets the roots of s to its members without inputs.
func (s *SubGraph) ComputeRoots() {
	s.roots = s.roots[:0]
	for _, id := range s.members {
		if len(s.g.nodes[id].inputs) == 0 {
			s.roots = append(s.roots, id)
		}
	}
}

// Traverse walks s depth-first from every root, calling fn once for each
// reachable node before its outputs. A node reached again through another
// path is skipped. The marks are left set; call ClearVisits before the next
// pass. An error from fn stops the walk and is returned.
func (s *SubGraph) Traverse(fn func(*Node) error) error {
	if s.active {
		return ErrTraversalActive
	}
	for _, id := range s.members {
		if s.g.nodes[id].visited {
			return fmt.Errorf("%w: level '%s'", ErrDirtyVisits, s.level)
		}
	}
	s.active = true
	defer func() { s.active = false }()

	var visit func(n *Node) error
	visit = func(n *Node) error {
		if n.visited {
			return nil
		}
		n.visited = true
		if err := fn(n); err != nil {
			return err
		}
		for _, out := range n.outputs {
			if err := visit(s.g.nodes[out]); err != nil {
				return err
			}
		}
		return nil
	}

	for _, id := range s.roots {
		if err := visit(s.g.nodes[id]); err != nil {
			return err
		}
	}
	return nil
}

// ClearVisits resets the marks of every member of s.
func (s *SubGraph) ClearVisits() error {
	if s.active {
		return ErrTraversalActive
	}
	for _, id := range s.members {
		s.g.nodes[id].visited = false
	}
	return nil
}

// Edges returns every edge of s as (from, to) pairs, ordered by source.
func (s *SubGraph) Edges() [][2]NodeID {
	var out [][2]NodeID
	for _, id := range s.members {
		for _, to := range s.g.nodes[id].outputs {
			out = append(out, [2]NodeID{id, to})
		}
	}
	return out
}

// Validate checks that s is acyclic and that every member is reachable from
// a root.
func (s *SubGraph) Validate() error {
	// Classic three-color depth-first search; permanent nodes are known to be
	// outside any cycle, temporary ones are on the current path.
	permanent := make(map[NodeID]bool, len(s.members))
	temporary := make(map[NodeID]bool)

	var visit func(id NodeID) error
	visit = func(id NodeID) error {
		if permanent[id] {
			return nil
		}
		if temporary[id] {
			return fmt.Errorf("%w involving node %d in level '%s'", ErrCycle, id, s.level)
		}
		temporary[id] = true
		for _, out := range s.g.nodes[id].outputs {
			if err := visit(out); err != nil {
				return err
			}
		}
		delete(temporary, id)
		permanent[id] = true
		return nil
	}

	for _, id := range s.members {
		if err := visit(id); err != nil {
			return err
		}
	}

	reached := make(map[NodeID]bool, len(s.members))
	var mark func(id NodeID)
	mark = func(id NodeID) {
		if reached[id] {
			return
		}
		reached[id] = true
		for _, out := range s.g.nodes[id].outputs {
			mark(out)
		}
	}
	for _, id := range s.roots {
		mark(id)
	}
	for _, id := range s.members {
		if !reached[id] {
			return fmt.Errorf("node %d in level '%s' is not reachable from any root", id, s.level)
		}
	}
	return nil
}
