// Package datasharing holds the per-construct data-sharing environment: the
// attribute given to every symbol a task references and the dependency items
// the task declares.
package datasharing

import (
	"github.com/specialistvlad/tdg/internal/ast"
)

// Outcome reports what Set did.
type Outcome int

const (
	// Created means the symbol had no entry.
	Created Outcome = iota
	// Overwritten means an implicit entry was replaced.
	Overwritten
	// Ignored means an explicit entry was kept. This covers an implicit
	// assignment over an explicit one and a repeated explicit assignment of
	// the same attribute.
	Ignored
	// Conflict means a different explicit attribute was already set; the
	// first one was kept.
	Conflict
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Overwritten:
		return "overwritten"
	case Ignored:
		return "ignored"
	case Conflict:
		return "conflict"
	}
	return "unknown"
}

// Entry is the data-sharing of one symbol.
type Entry struct {
	Symbol    *ast.Symbol
	Attribute Attribute
	// Reason is a short justification shown in diagnostics and reports.
	Reason string
}

// Environment is owned by one task or worksharing construct. It is filled
// while the construct's clauses are processed and only read afterwards.
type Environment struct {
	parent    *Environment
	entries   map[*ast.Symbol]*Entry
	order     []*ast.Symbol
	deps      []Item
	def       Default
	construct string
}

// New creates the environment of a construct nested in parent. A nil parent
// is the environment of the enclosing function.
func New(construct string, parent *Environment) *Environment {
	return &Environment{
		parent:    parent,
		entries:   make(map[*ast.Symbol]*Entry),
		construct: construct,
	}
}

// Construct names the directive the environment belongs to.
func (e *Environment) Construct() string { return e.construct }

// Parent returns the enclosing environment.
func (e *Environment) Parent() *Environment { return e.parent }

// Set assigns attr to sym.
//
// An implicit entry gives way to any later assignment. An explicit entry is
// never replaced: a later implicit assignment or the same explicit attribute
// is Ignored, a different explicit attribute is a Conflict.
func (e *Environment) Set(sym *ast.Symbol, attr Attribute, reason string) Outcome {
	cur, ok := e.entries[sym]
	switch {
	case !ok || cur.Attribute == Unset:
		if !ok {
			e.order = append(e.order, sym)
		}
		e.entries[sym] = &Entry{Symbol: sym, Attribute: attr, Reason: reason}
		return Created
	case cur.Attribute.IsImplicit():
		cur.Attribute, cur.Reason = attr, reason
		return Overwritten
	case attr.IsImplicit() || attr == cur.Attribute:
		return Ignored
	default:
		return Conflict
	}
}

// Get returns the entry of sym. With checkEnclosing set, enclosing
// environments are searched when this one has no entry.
func (e *Environment) Get(sym *ast.Symbol, checkEnclosing bool) (Entry, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if entry, ok := cur.entries[sym]; ok {
			return *entry, true
		}
		if !checkEnclosing {
			break
		}
	}
	return Entry{}, false
}

// Attribute returns the attribute of sym, Unset when it has none.
func (e *Environment) Attribute(sym *ast.Symbol, checkEnclosing bool) Attribute {
	entry, _ := e.Get(sym, checkEnclosing)
	return entry.Attribute
}

// Entries returns the entries of this environment in the order the symbols
// were first assigned.
func (e *Environment) Entries() []Entry {
	out := make([]Entry, 0, len(e.order))
	for _, sym := range e.order {
		out = append(out, *e.entries[sym])
	}
	return out
}

// AddDependence appends item. Duplicates are kept.
func (e *Environment) AddDependence(item Item) {
	e.deps = append(e.deps, item)
}

// Dependences returns the dependency items in insertion order.
func (e *Environment) Dependences() []Item {
	out := make([]Item, len(e.deps))
	copy(out, e.deps)
	return out
}

// SetDefault records the `default` clause of the construct.
func (e *Environment) SetDefault(d Default) { e.def = d }

// Default returns the `default` clause of the construct.
func (e *Environment) Default() Default { return e.def }
