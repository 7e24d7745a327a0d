package config

import "github.com/specialistvlad/tdg/internal/locus"

// Model is the unified, format-agnostic description of one translation unit:
// its class types, global variables and functions with their constructs.
type Model struct {
	Structs   []*Struct
	Globals   []*Symbol
	Functions []*Function
}

// Struct is a class type with its data members.
type Struct struct {
	Name   string
	Fields []*Symbol
	Locus  locus.Locus
}

// Symbol declares a variable. Type is written as a type spec, e.g. "int",
// "double[n]", "struct C*" or "real[1:n]".
type Symbol struct {
	Name string
	Type string
	// Static marks a static member or a function-local static variable.
	Static bool
	// Parameter marks a Fortran named constant.
	Parameter bool
	Locus     locus.Locus
}

// Function is one function definition.
type Function struct {
	Name string
	// Class makes the function a member function of the named struct.
	Class string
	// Calls lists the functions called from the body.
	Calls      []string
	Symbols    []*Symbol
	Constructs []*Construct
	Locus      locus.Locus
}

// Construct is a directive and what its statement contains.
type Construct struct {
	Directive string
	// Clauses is the clause text of the directive, e.g. "in(x) out(y)".
	Clauses string
	// Statement is the kind of the associated statement, e.g. "for".
	Statement string
	// Symbols are declared in the body and visible to nested constructs.
	Symbols []*Symbol
	Body    []*Construct
	Locus   locus.Locus
}

// FunctionNames returns the function names in declaration order.
func (m *Model) FunctionNames() []string {
	out := make([]string, 0, len(m.Functions))
	for _, f := range m.Functions {
		out = append(out, f.Name)
	}
	return out
}

// CallGraph maps every function to its callees.
func (m *Model) CallGraph() map[string][]string {
	out := make(map[string][]string, len(m.Functions))
	for _, f := range m.Functions {
		out[f.Name] = append([]string(nil), f.Calls...)
	}
	return out
}
