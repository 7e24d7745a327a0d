package ast

import "github.com/specialistvlad/tdg/internal/locus"

// SymbolKind distinguishes the entities a name can denote.
type SymbolKind int

const (
	SymbolVariable SymbolKind = iota
	SymbolFunction
	// SymbolParameter is a Fortran named constant (`integer, parameter :: n`).
	SymbolParameter
)

// Symbol is a named entity of the analysed program.
type Symbol struct {
	Name string
	Kind SymbolKind
	Type *Type

	// Member marks a class data member; Static a static member or a
	// function-local static variable.
	Member bool
	Static bool
	// Global marks a namespace- or file-scope variable.
	Global bool
	// ImplicitObject marks the receiver object of a member function (`this`).
	// It is set only by Block.SetImplicitObject, never inferred from the name.
	ImplicitObject bool

	Locus locus.Locus
}

// NewVariable creates a variable symbol.
func NewVariable(name string, t *Type) *Symbol {
	return &Symbol{Name: name, Kind: SymbolVariable, Type: t}
}

// IsVariable reports whether the symbol names an object.
func (s *Symbol) IsVariable() bool {
	return s != nil && s.Kind == SymbolVariable
}

// IsFortranParameter reports whether the symbol is a Fortran named constant.
func (s *Symbol) IsFortranParameter() bool {
	return s != nil && s.Kind == SymbolParameter
}

// IsNonStaticMember reports whether the symbol is a non-static data member.
func (s *Symbol) IsNonStaticMember() bool {
	return s.IsVariable() && s.Member && !s.Static
}

func (s *Symbol) String() string {
	if s == nil {
		return "<no symbol>"
	}
	return s.Name
}
