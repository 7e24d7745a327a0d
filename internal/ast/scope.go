package ast

import (
	"fmt"
	"strings"
)

// Language selects the host-language rules used for parsing and defaults.
type Language int

const (
	LangC Language = iota
	LangCXX
	LangFortran
)

// ParseLanguage maps "c", "c++"/"cxx" and "fortran" to a Language.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "c":
		return LangC, nil
	case "c++", "cxx", "cpp":
		return LangCXX, nil
	case "fortran", "f90", "f95":
		return LangFortran, nil
	default:
		return LangC, fmt.Errorf("unknown language %q: must be 'c', 'c++' or 'fortran'", s)
	}
}

func (l Language) String() string {
	switch l {
	case LangC:
		return "c"
	case LangCXX:
		return "c++"
	case LangFortran:
		return "fortran"
	default:
		return fmt.Sprintf("language(%d)", int(l))
	}
}

// IsFortran reports whether Fortran rules apply.
func (l Language) IsFortran() bool { return l == LangFortran }

// Scope resolves names for the expression parser.
type Scope interface {
	// Lookup finds the symbol visible under name, searching enclosing scopes.
	Lookup(name string) (*Symbol, bool)
	// ImplicitObject returns the receiver symbol of the enclosing member
	// function, or nil outside one.
	ImplicitObject() *Symbol
	// Name identifies the scope for diagnostics and cache keys.
	Name() string
}

// Block is a lexical scope with an optional parent.
type Block struct {
	name     string
	parent   *Block
	foldCase bool
	symbols  map[string]*Symbol
	order    []*Symbol
	this     *Symbol
}

// NewBlock creates a scope nested in parent. A nil parent creates a file
// scope. Child scopes inherit case folding from their parent.
func NewBlock(name string, parent *Block) *Block {
	b := &Block{name: name, parent: parent, symbols: make(map[string]*Symbol)}
	if parent != nil {
		b.foldCase = parent.foldCase
	}
	return b
}

// NewFortranBlock creates a case-insensitive file scope.
func NewFortranBlock(name string) *Block {
	b := NewBlock(name, nil)
	b.foldCase = true
	return b
}

func (b *Block) key(name string) string {
	if b.foldCase {
		return strings.ToLower(name)
	}
	return name
}

// Declare adds a symbol to this scope. Redeclaring a name in the same scope
// is an error.
func (b *Block) Declare(sym *Symbol) error {
	k := b.key(sym.Name)
	if _, exists := b.symbols[k]; exists {
		return fmt.Errorf("'%s' redeclared in scope '%s'", sym.Name, b.name)
	}
	b.symbols[k] = sym
	b.order = append(b.order, sym)
	return nil
}

// Lookup implements Scope.
func (b *Block) Lookup(name string) (*Symbol, bool) {
	for cur := b; cur != nil; cur = cur.parent {
		if sym, ok := cur.symbols[cur.key(name)]; ok {
			return sym, true
		}
	}
	return nil, false
}

// SetImplicitObject turns the block into a member-function scope of class:
// it declares the receiver `this` (a pointer to class) and makes every data
// member of class visible as a member symbol.
func (b *Block) SetImplicitObject(class *Type) error {
	if !class.IsClass() {
		return fmt.Errorf("implicit object of scope '%s' must have class type, got %s", b.name, class)
	}
	b.this = &Symbol{Name: "this", Kind: SymbolVariable, Type: PointerTo(class), ImplicitObject: true}
	for _, f := range class.Fields {
		if err := b.Declare(f); err != nil {
			return err
		}
	}
	return nil
}

// ImplicitObject implements Scope.
func (b *Block) ImplicitObject() *Symbol {
	for cur := b; cur != nil; cur = cur.parent {
		if cur.this != nil {
			return cur.this
		}
	}
	return nil
}

// Name implements Scope.
func (b *Block) Name() string {
	if b.parent == nil {
		return b.name
	}
	return b.parent.Name() + "::" + b.name
}

// Parent returns the enclosing scope, nil for a file scope.
func (b *Block) Parent() *Block { return b.parent }

// Symbols returns the symbols declared directly in this scope, in
// declaration order.
func (b *Block) Symbols() []*Symbol {
	out := make([]*Symbol, len(b.order))
	copy(out, b.order)
	return out
}
