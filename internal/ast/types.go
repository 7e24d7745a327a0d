package ast

import (
	"fmt"
	"strings"
)

// TypeKind identifies the shape of a Type.
type TypeKind int

const (
	TypeInvalid TypeKind = iota
	TypeScalar
	TypePointer
	TypeArray
	TypeClass
	TypeReference
)

// PointerSize is the byte size assumed for every pointer type.
const PointerSize = 8

// Type is a front-end type. Only the fields relevant to Kind are set.
type Type struct {
	Kind TypeKind
	// Name is the spelling of scalar and class types ("int", "struct C").
	Name string
	// Elem is the pointee, element or referenced type.
	Elem *Type
	// Length is the C array length expression; nil for `a[]`.
	Length Expr
	// Lower and Upper are Fortran array bounds; nil when assumed.
	Lower, Upper Expr
	// Fields are the data members of a class type.
	Fields []*Symbol

	byteSize int64
}

// Scalar creates a scalar type of the given byte size.
func Scalar(name string, size int64) *Type {
	return &Type{Kind: TypeScalar, Name: name, byteSize: size}
}

// PointerTo creates a pointer to elem.
func PointerTo(elem *Type) *Type {
	return &Type{Kind: TypePointer, Elem: elem, byteSize: PointerSize}
}

// ReferenceTo creates a C++ reference to elem.
func ReferenceTo(elem *Type) *Type {
	return &Type{Kind: TypeReference, Elem: elem}
}

// ArrayOf creates a C array of elem. A nil length makes a dimensionless array.
func ArrayOf(elem *Type, length Expr) *Type {
	return &Type{Kind: TypeArray, Elem: elem, Length: length}
}

// BoundedArrayOf creates a Fortran-style array of elem with explicit bounds.
func BoundedArrayOf(elem *Type, lower, upper Expr) *Type {
	return &Type{Kind: TypeArray, Elem: elem, Lower: lower, Upper: upper}
}

// Class creates a class type. Each field is marked as a member.
func Class(name string, fields ...*Symbol) *Type {
	t := &Type{Kind: TypeClass, Name: name}
	for _, f := range fields {
		f.Member = true
		t.Fields = append(t.Fields, f)
	}
	return t
}

// Common scalar types.
var (
	Int    = Scalar("int", 4)
	Char   = Scalar("char", 1)
	Double = Scalar("double", 8)
)

// NoRef strips one level of reference.
func (t *Type) NoRef() *Type {
	if t != nil && t.Kind == TypeReference {
		return t.Elem
	}
	return t
}

func (t *Type) IsArray() bool { return t != nil && t.Kind == TypeArray }
func (t *Type) IsPointer() bool { return t != nil && t.Kind == TypePointer }
func (t *Type) IsClass() bool { return t != nil && t.Kind == TypeClass }
func (t *Type) IsScalar() bool { return t != nil && t.Kind == TypeScalar }
func (t *Type) IsAnyReference() bool { return t != nil && t.Kind == TypeReference }

// ReferencesTo returns the referenced type of a reference type, nil otherwise.
func (t *Type) ReferencesTo() *Type {
	if t.IsAnyReference() {
		return t.Elem
	}
	return nil
}

// HasBounds reports whether an array type uses Fortran lower/upper bounds.
func (t *Type) HasBounds() bool {
	return t.IsArray() && (t.Lower != nil || t.Upper != nil)
}

// Field finds a data member of a class type. When fold is set the lookup
// ignores case, as Fortran component names do.
func (t *Type) Field(name string, fold bool) (*Symbol, bool) {
	if !t.IsClass() {
		return nil, false
	}
	for _, f := range t.Fields {
		if f.Name == name || (fold && strings.EqualFold(f.Name, name)) {
			return f, true
		}
	}
	return nil, false
}

// ArrayLength returns the constant element count of an array type.
func (t *Type) ArrayLength() (int64, bool) {
	if !t.IsArray() {
		return 0, false
	}
	if t.HasBounds() {
		lo, okLo := ConstValue(t.Lower)
		hi, okHi := ConstValue(t.Upper)
		if !okLo || !okHi || hi < lo {
			return 0, false
		}
		return hi - lo + 1, true
	}
	n, ok := ConstValue(t.Length)
	if !ok || n < 0 {
		return 0, false
	}
	return n, true
}

// Size returns the static byte size of the type. It fails for arrays without
// a constant length and for incomplete types.
func (t *Type) Size() (int64, bool) {
	if t == nil {
		return 0, false
	}
	switch t.Kind {
	case TypeScalar, TypePointer:
		return t.byteSize, true
	case TypeReference:
		return t.Elem.Size()
	case TypeArray:
		n, ok := t.ArrayLength()
		if !ok {
			return 0, false
		}
		elem, ok := t.Elem.Size()
		if !ok {
			return 0, false
		}
		return n * elem, true
	case TypeClass:
		var total int64
		for _, f := range t.Fields {
			if f.Static {
				continue
			}
			sz, ok := f.Type.Size()
			if !ok {
				return 0, false
			}
			total += sz
		}
		return total, true
	default:
		return 0, false
	}
}

// String spells the type in declarator-suffix form: `int`, `int*`,
// `int[10]`, `double[1:n]`, `struct C&`.
func (t *Type) String() string {
	if t == nil {
		return "<invalid>"
	}
	switch t.Kind {
	case TypeScalar, TypeClass:
		return t.Name
	case TypePointer:
		return t.Elem.String() + "*"
	case TypeReference:
		return t.Elem.String() + "&"
	case TypeArray:
		// Nested array dimensions read outermost first: int[10][20].
		var dims strings.Builder
		cur := t
		for cur.IsArray() {
			dims.WriteString(cur.dimString())
			cur = cur.Elem
		}
		return cur.String() + dims.String()
	default:
		return fmt.Sprintf("<type kind %d>", int(t.Kind))
	}
}

func (t *Type) dimString() string {
	if t.HasBounds() {
		return "[" + formatOptional(t.Lower) + ":" + formatOptional(t.Upper) + "]"
	}
	return "[" + formatOptional(t.Length) + "]"
}

func formatOptional(e Expr) string {
	if e == nil {
		return ""
	}
	return Format(e)
}
