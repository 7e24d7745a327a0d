package exprparse

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/tdg/internal/ast"
)

// scalarSizes are the byte sizes of the built-in scalar types.
var scalarSizes = map[string]int64{
	"char":      1,
	"bool":      1,
	"short":     2,
	"int":       4,
	"unsigned":  4,
	"long":      8,
	"size_t":    8,
	"float":     4,
	"double":    8,
	"integer":   4,
	"real":      4,
	"logical":   4,
	"complex":   8,
	"character": 1,
}

// Classes resolves class type names used in type specs.
type Classes interface {
	Class(name string) (*ast.Type, bool)
}

// ClassMap is a Classes backed by a map.
type ClassMap map[string]*ast.Type

// Class implements Classes.
func (m ClassMap) Class(name string) (*ast.Type, bool) {
	t, ok := m[name]
	return t, ok
}

// ParseType parses a declarator-suffix type spec such as `int`, `double*`,
// `int[10][20]`, `int[n]`, `int[]&`, `real[1:n]` or `struct C*`. Dimension
// expressions are parsed in scope. Modifiers apply left to right and a run of
// consecutive dimensions reads outermost first, so `int*[10]` is an array of
// ten pointers while `int[10]*` points to an array.
func ParseType(spec string, scope ast.Scope, classes Classes, opts Options) (*ast.Type, error) {
	spec = strings.TrimSpace(spec)
	baseEnd := strings.IndexAny(spec, "*&[")
	if baseEnd < 0 {
		baseEnd = len(spec)
	}
	baseName := strings.Join(strings.Fields(spec[:baseEnd]), " ")
	if baseName == "" {
		return nil, fmt.Errorf("type spec %q has no base type", spec)
	}

	t, err := baseType(baseName, classes, opts.Language)
	if err != nil {
		return nil, err
	}

	rest := spec[baseEnd:]
	for len(rest) > 0 {
		switch rest[0] {
		case ' ', '\t':
			rest = rest[1:]
		case '*':
			t = ast.PointerTo(t)
			rest = rest[1:]
		case '&':
			if t.IsAnyReference() {
				return nil, fmt.Errorf("type spec %q: reference to reference", spec)
			}
			t = ast.ReferenceTo(t)
			rest = rest[1:]
		case '[':
			var dims []*ast.Type
			for len(rest) > 0 && rest[0] == '[' {
				end := strings.IndexByte(rest, ']')
				if end < 0 {
					return nil, fmt.Errorf("type spec %q: unterminated '['", spec)
				}
				dim, err := parseDim(rest[1:end], scope, opts)
				if err != nil {
					return nil, fmt.Errorf("type spec %q: %w", spec, err)
				}
				dims = append(dims, dim)
				rest = rest[end+1:]
			}
			for i := len(dims) - 1; i >= 0; i-- {
				dims[i].Elem = t
				t = dims[i]
			}
		default:
			return nil, fmt.Errorf("type spec %q: unexpected %q", spec, rest[0])
		}
	}
	return t, nil
}

func baseType(name string, classes Classes, lang ast.Language) (*ast.Type, error) {
	key := name
	if lang.IsFortran() {
		key = strings.ToLower(name)
	}
	if size, ok := scalarSizes[key]; ok {
		return ast.Scalar(key, size), nil
	}
	if classes != nil {
		if t, ok := classes.Class(name); ok {
			return t, nil
		}
		// `struct C` and `C` name the same class.
		for _, prefix := range []string{"struct ", "class ", "type "} {
			if trimmed, found := strings.CutPrefix(name, prefix); found {
				if t, ok := classes.Class(trimmed); ok {
					return t, nil
				}
			}
		}
	}
	return nil, fmt.Errorf("unknown type '%s'", name)
}

// parseDim returns an array type without its element.
func parseDim(text string, scope ast.Scope, opts Options) (*ast.Type, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return ast.ArrayOf(nil, nil), nil
	}
	parse := func(s string) (ast.Expr, error) {
		s = strings.TrimSpace(s)
		if s == "" || s == "*" {
			return nil, nil
		}
		return Parse(s, scope, Options{Language: opts.Language, Locus: opts.Locus})
	}
	if lo, hi, ok := strings.Cut(text, ":"); ok {
		lower, err := parse(lo)
		if err != nil {
			return nil, err
		}
		upper, err := parse(hi)
		if err != nil {
			return nil, err
		}
		return ast.BoundedArrayOf(nil, lower, upper), nil
	}
	length, err := parse(text)
	if err != nil {
		return nil, err
	}
	if length != nil && !isInteger(length.Type()) {
		return nil, &Error{Locus: length.Pos(), Msg: fmt.Sprintf("array size '%s' is not an integer", ast.Format(length))}
	}
	return ast.ArrayOf(nil, length), nil
}
