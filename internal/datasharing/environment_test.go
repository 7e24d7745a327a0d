package datasharing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/tdg/internal/ast"
)

func TestSetPrecedence(t *testing.T) {
	testCases := []struct {
		name        string
		first       Attribute
		second      Attribute
		wantOutcome Outcome
		want        Attribute
	}{
		{"explicit wins over later inference", Firstprivate, Shared | Implicit, Ignored, Firstprivate},
		{"explicit replaces inference", Shared | Implicit, Private, Overwritten, Private},
		{"latest inference wins", Firstprivate | Implicit, Shared | Implicit, Overwritten, Shared | Implicit},
		{"implicit auto gives way", Auto | Implicit, Shared, Overwritten, Shared},
		{"repeated explicit", Shared, Shared, Ignored, Shared},
		{"conflicting explicit keeps first", Shared, Firstprivate, Conflict, Shared},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := New("task", nil)
			x := ast.NewVariable("x", ast.Int)
			require.Equal(t, Created, env.Set(x, tc.first, "first"))
			assert.Equal(t, tc.wantOutcome, env.Set(x, tc.second, "second"))
			assert.Equal(t, tc.want, env.Attribute(x, false))
			assert.Len(t, env.Entries(), 1)
		})
	}
}

func TestGetEnclosing(t *testing.T) {
	outer := New("sections", nil)
	inner := New("task", outer)
	x := ast.NewVariable("x", ast.Int)
	outer.Set(x, Shared, "explicitly shared")

	_, ok := inner.Get(x, false)
	assert.False(t, ok)
	entry, ok := inner.Get(x, true)
	require.True(t, ok)
	assert.Equal(t, Shared, entry.Attribute)
	assert.Equal(t, "explicitly shared", entry.Reason)
	assert.Same(t, outer, inner.Parent())
}

func TestEntriesKeepAssignmentOrder(t *testing.T) {
	env := New("task", nil)
	syms := []*ast.Symbol{ast.NewVariable("c", ast.Int), ast.NewVariable("a", ast.Int), ast.NewVariable("b", ast.Int)}
	for _, s := range syms {
		env.Set(s, Shared|Implicit, "")
	}
	env.Set(syms[1], Private, "")

	var names []string
	for _, e := range env.Entries() {
		names = append(names, e.Symbol.Name)
	}
	assert.Equal(t, []string{"c", "a", "b"}, names)
}

func TestDependencesKeepDuplicates(t *testing.T) {
	env := New("task", nil)
	x := ast.NewVariable("x", ast.Int)
	ref := &ast.SymbolRef{Base: ast.Base{Typ: ast.Int}, Sym: x}
	env.AddDependence(NewItem(ref, In, x))
	env.AddDependence(NewItem(ref, Out, x))

	deps := env.Dependences()
	require.Len(t, deps, 2)
	assert.Equal(t, "in(x)", deps[0].String())
	assert.Equal(t, "out(x)", deps[1].String())
}

func TestDirectionNames(t *testing.T) {
	testCases := map[Direction]string{
		Undefined:   "<<undefined-dependence>>",
		In:          "in",
		InValue:     "in",
		Out:         "out",
		InOut:       "inout",
		InPrivate:   "inprivate",
		Concurrent:  "concurrent",
		Commutative: "commutative",
	}
	for dir, want := range testCases {
		assert.Equal(t, want, dir.String())
	}
	assert.True(t, InOut.Writes())
	assert.True(t, InOut.Reads())
	assert.False(t, In.Writes())
	assert.False(t, Out.Reads())
}

func TestAttributeString(t *testing.T) {
	assert.Equal(t, "undefined", Unset.String())
	assert.Equal(t, "shared", Shared.String())
	assert.Equal(t, "firstprivate (implicit)", (Firstprivate | Implicit).String())
	assert.True(t, Private.IsExplicit())
	assert.False(t, (Auto | Implicit).IsExplicit())
	assert.Equal(t, Auto, (Auto | Implicit).Kind())
}

func TestParseDefault(t *testing.T) {
	d, ok := ParseDefault(" NONE ")
	require.True(t, ok)
	assert.Equal(t, DefaultNone, d)
	assert.Equal(t, Unset, d.Attribute())

	d, ok = ParseDefault("firstprivate")
	require.True(t, ok)
	assert.Equal(t, Firstprivate, d.Attribute())

	_, ok = ParseDefault("private")
	assert.False(t, ok)
}
