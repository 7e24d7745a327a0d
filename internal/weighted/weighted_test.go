package weighted

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/tdg/internal/ast"
	"github.com/specialistvlad/tdg/internal/ctxlog"
	"github.com/specialistvlad/tdg/internal/datasharing"
	"github.com/specialistvlad/tdg/internal/diag"
	"github.com/specialistvlad/tdg/internal/etdg"
	"github.com/specialistvlad/tdg/internal/omp"
)

func TestParseFunctions(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"main", []string{"main"}},
		{"foo,bar", []string{"bar", "foo"}},
		{" foo , bar  baz,,foo ", []string{"bar", "baz", "foo"}},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseFunctions(tc.in))
		})
	}
}

func TestSelect(t *testing.T) {
	program := []string{"main", "f", "g", "h", "unused"}
	calls := CallGraph{"main": {"f"}, "f": {"g", "main"}, "g": {"h"}}

	assert.Equal(t, program, Select(program, calls, nil, true))
	assert.Equal(t, []string{"f"}, Select(program, calls, []string{"f"}, false))
	assert.Equal(t, []string{"main", "f", "g", "h"}, Select(program, calls, []string{"f"}, true))
	assert.Equal(t, []string{"g", "h"}, Select(program, calls, []string{"g", "missing"}, true))
}

func lit(v int64) ast.Expr { return &ast.IntLit{Base: ast.Base{Typ: ast.Int}, Value: v} }

func ref(sym *ast.Symbol) *ast.SymbolRef {
	return &ast.SymbolRef{Base: ast.Base{Typ: sym.Type}, Sym: sym}
}

func taskWith(devices []string, items ...ast.Expr) *omp.Task {
	env := datasharing.New("task", nil)
	for _, e := range items {
		env.AddDependence(datasharing.NewItem(e, datasharing.In, nil))
	}
	return &omp.Task{Env: env, Devices: devices}
}

func TestEnrich(t *testing.T) {
	x := ast.NewVariable("x", ast.Int)
	a := ast.NewVariable("a", ast.ArrayOf(ast.Double, lit(10)))
	n := ast.NewVariable("n", ast.Int)
	v := ast.NewVariable("v", ast.ArrayOf(ast.Int, ref(n)))
	p := ast.NewVariable("p", ast.PointerTo(ast.Int))
	z := ast.NewVariable("z", ast.Double)
	c := ast.NewVariable("c", ast.Class("struct C", z))

	sub := &ast.ArraySubscript{Base: ast.Base{Typ: ast.Double}, Array: ref(a), Subscripts: []ast.Expr{lit(2)}}
	member := &ast.MemberAccess{Base: ast.Base{Typ: ast.Double}, Object: ref(c), Member: z, Sep: "."}
	deref := &ast.Dereference{Base: ast.Base{Typ: ast.Int}, Operand: ref(p)}

	t.Run("sizes and device", func(t *testing.T) {
		sink := diag.NewSink(nil)
		got := Enrich(taskWith([]string{"fpga", "smp"}, ref(x), ref(a), sub, member), sink)
		assert.Equal(t, etdg.Annotation{DataSize: 4 + 80 + 8 + 8, Device: "fpga"}, got)
		assert.Empty(t, sink.Diagnostics())
	})

	t.Run("unhandled kinds warn", func(t *testing.T) {
		sink := diag.NewSink(nil)
		got := Enrich(taskWith(nil, deref, ref(x)), sink)
		assert.Equal(t, etdg.Annotation{DataSize: 4}, got)
		require.Equal(t, 1, sink.Count(diag.SeverityWarning))
		assert.Contains(t, sink.Diagnostics()[0].Message, "unhandled node of kind 'dereference'")
	})

	t.Run("non-constant size", func(t *testing.T) {
		sink := diag.NewSink(nil)
		got := Enrich(taskWith(nil, ref(v)), sink)
		assert.Zero(t, got.DataSize)
		assert.Equal(t, 1, sink.Count(diag.SeverityWarning))
	})

	t.Run("explicit data-sharing symbols", func(t *testing.T) {
		sink := diag.NewSink(nil)
		tk := taskWith(nil, sub)
		tk.Env.Set(x, datasharing.Firstprivate, "explicit")
		tk.Env.Set(a, datasharing.Shared, "explicit")
		tk.Env.Set(z, datasharing.Private|datasharing.Implicit, "implicit")
		got := Enrich(tk, sink)
		// a[2] covers a, and the implicit z is not counted.
		assert.Equal(t, etdg.Annotation{DataSize: 8 + 4}, got)
		assert.Empty(t, sink.Diagnostics())
	})

	t.Run("explicit symbol without constant size", func(t *testing.T) {
		sink := diag.NewSink(nil)
		tk := taskWith(nil, ref(x))
		tk.Env.Set(v, datasharing.Firstprivate, "explicit")
		got := Enrich(tk, sink)
		assert.Equal(t, etdg.Annotation{DataSize: 4}, got)
		require.Equal(t, 1, sink.Count(diag.SeverityWarning))
		assert.Contains(t, sink.Diagnostics()[0].Message, "size of 'v' is not constant")
	})

	t.Run("nil task", func(t *testing.T) {
		assert.Equal(t, etdg.Annotation{}, Enrich(nil, diag.NewSink(nil)))
	})
}

func TestPhaseRun(t *testing.T) {
	x := ast.NewVariable("x", ast.Int)
	g := etdg.New("f")
	s := g.NewSub("f")
	root := s.AddNode(taskWith([]string{"cuda"}, ref(x)))
	left := s.AddNode(taskWith(nil, ref(x)))
	right := s.AddNode(taskWith(nil, ref(x)))
	join := s.AddNode(taskWith(nil, ref(x)))
	require.NoError(t, g.Connect(root, left))
	require.NoError(t, g.Connect(root, right))
	require.NoError(t, g.Connect(left, join))
	require.NoError(t, g.Connect(right, join))
	s.ComputeRoots()

	var dot bytes.Buffer
	sink := diag.NewSink(nil)
	phase := NewPhase(Options{PrintTDG: true, DOT: &dot}, sink)
	ctx := ctxlog.Discard(context.Background())

	passes, err := phase.Run(ctx, []*etdg.Graph{g})
	require.NoError(t, err)
	require.Len(t, passes, 1)
	assert.Equal(t, []etdg.NodeID{root, left, join, right}, passes[0].Visited)
	assert.Contains(t, dot.String(), "n0 -> n1;")

	n, _ := g.Node(root)
	assert.Equal(t, etdg.Annotation{DataSize: 4, Device: "cuda"}, n.Annotation)
	for _, id := range s.Members() {
		n, _ := g.Node(id)
		assert.False(t, n.Visited())
	}

	// Marks were cleared, so a second run walks the same nodes.
	again, err := phase.Run(ctx, []*etdg.Graph{g})
	require.NoError(t, err)
	assert.Equal(t, passes, again)
}
