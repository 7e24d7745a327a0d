package integration_tests

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/tdg/internal/app"
	"github.com/specialistvlad/tdg/internal/config"
	"github.com/specialistvlad/tdg/internal/testutil"
)

func TestAnalysis_DiamondDependences(t *testing.T) {
	// --- Arrange ---
	programHCL := `
		function "diamond" {
			file = "diamond.c"

			symbol "a" { type = "int" }
			symbol "b" { type = "int" }
			symbol "c" { type = "int" }

			construct "task" {
				line    = 5
				clauses = "out(a)"
			}
			construct "task" {
				line    = 7
				clauses = "in(a) out(b)"
			}
			construct "task" {
				line    = 9
				clauses = "in(a) out(c)"
			}
			construct "task" {
				line    = 11
				clauses = "in(b, c)"
			}
		}
	`
	files := map[string]string{
		"src/diamond.hcl": programHCL,
	}

	// --- Act ---
	result := testutil.RunAnalysis(t, files, nil)

	// --- Assert ---
	require.NoError(t, result.Err, "The analysis should not report errors")
	require.NotNil(t, result.Report)
	require.Len(t, result.Report.Functions, 1)

	f := result.Report.Functions[0]
	assert.Equal(t, []string{"in(b)", "in(c)"}, f.Tasks[3].Dependences)

	want := []app.LevelReport{{
		Level:   "diamond",
		Nodes:   []int{0, 1, 2, 3},
		Roots:   []int{0},
		Edges:   [][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 3}},
		Visited: []int{0, 1, 3, 2},
	}}
	if diff := cmp.Diff(want, f.Levels); diff != "" {
		t.Errorf("levels mismatch (-want +got):\n%s", diff)
	}
	assert.Contains(t, result.Output, "edges [0->1 0->2 1->3 2->3]")
	assert.Contains(t, result.LogOutput, "Function analysed.")
}

func TestAnalysis_ConcurrentTasksShareNoEdges(t *testing.T) {
	// --- Arrange ---
	programHCL := `
		function "reduce" {
			symbol "sum" { type = "double" }

			construct "task" { clauses = "concurrent(sum)" }
			construct "task" { clauses = "concurrent(sum)" }
			construct "task" { clauses = "in(sum)" }
		}
	`

	// --- Act ---
	result := testutil.RunAnalysis(t, map[string]string{"reduce.hcl": programHCL}, nil)

	// --- Assert ---
	require.NoError(t, result.Err)
	levels := result.Report.Functions[0].Levels
	require.Len(t, levels, 1)
	assert.Equal(t, [][2]int{{0, 2}, {1, 2}}, levels[0].Edges)
	assert.Equal(t, []int{0, 1}, levels[0].Roots)
}

func TestAnalysis_GraphIsPrintedBeforeReport(t *testing.T) {
	// --- Arrange ---
	programHCL := `
		function "f" {
			symbol "x" { type = "int" }

			construct "task" { clauses = "out(x)" }
			construct "task" { clauses = "in(x)" }
		}
	`

	// --- Act ---
	result := testutil.RunAnalysis(t, map[string]string{"f.hcl": programHCL}, func(o *config.Options) {
		o.Analysis.PrintTDG = true
	})

	// --- Assert ---
	require.NoError(t, result.Err)
	dot := strings.Index(result.Output, `digraph "etdg_f" {`)
	report := strings.Index(result.Output, "function f")
	require.GreaterOrEqual(t, dot, 0, "DOT output is missing")
	assert.Less(t, dot, report, "DOT output comes before the report")
	assert.Contains(t, result.Output, "n0 -> n1;")
}
