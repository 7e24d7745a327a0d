package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/tdg/internal/app"
	"github.com/specialistvlad/tdg/internal/config"
	"github.com/specialistvlad/tdg/internal/testutil"
)

func sharing(task app.TaskReport) map[string]string {
	out := make(map[string]string, len(task.DataSharing))
	for _, s := range task.DataSharing {
		out[s.Symbol] = s.Attribute
	}
	return out
}

func TestAnalysis_StandardDependClause(t *testing.T) {
	// --- Arrange ---
	programHCL := `
		global "total" { type = "int" }

		function "kernel" {
			symbol "x" { type = "int" }
			symbol "i" { type = "int" }
			symbol "v" { type = "int[10]" }

			construct "task" {
				clauses = "depend(in: x, total) depend(out: v[i])"
			}
		}
	`

	// --- Act ---
	result := testutil.RunAnalysis(t, map[string]string{"kernel.hcl": programHCL}, func(o *config.Options) {
		o.Analysis.Mode = "openmp"
	})

	// --- Assert ---
	require.NoError(t, result.Err)
	task := result.Report.Functions[0].Tasks[0]
	assert.Equal(t, []string{"in(x)", "in(total)", "out(v[i])"}, task.Dependences)
	assert.Equal(t, map[string]string{
		"x":     "shared (implicit)",
		"total": "shared (implicit)",
		"v":     "shared (implicit)",
		"i":     "firstprivate (implicit)",
	}, sharing(task))
	assert.Equal(t, []string{"i"}, task.ExtraSymbols)
}

func TestAnalysis_ExtendedClausesIgnoredInOpenMPMode(t *testing.T) {
	// --- Arrange ---
	programHCL := `
		function "f" {
			symbol "x" { type = "int" }

			construct "task" {
				line    = 3
				clauses = "in(x)"
			}
		}
	`

	// --- Act ---
	result := testutil.RunAnalysis(t, map[string]string{"f.hcl": programHCL}, func(o *config.Options) {
		o.Analysis.Mode = "openmp"
	})

	// --- Assert ---
	require.NoError(t, result.Err, "warnings do not fail the run")
	assert.Empty(t, result.Report.Functions[0].Tasks[0].Dependences)
	require.Len(t, result.Report.Diagnostics, 1)
	assert.Equal(t, "warning", result.Report.Diagnostics[0].Severity)
	assert.Equal(t, "'in' clause is an OmpSs extension, ignored in OpenMP mode", result.Report.Diagnostics[0].Message)
	assert.Contains(t, result.Output, "diagnostics")
}

func TestAnalysis_ExplicitClausesAndNesting(t *testing.T) {
	// --- Arrange ---
	programHCL := `
		function "f" {
			symbol "n" { type = "int" }
			symbol "buf" { type = "double[n]" }

			construct "parallel" {
				clauses = "shared(n)"

				construct "task" {
					clauses = "firstprivate(n) inout(buf)"
				}
			}
		}
	`

	// --- Act ---
	result := testutil.RunAnalysis(t, map[string]string{"f.hcl": programHCL}, nil)

	// --- Assert ---
	require.NoError(t, result.Err)
	tasks := result.Report.Functions[0].Tasks
	require.Len(t, tasks, 2)
	assert.Equal(t, "shared", sharing(tasks[0])["n"])

	inner := sharing(tasks[1])
	assert.Equal(t, "firstprivate", inner["n"], "an explicit clause beats inference")
	assert.Equal(t, "shared (implicit)", inner["buf"])
	assert.Equal(t, "f::parallel#0", result.Report.Functions[0].Levels[0].Level)
}

func TestAnalysis_MemberFunctionInCXX(t *testing.T) {
	// --- Arrange ---
	programHCL := `
		struct "Grid" {
			field "cells" { type = "double[64]" }
		}

		function "Grid::step" {
			class = "Grid"

			construct "task" {
				clauses = "inout(cells[0;8])"
			}
		}
	`

	// --- Act ---
	result := testutil.RunAnalysis(t, map[string]string{"grid.hcl": programHCL}, func(o *config.Options) {
		o.Analysis.Language = "c++"
	})

	// --- Assert ---
	require.NoError(t, result.Err)
	task := result.Report.Functions[0].Tasks[0]
	require.Len(t, task.Dependences, 1)
	assert.Contains(t, task.Dependences[0], "this")
	assert.Equal(t, int64(64), task.DataSize, "eight doubles")
}
