package integration_tests

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/tdg/internal/app"
	"github.com/specialistvlad/tdg/internal/diag"
	"github.com/specialistvlad/tdg/internal/testutil"
)

func TestAnalysis_InvalidHCLIsRejected(t *testing.T) {
	// --- Arrange ---
	invalidHCL := `
		function "f" {
			construct "task" {
		// Missing closing brace here
	`

	// --- Act ---
	result := testutil.RunAnalysis(t, map[string]string{"main.hcl": invalidHCL}, nil)

	// --- Assert ---
	require.Error(t, result.Err)
	assert.ErrorContains(t, result.Err, "failed to parse HCL file")
	assert.Nil(t, result.Report)
}

func TestAnalysis_UnknownAttributeIsRejected(t *testing.T) {
	// --- Arrange ---
	programHCL := `
		function "f" {
			construct "task" {
				clauses  = "in(x)"
				priority = 3
			}
		}
	`

	// --- Act ---
	result := testutil.RunAnalysis(t, map[string]string{"main.hcl": programHCL}, nil)

	// --- Assert ---
	require.Error(t, result.Err)
	assert.ErrorContains(t, result.Err, "unsupported argument 'priority'")
}

func TestAnalysis_FatalConstructs(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "unknown device",
			body:    `construct "target" { clauses = "device(quantum)" }`,
			wantErr: "invalid device 'quantum'",
		},
		{
			name:    "orphaned section",
			body:    `construct "section" {}`,
			wantErr: "'section' construct is not inside a 'sections' construct",
		},
		{
			name:    "collapse without loop",
			body:    `construct "parallel for" { clauses = "collapse(2)" }`,
			wantErr: "requires a for-statement",
		},
		{
			name:    "unbalanced clause text",
			body:    `construct "task" { clauses = "in(x" }`,
			wantErr: "unbalanced '('",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			programHCL := "function \"f\" {\n  symbol \"x\" { type = \"int\" }\n  " + tc.body + "\n}\n"

			// --- Act ---
			result := testutil.RunAnalysis(t, map[string]string{"main.hcl": programHCL}, nil)

			// --- Assert ---
			require.Error(t, result.Err)
			assert.True(t, errors.Is(result.Err, diag.ErrMalformed), "got %v", result.Err)
			assert.ErrorContains(t, result.Err, tc.wantErr)
			assert.Empty(t, result.Output, "no report is written")
			assert.Contains(t, result.LogOutput, "Construct could not be analysed.")
		})
	}
}

func TestAnalysis_ErrorDiagnosticsFailTheRun(t *testing.T) {
	// --- Arrange ---
	programHCL := `
		function "f" {
			symbol "i" { type = "int" }
			symbol "a" { type = "int[10]" }

			construct "task" {
				line    = 4
				clauses = "default(none) shared(a) in(a[i])"
			}
		}
	`

	// --- Act ---
	result := testutil.RunAnalysis(t, map[string]string{"main.hcl": programHCL}, nil)

	// --- Assert ---
	require.Error(t, result.Err)
	assert.True(t, errors.Is(result.Err, app.ErrAnalysisFailed))
	assert.Contains(t, result.Output, "'i' must have an explicit data-sharing because of 'default(none)'")
	require.NotNil(t, result.Report, "the report is still produced")
	assert.Equal(t, []string{"in(a[i])"}, result.Report.Functions[0].Tasks[0].Dependences)
}
