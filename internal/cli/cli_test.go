package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/tdg/internal/app"
	"github.com/specialistvlad/tdg/internal/hcl"
	"github.com/specialistvlad/tdg/internal/testutil"
)

const program = `
function "f" {
  symbol "x" { type = "int" }

  construct "task" { clauses = "out(x)" }
  construct "task" { clauses = "in(x)" }
}
`

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := Execute(args, &out, &errOut, hcl.NewLoader())
	return code, out.String(), errOut.String()
}

func TestExecuteAnalyze(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"f.hcl": program})

	code, out, _ := execute(t, "analyze", "--config", filepath.Join(dir, "none.toml"), dir)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "level f: nodes [0 1], roots [0], edges [0->1]")
}

func TestExecuteFlagsOverrideOptionsFile(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"src/f.hcl": program,
		"tdg.toml": `
[analysis]
mode = "openmp"
report = "text"

[log]
level = "error"
`,
	})
	cfgPath := filepath.Join(dir, "tdg.toml")

	code, out, _ := execute(t, "analyze", "--config", cfgPath, "--report", "json", filepath.Join(dir, "src"))
	require.Equal(t, 0, code)

	var report app.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "openmp", report.Mode, "the file sets the mode")
	// The extended clauses are ignored in OpenMP mode, so there is no edge.
	assert.Empty(t, report.Functions[0].Levels[0].Edges)
	assert.Len(t, report.Diagnostics, 2)
}

func TestExecuteExitCodes(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"ok.hcl":      program,
		"bad.toml":    "[analysis]\ncolour = \"red\"\n",
		"failing.hcl": "function \"g\" {\n  symbol \"a\" { type = \"int[4]\" }\n  construct \"task\" { clauses = \"in({a[i], i=0;4})\" }\n  symbol \"i\" { type = \"int\" }\n}\n",
	})
	none := filepath.Join(dir, "none.toml")

	testCases := []struct {
		name    string
		args    []string
		want    int
		wantErr string
	}{
		{"help", []string{"--help"}, 0, ""},
		{"unknown flag", []string{"analyze", "--bogus", dir}, 2, "unknown flag: --bogus"},
		{"missing path", []string{"analyze", "--config", none}, 2, "requires at least 1 arg"},
		{"invalid mode", []string{"analyze", "--config", none, "--mode", "cilk", dir}, 2, "unknown mode"},
		{"unknown options key", []string{"analyze", "--config", filepath.Join(dir, "bad.toml"), dir}, 2, "unknown key"},
		{"analysis errors", []string{"analyze", "--config", none, filepath.Join(dir, "failing.hcl")}, 1, "analysis failed"},
		{"load error", []string{"analyze", "--config", none, filepath.Join(dir, "missing.hcl")}, 1, "failed to load description"},
		{"unknown command", []string{"compile"}, 2, "unknown command"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code, _, errOut := execute(t, tc.args...)
			assert.Equal(t, tc.want, code)
			if tc.wantErr != "" {
				assert.Contains(t, errOut, tc.wantErr)
			}
		})
	}
}

func TestExitError(t *testing.T) {
	err := &ExitError{Code: 2, Message: "bad flag"}
	assert.Equal(t, "bad flag", err.Error())
	assert.Equal(t, 2, err.ExitCode())
}
