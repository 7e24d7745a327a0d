package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeOptions(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), OptionsFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadOptions_MissingFileGivesDefaults(t *testing.T) {
	opts, err := LoadOptions(filepath.Join(t.TempDir(), OptionsFile))
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions(), *opts)
}

func TestLoadOptions_MergesDefinedKeys(t *testing.T) {
	path := writeOptions(t, `
[analysis]
mode = "OpenMP"
functions = "main, f"
call-graph = false
parse-cache = 0

[log]
level = "debug"
`)
	opts, err := LoadOptions(path)
	require.NoError(t, err)

	want := DefaultOptions()
	want.Analysis.Mode = "openmp"
	want.Analysis.Functions = "main, f"
	want.Analysis.CallGraph = false
	want.Analysis.ParseCache = 0
	want.Log.Level = "debug"
	assert.Equal(t, want, *opts)
}

func TestLoadOptions_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "syntax", content: "[analysis\n", wantErr: "parse options file"},
		{name: "unknown key", content: "[analysis]\nthreads = 4\n", wantErr: "unknown key 'analysis.threads'"},
		{name: "wrong type", content: "[analysis]\ncall-graph = \"yes\"\n", wantErr: "parse options file"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadOptions(writeOptions(t, tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestModelHelpers(t *testing.T) {
	m := &Model{Functions: []*Function{
		{Name: "main", Calls: []string{"f"}},
		{Name: "f"},
	}}
	assert.Equal(t, []string{"main", "f"}, m.FunctionNames())
	assert.Equal(t, map[string][]string{"main": {"f"}, "f": nil}, m.CallGraph())
}
