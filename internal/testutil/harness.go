package testutil

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/tdg/internal/app"
	"github.com/specialistvlad/tdg/internal/config"
	"github.com/specialistvlad/tdg/internal/hcl"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// WriteFiles writes files, keyed by slash-separated relative path, below a
// fresh temporary directory and returns the directory.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

// HarnessResult holds the outcomes of an end-to-end analysis run.
type HarnessResult struct {
	Output    string
	LogOutput string
	Report    *app.Report
	Err       error
}

// RunAnalysis writes files to a temporary directory, loads it with the HCL
// loader and analyses it. mutate, when non-nil, adjusts the default options.
// The report is written in the configured format to Output. Report is nil
// when a construct could not be analysed.
func RunAnalysis(t *testing.T, files map[string]string, mutate func(*config.Options)) *HarnessResult {
	t.Helper()
	dir := WriteFiles(t, files)

	opts := config.DefaultOptions()
	opts.Log.Level = "debug"
	if mutate != nil {
		mutate(&opts)
	}
	cfg, err := app.NewConfig(app.Config{Paths: []string{dir}, Options: opts})
	require.NoError(t, err)

	// The report value comes from a silent first pass; the second pass
	// produces the output a user would see.
	report, _ := app.NewApp(io.Discard, io.Discard, cfg, hcl.NewLoader()).Analyze(context.Background())
	var out, logs SafeBuffer
	err = app.NewApp(&out, &logs, cfg, hcl.NewLoader()).Run(context.Background())

	if os.Getenv("TDG_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
	}
	return &HarnessResult{
		Output:    out.String(),
		LogOutput: logs.String(),
		Report:    report,
		Err:       err,
	}
}
