// Command tdg classifies the task dependences of a program description and
// builds its expanded task dependency graph.
package main

import (
	"log/slog"
	"os"

	"github.com/specialistvlad/tdg/internal/cli"
	"github.com/specialistvlad/tdg/internal/hcl"
)

// main is the entrypoint for the tdg application.
func main() {
	os.Exit(run())
}

// run encapsulates the main application logic for easier testing.
func run() int {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))
	return cli.Execute(os.Args[1:], os.Stdout, os.Stderr, hcl.NewLoader())
}
