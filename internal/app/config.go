package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/tdg/internal/ast"
	"github.com/specialistvlad/tdg/internal/config"
	"github.com/specialistvlad/tdg/internal/omp"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// Paths are the description files or directories to analyse.
	Paths   []string
	Options config.Options
}

// NewConfig validates cfg.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.Paths) == 0 {
		return nil, errors.New("at least one description path is required")
	}
	a := cfg.Options.Analysis
	if _, err := omp.ParseMode(a.Mode); err != nil {
		return nil, err
	}
	if _, err := ast.ParseLanguage(a.Language); err != nil {
		return nil, err
	}
	if a.Report != "text" && a.Report != "json" {
		return nil, fmt.Errorf("invalid report format %q: must be 'text' or 'json'", a.Report)
	}
	if a.ParseCache < 0 {
		return nil, fmt.Errorf("invalid parse-cache %d: must not be negative", a.ParseCache)
	}
	switch cfg.Options.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Options.Log.Level)
	}
	if f := cfg.Options.Log.Format; f != "text" && f != "json" {
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", f)
	}
	return &cfg, nil
}
