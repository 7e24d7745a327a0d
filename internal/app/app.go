package app

import (
	"errors"
	"io"
	"log/slog"

	"github.com/specialistvlad/tdg/internal/config"
)

// ErrAnalysisFailed is returned by Run when the analysis reported errors.
var ErrAnalysisFailed = errors.New("analysis failed")

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	loader config.Loader
	cfg    *Config
}

// NewApp is the constructor for the main application. The report goes to
// outW and logs to logW; each App has its own isolated logger.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader) *App {
	logger := newLogger(cfg.Options.Log, logW)
	logger.Debug("Logger configured successfully.")
	return &App{
		outW:   outW,
		logger: logger,
		loader: loader,
		cfg:    cfg,
	}
}

// Logger returns the application's logger. This is primarily for testing.
func (a *App) Logger() *slog.Logger {
	return a.logger
}
