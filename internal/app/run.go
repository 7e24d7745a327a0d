package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/tdg/internal/ast"
	"github.com/specialistvlad/tdg/internal/ctxlog"
	"github.com/specialistvlad/tdg/internal/diag"
	"github.com/specialistvlad/tdg/internal/etdg"
	"github.com/specialistvlad/tdg/internal/omp"
	"github.com/specialistvlad/tdg/internal/weighted"
)

// Run analyses the configured description and writes the report. It returns
// ErrAnalysisFailed, wrapped, when error diagnostics were reported, and a
// *diag.Error when a construct could not be analysed at all.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	report, err := a.Analyze(ctx)
	if err != nil {
		return err
	}
	if err := writeReport(a.outW, report, a.cfg.Options.Analysis.Report); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	if n := report.errorCount(); n > 0 {
		return fmt.Errorf("%w: %d error(s) reported", ErrAnalysisFailed, n)
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

// Analyze runs every phase and returns the report without writing it.
func (a *App) Analyze(ctx context.Context) (*Report, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	opts := a.cfg.Options.Analysis

	mode, err := omp.ParseMode(opts.Mode)
	if err != nil {
		return nil, err
	}
	lang, err := ast.ParseLanguage(opts.Language)
	if err != nil {
		return nil, err
	}

	model, err := a.loader.Load(ctx, a.cfg.Paths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load description: %w", err)
	}
	a.logger.Debug("Description loaded and translated into unified model.")

	prog, err := buildProgram(model, lang)
	if err != nil {
		return nil, err
	}

	sink := diag.NewSink(a.logger)
	core, err := omp.NewCore(omp.Config{Mode: mode, Language: lang, ParseCacheSize: opts.ParseCache}, sink)
	if err != nil {
		return nil, err
	}

	selected := weighted.ParseFunctions(opts.Functions)
	known := make(map[string]bool, len(model.Functions))
	for _, name := range model.FunctionNames() {
		known[name] = true
	}
	for _, name := range selected {
		if !known[name] {
			a.logger.Warn("Selected function not found in the description.", "function", name)
		}
	}
	names := weighted.Select(model.FunctionNames(), model.CallGraph(), selected, opts.CallGraph)
	a.logger.Info("Analysing functions.", "count", len(names), "mode", mode.String(), "language", lang.String())

	var analyses []*analysis
	var graphs []*etdg.Graph
	for _, f := range model.Functions {
		if !contains(names, f.Name) {
			continue
		}
		an, err := analyzeFunction(ctx, core, prog, f)
		if err != nil {
			var derr *diag.Error
			if errors.As(err, &derr) {
				a.logger.Error("Construct could not be analysed.", "locus", derr.Locus.String(), "error", derr.Msg)
			}
			return nil, err
		}
		analyses = append(analyses, an)
		graphs = append(graphs, an.graph)
	}

	phase := weighted.NewPhase(weighted.Options{PrintTDG: opts.PrintTDG, DOT: a.outW}, sink)
	passes, err := phase.Run(ctx, graphs)
	if err != nil {
		return nil, err
	}

	hits, misses := core.CacheStats()
	a.logger.Debug("Parse cache statistics.", "hits", hits, "misses", misses)
	return buildReport(mode, lang, analyses, passes, sink), nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
