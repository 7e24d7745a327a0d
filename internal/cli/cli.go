package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/specialistvlad/tdg/internal/app"
	"github.com/specialistvlad/tdg/internal/config"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// ExitCode returns the process exit code.
func (e *ExitError) ExitCode() int {
	return e.Code
}

func usageError(err error) error {
	return &ExitError{Code: 2, Message: err.Error()}
}

// flags holds the raw values of the analyze command line.
type flags struct {
	config     string
	mode       string
	language   string
	functions  string
	callGraph  bool
	printTDG   bool
	parseCache int
	report     string
	logLevel   string
	logFormat  string
}

// NewRootCommand builds the tdg command tree. Reports go to outW and logs to
// errW. The HCL loader, or any other config.Loader, is injected by the caller.
func NewRootCommand(outW, errW io.Writer, loader config.Loader) *cobra.Command {
	root := &cobra.Command{
		Use:           "tdg",
		Short:         "tdg - task dependency classification and ETDG analysis",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})
	root.AddCommand(newAnalyzeCommand(outW, errW, loader))
	return root
}

func newAnalyzeCommand(outW, errW io.Writer, loader config.Loader) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "analyze PATH...",
		Short: "Classify task dependences and build the ETDG of a program description",
		Long: `Analyze reads a program description (a .hcl file or a directory of them),
classifies the data-sharing of every variable a task construct references,
builds the expanded task dependency graph of every selected function and
prints a report.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolve(cmd, f, args)
			if err != nil {
				return err
			}
			a := app.NewApp(outW, errW, cfg, loader)
			if err := a.Run(context.Background()); err != nil {
				return &ExitError{Code: 1, Message: err.Error()}
			}
			return nil
		},
	}

	addAnalysisFlags(cmd.Flags(), &f, config.DefaultOptions())
	return cmd
}

// addAnalysisFlags binds the analyze flags to f. Flag defaults show the
// built-in options; the options file only applies to flags left unset.
func addAnalysisFlags(fl *pflag.FlagSet, f *flags, defaults config.Options) {
	fl.StringVar(&f.config, "config", config.OptionsFile, "Path to the phase options file. A missing file is ignored.")
	fl.StringVar(&f.mode, "mode", defaults.Analysis.Mode, "Directive dialect. Options: 'ompss' or 'openmp'.")
	fl.StringVar(&f.language, "language", defaults.Analysis.Language, "Host language. Options: 'c', 'c++' or 'fortran'.")
	fl.StringVar(&f.functions, "functions", defaults.Analysis.Functions, "Comma or space separated functions to analyse. Empty means all.")
	fl.BoolVar(&f.callGraph, "call-graph", defaults.Analysis.CallGraph, "Also analyse the functions called from the selected ones.")
	fl.BoolVar(&f.printTDG, "print-tdg", defaults.Analysis.PrintTDG, "Print every ETDG in DOT format before the report.")
	fl.IntVar(&f.parseCache, "parse-cache", defaults.Analysis.ParseCache, "Entries of the dependency expression cache. 0 disables it.")
	fl.StringVar(&f.report, "report", defaults.Analysis.Report, "Report format. Options: 'text' or 'json'.")
	fl.StringVar(&f.logLevel, "log-level", defaults.Log.Level, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	fl.StringVar(&f.logFormat, "log-format", defaults.Log.Format, "Log output format. Options: 'text' or 'json'.")
}

// resolve merges the options file with the flags the user set and validates
// the result.
func resolve(cmd *cobra.Command, f flags, args []string) (*app.Config, error) {
	opts, err := config.LoadOptions(f.config)
	if err != nil {
		return nil, usageError(err)
	}
	slog.Debug("Phase options loaded.", "path", f.config)

	changed := cmd.Flags().Changed
	if changed("mode") {
		opts.Analysis.Mode = strings.ToLower(f.mode)
	}
	if changed("language") {
		opts.Analysis.Language = strings.ToLower(f.language)
	}
	if changed("functions") {
		opts.Analysis.Functions = f.functions
	}
	if changed("call-graph") {
		opts.Analysis.CallGraph = f.callGraph
	}
	if changed("print-tdg") {
		opts.Analysis.PrintTDG = f.printTDG
	}
	if changed("parse-cache") {
		opts.Analysis.ParseCache = f.parseCache
	}
	if changed("report") {
		opts.Analysis.Report = strings.ToLower(f.report)
	}
	if changed("log-level") {
		opts.Log.Level = strings.ToLower(f.logLevel)
	}
	if changed("log-format") {
		opts.Log.Format = strings.ToLower(f.logFormat)
	}

	cfg, err := app.NewConfig(app.Config{Paths: args, Options: *opts})
	if err != nil {
		return nil, usageError(err)
	}
	return cfg, nil
}

// Execute runs the command tree with args and returns the process exit code.
// Errors are printed to errW.
func Execute(args []string, outW, errW io.Writer, loader config.Loader) int {
	root := NewRootCommand(outW, errW, loader)
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return 0
	}
	io.WriteString(errW, err.Error()+"\n")
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	// Argument and command errors from cobra itself.
	return 2
}
