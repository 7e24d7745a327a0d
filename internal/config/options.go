package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// OptionsFile is the name of the options file looked up next to the
// description files.
const OptionsFile = "tdg.toml"

// Options represents the tdg.toml options file.
type Options struct {
	Analysis Analysis `toml:"analysis"`
	Log      Log      `toml:"log"`
}

// Analysis contains the options of the analysis phases.
type Analysis struct {
	// Mode selects the directive dialect: "ompss" or "openmp".
	Mode string `toml:"mode"`
	// Language is "c", "c++" or "fortran".
	Language string `toml:"language"`
	// Functions lists the functions to analyse, separated by commas or
	// blanks. Empty means all of them.
	Functions string `toml:"functions"`
	// CallGraph adds the functions called from the selected ones.
	CallGraph bool `toml:"call-graph"`
	// PrintTDG writes every graph in DOT syntax before the traversal.
	PrintTDG bool `toml:"print-tdg"`
	// ParseCache bounds the expression parse cache; 0 disables it.
	ParseCache int `toml:"parse-cache"`
	// Report is the output format of the report: "text" or "json".
	Report string `toml:"report"`
}

// Log contains the logging options.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DefaultOptions returns the options used when no file sets them.
func DefaultOptions() Options {
	return Options{
		Analysis: Analysis{
			Mode:       "ompss",
			Language:   "c",
			CallGraph:  true,
			ParseCache: 1024,
			Report:     "text",
		},
		Log: Log{Level: "info", Format: "text"},
	}
}

// LoadOptions reads the options file at path on top of the defaults. A
// missing file yields the defaults.
func LoadOptions(path string) (*Options, error) {
	defaults := DefaultOptions()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read options file %s: %w", path, err)
	}

	var file Options
	meta, err := toml.Decode(string(data), &file)
	if err != nil {
		return nil, fmt.Errorf("parse options file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("options file %s: unknown key '%s'", path, undecoded[0])
	}
	merged := mergeOptions(defaults, file, meta)
	return &merged, nil
}

func mergeOptions(defaults, file Options, meta toml.MetaData) Options {
	merged := defaults
	merged.Analysis.Mode = strings.ToLower(mergeString(meta.IsDefined("analysis", "mode"), file.Analysis.Mode, defaults.Analysis.Mode))
	merged.Analysis.Language = strings.ToLower(mergeString(meta.IsDefined("analysis", "language"), file.Analysis.Language, defaults.Analysis.Language))
	merged.Analysis.Functions = mergeString(meta.IsDefined("analysis", "functions"), file.Analysis.Functions, defaults.Analysis.Functions)
	merged.Analysis.Report = strings.ToLower(mergeString(meta.IsDefined("analysis", "report"), file.Analysis.Report, defaults.Analysis.Report))
	if meta.IsDefined("analysis", "call-graph") {
		merged.Analysis.CallGraph = file.Analysis.CallGraph
	}
	if meta.IsDefined("analysis", "print-tdg") {
		merged.Analysis.PrintTDG = file.Analysis.PrintTDG
	}
	if meta.IsDefined("analysis", "parse-cache") {
		merged.Analysis.ParseCache = file.Analysis.ParseCache
	}
	merged.Log.Level = strings.ToLower(mergeString(meta.IsDefined("log", "level"), file.Log.Level, defaults.Log.Level))
	merged.Log.Format = strings.ToLower(mergeString(meta.IsDefined("log", "format"), file.Log.Format, defaults.Log.Format))
	return merged
}

func mergeString(fileDefined bool, fileValue, defaultValue string) string {
	value := defaultValue
	if fileDefined {
		value = fileValue
	}
	return strings.TrimSpace(value)
}
