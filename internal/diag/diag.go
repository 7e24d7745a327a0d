// Package diag collects the diagnostics produced while analysing task
// constructs and defines the error kinds that abort a construct.
//
// Three outcomes exist for a problem found during analysis:
//   - a Warning (or Info) diagnostic: the offending item is dropped or treated
//     conservatively and analysis continues;
//   - an Error diagnostic: analysis continues so that every problem is
//     reported, but the run as a whole fails;
//   - a returned *Error: analysis of the current construct stops immediately.
package diag

import (
	"fmt"
	"log/slog"

	"github.com/specialistvlad/tdg/internal/locus"
)

// Severity classifies a diagnostic.
type Severity int

const (
	// SeverityInfo diagnostics add context to a preceding warning.
	SeverityInfo Severity = iota
	// SeverityWarning diagnostics never abort: the item is skipped or defaulted.
	SeverityWarning
	// SeverityError diagnostics make the run fail once analysis completes.
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Diagnostic is a single message attached to a source position.
type Diagnostic struct {
	Severity Severity
	Locus    locus.Locus
	Message  string
}

// String renders the diagnostic as `file:line: warning: message`.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Locus, d.Severity, d.Message)
}

// Sink accumulates diagnostics in emission order and mirrors each one to a
// structured logger. A Sink belongs to one analysis run and is not safe for
// concurrent use.
type Sink struct {
	logger *slog.Logger
	items  []Diagnostic
}

// NewSink creates a sink reporting through the given logger. A nil logger
// records diagnostics without logging them.
func NewSink(logger *slog.Logger) *Sink {
	return &Sink{logger: logger}
}

// Infof records an Info diagnostic.
func (s *Sink) Infof(loc locus.Locus, format string, args ...any) {
	s.add(SeverityInfo, loc, fmt.Sprintf(format, args...))
}

// Warnf records a Warning diagnostic.
func (s *Sink) Warnf(loc locus.Locus, format string, args ...any) {
	s.add(SeverityWarning, loc, fmt.Sprintf(format, args...))
}

// Errorf records an Error diagnostic.
func (s *Sink) Errorf(loc locus.Locus, format string, args ...any) {
	s.add(SeverityError, loc, fmt.Sprintf(format, args...))
}

func (s *Sink) add(sev Severity, loc locus.Locus, msg string) {
	d := Diagnostic{Severity: sev, Locus: loc, Message: msg}
	s.items = append(s.items, d)
	if s.logger == nil {
		return
	}
	attrs := []any{"locus", loc.String(), "severity", sev.String()}
	switch sev {
	case SeverityInfo:
		s.logger.Info(msg, attrs...)
	case SeverityWarning:
		s.logger.Warn(msg, attrs...)
	default:
		s.logger.Error(msg, attrs...)
	}
}

// Diagnostics returns every recorded diagnostic in emission order.
func (s *Sink) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(s.items))
	copy(out, s.items)
	return out
}

// Count returns how many diagnostics of the given severity were recorded.
func (s *Sink) Count(sev Severity) int {
	n := 0
	for _, d := range s.items {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// HasErrors reports whether an Error diagnostic was recorded.
func (s *Sink) HasErrors() bool {
	return s.Count(SeverityError) > 0
}
