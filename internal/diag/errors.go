package diag

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/tdg/internal/locus"
)

var (
	// ErrMalformed marks structurally invalid input: wrong clause arity,
	// non-constant or non-positive nesting levels, unknown devices.
	ErrMalformed = errors.New("malformed construct")
	// ErrInternal marks a violated internal invariant.
	ErrInternal = errors.New("internal error")
	// ErrUnsupported marks valid input that is not implemented yet.
	ErrUnsupported = errors.New("not supported yet")
)

// Error aborts the analysis of one construct. Kind is one of the sentinel
// errors above and is exposed through Unwrap for errors.Is.
type Error struct {
	Kind  error
	Locus locus.Locus
	Msg   string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return fmt.Sprintf("%s: error: %s", e.Locus, e.Kind)
	}
	return fmt.Sprintf("%s: error: %s", e.Locus, e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }

// Malformedf builds an ErrMalformed error.
func Malformedf(loc locus.Locus, format string, args ...any) error {
	return &Error{Kind: ErrMalformed, Locus: loc, Msg: fmt.Sprintf(format, args...)}
}

// Internalf builds an ErrInternal error.
func Internalf(loc locus.Locus, format string, args ...any) error {
	return &Error{Kind: ErrInternal, Locus: loc, Msg: fmt.Sprintf(format, args...)}
}

// Unsupportedf builds an ErrUnsupported error.
func Unsupportedf(loc locus.Locus, format string, args ...any) error {
	return &Error{Kind: ErrUnsupported, Locus: loc, Msg: fmt.Sprintf(format, args...)}
}
