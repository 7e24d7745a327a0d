package diag

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/specialistvlad/tdg/internal/locus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSink_RecordsInOrderAndLogs(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(slog.New(slog.NewTextHandler(&buf, nil)))
	loc := locus.New("main.c", 4)

	sink.Warnf(loc, "invalid dependency expression '%s', skipping", "this")
	sink.Infof(loc, "dependences over non-static data members are not allowed in OpenMP")
	sink.Errorf(loc, "OmpSs multi-dependences not supported yet")

	items := sink.Diagnostics()
	require.Len(t, items, 3)
	assert.Equal(t, SeverityWarning, items[0].Severity)
	assert.Equal(t, SeverityInfo, items[1].Severity)
	assert.Equal(t, SeverityError, items[2].Severity)
	assert.Equal(t, "main.c:4: warning: invalid dependency expression 'this', skipping", items[0].String())

	assert.True(t, sink.HasErrors())
	assert.Equal(t, 1, sink.Count(SeverityWarning))
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "locus=main.c:4")
}

func TestSink_NilLogger(t *testing.T) {
	sink := NewSink(nil)
	sink.Warnf(locus.Locus{}, "quiet")
	assert.Len(t, sink.Diagnostics(), 1)
	assert.False(t, sink.HasErrors())
}

func TestError_KindsAreMatchable(t *testing.T) {
	loc := locus.New("loop.c", 9)

	err := Malformedf(loc, "'collapse' clause must have one argument")
	assert.True(t, errors.Is(err, ErrMalformed))
	assert.False(t, errors.Is(err, ErrInternal))
	assert.Equal(t, "loop.c:9: error: 'collapse' clause must have one argument", err.Error())

	var derr *Error
	require.True(t, errors.As(Internalf(loc, "code unreachable"), &derr))
	assert.Equal(t, loc, derr.Locus)

	assert.True(t, errors.Is(Unsupportedf(loc, "x"), ErrUnsupported))
}

func TestSeverity_String(t *testing.T) {
	testCases := []struct {
		sev  Severity
		want string
	}{
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{Severity(9), "severity(9)"},
	}
	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.sev.String())
		})
	}
}
