package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext_ReturnsEmbeddedLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := WithLogger(context.Background(), logger)

	require.Same(t, logger, FromContext(ctx))
	FromContext(ctx).Info("hello")
	assert.Contains(t, buf.String(), "hello")
}

func TestFromContext_PanicsWithoutLogger(t *testing.T) {
	assert.Panics(t, func() { FromContext(context.Background()) })
}

func TestDiscard(t *testing.T) {
	ctx := Discard(context.Background())
	assert.NotPanics(t, func() { FromContext(ctx).Warn("dropped") })
}

func TestWith_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

	FromContext(With(ctx, "function", "f")).Info("analysed")
	FromContext(ctx).Info("plain")

	assert.Contains(t, buf.String(), "msg=analysed function=f")
	assert.NotContains(t, buf.String(), "msg=plain function")
}
