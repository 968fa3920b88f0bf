package xlog

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_LevelsWriteExpectedMessages(t *testing.T) {
	var buf bytes.Buffer
	logger := New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx := context.Background()
	logger.Debug(ctx, "debug line")
	logger.Info(ctx, "info line")
	logger.Warn(ctx, "warn line")
	logger.Error(ctx, "error line")

	out := buf.String()
	for _, want := range []string{"debug line", "info line", "warn line", "error line"} {
		assert.True(t, strings.Contains(out, want), "expected output to contain %q, got %q", want, out)
	}
}

func TestLogger_WithAddsAttrsToSubsequentLines(t *testing.T) {
	var buf bytes.Buffer
	base := New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	derived := base.With(slog.String("resource", "orders:42"))

	derived.Info(context.Background(), "acquired")

	assert.Contains(t, buf.String(), "resource=orders:42")
}

func TestLogger_NilHandlerIsNoop(t *testing.T) {
	logger := New(nil)
	require.NotPanics(t, func() {
		logger.Info(context.Background(), "should be discarded")
	})
}

func TestDefault_ReturnsSameInstance(t *testing.T) {
	a := Default()
	b := Default()
	assert.Same(t, a, b)
}
