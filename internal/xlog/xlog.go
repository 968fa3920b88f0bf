// Package xlog is a small structured-logging wrapper over log/slog,
// trimmed from the project's shared observability package down to
// what this module's internal diagnostics need: context-first methods
// and a handler-based Logger interface, so call sites never depend on
// slog directly.
package xlog

import (
	"context"
	"log/slog"
)

// Logger records structured log lines. Every method takes a context
// first so trace/request identifiers attached to it can be propagated
// by a caller-supplied slog.Handler.
type Logger interface {
	Debug(ctx context.Context, msg string, attrs ...slog.Attr)
	Info(ctx context.Context, msg string, attrs ...slog.Attr)
	Warn(ctx context.Context, msg string, attrs ...slog.Attr)
	Error(ctx context.Context, msg string, attrs ...slog.Attr)

	// With returns a derived Logger carrying additional attributes on
	// every subsequent call.
	With(attrs ...slog.Attr) Logger
}
