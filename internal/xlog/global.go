package xlog

import (
	"log/slog"
	"os"
	"sync"
)

var (
	defaultLogger     Logger
	defaultLoggerOnce sync.Once
)

// Default returns a lazily-initialized text Logger writing to stderr
// at Info level. It exists for call sites (and tests) that have not
// been handed a Logger explicitly — production callers of this module
// should supply one via WithLogger instead.
func Default() Logger {
	defaultLoggerOnce.Do(func() {
		defaultLogger = New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	})
	return defaultLogger
}
