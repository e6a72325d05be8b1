package rsmarisa

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with trie-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// LogBuild logs a build operation.
func (l *Logger) LogBuild(ctx context.Context, numKeys, numNodes uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "build failed",
			"num_keys", numKeys,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "build completed",
			"num_keys", numKeys,
			"num_nodes", numNodes,
		)
	}
}

// LogSave logs a save operation.
func (l *Logger) LogSave(ctx context.Context, filename string, size uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "save failed",
			"filename", filename,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "trie saved",
			"filename", filename,
			"io_size", size,
		)
	}
}

// LogLoad logs a load or map operation.
func (l *Logger) LogLoad(ctx context.Context, filename string, numKeys uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"filename", filename,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "trie loaded",
			"filename", filename,
			"num_keys", numKeys,
		)
	}
}

// LogSearch logs a search operation.
func (l *Logger) LogSearch(ctx context.Context, kind string, resultsFound int) {
	l.DebugContext(ctx, "search completed",
		"kind", kind,
		"results", resultsFound,
	)
}
