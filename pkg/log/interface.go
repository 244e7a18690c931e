// Package log provides structured logging for recipe fitting and resampling.
//
// It defines a minimal, slog-compatible Logger interface plus standard
// attribute keys for preprocessing operations (step names, column counts, fold
// indices), so that fit/apply progress from different packages shows up
// uniformly in log output. The default setup emits JSON with stack traces
// extracted from cockroachdb/errors values.
package log

import (
	"context"
)

// Logger is a structured logging interface compatible with Go's log/slog.
// Implementations must accept alternating key/value fields.
type Logger interface {
	// Debug logs detailed diagnostic information, typically disabled in
	// production.
	Debug(msg string, fields ...any)

	// Info logs general operational information.
	//
	// Example:
	//
	//	logger.Info("step fitted",
	//	    log.StepNameKey, "pca",
	//	    log.ColumnsInKey, 10,
	//	    log.ColumnsOutKey, 4,
	//	)
	Info(msg string, fields ...any)

	// Warn logs potentially problematic conditions that do not stop the
	// operation.
	Warn(msg string, fields ...any)

	// Error logs error conditions. If an error value is passed via ErrAttr,
	// its stack trace is included by the default handler.
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits records at the given level.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level. Values are compatible with slog.Level.
type Level int

// Standard logging levels.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
