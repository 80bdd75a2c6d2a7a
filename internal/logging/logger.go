// Package logging configures structured logging for the CLI using log/slog.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/cleared-dev/bulkutil/internal/model"
)

// New builds a logger writing to w.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel converts a string log level to slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ProgressReporter logs validation progress at debug level.
type ProgressReporter struct {
	Logger *slog.Logger
}

// RowsProcessed implements validation.Reporter.
func (p ProgressReporter) RowsProcessed(table model.TableKind, done, total int) {
	p.Logger.Debug("validation progress", "table", table.String(), "rows", done, "total", total)
}
