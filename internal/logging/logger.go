// Package logging configures structured logging and the TG_DEBUG trace helpers.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// Setup installs the default slog logger.
//
// Level values: "debug", "info", "warn", "error" (default: "info").
// Format values: "text", "json" (default: "text").
// When TG_DEBUG is set the level is forced to debug.
func Setup(level, format string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	if DebugEnabled() {
		lvl = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
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

type runKey struct{}

// WithRun tags ctx with an import run id.
func WithRun(ctx context.Context, run uint64) context.Context {
	return context.WithValue(ctx, runKey{}, run)
}

// FromContext returns the default logger, enriched with the run id carried by ctx.
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()
	if run, ok := ctx.Value(runKey{}).(uint64); ok {
		logger = logger.With("run", run)
	}
	return logger
}
