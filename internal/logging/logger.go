package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/rendis/procmap/pkg/schema"
)

// ParseLevel maps a config level name (debug, info, warn, error) to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, schema.NewErrorf(schema.ErrCodeConfig, "unknown log level %q", name)
	}
}

// NewLogger builds a logger writing text or JSON records to w, wrapped in a
// CorrelationHandler.
func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var inner slog.Handler
	switch strings.ToLower(format) {
	case "", "text":
		inner = slog.NewTextHandler(w, opts)
	case "json":
		inner = slog.NewJSONHandler(w, opts)
	default:
		return nil, schema.NewErrorf(schema.ErrCodeConfig, "unknown log format %q", format)
	}
	return slog.New(NewCorrelationHandler(inner)), nil
}
