package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLoggerFromEnv creates a logger using environment variables
// HEPH_LOG_LEVEL: debug|info|warn|error (default: warn)
// HEPH_LOG_FORMAT: text|json (default: text)
func NewLoggerFromEnv() *slog.Logger {
	level := slog.LevelWarn
	format := "text"

	if levelStr := os.Getenv("HEPH_LOG_LEVEL"); levelStr != "" {
		level = ParseLevel(levelStr)
	}

	if formatStr := os.Getenv("HEPH_LOG_FORMAT"); formatStr != "" {
		format = strings.ToLower(formatStr)
	}

	return New(os.Stderr, level, format)
}

// New creates a logger writing to w.
func New(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return New(io.Discard, slog.LevelError, "text")
}

// ParseLevel maps a level name to a slog level, falling back to warn.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
