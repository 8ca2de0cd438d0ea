package app

import (
	"io"
	"log/slog"
)

// newLogger builds the App's own slog.Logger writing to w. The global logger
// is left untouched so several Apps can run side by side in tests.
func newLogger(levelStr, formatStr string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(levelStr)}

	var handler slog.Handler
	if formatStr == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// parseLevel maps "debug", "info", "warn" and "error" to slog levels; anything
// else falls back to warn.
func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelWarn
	}
	return level
}
