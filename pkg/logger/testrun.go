package logger

import (
	"io"
	"log/slog"
)

// NewTestHandler discards every record; tests only need a logger to be present.
func NewTestHandler(level slog.Level) slog.Handler {
	return slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: level})
}
