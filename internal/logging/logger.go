package logging

import (
	"io"
	"log/slog"
	"os"
)

// New returns a JSON logger writing to stdout unless format is "console",
// which selects human-readable text output.
func New(format string) *slog.Logger {
	return NewWithWriter(os.Stdout, format)
}

func NewWithWriter(w io.Writer, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var handler slog.Handler = slog.NewJSONHandler(w, opts)
	if format == "console" {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Discard is used by tests that do not assert on log output.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
