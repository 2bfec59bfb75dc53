package logger

import (
	"log/slog"
	"os"
)

// New returns the process-wide structured logger. Handlers and services take
// it as a dependency; tests pass slog.New(slog.NewTextHandler(io.Discard, nil)).
func New() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
