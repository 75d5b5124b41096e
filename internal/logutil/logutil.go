// Package logutil installs the process-wide slog handler.
package logutil

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// New returns a slog logger backed by charmbracelet/log writing to w. Unknown levels fall
// back to info.
func New(w io.Writer, level string) *slog.Logger {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = log.InfoLevel
	}

	handler := log.NewWithOptions(w, log.Options{
		Prefix:          "threads-gateway",
		ReportTimestamp: true,
		Level:           lvl,
	})
	return slog.New(handler)
}

// Setup builds a stderr logger and makes it the slog default.
func Setup(level string) *slog.Logger {
	logger := New(os.Stderr, level)
	slog.SetDefault(logger)
	return logger
}
