package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/log"
)

// New returns a structured logger backed by charmbracelet/log. level is one of
// debug, info, warn or error; anything else falls back to info.
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(NewHandler(w, level))
}

// NewHandler returns the charmbracelet logger used as an slog handler.
// Timestamps are formatted as "HH:MM:SS.ms".
func NewHandler(w io.Writer, level string) *log.Logger {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           lvl,
	})
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(log.NewWithOptions(io.Discard, log.Options{}))
}
