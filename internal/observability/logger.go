package observability

import (
	"io"
	"log/slog"
)

// NewLogger returns a text logger writing to w. Verbose mode lowers the level to debug
// and adds source locations.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Setup installs NewLogger(w, verbose) as the process default and returns it.
func Setup(w io.Writer, verbose bool) *slog.Logger {
	logger := NewLogger(w, verbose)
	slog.SetDefault(logger)
	return logger
}
