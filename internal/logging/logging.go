// Package logging builds the slog loggers used by both binaries.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/lmittmann/tint"
)

const timeFormat = "2006-01-02 15:04:05"

// Options configures New.
type Options struct {
	// Writer defaults to os.Stderr.
	Writer io.Writer
	Level  slog.Leveler
	// Color enables ANSI colors. Leave it off for files.
	Color     bool
	JSON      bool
	AddSource bool
}

// New returns a logger writing to opts.Writer. Text output goes through
// tint; JSON output uses the standard handler.
func New(opts Options) *slog.Logger {
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}
	if opts.Level == nil {
		opts.Level = slog.LevelInfo
	}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(opts.Writer, &slog.HandlerOptions{
			Level:     opts.Level,
			AddSource: opts.AddSource,
		})
	} else {
		handler = tint.NewHandler(opts.Writer, &tint.Options{
			Level:      opts.Level,
			AddSource:  opts.AddSource,
			TimeFormat: timeFormat,
			NoColor:    !opts.Color,
		})
	}
	return slog.New(handler)
}

// OpenFile returns a logger appending to path, creating parent directories.
// The caller closes the returned file.
func OpenFile(path string, level slog.Leveler) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(Options{Writer: file, Level: level}), file, nil
}

// WithSession tags every record with a fresh session id so interleaved runs
// in one log file can be told apart.
func WithSession(logger *slog.Logger) *slog.Logger {
	return logger.With(slog.String("session", uuid.NewString()))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
