package app

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/marquee/internal/config"
	"github.com/five82/marquee/internal/logtail"
)

// LogOptions configure PrintLogs.
type LogOptions struct {
	ConfigPath string
	// Lines is the tail length; zero or less prints the whole file.
	Lines int
	// Level drops records below it. Empty keeps everything.
	Level string
	// AllSessions includes earlier runs instead of only the latest one.
	AllSessions bool
	Color       bool
}

// PrintLogs writes the tail of the TUI log file to w.
func PrintLogs(w io.Writer, opts LogOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	lines, err := logtail.Read(cfg.LogFile, opts.Lines)
	if err != nil {
		return err
	}
	if !opts.AllSessions {
		lines = logtail.LastSession(lines)
	}
	if opts.Level != "" {
		threshold, err := config.ParseLevel(opts.Level)
		if err != nil {
			return err
		}
		lines = logtail.Filter(lines, threshold)
	}
	if len(lines) == 0 {
		_, err := fmt.Fprintf(w, "no log entries in %s\n", cfg.LogFile)
		return err
	}

	if opts.Color {
		lines = logtail.NewColorizer(lipgloss.NewRenderer(w)).Lines(lines)
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
