package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/marquee/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional, defaults to ~/.config/marquee/config.toml)")
	prefsPath := flag.String("prefs", "", "override prefs path (optional)")
	reset := flag.Bool("reset", false, "clear stored favorites and exit")
	logs := flag.Int("logs", -1, "print the last N log lines and exit (0 prints the whole file)")
	logLevel := flag.String("log-level", "", "with -logs, hide records below this level")
	allSessions := flag.Bool("all-sessions", false, "with -logs, include earlier runs")
	flag.Parse()

	if *reset {
		count, err := app.Reset(app.Options{ConfigPath: *configPath})
		if err != nil {
			fmt.Fprintf(os.Stderr, "marquee: %v\n", err)
			return 1
		}
		fmt.Printf("cleared %d favorites\n", count)
		return 0
	}

	if *logs >= 0 {
		err := app.PrintLogs(os.Stdout, app.LogOptions{
			ConfigPath:  *configPath,
			Lines:       *logs,
			Level:       *logLevel,
			AllSessions: *allSessions,
			Color:       true,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "marquee: %v\n", err)
			return 1
		}
		return 0
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx, app.Options{ConfigPath: *configPath, PrefsPath: *prefsPath}); err != nil {
		fmt.Fprintf(os.Stderr, "marquee: %v\n", err)
		return 1
	}
	return 0
}
