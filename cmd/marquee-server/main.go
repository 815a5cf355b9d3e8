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
	listen := flag.String("listen", "", "listen address (optional, overrides config)")
	jsonLogs := flag.Bool("json-logs", false, "write logs as JSON")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.ServerOptions{ConfigPath: *configPath, Listen: *listen, JSONLogs: *jsonLogs}
	if err := app.RunServer(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "marquee-server: %v\n", err)
		return 1
	}
	return 0
}
