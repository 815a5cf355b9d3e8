package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/five82/marquee/internal/config"
	"github.com/five82/marquee/internal/httpapi"
	"github.com/five82/marquee/internal/logging"
)

const shutdownTimeout = 10 * time.Second

// ServerOptions configure marquee-server.
type ServerOptions struct {
	ConfigPath string
	// Listen overrides the configured address.
	Listen   string
	JSONLogs bool
}

// RunServer serves the JSON API until the context is cancelled, then drains
// in-flight requests.
func RunServer(ctx context.Context, opts ServerOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.Listen != "" {
		cfg.Listen = opts.Listen
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := logging.WithSession(logging.New(logging.Options{
		Writer: os.Stderr,
		Level:  level,
		Color:  !opts.JSONLogs,
		JSON:   opts.JSONLogs,
	}))

	deps, err := openDeps(cfg, logger)
	if err != nil {
		return err
	}
	defer deps.close()

	api := httpapi.New(httpapi.Options{
		API:         deps.client,
		Favorites:   deps.favs,
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
		Language:    cfg.TMDB.Language,
		ImageURL:    deps.client.ImageURL,
	})

	listener, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Listen, err)
	}
	return serve(ctx, listener, api.Handler(), logger)
}

// serve runs handler on listener until ctx is done.
func serve(ctx context.Context, listener net.Listener, handler http.Handler, logger *slog.Logger) error {
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("API server starting", slog.String("addr", listener.Addr().String()))
		errCh <- server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info("API server stopped")
	return nil
}
