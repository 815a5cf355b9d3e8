package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/five82/marquee/internal/browse"
	"github.com/five82/marquee/internal/config"
	"github.com/five82/marquee/internal/favorites"
	"github.com/five82/marquee/internal/logging"
	"github.com/five82/marquee/internal/prefs"
	"github.com/five82/marquee/internal/storage"
	"github.com/five82/marquee/internal/tmdb"
	"github.com/five82/marquee/internal/ui"
)

// Options configure the marquee TUI.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses prefs.toml next to the config file
}

// Run boots the marquee TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	logger, logFile, err := logging.OpenFile(cfg.LogFile, level)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()
	logger = logging.WithSession(logger)

	deps, err := openDeps(cfg, logger)
	if err != nil {
		return err
	}
	defer deps.close()

	session := storage.OpenSession(logger)
	defer func() { _ = session.Close() }()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = cfg.PrefsPath()
	}
	userPrefs, err := prefs.Load(prefsPath)
	if err != nil {
		logger.Warn("load prefs failed, using defaults", slog.String("error", err.Error()))
		userPrefs = prefs.Defaults()
	}
	order, ok := browse.ParseSortOrder(userPrefs.Sort)
	if !ok {
		logger.Warn("unknown sort order in prefs", slog.String("sort", userPrefs.Sort))
	}

	logger.Info("marquee starting",
		slog.String("config", cfg.Path),
		slog.String("storage", cfg.Storage),
		slog.Int("favorites", deps.favs.Len()),
	)
	defer logger.Info("marquee stopped")

	return ui.Run(ui.Options{
		Context:   ctx,
		API:       deps.client,
		Favorites: deps.favs,
		Session:   session,
		Logger:    logger,
		ThemeName: userPrefs.Theme,
		Sort:      order,
		PrefsPath: prefsPath,
		Language:  cfg.TMDB.Language,
		ImageURL:  deps.client.ImageURL,
	})
}

// Reset clears the durable store behind favorites and reports how many
// favorites it held. It does not need TMDB credentials.
func Reset(opts Options) (int, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return 0, fmt.Errorf("load config: %w", err)
	}
	logger := logging.Discard()
	store, err := storage.Open(cfg.Storage, cfg.DataDir, logger)
	if err != nil {
		return 0, fmt.Errorf("open storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	count := favorites.Load(store, logger).Len()
	if err := store.Clear(); err != nil {
		return 0, fmt.Errorf("clear storage: %w", err)
	}
	return count, nil
}

func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config %s: %w", cfg.Path, err)
	}
	return cfg, nil
}

// deps are the collaborators shared by the TUI and the server.
type deps struct {
	store  storage.Store
	favs   *favorites.Store
	client *tmdb.Client
	logger *slog.Logger
}

func openDeps(cfg config.Config, logger *slog.Logger) (*deps, error) {
	store, err := storage.Open(cfg.Storage, cfg.DataDir, logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	client, err := tmdb.NewClient(tmdb.Options{
		BaseURL:           cfg.TMDB.BaseURL,
		ImageBaseURL:      cfg.TMDB.ImageBaseURL,
		APIKey:            cfg.TMDB.APIKey,
		ReadToken:         cfg.TMDB.ReadToken,
		Language:          cfg.TMDB.Language,
		Region:            cfg.TMDB.Region,
		RequestsPerSecond: cfg.TMDB.RequestsPerSecond,
		Burst:             cfg.TMDB.Burst,
		Timeout:           cfg.TMDB.Timeout,
		Logger:            logger,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("init tmdb client: %w", err)
	}
	return &deps{
		store:  store,
		favs:   favorites.Load(store, logger),
		client: client,
		logger: logger,
	}, nil
}

func (d *deps) close() {
	if err := d.store.Close(); err != nil {
		d.logger.Warn("close storage failed", slog.String("error", err.Error()))
	}
}
