package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds everything marquee needs to talk to TMDB and store its data.
type Config struct {
	Path string
	TMDB TMDB

	DataDir     string
	Storage     string
	LogFile     string
	LogLevel    string
	Listen      string
	CORSOrigins []string
}

// TMDB configures the upstream API client.
type TMDB struct {
	APIKey            string
	ReadToken         string
	BaseURL           string
	ImageBaseURL      string
	Language          string
	Region            string
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
}

const (
	defaultConfigPath   = "~/.config/marquee/config.toml"
	defaultDataDir      = "~/.local/share/marquee"
	defaultBaseURL      = "https://api.themoviedb.org/3"
	defaultImageBaseURL = "https://image.tmdb.org/t/p"
	defaultLanguage     = "en-US"
	defaultRegion       = "US"
	defaultStorage      = "file"
	defaultLogLevel     = "info"
	defaultListen       = "127.0.0.1:8787"
	defaultRPS          = 20
	defaultBurst        = 5
	defaultTimeout      = 10 * time.Second
	logFileName         = "marquee.log"
)

// Storage backends accepted by Validate.
const (
	StorageFile   = "file"
	StorageBadger = "badger"
)

type rawConfig struct {
	DataDir     string   `toml:"data_dir"`
	Storage     string   `toml:"storage"`
	LogFile     string   `toml:"log_file"`
	LogLevel    string   `toml:"log_level"`
	Listen      string   `toml:"listen"`
	CORSOrigins []string `toml:"cors_origins"`
	TMDB        struct {
		APIKey            string  `toml:"api_key"`
		ReadToken         string  `toml:"read_token"`
		BaseURL           string  `toml:"base_url"`
		ImageBaseURL      string  `toml:"image_base_url"`
		Language          string  `toml:"language"`
		Region            string  `toml:"region"`
		RequestsPerSecond float64 `toml:"requests_per_second"`
		Burst             int     `toml:"burst"`
		Timeout           string  `toml:"timeout"`
	} `toml:"tmdb"`
}

// Load reads the TOML config at path (or the default location), then applies
// .env files and environment overrides. A missing file yields defaults.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()
	cfg.Path = resolved

	raw, err := readRaw(resolved)
	if err != nil {
		return Config{}, err
	}
	if raw != nil {
		if err := cfg.apply(raw); err != nil {
			return Config{}, err
		}
	}

	loadDotEnv(filepath.Join(filepath.Dir(resolved), ".env"), ".env")
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	cfg.DataDir = mustExpand(cfg.DataDir)
	if strings.TrimSpace(cfg.LogFile) == "" {
		cfg.LogFile = filepath.Join(cfg.DataDir, logFileName)
	}
	cfg.LogFile = mustExpand(cfg.LogFile)
	return cfg, nil
}

// Validate reports configuration that cannot work.
func (c Config) Validate() error {
	var errs []error
	if c.TMDB.APIKey == "" && c.TMDB.ReadToken == "" {
		errs = append(errs, errors.New("tmdb api_key or read_token required (TMDB_API_KEY / TMDB_READ_TOKEN)"))
	}
	switch c.Storage {
	case StorageFile, StorageBadger:
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend %q", c.Storage))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.TMDB.RequestsPerSecond < 0 {
		errs = append(errs, errors.New("tmdb requests_per_second must not be negative"))
	}
	if strings.TrimSpace(c.Listen) == "" {
		errs = append(errs, errors.New("listen address is empty"))
	}
	return errors.Join(errs...)
}

// PrefsPath returns the preferences file next to the config file.
func (c Config) PrefsPath() string {
	if strings.TrimSpace(c.Path) == "" {
		return mustExpand(filepath.Join(filepath.Dir(defaultConfigPath), "prefs.toml"))
	}
	return filepath.Join(filepath.Dir(c.Path), "prefs.toml")
}

// ParseLevel maps a level name onto slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", name)
	}
	return level, nil
}

func defaults() Config {
	return Config{
		DataDir:  defaultDataDir,
		Storage:  defaultStorage,
		LogLevel: defaultLogLevel,
		Listen:   defaultListen,
		TMDB: TMDB{
			BaseURL:           defaultBaseURL,
			ImageBaseURL:      defaultImageBaseURL,
			Language:          defaultLanguage,
			Region:            defaultRegion,
			RequestsPerSecond: defaultRPS,
			Burst:             defaultBurst,
			Timeout:           defaultTimeout,
		},
	}
}

func readRaw(path string) (*rawConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &raw, nil
}

func (c *Config) apply(raw *rawConfig) error {
	setString(&c.DataDir, raw.DataDir)
	setString(&c.Storage, strings.ToLower(raw.Storage))
	setString(&c.LogFile, raw.LogFile)
	setString(&c.LogLevel, raw.LogLevel)
	setString(&c.Listen, raw.Listen)
	for _, origin := range raw.CORSOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			c.CORSOrigins = append(c.CORSOrigins, trimmed)
		}
	}

	setString(&c.TMDB.APIKey, raw.TMDB.APIKey)
	setString(&c.TMDB.ReadToken, raw.TMDB.ReadToken)
	setString(&c.TMDB.BaseURL, raw.TMDB.BaseURL)
	setString(&c.TMDB.ImageBaseURL, raw.TMDB.ImageBaseURL)
	setString(&c.TMDB.Language, raw.TMDB.Language)
	setString(&c.TMDB.Region, raw.TMDB.Region)
	if raw.TMDB.RequestsPerSecond != 0 {
		c.TMDB.RequestsPerSecond = raw.TMDB.RequestsPerSecond
	}
	if raw.TMDB.Burst > 0 {
		c.TMDB.Burst = raw.TMDB.Burst
	}
	if timeout := strings.TrimSpace(raw.TMDB.Timeout); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("parse config: tmdb timeout %q: %w", timeout, err)
		}
		c.TMDB.Timeout = d
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.TMDB.APIKey, firstEnv("TMDB_API_KEY", "VITE_TMDB_API_KEY"))
	setString(&c.TMDB.ReadToken, firstEnv("TMDB_READ_TOKEN", "VITE_TMDB_READ_TOKEN"))
	setString(&c.TMDB.BaseURL, firstEnv("TMDB_BASE_URL", "VITE_TMDB_BASE_URL"))
	setString(&c.TMDB.ImageBaseURL, firstEnv("TMDB_IMAGE_BASE_URL", "VITE_TMDB_IMAGE_BASE_URL"))
	setString(&c.TMDB.Language, os.Getenv("TMDB_LANGUAGE"))
	setString(&c.TMDB.Region, os.Getenv("TMDB_REGION"))
	setString(&c.DataDir, os.Getenv("MARQUEE_DATA_DIR"))
	setString(&c.Storage, strings.ToLower(os.Getenv("MARQUEE_STORAGE")))
	setString(&c.LogLevel, os.Getenv("MARQUEE_LOG_LEVEL"))
	setString(&c.Listen, os.Getenv("MARQUEE_LISTEN"))

	if v := strings.TrimSpace(os.Getenv("TMDB_REQUESTS_PER_SECOND")); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parse TMDB_REQUESTS_PER_SECOND %q: %w", v, err)
		}
		c.TMDB.RequestsPerSecond = rps
	}
	return nil
}

// loadDotEnv loads each existing file in order. Variables already present
// in the environment are never overwritten.
func loadDotEnv(paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			slog.Warn("load .env failed", slog.String("path", path), slog.String("error", err.Error()))
		}
	}
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return ""
}

func setString(dst *string, value string) {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		*dst = trimmed
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
