package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	"TMDB_API_KEY", "VITE_TMDB_API_KEY", "TMDB_READ_TOKEN", "VITE_TMDB_READ_TOKEN",
	"TMDB_BASE_URL", "VITE_TMDB_BASE_URL", "TMDB_IMAGE_BASE_URL", "VITE_TMDB_IMAGE_BASE_URL",
	"TMDB_LANGUAGE", "TMDB_REGION", "TMDB_REQUESTS_PER_SECOND",
	"MARQUEE_DATA_DIR", "MARQUEE_STORAGE", "MARQUEE_LOG_LEVEL", "MARQUEE_LISTEN",
}

// clearEnv blanks every variable Load consults. Blank values are ignored.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.TMDB.BaseURL != defaultBaseURL {
		t.Fatalf("BaseURL = %q, want %q", cfg.TMDB.BaseURL, defaultBaseURL)
	}
	if cfg.TMDB.Language != "en-US" || cfg.TMDB.Region != "US" {
		t.Fatalf("Language/Region = %q/%q, want en-US/US", cfg.TMDB.Language, cfg.TMDB.Region)
	}
	if cfg.TMDB.Timeout != defaultTimeout || cfg.TMDB.RequestsPerSecond != defaultRPS {
		t.Fatalf("Timeout/RPS = %v/%v, want defaults", cfg.TMDB.Timeout, cfg.TMDB.RequestsPerSecond)
	}

	wantDataDir, err := expandPath(defaultDataDir)
	if err != nil {
		t.Fatalf("expandPath(defaultDataDir) returned error: %v", err)
	}
	if cfg.DataDir != wantDataDir {
		t.Fatalf("DataDir = %q, want %q", cfg.DataDir, wantDataDir)
	}
	if cfg.LogFile != filepath.Join(wantDataDir, logFileName) {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, filepath.Join(wantDataDir, logFileName))
	}
	if cfg.Storage != StorageFile || cfg.Listen != defaultListen {
		t.Fatalf("Storage/Listen = %q/%q, want defaults", cfg.Storage, cfg.Listen)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
data_dir = "  ~/.marquee  "
storage = " Badger "
log_level = "debug"
listen = ":9000"
cors_origins = ["http://localhost:5173", "  "]

[tmdb]
api_key = "  abc123  "
language = "fr-FR"
region = "FR"
requests_per_second = 4.5
burst = 2
timeout = "3s"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.TMDB.APIKey != "abc123" {
		t.Fatalf("APIKey = %q, want %q", cfg.TMDB.APIKey, "abc123")
	}
	if !strings.HasPrefix(cfg.DataDir, home) {
		t.Fatalf("DataDir = %q, want it under HOME %q", cfg.DataDir, home)
	}
	if cfg.Storage != StorageBadger || cfg.LogLevel != "debug" || cfg.Listen != ":9000" {
		t.Fatalf("Storage/LogLevel/Listen = %q/%q/%q", cfg.Storage, cfg.LogLevel, cfg.Listen)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:5173" {
		t.Fatalf("CORSOrigins = %v, want one origin", cfg.CORSOrigins)
	}
	if cfg.TMDB.Language != "fr-FR" || cfg.TMDB.Region != "FR" {
		t.Fatalf("Language/Region = %q/%q", cfg.TMDB.Language, cfg.TMDB.Region)
	}
	if cfg.TMDB.RequestsPerSecond != 4.5 || cfg.TMDB.Burst != 2 || cfg.TMDB.Timeout != 3*time.Second {
		t.Fatalf("RPS/Burst/Timeout = %v/%v/%v", cfg.TMDB.RequestsPerSecond, cfg.TMDB.Burst, cfg.TMDB.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
[tmdb]
api_key = "from-file"
region = "GB"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("TMDB_API_KEY", "from-env")
	t.Setenv("MARQUEE_STORAGE", "BADGER")
	t.Setenv("TMDB_REQUESTS_PER_SECOND", "0.5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.TMDB.APIKey != "from-env" {
		t.Fatalf("APIKey = %q, want from-env", cfg.TMDB.APIKey)
	}
	if cfg.TMDB.Region != "GB" {
		t.Fatalf("Region = %q, want GB from file", cfg.TMDB.Region)
	}
	if cfg.Storage != StorageBadger || cfg.TMDB.RequestsPerSecond != 0.5 {
		t.Fatalf("Storage/RPS = %q/%v", cfg.Storage, cfg.TMDB.RequestsPerSecond)
	}
}

func TestLoad_ReadsDotEnvNextToConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)
	if err := os.Unsetenv("TMDB_READ_TOKEN"); err != nil {
		t.Fatalf("Unsetenv: %v", err)
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("TMDB_READ_TOKEN=dotenv-token\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(filepath.Join(dir, "config.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.TMDB.ReadToken != "dotenv-token" {
		t.Fatalf("ReadToken = %q, want dotenv-token", cfg.TMDB.ReadToken)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`storage = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoad_InvalidTimeoutFails(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[tmdb]\ntimeout = \"soon\"\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "timeout") {
		t.Fatalf("Load error = %v, want timeout parse error", err)
	}
}

func TestValidate(t *testing.T) {
	valid := defaults()
	valid.TMDB.APIKey = "k"
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate(valid) = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing credential", func(c *Config) { c.TMDB.APIKey = "" }, "api_key or read_token"},
		{"unknown backend", func(c *Config) { c.Storage = "sqlite" }, "unknown storage backend"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "invalid log level"},
		{"negative rps", func(c *Config) { c.TMDB.RequestsPerSecond = -1 }, "requests_per_second"},
		{"empty listen", func(c *Config) { c.Listen = " " }, "listen address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel(" WARN ")
	if err != nil || level != slog.LevelWarn {
		t.Fatalf("ParseLevel = %v, %v, want WARN", level, err)
	}
}

func TestPrefsPath_FollowsConfigDir(t *testing.T) {
	cfg := Config{Path: filepath.FromSlash("/etc/marquee/config.toml")}
	if got := cfg.PrefsPath(); got != filepath.FromSlash("/etc/marquee/prefs.toml") {
		t.Fatalf("PrefsPath = %q", got)
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
