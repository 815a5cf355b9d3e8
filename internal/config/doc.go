// Package config loads marquee's configuration.
//
// # Resolution Order
//
//  1. Defaults
//  2. The TOML file (explicit path, or ~/.config/marquee/config.toml)
//  3. .env next to the config file, then .env in the working directory
//  4. Environment variables
//
// A missing config file is not an error. Tilde paths are expanded and every
// string value is trimmed; blank values never override.
//
// # TOML Format
//
//	data_dir = "~/.local/share/marquee"
//	storage = "file"            # or "badger"
//	log_level = "info"
//	listen = "127.0.0.1:8787"
//	cors_origins = ["http://localhost:5173"]
//
//	[tmdb]
//	api_key = "..."             # or read_token = "..."
//	language = "en-US"
//	region = "US"
//	requests_per_second = 20
//	burst = 5
//	timeout = "10s"
//
// # Environment
//
// TMDB_API_KEY, TMDB_READ_TOKEN, TMDB_BASE_URL, TMDB_IMAGE_BASE_URL,
// TMDB_LANGUAGE, TMDB_REGION, TMDB_REQUESTS_PER_SECOND, MARQUEE_DATA_DIR,
// MARQUEE_STORAGE, MARQUEE_LOG_LEVEL and MARQUEE_LISTEN. The VITE_TMDB_*
// names used by the web frontend's .env are accepted for the key, token and
// URLs.
//
// Validate is separate from Load so commands that never reach TMDB (such as
// a storage reset) can run without credentials.
package config
