// Package app is the composition root for the marquee binaries.
//
// # Overview
//
// Run, RunServer, Reset and PrintLogs each load the TOML config, then wire
// the pieces they need from the domain packages:
//
//	Run()          TUI
//	  ├─> config.Load + Validate
//	  ├─> logging.OpenFile       the TUI owns the terminal, logs go to a file
//	  ├─> storage.Open           durable favorites store (file or badger)
//	  ├─> storage.OpenSession    in-memory popular listing cache
//	  ├─> tmdb.NewClient         rate limited, circuit broken
//	  ├─> prefs.Load             theme and favorites sort
//	  └─> ui.Run                 blocks until quit
//
//	RunServer()    JSON API
//	  ├─> logging.New            tint to stderr, or JSON
//	  ├─> httpapi.New
//	  └─> serve                  graceful shutdown on cancel
//
// Reset clears the durable store without requiring TMDB credentials.
// PrintLogs tails the TUI log file, by default only the latest session.
//
// # Error Handling
//
// Configuration, storage and client setup errors are returned from Run and
// RunServer. Everything after startup is handled inside the UI or the HTTP
// handlers: fetch failures become error panels or error responses, and
// storage write failures are logged and kept off the hot path.
//
// The file backend can be shared by the TUI and the server. Badger holds a
// directory lock, so only one process can use it at a time.
package app
