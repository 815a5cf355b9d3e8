// Package logtail reads the tail of the marquee log file for `marquee -logs`.
//
// # Reading
//
// Read keeps a ring buffer of maxLines entries, so only the requested tail is
// held in memory regardless of file size. A missing file is not an error.
//
// # Format
//
// The TUI writes text records through tint with colors disabled:
//
//	2025-10-08 21:01:05 WRN save favorites failed error="disk full" count=3 session=6f1c...
//
// Parse splits a line into timestamp, level and the remainder. Filter drops
// records below a level, and LastSession narrows the output to the most
// recent run using the session attribute added by logging.WithSession.
//
// # Colorization
//
// Colorizer applies lipgloss styles per level when printing to a terminal.
// Lines that do not parse are passed through unchanged.
package logtail
