// Package logtail reads the tail of circdesk's own log file.
//
// # Overview
//
// The console writes structured slog text records to a file because the
// terminal belongs to the TUI. `circdesk log` uses this package to print the
// last records, optionally filtered by level or substring.
//
// # Reading Log Files
//
// Tail keeps a ring buffer of MaxLines matching lines, so memory stays
// O(MaxLines) regardless of file size:
//
//	lines, err := logtail.Tail(cfg.LogFile, logtail.Options{
//		MaxLines: 200,
//		MinLevel: slog.LevelWarn,
//	})
//
// Lines that carry no level= field (continuations, foreign output) are never
// dropped by the level filter.
//
// # Colorization
//
// ColorizeLine highlights the level token with fatih/color. Colors follow
// the usual convention: DEBUG cyan, INFO green, WARN yellow, ERROR red.
// color.NoColor (set automatically when stdout is not a terminal) disables
// highlighting.
//
// # Error Handling
//
// A missing file returns nil, nil. Other I/O errors are returned wrapped.
package logtail
