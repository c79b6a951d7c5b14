// Package app is the composition root of the circulation desk console.
//
// Open loads the TOML configuration, layers flag and environment overrides
// over it, opens the slog log file and builds the library client and the
// desk on top of it. The TUI and every CLI command start from the same Env,
// so they log to the same place and talk to the same service.
//
// Run additionally loads the saved preferences and hands everything to the
// ui package, blocking until the user quits.
package app
