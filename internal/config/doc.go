// Package config loads the console's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/circdesk/config.toml
//  3. If the file doesn't exist, fall back to built-in defaults
//  4. If the file exists but fields are empty, use defaults for those fields
//
// Command-line flags and CIRCDESK_* environment variables are layered on
// top by the CLI through Merge.
//
// # TOML Format
//
//	api_base = "http://127.0.0.1:5000/api"
//	request_timeout_seconds = 10
//	log_file = "~/.local/state/circdesk/circdesk.log"
//	log_level = "info"
//
// Every field is optional. Tilde expansion is applied to log_file.
//
// # Error Handling
//
// Load returns errors for unreadable files, TOML syntax errors, a negative
// timeout and unknown log levels. A missing file is not an error.
package config
