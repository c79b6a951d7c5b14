package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the console's settings.
type Config struct {
	APIBase        string
	RequestTimeout time.Duration
	LogFile        string
	LogLevel       string
	// Path is the file the values were read from, empty when defaults were used.
	Path string
}

const (
	defaultConfigPath     = "~/.config/circdesk/config.toml"
	defaultAPIBase        = "http://127.0.0.1:5000/api"
	defaultTimeoutSeconds = 10
	defaultLogFile        = "~/.local/state/circdesk/circdesk.log"
	defaultLogLevel       = "info"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIBase:        defaultAPIBase,
		RequestTimeout: defaultTimeoutSeconds * time.Second,
		LogFile:        mustExpand(defaultLogFile),
		LogLevel:       defaultLogLevel,
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

// Load parses the config at path, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBase        string `toml:"api_base"`
		TimeoutSeconds int    `toml:"request_timeout_seconds"`
		LogFile        string `toml:"log_file"`
		LogLevel       string `toml:"log_level"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.Path = resolved
	return cfg.Merge(Overrides{
		APIBase:        raw.APIBase,
		TimeoutSeconds: raw.TimeoutSeconds,
		LogFile:        raw.LogFile,
		LogLevel:       raw.LogLevel,
	})
}

// Overrides are values layered over a Config, such as flags or environment
// variables. Zero values leave the field unchanged.
type Overrides struct {
	APIBase        string
	TimeoutSeconds int
	LogFile        string
	LogLevel       string
}

// Merge applies o over c and validates the result.
func (c Config) Merge(o Overrides) (Config, error) {
	if v := strings.TrimSpace(o.APIBase); v != "" {
		c.APIBase = v
	}
	if o.TimeoutSeconds < 0 {
		return Config{}, fmt.Errorf("request_timeout_seconds must be positive, got %d", o.TimeoutSeconds)
	}
	if o.TimeoutSeconds > 0 {
		c.RequestTimeout = time.Duration(o.TimeoutSeconds) * time.Second
	}
	if v := strings.TrimSpace(o.LogFile); v != "" {
		c.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(o.LogLevel); v != "" {
		if _, err := ParseLevel(v); err != nil {
			return Config{}, err
		}
		c.LogLevel = strings.ToLower(v)
	}
	return c, nil
}

// Level returns the configured slog level.
func (c Config) Level() slog.Level {
	lvl, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// ParseLevel maps debug|info|warn|error to a slog level.
func ParseLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", value)
	}
}

// OpenLog opens the log file for appending, creating its directory.
func (c Config) OpenLog() (*os.File, error) {
	path := strings.TrimSpace(c.LogFile)
	if path == "" {
		path = mustExpand(defaultLogFile)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	return f, nil
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

// ExpandPath resolves ~ and relative paths.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
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
