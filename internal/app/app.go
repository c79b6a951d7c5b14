package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/circdesk/circdesk/internal/config"
	"github.com/circdesk/circdesk/internal/desk"
	"github.com/circdesk/circdesk/internal/library"
	"github.com/circdesk/circdesk/internal/prefs"
	"github.com/circdesk/circdesk/internal/ui"
)

// Options configure the console.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/circdesk/prefs.toml
	// Overrides are layered over the config file, typically from flags
	// and environment variables.
	Overrides config.Overrides
	// LogOutput replaces the configured log file when set.
	LogOutput io.Writer
}

// Env is the wired runtime shared by the TUI and the CLI commands.
type Env struct {
	Config config.Config
	Logger *slog.Logger
	Desk   *desk.Desk

	closeLog func() error
}

// Open loads configuration, opens the log and builds the service client.
func Open(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg, err = cfg.Merge(opts.Overrides)
	if err != nil {
		return nil, fmt.Errorf("apply overrides: %w", err)
	}

	env := &Env{Config: cfg, closeLog: func() error { return nil }}

	out := opts.LogOutput
	if out == nil {
		f, err := cfg.OpenLog()
		if err != nil {
			return nil, err
		}
		out = f
		env.closeLog = f.Close
	}
	env.Logger = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: cfg.Level()}))

	client, err := library.NewClient(cfg.APIBase,
		library.WithTimeout(cfg.RequestTimeout),
		library.WithLogger(env.Logger),
	)
	if err != nil {
		_ = env.Close()
		return nil, fmt.Errorf("init library client: %w", err)
	}
	env.Desk = desk.New(client, env.Logger)

	env.Logger.Debug("circdesk started", "api_base", cfg.APIBase, "config", cfg.Path, "timeout", cfg.RequestTimeout)
	return env, nil
}

// Close releases the log file.
func (e *Env) Close() error {
	if e == nil || e.closeLog == nil {
		return nil
	}
	return e.closeLog()
}

// Run boots the TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Open(opts)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	return ui.Run(ui.Options{
		Context:   ctx,
		Desk:      env.Desk,
		Logger:    env.Logger,
		APIBase:   env.Config.APIBase,
		Prefs:     userPrefs,
		PrefsPath: prefsPath,
	})
}
