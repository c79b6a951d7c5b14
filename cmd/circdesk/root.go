package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/circdesk/circdesk/internal/app"
	"github.com/circdesk/circdesk/internal/batch"
	"github.com/circdesk/circdesk/internal/config"
	"github.com/circdesk/circdesk/internal/desk"
	"github.com/circdesk/circdesk/internal/library"
	"github.com/circdesk/circdesk/internal/status"
)

// settingFlags are the persistent flags layered over CIRCDESK_* variables
// and the config file.
var settingFlags = []string{"config", "prefs", "api", "timeout", "log-file", "log-level", "output", "no-color"}

// bindFlags layers each named flag into v. A name with no matching flag is
// a programming error.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, names ...string) error {
	for _, name := range names {
		if err := v.BindPFlag(name, flags.Lookup(name)); err != nil {
			return fmt.Errorf("bind flag %q: %w", name, err)
		}
	}
	return nil
}

// errReported marks a failure whose lines were already printed.
var errReported = errors.New("command failed")

// cli carries what every command shares: the layered settings, the output
// streams and the hooks tests replace.
type cli struct {
	v      *viper.Viper
	out    io.Writer
	errOut io.Writer
	now    func() time.Time
	isTTY  func() bool
	runTUI func(context.Context, app.Options) error
}

func newCLI(out, errOut io.Writer) *cli {
	v := viper.New()
	v.SetEnvPrefix("CIRCDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return &cli{
		v:      v,
		out:    out,
		errOut: errOut,
		now:    time.Now,
		isTTY:  func() bool { return term.IsTerminal(int(os.Stdout.Fd())) },
		runTUI: app.Run,
	}
}

// execute runs the command line and returns the process exit code.
func (c *cli) execute(ctx context.Context, args []string) int {
	root := c.newRootCmd()
	root.SetArgs(args)
	root.SetOut(c.out)
	root.SetErr(c.errOut)
	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(c.errOut, color.RedString("✗"), describe(err))
		}
		return 1
	}
	return 0
}

func (c *cli) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "circdesk",
		Short: "Circulation desk console for the library service",
		Long: `circdesk talks to the library service's HTTP API: catalog search,
checkout and check-in, borrower registration and fines.

Run 'circdesk' with no arguments in a terminal to open the interactive console.
Every flag can also be set through a CIRCDESK_* environment variable, for
example CIRCDESK_API or CIRCDESK_LOG_LEVEL.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.isTTY() {
				return cmd.Help()
			}
			return c.runTUI(cmd.Context(), c.options())
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default ~/.config/circdesk/config.toml)")
	flags.String("prefs", "", "preferences file (default ~/.config/circdesk/prefs.toml)")
	flags.String("api", "", "library service API base URL")
	flags.Int("timeout", 0, "request timeout in seconds")
	flags.String("log-file", "", "log file path")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.StringP("output", "o", "table", "output format: table, json or yaml")
	flags.Bool("no-color", false, "disable colored output")
	if err := bindFlags(c.v, flags, settingFlags...); err != nil {
		panic(err)
	}

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if c.v.GetBool("no-color") {
			color.NoColor = true
		}
		_, err := parseFormat(c.v.GetString("output"))
		return err
	}

	root.AddCommand(
		c.newSearchCmd(),
		c.newCheckoutCmd(),
		c.newCheckinCmd(),
		c.newLoansCmd(),
		c.newBorrowersCmd(),
		c.newBorrowerCmd(),
		c.newFinesCmd(),
		c.newStatsCmd(),
		c.newHealthCmd(),
		c.newLogCmd(),
	)
	return root
}

// options layers flags and environment over the config file.
func (c *cli) options() app.Options {
	return app.Options{
		ConfigPath: c.v.GetString("config"),
		PrefsPath:  c.v.GetString("prefs"),
		Overrides: config.Overrides{
			APIBase:        c.v.GetString("api"),
			TimeoutSeconds: c.v.GetInt("timeout"),
			LogFile:        c.v.GetString("log-file"),
			LogLevel:       c.v.GetString("log-level"),
		},
	}
}

func (c *cli) config() (config.Config, error) {
	opts := c.options()
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	return cfg.Merge(opts.Overrides)
}

// withEnv opens the runtime for one command and closes it afterwards.
func (c *cli) withEnv(fn func(*app.Env) error) error {
	env, err := app.Open(c.options())
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()
	return fn(env)
}

func (c *cli) withDesk(fn func(*desk.Desk) error) error {
	return c.withEnv(func(env *app.Env) error { return fn(env.Desk) })
}

func (c *cli) printer() printer {
	format, _ := parseFormat(c.v.GetString("output"))
	return printer{out: c.out, errOut: c.errOut, format: format}
}

// describe turns a failure into the line shown after ✗. Service and
// validation failures use the same text the console shows.
func describe(err error) string {
	var (
		opErr    *library.OperationError
		valErr   *desk.ValidationError
		batchErr *batch.Error
	)
	switch {
	case errors.As(err, &opErr), errors.As(err, &valErr), errors.As(err, &batchErr),
		errors.Is(err, batch.ErrEmpty), errors.Is(err, batch.ErrCountMismatch):
		return status.Project(err)
	default:
		return err.Error()
	}
}
