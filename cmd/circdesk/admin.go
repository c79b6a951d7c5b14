package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/circdesk/circdesk/internal/app"
	"github.com/circdesk/circdesk/internal/config"
	"github.com/circdesk/circdesk/internal/desk"
	"github.com/circdesk/circdesk/internal/logtail"
)

func (c *cli) newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the circulation summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withDesk(func(d *desk.Desk) error {
				s, err := d.Summary(cmd.Context())
				if err != nil {
					return err
				}
				return c.printer().render(summaryListing(s))
			})
		},
	}
}

func summaryListing(s desk.Summary) listing {
	return listing{
		headers: []string{"Metric", "Value"},
		rows: [][]string{
			{"Borrowers", strconv.Itoa(s.Borrowers)},
			{"Loans out", strconv.Itoa(s.ActiveLoans)},
			{"Unpaid fines", fmt.Sprintf("%d (%s)", s.UnpaidFines, money(s.UnpaidTotal))},
			{"Books", strconv.Itoa(s.Books)},
		},
		data: s,
	}
}

func (c *cli) newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the library service is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withEnv(func(env *app.Env) error {
				if err := env.Desk.Health(cmd.Context()); err != nil {
					return err
				}
				c.printer().ok("Service at %s is reachable", env.Config.APIBase)
				return nil
			})
		},
	}
}

func (c *cli) newLogCmd() *cobra.Command {
	var (
		lines    int
		level    string
		contains string
	)
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Print the tail of the circdesk log",
		Example: `  circdesk log -n 50
  circdesk log --level warn --grep checkout`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			minLevel, err := config.ParseLevel(level)
			if err != nil {
				return err
			}
			cfg, err := c.config()
			if err != nil {
				return err
			}
			out, err := logtail.Tail(cfg.LogFile, logtail.Options{
				MaxLines: lines,
				MinLevel: minLevel,
				Contains: contains,
			})
			if err != nil {
				return err
			}
			if len(out) == 0 {
				c.printer().warn("No log lines in %s", cfg.LogFile)
				return nil
			}
			for _, line := range logtail.ColorizeLines(out) {
				fmt.Fprintln(c.out, line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 100, "number of lines to show, 0 for all")
	cmd.Flags().StringVar(&level, "level", "debug", "minimum level: debug, info, warn or error")
	cmd.Flags().StringVar(&contains, "grep", "", "only lines containing this text")
	return cmd
}
