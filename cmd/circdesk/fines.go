package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/circdesk/circdesk/internal/desk"
	"github.com/circdesk/circdesk/internal/library"
	"github.com/circdesk/circdesk/internal/state"
)

func (c *cli) newFinesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fines",
		Short: "List, recalculate, apply and pay fines",
	}
	cmd.AddCommand(
		c.newFinesListCmd(),
		c.newFinesRefreshCmd(),
		c.newFinesPayCmd(),
		c.newFinesApplyCmd(),
	)
	return cmd
}

func (c *cli) newFinesListCmd() *cobra.Command {
	var (
		filter      string
		search      string
		card        string
		includePaid bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List fines",
		Example: `  circdesk fines list --filter all --search smith
  circdesk fines list --card ID000001 --include-paid`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withDesk(func(d *desk.Desk) error {
				var (
					rows []library.Fine
					err  error
				)
				if card != "" {
					rows, err = d.FinesForCard(cmd.Context(), card, includePaid)
				} else {
					rows, err = d.Fines(cmd.Context(), state.Filter{Value: filter, Search: search})
				}
				if err != nil {
					return err
				}
				return c.printer().render(fineListing(rows))
			})
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", string(library.FineFilterUnpaid), "unpaid, paid or all")
	cmd.Flags().StringVarP(&search, "search", "s", "", "match card, borrower name or title")
	cmd.Flags().StringVar(&card, "card", "", "fines for one borrower card")
	cmd.Flags().BoolVar(&includePaid, "include-paid", false, "with --card, include paid fines")
	return cmd
}

func fineListing(rows []library.Fine) listing {
	l := listing{
		headers: []string{"Loan", "Card", "Borrower", "Title", "Due", "Returned", "Days late", "Amount", "Status"},
		data:    rows,
		empty:   "No fines found.",
	}
	var total float64
	for _, f := range rows {
		status := "Unpaid"
		if f.Paid {
			status = "Paid"
		} else {
			total += f.Amount
		}
		l.rows = append(l.rows, []string{
			library.FormatLoanID(f.LoanID),
			f.CardID,
			orDash(f.BorrowerName),
			orDash(f.Title),
			orDash(f.DueDate),
			orDash(f.DateIn),
			strconv.Itoa(f.DaysLate),
			money(f.Amount),
			status,
		})
	}
	if len(rows) > 0 {
		l.rows = append(l.rows, []string{"", "", "", "", "", "", "Total", money(total), "Unpaid"})
	}
	return l
}

func (c *cli) newFinesRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Recalculate fines for every overdue loan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withDesk(func(d *desk.Desk) error {
				res, err := d.RefreshFines(cmd.Context())
				if err != nil {
					return err
				}
				c.printer().ok("Recalculated %d fines", res.Refreshed)
				return nil
			})
		},
	}
}

func (c *cli) newFinesPayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pay <card>...",
		Short: "Pay every unpaid fine of one or more borrowers",
		Long: `Pay all unpaid fines for each card. Cards are paid one request at a time;
a card with books still out is refused by the service and reported.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := c.printer()
			return c.withDesk(func(d *desk.Desk) error {
				if len(args) == 1 {
					res, err := d.PayFines(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					p.ok("Paid %d fines for %s", res.Paid, args[0])
					return nil
				}
				outcome, err := d.PayFinesFor(cmd.Context(), args)
				if err != nil {
					return err
				}
				return reportBatch(p, "Payment", outcome)
			})
		},
	}
}

func (c *cli) newFinesApplyCmd() *cobra.Command {
	var in desk.FineInput
	cmd := &cobra.Command{
		Use:   "apply <loan-id>",
		Short: "Apply a fine to a loan",
		Long: `Apply a fine to a loan. Give --amount or --days, not both; with neither
the service calculates the fine from the due date.`,
		Example: `  circdesk fines apply 42
  circdesk fines apply 42 --amount 2.50
  circdesk fines apply 42 --days 7`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := desk.ParseLoanID(args[0])
			if err != nil {
				return err
			}
			in.LoanID = id
			return c.withDesk(func(d *desk.Desk) error {
				res, err := d.ApplyFine(cmd.Context(), in)
				if err != nil {
					return err
				}
				line := fmt.Sprintf("Applied %s fine to loan %s (%s)", money(res.Amount), library.FormatLoanID(id), orDash(res.CardID))
				if note := strings.TrimSpace(res.Message); note != "" {
					line += ": " + note
				}
				c.printer().ok("%s", line)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in.Amount, "amount", "", "fine amount in dollars")
	cmd.Flags().StringVar(&in.DaysLate, "days", "", "days late to charge for")
	return cmd
}
