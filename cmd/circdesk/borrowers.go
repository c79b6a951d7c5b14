package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/circdesk/circdesk/internal/desk"
	"github.com/circdesk/circdesk/internal/library"
	"github.com/circdesk/circdesk/internal/state"
)

func (c *cli) newBorrowersCmd() *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "borrowers",
		Short: "List borrowers with their active loans and unpaid fines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withDesk(func(d *desk.Desk) error {
				rows, err := d.Borrowers(cmd.Context(), state.Filter{Search: search})
				if err != nil {
					return err
				}
				return c.printer().render(borrowerListing(rows))
			})
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "match card, name or SSN")
	return cmd
}

func borrowerListing(rows []library.Borrower) listing {
	l := listing{
		headers: []string{"Card", "Name", "SSN", "Address", "Phone", "Loans", "Unpaid"},
		data:    rows,
		empty:   "No borrowers found.",
	}
	for _, b := range rows {
		l.rows = append(l.rows, []string{
			b.CardID,
			b.Name,
			b.SSN,
			b.Address,
			orDash(b.Phone),
			strconv.Itoa(b.ActiveLoans),
			money(b.UnpaidFines),
		})
	}
	return l
}

func (c *cli) newBorrowerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "borrower",
		Short: "Manage borrowers",
	}
	cmd.AddCommand(c.newBorrowerAddCmd())
	return cmd
}

func (c *cli) newBorrowerAddCmd() *cobra.Command {
	var b library.NewBorrower
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Register a new borrower",
		Example: `  circdesk borrower add --ssn 123-45-6789 --name "Ada Lovelace" --address "12 St James's Sq"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withDesk(func(d *desk.Desk) error {
				created, err := d.RegisterBorrower(cmd.Context(), b)
				if err != nil {
					return err
				}
				c.printer().ok("Registered %s with card %s", strings.TrimSpace(b.Name), created.CardID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&b.SSN, "ssn", "", "social security number")
	cmd.Flags().StringVar(&b.Name, "name", "", "full name")
	cmd.Flags().StringVar(&b.Address, "address", "", "postal address")
	cmd.Flags().StringVar(&b.Phone, "phone", "", "phone number (optional)")
	return cmd
}
