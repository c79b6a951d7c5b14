package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/circdesk/circdesk/internal/desk"
	"github.com/circdesk/circdesk/internal/library"
	"github.com/circdesk/circdesk/internal/state"
)

func (c *cli) newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalog by title, author or ISBN",
		Example: `  circdesk search dune
  circdesk search "frank herbert" -o json`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withDesk(func(d *desk.Desk) error {
				rows, err := d.Search(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				return c.printer().render(catalogListing(rows))
			})
		},
	}
}

func catalogListing(rows []library.CatalogEntry) listing {
	l := listing{
		headers: []string{"ISBN", "Title", "Authors", "Status", "Borrower"},
		data:    rows,
		empty:   "No books found.",
	}
	for _, e := range rows {
		status, borrower := "Available", ""
		if e.CheckedOut {
			status, borrower = "Checked out", e.BorrowerID
		}
		l.rows = append(l.rows, []string{e.ISBN, e.Title, e.AuthorList(), status, orDash(borrower)})
	}
	return l
}

func (c *cli) newCheckoutCmd() *cobra.Command {
	var card string
	cmd := &cobra.Command{
		Use:   "checkout <isbn>...",
		Short: "Lend one or more books to a borrower",
		Long: `Check out books to a borrower card. Several ISBNs are sent as one batch;
each book succeeds or fails on its own and failures are listed.`,
		Example: `  circdesk checkout 0441013597 --card ID000001
  circdesk checkout 0441013597 0399128964 --card ID000001`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := c.printer()
			return c.withDesk(func(d *desk.Desk) error {
				if len(args) == 1 {
					res, err := d.Checkout(cmd.Context(), args[0], card)
					if err != nil {
						return err
					}
					p.ok("Checked out %s to %s (loan %s, due %s)",
						args[0], strings.TrimSpace(card), library.FormatLoanID(res.LoanID), orDash(res.DueDate))
					return nil
				}
				outcome, err := d.CheckoutBatch(cmd.Context(), args, card)
				if err != nil {
					return err
				}
				return reportBatch(p, "Checkout", outcome)
			})
		},
	}
	cmd.Flags().StringVar(&card, "card", "", "borrower card id")
	return cmd
}

func (c *cli) newCheckinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkin <loan-id>",
		Short: "Check a loan back in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := desk.ParseLoanID(args[0])
			if err != nil {
				return err
			}
			return c.withDesk(func(d *desk.Desk) error {
				res, err := d.Checkin(cmd.Context(), id)
				if err != nil {
					return err
				}
				c.printer().ok("Checked in loan %s on %s", library.FormatLoanID(id), orDash(res.DateIn))
				return nil
			})
		},
	}
}

func (c *cli) newLoansCmd() *cobra.Command {
	var (
		filter string
		search string
		query  library.LoanQuery
	)
	cmd := &cobra.Command{
		Use:   "loans",
		Short: "List loans",
		Long: `List loans filtered by all, active or returned, optionally matching a
search term. --isbn, --card and --name look up active loans instead.`,
		Example: `  circdesk loans --filter active --search smith
  circdesk loans --card ID000001`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withDesk(func(d *desk.Desk) error {
				var (
					rows []library.Loan
					err  error
				)
				if query != (library.LoanQuery{}) {
					rows, err = d.FindActiveLoans(cmd.Context(), query)
				} else {
					rows, err = d.Loans(cmd.Context(), state.Filter{Value: filter, Search: search})
				}
				if err != nil {
					return err
				}
				return c.printer().render(c.loanListing(rows))
			})
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", string(library.LoanFilterAll), "all, active or returned")
	cmd.Flags().StringVarP(&search, "search", "s", "", "match title, ISBN, card or borrower name")
	cmd.Flags().StringVar(&query.ISBN, "isbn", "", "active loans for this ISBN")
	cmd.Flags().StringVar(&query.CardID, "card", "", "active loans for this card")
	cmd.Flags().StringVar(&query.Name, "name", "", "active loans for borrowers matching this name")
	return cmd
}

func (c *cli) loanListing(rows []library.Loan) listing {
	now := c.now()
	l := listing{
		headers: []string{"Loan", "ISBN", "Title", "Card", "Borrower", "Out", "Due", "In", "Status"},
		data:    rows,
		empty:   "No loans found.",
	}
	for _, loan := range rows {
		l.rows = append(l.rows, []string{
			library.FormatLoanID(loan.LoanID),
			loan.ISBN,
			orDash(loan.Title),
			loan.CardID,
			orDash(loan.BorrowerName),
			orDash(loan.DateOut),
			orDash(loan.DueDate),
			orDash(loan.DateIn),
			string(loan.Status(now)),
		})
	}
	return l
}
