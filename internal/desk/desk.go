package desk

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/circdesk/circdesk/internal/batch"
	"github.com/circdesk/circdesk/internal/library"
	"github.com/circdesk/circdesk/internal/state"
)

// FineApplicationRequest is the validated apply-fine request.
type FineApplicationRequest = library.FineApplication

// Desk runs circulation workflows against the service. It validates input,
// calls the gateway and shapes batch outcomes; it keeps no view state.
type Desk struct {
	svc    library.Service
	logger *slog.Logger
}

// New builds a Desk. A nil logger discards output.
func New(svc library.Service, logger *slog.Logger) *Desk {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Desk{svc: svc, logger: logger}
}

// Search queries the catalog.
func (d *Desk) Search(ctx context.Context, query string) ([]library.CatalogEntry, error) {
	q, err := ValidateSearch(query)
	if err != nil {
		return nil, err
	}
	return d.svc.SearchCatalog(ctx, q)
}

// Checkout lends one book.
func (d *Desk) Checkout(ctx context.Context, isbn, cardID string) (library.Checkout, error) {
	isbn, cardID, err := ValidateCheckout(isbn, cardID)
	if err != nil {
		return library.Checkout{}, err
	}
	return d.svc.Checkout(ctx, isbn, cardID)
}

// CheckoutBatch lends every selected ISBN to cardID in one request.
func (d *Desk) CheckoutBatch(ctx context.Context, isbns []string, cardID string) (batch.Outcome[library.BatchCheckoutItem], error) {
	card, err := ValidateCard(cardID)
	if err != nil {
		return batch.Outcome[library.BatchCheckoutItem]{}, err
	}
	if err := ValidateSelection(isbns, "available book"); err != nil {
		return batch.Outcome[library.BatchCheckoutItem]{}, err
	}
	out, err := batch.Run(ctx, isbns, func(ctx context.Context, keys []string) ([]batch.Reply[library.BatchCheckoutItem], error) {
		items, err := d.svc.CheckoutBatch(ctx, keys, card)
		if err != nil {
			return nil, err
		}
		return batch.CheckoutReplies(items), nil
	})
	if err != nil {
		d.logger.Warn("batch checkout failed", "card_id", card, "count", len(isbns), "error", err)
		return out, err
	}
	d.logger.Info("batch checkout", "card_id", card, "succeeded", out.SuccessCount, "failed", out.ErrorCount)
	return out, nil
}

// Checkin returns a loan.
func (d *Desk) Checkin(ctx context.Context, loanID int64) (library.Checkin, error) {
	if loanID <= 0 {
		return library.Checkin{}, invalid("loan_id", "Loan ID is required.")
	}
	return d.svc.Checkin(ctx, loanID)
}

// FindActiveLoans looks up active loans by any of ISBN, card or name.
func (d *Desk) FindActiveLoans(ctx context.Context, q library.LoanQuery) ([]library.Loan, error) {
	if err := ValidateLoanQuery(q); err != nil {
		return nil, err
	}
	return d.svc.SearchActiveLoans(ctx, q)
}

// RegisterBorrower creates a borrower after checking required fields.
func (d *Desk) RegisterBorrower(ctx context.Context, b library.NewBorrower) (library.BorrowerCreated, error) {
	b, err := ValidateBorrower(b)
	if err != nil {
		return library.BorrowerCreated{}, err
	}
	return d.svc.CreateBorrower(ctx, b)
}

// PayFines settles all unpaid fines of one borrower.
func (d *Desk) PayFines(ctx context.Context, cardID string) (library.FinesPaid, error) {
	card, err := ValidatePayment(cardID)
	if err != nil {
		return library.FinesPaid{}, err
	}
	return d.svc.PayFines(ctx, card)
}

// PayFinesFor pays fines for several borrowers, one request each.
func (d *Desk) PayFinesFor(ctx context.Context, cardIDs []string) (batch.Outcome[library.FinesPaid], error) {
	if err := ValidateSelection(cardIDs, "borrower"); err != nil {
		return batch.Outcome[library.FinesPaid]{}, err
	}
	out, err := batch.RunEach(ctx, cardIDs, d.svc.PayFines)
	if err != nil {
		return out, err
	}
	d.logger.Info("bulk fine payment", "succeeded", out.SuccessCount, "failed", out.ErrorCount)
	return out, nil
}

// RefreshFines asks the service to recompute fines.
func (d *Desk) RefreshFines(ctx context.Context) (library.FinesRefreshed, error) {
	return d.svc.RefreshFines(ctx)
}

// ApplyFine validates the form and applies the fine.
func (d *Desk) ApplyFine(ctx context.Context, in FineInput) (library.FineApplied, error) {
	req, err := in.Application()
	if err != nil {
		return library.FineApplied{}, err
	}
	return d.svc.ApplyFine(ctx, req)
}

// FinesForCard lists one borrower's fines. A blank card lists everyone's.
func (d *Desk) FinesForCard(ctx context.Context, cardID string, includePaid bool) ([]library.Fine, error) {
	return d.svc.ListFines(ctx, cardID, includePaid)
}

// Loans lists loans for the loans view.
func (d *Desk) Loans(ctx context.Context, f state.Filter) ([]library.Loan, error) {
	f = f.Normalized()
	return d.svc.ListAllLoans(ctx, library.ParseLoanFilter(f.Value), f.Search)
}

// Fines lists fines for the fines view.
func (d *Desk) Fines(ctx context.Context, f state.Filter) ([]library.Fine, error) {
	f = f.Normalized()
	return d.svc.ListAllFines(ctx, library.ParseFineFilter(f.Value), f.Search)
}

// Borrowers lists borrowers for the borrowers view.
func (d *Desk) Borrowers(ctx context.Context, f state.Filter) ([]library.Borrower, error) {
	return d.svc.ListAllBorrowers(ctx, f.Normalized().Search)
}

// Health probes the service.
func (d *Desk) Health(ctx context.Context) error {
	return d.svc.Health(ctx)
}

// Summary is the header overview.
type Summary struct {
	Borrowers   int     `json:"borrowers"`
	ActiveLoans int     `json:"active_loans"`
	UnpaidFines int     `json:"unpaid_fines"`
	UnpaidTotal float64 `json:"unpaid_total"`
	Books       int     `json:"books"`
}

// Summary fetches the four overview figures in parallel. Any failure fails
// the whole summary; callers show unknown values.
func (d *Desk) Summary(ctx context.Context) (Summary, error) {
	var s Summary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := d.svc.ListAllBorrowers(gctx, "")
		if err != nil {
			return fmt.Errorf("borrowers: %w", err)
		}
		s.Borrowers = len(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := d.svc.ListAllLoans(gctx, library.LoanFilterActive, "")
		if err != nil {
			return fmt.Errorf("active loans: %w", err)
		}
		s.ActiveLoans = len(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := d.svc.ListAllFines(gctx, library.FineFilterUnpaid, "")
		if err != nil {
			return fmt.Errorf("unpaid fines: %w", err)
		}
		s.UnpaidFines = len(rows)
		for _, f := range rows {
			s.UnpaidTotal += f.Amount
		}
		return nil
	})
	g.Go(func() error {
		stats, err := d.svc.CatalogStats(gctx)
		if err != nil {
			return fmt.Errorf("catalog stats: %w", err)
		}
		s.Books = stats.Count
		return nil
	})
	if err := g.Wait(); err != nil {
		d.logger.Warn("summary unavailable", "error", err)
		return Summary{}, err
	}
	return s, nil
}
