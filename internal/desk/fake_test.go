package desk

import (
	"context"
	"sync"

	"github.com/circdesk/circdesk/internal/library"
)

// fakeService records calls and serves canned replies.
type fakeService struct {
	mu    sync.Mutex
	calls []string

	catalog    []library.CatalogEntry
	batchItems []library.BatchCheckoutItem
	borrowers  []library.Borrower
	loans      []library.Loan
	fines      []library.Fine
	stats      library.CatalogStats
	created    library.BorrowerCreated
	applied    library.FineApplied
	payErrs    map[string]error
	errs       map[string]error
	lastApply  library.FineApplication
	lastBatch  []string
}

var _ library.Service = (*fakeService)(nil)

func (f *fakeService) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	return f.errs[name]
}

func (f *fakeService) called() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeService) SearchCatalog(context.Context, string) ([]library.CatalogEntry, error) {
	return f.catalog, f.record("search")
}

func (f *fakeService) Checkout(_ context.Context, isbn, _ string) (library.Checkout, error) {
	return library.Checkout{LoanID: 1, ISBN: isbn}, f.record("checkout")
}

func (f *fakeService) CheckoutBatch(_ context.Context, isbns []string, _ string) ([]library.BatchCheckoutItem, error) {
	f.lastBatch = append([]string(nil), isbns...)
	return f.batchItems, f.record("checkout_batch")
}

func (f *fakeService) Checkin(_ context.Context, id int64) (library.Checkin, error) {
	return library.Checkin{LoanID: id}, f.record("checkin")
}

func (f *fakeService) SearchActiveLoans(context.Context, library.LoanQuery) ([]library.Loan, error) {
	return f.loans, f.record("active_loans")
}

func (f *fakeService) CreateBorrower(context.Context, library.NewBorrower) (library.BorrowerCreated, error) {
	return f.created, f.record("create_borrower")
}

func (f *fakeService) ListFines(context.Context, string, bool) ([]library.Fine, error) {
	return f.fines, f.record("fines")
}

func (f *fakeService) RefreshFines(context.Context) (library.FinesRefreshed, error) {
	return library.FinesRefreshed{Refreshed: 3}, f.record("refresh_fines")
}

func (f *fakeService) PayFines(_ context.Context, card string) (library.FinesPaid, error) {
	if err := f.record("pay:" + card); err != nil {
		return library.FinesPaid{}, err
	}
	if err := f.payErrs[card]; err != nil {
		return library.FinesPaid{}, err
	}
	return library.FinesPaid{Paid: 1}, nil
}

func (f *fakeService) ListAllBorrowers(context.Context, string) ([]library.Borrower, error) {
	return f.borrowers, f.record("borrowers")
}

func (f *fakeService) ListAllLoans(context.Context, library.LoanFilter, string) ([]library.Loan, error) {
	return f.loans, f.record("loans")
}

func (f *fakeService) ListAllFines(context.Context, library.FineFilter, string) ([]library.Fine, error) {
	return f.fines, f.record("all_fines")
}

func (f *fakeService) CatalogStats(context.Context) (library.CatalogStats, error) {
	return f.stats, f.record("stats")
}

func (f *fakeService) ApplyFine(_ context.Context, req library.FineApplication) (library.FineApplied, error) {
	f.lastApply = req
	return f.applied, f.record("apply_fine")
}

func (f *fakeService) Health(context.Context) error {
	return f.record("health")
}
