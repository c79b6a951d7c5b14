package ui

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/circdesk/circdesk/internal/desk"
	"github.com/circdesk/circdesk/internal/library"
)

// fakeService serves canned data and records the calls it receives. Fields
// may be changed between steps of a test; calls made during a refresh run
// concurrently, so everything goes through mu.
type fakeService struct {
	mu    sync.Mutex
	calls []string
	errs  map[string]error

	catalog    []library.CatalogEntry
	batchItems []library.BatchCheckoutItem
	loans      []library.Loan
	fines      []library.Fine
	borrowers  []library.Borrower
	stats      library.CatalogStats
	created    library.BorrowerCreated
	applied    library.FineApplied
	payErrs    map[string]error

	lastApply      library.FineApplication
	lastLoanSearch string
	lastCreated    library.NewBorrower
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

func (f *fakeService) count(name string) int {
	n := 0
	for _, c := range f.called() {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeService) setErr(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errs == nil {
		f.errs = make(map[string]error)
	}
	f.errs[name] = err
}

func (f *fakeService) SearchCatalog(context.Context, string) ([]library.CatalogEntry, error) {
	err := f.record("search")
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]library.CatalogEntry(nil), f.catalog...), err
}

func (f *fakeService) Checkout(_ context.Context, isbn, cardID string) (library.Checkout, error) {
	if err := f.record("checkout"); err != nil {
		return library.Checkout{}, err
	}
	f.markCheckedOut(isbn, cardID)
	return library.Checkout{LoanID: 41, ISBN: isbn, CardID: cardID, DueDate: "2026-10-30"}, nil
}

// CheckoutBatch marks each accepted ISBN as checked out so the refetch
// sees the new state.
func (f *fakeService) CheckoutBatch(_ context.Context, isbns []string, cardID string) ([]library.BatchCheckoutItem, error) {
	if err := f.record("checkout_batch"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	items := append([]library.BatchCheckoutItem(nil), f.batchItems...)
	f.mu.Unlock()
	for i, item := range items {
		if i < len(isbns) && item.Succeeded() {
			f.markCheckedOut(isbns[i], cardID)
		}
	}
	return items, nil
}

func (f *fakeService) markCheckedOut(isbn, cardID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.catalog {
		if f.catalog[i].ISBN == isbn {
			f.catalog[i].CheckedOut = true
			f.catalog[i].BorrowerID = cardID
		}
	}
}

func (f *fakeService) Checkin(_ context.Context, id int64) (library.Checkin, error) {
	return library.Checkin{LoanID: id, DateIn: "2026-10-16"}, f.record("checkin")
}

func (f *fakeService) SearchActiveLoans(context.Context, library.LoanQuery) ([]library.Loan, error) {
	return nil, f.record("active_loans")
}

func (f *fakeService) CreateBorrower(_ context.Context, b library.NewBorrower) (library.BorrowerCreated, error) {
	err := f.record("create_borrower")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastCreated = b
	return f.created, err
}

func (f *fakeService) ListFines(context.Context, string, bool) ([]library.Fine, error) {
	return nil, f.record("fines")
}

func (f *fakeService) RefreshFines(context.Context) (library.FinesRefreshed, error) {
	return library.FinesRefreshed{Refreshed: 3}, f.record("refresh_fines")
}

func (f *fakeService) PayFines(_ context.Context, card string) (library.FinesPaid, error) {
	if err := f.record("pay:" + card); err != nil {
		return library.FinesPaid{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.payErrs[card]; err != nil {
		return library.FinesPaid{}, err
	}
	return library.FinesPaid{Paid: 2}, nil
}

func (f *fakeService) ListAllBorrowers(context.Context, string) ([]library.Borrower, error) {
	err := f.record("all_borrowers")
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]library.Borrower(nil), f.borrowers...), err
}

func (f *fakeService) ListAllLoans(_ context.Context, _ library.LoanFilter, search string) ([]library.Loan, error) {
	err := f.record("all_loans")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLoanSearch = search
	return append([]library.Loan(nil), f.loans...), err
}

func (f *fakeService) ListAllFines(context.Context, library.FineFilter, string) ([]library.Fine, error) {
	err := f.record("all_fines")
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]library.Fine(nil), f.fines...), err
}

func (f *fakeService) CatalogStats(context.Context) (library.CatalogStats, error) {
	return f.stats, f.record("stats")
}

func (f *fakeService) ApplyFine(_ context.Context, req library.FineApplication) (library.FineApplied, error) {
	err := f.record("apply_fine")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastApply = req
	return f.applied, err
}

func (f *fakeService) Health(context.Context) error {
	return f.record("health")
}

var testNow = time.Date(2026, 10, 16, 9, 30, 0, 0, time.Local)

func newTestModel(t *testing.T, svc *fakeService) Model {
	t.Helper()
	m := New(Options{
		Desk:      desk.New(svc, nil),
		APIBase:   "http://library.test/api",
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
		Now:       func() time.Time { return testNow },
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	return next.(Model)
}

// run executes cmd and feeds every resulting message back through Update
// until nothing is left. Spinner ticks are dropped, and commands that wait
// on a timer (cursor blinks) are abandoned.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 200 {
			t.Fatalf("command queue did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg, ok := execCmd(c)
		if !ok {
			continue
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if !deliverable(msg) {
			continue
		}
		next, more := m.Update(msg)
		m = next.(Model)
		queue = append(queue, more)
	}
	return m
}

func execCmd(c tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- c() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(250 * time.Millisecond):
		return nil, false
	}
}

func deliverable(msg tea.Msg) bool {
	switch msg.(type) {
	case spinner.TickMsg, nil:
		return false
	case fetchedMsg[library.CatalogEntry], fetchedMsg[library.Loan], fetchedMsg[library.Fine], fetchedMsg[library.Borrower],
		summaryMsg, mutationMsg, promptSubmittedMsg, showBorrowerLoansMsg, showBorrowerFinesMsg:
		return true
	}
	return false
}

// press sends keys one at a time, running the commands each produces.
func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, cmd := m.Update(k)
		m = run(t, next.(Model), cmd)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// typeText sends one key per rune.
func typeText(s string) []tea.KeyMsg {
	out := make([]tea.KeyMsg, 0, len(s))
	for _, r := range s {
		out = append(out, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return out
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
)
