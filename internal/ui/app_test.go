package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circdesk/circdesk/internal/library"
	"github.com/circdesk/circdesk/internal/prefs"
	"github.com/circdesk/circdesk/internal/status"
)

func catalogFixture() []library.CatalogEntry {
	return []library.CatalogEntry{
		{ISBN: "111", Title: "Dune", Authors: []string{"Frank Herbert"}},
		{ISBN: "222", Title: "Dune Messiah", Authors: []string{"Frank Herbert"}},
		{ISBN: "333", Title: "Children of Dune", Authors: []string{"Frank Herbert"}, CheckedOut: true, BorrowerID: "ID000009"},
	}
}

func searchFor(t *testing.T, m Model, q string) Model {
	t.Helper()
	m = press(t, m, typeText(q)...)
	return press(t, m, keyEnter)
}

func TestBatchCheckout_PartialFailureKeepsFailedSelected(t *testing.T) {
	svc := &fakeService{
		catalog: catalogFixture(),
		batchItems: []library.BatchCheckoutItem{
			{Status: "ok", LoanID: 5},
			{Status: "error", Error: "Card has unpaid fines"},
		},
	}
	m := newTestModel(t, svc)
	m = searchFor(t, m, "dune")
	require.Equal(t, 3, m.catalog.list.data.Len())

	m = press(t, m, keySpace, keyDown, keySpace)
	require.Equal(t, []string{"111", "222"}, m.catalog.list.sel.Keys())

	m = press(t, m, runes("c"))
	require.NotNil(t, m.modal)
	m = press(t, m, typeText("ID000001")...)
	m = press(t, m, keyEnter)

	assert.Nil(t, m.modal)
	assert.Equal(t, []string{"222"}, m.catalog.list.sel.Keys(), "failed key stays selected, succeeded key removed")

	line := m.tracker.Line(actCheckout)
	assert.Equal(t, status.Succeeded, line.State)
	assert.Contains(t, line.Text, "1 succeeded, 1 failed")
	assert.Equal(t, []string{"222: Card has unpaid fines"}, line.Details)

	row, ok := m.catalog.list.data.At(0)
	require.True(t, ok)
	assert.True(t, row.CheckedOut, "catalog was refetched after checkout")
	assert.Equal(t, 2, svc.count("search"))
	assert.Equal(t, 1, svc.count("stats"))
}

func TestSingleCheckout_UsesCursorRowWithoutSelection(t *testing.T) {
	svc := &fakeService{catalog: catalogFixture()}
	m := newTestModel(t, svc)
	m = searchFor(t, m, "dune")

	m = press(t, m, runes("c"))
	m = press(t, m, typeText("ID000001")...)
	m = press(t, m, keyEnter)

	assert.Equal(t, 1, svc.count("checkout"))
	assert.Zero(t, svc.count("checkout_batch"))
	line := m.tracker.Line(actCheckout)
	assert.Equal(t, status.Succeeded, line.State)
	assert.Equal(t, "Checked out 111 to ID000001 (loan 41, due 2026-10-30)", line.Text)
}

func TestCheckout_NothingToCheckOutFailsLocally(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(t, svc)
	m = press(t, m, keyEsc, runes("c"))

	assert.Nil(t, m.modal)
	line := m.tracker.Line(actCheckout)
	assert.Equal(t, status.Failed, line.State)
	assert.Equal(t, "Select at least one available book.", line.Text)
	assert.Empty(t, svc.called())
}

func TestCheckout_BlankCardFailsLocally(t *testing.T) {
	svc := &fakeService{catalog: catalogFixture()}
	m := newTestModel(t, svc)
	m = searchFor(t, m, "dune")
	m = press(t, m, runes("c"), keyEnter)

	line := m.tracker.Line(actCheckout)
	assert.Equal(t, status.Failed, line.State)
	assert.Equal(t, "Card number is required for checkout.", line.Text)
	assert.Zero(t, svc.count("checkout"))
}

func TestCatalogToggle_IgnoresCheckedOutRows(t *testing.T) {
	svc := &fakeService{catalog: catalogFixture()[2:]}
	m := newTestModel(t, svc)
	m = searchFor(t, m, "children")
	m = press(t, m, keySpace)

	assert.True(t, m.catalog.list.sel.IsEmpty())
	assert.Equal(t, "333 is already checked out.", m.tracker.Line(actCheckout).Text)
}

func TestSearch_EmptyQueryIsRejected(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(t, svc)
	m = press(t, m, keyEnter)

	assert.Equal(t, status.Failed, m.tracker.Line(actSearch).State)
	assert.Empty(t, svc.called())
	assert.True(t, m.catalog.search.Focused())
}

func TestSearch_EmptyResultShowsPlaceholder(t *testing.T) {
	m := newTestModel(t, &fakeService{})
	m = searchFor(t, m, "zzz")

	assert.Equal(t, `No results for "zzz".`, m.catalog.list.placeholder)
	assert.Contains(t, m.View(), `No results for "zzz".`)
}

func loansFixture() []library.Loan {
	return []library.Loan{
		{LoanID: 7, ISBN: "111", CardID: "ID1", Title: "Dune", BorrowerName: "Ann", DateOut: "2026-09-17", DueDate: "2026-10-01"},
		{LoanID: 8, ISBN: "222", CardID: "ID2", Title: "Emma", BorrowerName: "Bo", DateOut: "2026-09-01", DueDate: "2026-09-15", DateIn: "2026-09-14"},
	}
}

func TestCheckin_RefreshesLoansAndStats(t *testing.T) {
	svc := &fakeService{loans: loansFixture()}
	m := newTestModel(t, svc)
	m = press(t, m, keyEsc, runes("2"))
	require.Equal(t, TabLoans, m.tab)
	require.Equal(t, 2, m.loans.list.data.Len())

	m = press(t, m, runes("i"))

	assert.Equal(t, 1, svc.count("checkin"))
	assert.Equal(t, 3, svc.count("all_loans"), "initial load, refetch and the summary's active loan count")
	assert.Equal(t, 1, svc.count("stats"))
	line := m.tracker.Line(actCheckin)
	assert.Equal(t, status.Succeeded, line.State)
	assert.Equal(t, "Checked in loan 7 on 2026-10-16", line.Text)
	assert.Empty(t, line.Warning)
}

func TestCheckin_ReturnedLoanRejectedLocally(t *testing.T) {
	svc := &fakeService{loans: loansFixture()}
	m := newTestModel(t, svc)
	m = press(t, m, keyEsc, runes("2"), keyDown, runes("i"))

	assert.Zero(t, svc.count("checkin"))
	assert.Equal(t, "Loan 8 is already checked in.", m.tracker.Line(actCheckin).Text)
}

func TestApplyFine_AmountAndDaysTogetherRejected(t *testing.T) {
	svc := &fakeService{loans: loansFixture()}
	m := newTestModel(t, svc)
	m = press(t, m, keyEsc, runes("2"), runes("a"))
	require.NotNil(t, m.modal)

	m = press(t, m, typeText("2")...)
	m = press(t, m, keyDown)
	m = press(t, m, typeText("3")...)
	m = press(t, m, keyEnter)

	assert.Zero(t, svc.count("apply_fine"))
	line := m.tracker.Line(actApplyFine)
	assert.Equal(t, status.Failed, line.State)
	assert.Equal(t, "Give either an amount or days late, not both.", line.Text)
}

func TestApplyFine_BlankFieldsLetServiceCalculate(t *testing.T) {
	svc := &fakeService{
		loans:   loansFixture(),
		applied: library.FineApplied{Amount: 1.75, CardID: "ID1"},
	}
	m := newTestModel(t, svc)
	m = press(t, m, keyEsc, runes("2"), runes("a"), keyEnter, keyEnter)

	assert.Equal(t, 1, svc.count("apply_fine"))
	assert.Equal(t, int64(7), svc.lastApply.LoanID)
	assert.Nil(t, svc.lastApply.Amount)
	assert.Nil(t, svc.lastApply.DaysLate)
	assert.Equal(t, 1, svc.count("all_fines"), "apply fine refetches fines")
	assert.Equal(t, 2, svc.count("all_loans"), "apply fine refetches loans")
	assert.Equal(t, "Applied $1.75 fine to loan 7 (ID1)", m.tracker.Line(actApplyFine).Text)
}

func TestApplyFine_ShowsServiceMessage(t *testing.T) {
	svc := &fakeService{
		loans:   loansFixture(),
		applied: library.FineApplied{LoanID: 7, Amount: 0.75, CardID: "ID1", Message: "Fine created successfully"},
	}
	m := newTestModel(t, svc)
	m = press(t, m, keyEsc, runes("2"), runes("a"), keyEnter, keyEnter)

	line := m.tracker.Line(actApplyFine)
	assert.Equal(t, status.Succeeded, line.State)
	assert.Equal(t, "Applied $0.75 fine to loan 7 (ID1): Fine created successfully", line.Text)
}

func finesFixture() []library.Fine {
	return []library.Fine{
		{LoanID: 1, CardID: "ID1", BorrowerName: "Ann", Title: "Dune", DaysLate: 4, Amount: 1.0},
		{LoanID: 2, CardID: "ID2", BorrowerName: "Bo", Title: "Emma", DaysLate: 8, Amount: 2.0},
	}
}

func TestPaySelected_PartialFailureKeepsFailedBorrowerSelected(t *testing.T) {
	svc := &fakeService{
		fines:   finesFixture(),
		payErrs: map[string]error{"ID2": &library.OperationError{Message: "Loans still out"}},
	}
	m := newTestModel(t, svc)
	m = press(t, m, keyEsc, runes("3"), keySpace, keyDown, keySpace)
	require.Equal(t, []string{"ID1", "ID2"}, m.fines.list.sel.Keys())

	m = press(t, m, runes("P"))

	assert.Equal(t, 1, svc.count("pay:ID1"))
	assert.Equal(t, 1, svc.count("pay:ID2"))
	assert.Equal(t, []string{"ID2"}, m.fines.list.sel.Keys())
	line := m.tracker.Line(actPay)
	assert.Equal(t, status.Succeeded, line.State)
	assert.Contains(t, line.Text, "1 succeeded, 1 failed")
	assert.Equal(t, []string{"ID2: Loans still out"}, line.Details)
}

func TestPaySelected_AllFailedSkipsRefresh(t *testing.T) {
	boom := &library.OperationError{Message: "Loans still out"}
	svc := &fakeService{
		fines:   finesFixture(),
		payErrs: map[string]error{"ID1": boom, "ID2": boom},
	}
	m := newTestModel(t, svc)
	m = press(t, m, keyEsc, runes("3"), keySpace, keyDown, keySpace, runes("P"))

	assert.Equal(t, 1, svc.count("all_fines"), "no refetch after a batch with no successes")
	assert.Equal(t, status.Failed, m.tracker.Line(actPay).State)
	assert.Equal(t, []string{"ID1", "ID2"}, m.fines.list.sel.Keys())
}

func TestPay_RefreshFailureBecomesWarning(t *testing.T) {
	svc := &fakeService{fines: finesFixture()}
	m := newTestModel(t, svc)
	m = press(t, m, keyEsc, runes("3"))
	require.Equal(t, 2, m.fines.list.data.Len())

	svc.setErr("all_fines", &library.OperationError{Message: "database is locked"})
	m = press(t, m, runes("p"))

	line := m.tracker.Line(actPay)
	assert.Equal(t, status.Succeeded, line.State)
	assert.Equal(t, "Paid 2 fines for ID1", line.Text)
	assert.Contains(t, line.Warning, "fines refresh failed: database is locked")
	assert.Equal(t, 2, m.fines.list.data.Len(), "rows survive a failed refetch")
	assert.Equal(t, status.Failed, m.tracker.Line(actFines).State)
}

func TestRefreshFines_RefetchesFinesAndStats(t *testing.T) {
	svc := &fakeService{fines: finesFixture()}
	m := newTestModel(t, svc)
	m = press(t, m, keyEsc, runes("3"), runes("R"))

	assert.Equal(t, 1, svc.count("refresh_fines"))
	assert.Equal(t, 3, svc.count("all_fines"), "initial load, refetch and the summary's unpaid count")
	assert.Equal(t, 1, svc.count("stats"))
	assert.Equal(t, "Recalculated 3 fines", m.tracker.Line(actRefreshFines).Text)
}

func TestOutOfOrderFetchResults_LastResolvedWins(t *testing.T) {
	m := newTestModel(t, &fakeService{})
	seqA := m.loans.list.ledger.Issue()
	seqB := m.loans.list.ledger.Issue()

	newer := fetchedMsg[library.Loan]{seq: seqB, res: library.Result[[]library.Loan]{Value: loansFixture()[1:]}}
	older := fetchedMsg[library.Loan]{seq: seqA, res: library.Result[[]library.Loan]{Value: loansFixture()[:1]}}

	next, _ := m.Update(newer)
	next, _ = next.(Model).Update(older)
	m = next.(Model)

	row, ok := m.loans.list.data.At(0)
	require.True(t, ok)
	assert.Equal(t, int64(7), row.LoanID)
	assert.Equal(t, 1, m.loans.list.data.Len())
}

func TestCycleLoanFilter_SavesPreference(t *testing.T) {
	svc := &fakeService{loans: loansFixture()}
	m := newTestModel(t, svc)
	m = press(t, m, keyEsc, runes("2"), runes("f"))

	assert.Equal(t, library.LoanFilterActive, m.loans.loanFilter())
	assert.Equal(t, 2, svc.count("all_loans"))
	saved, err := prefs.Load(m.prefsPath)
	require.NoError(t, err)
	assert.Equal(t, "active", saved.LoanFilter)
}

func TestCycleTheme_SavesPreference(t *testing.T) {
	m := newTestModel(t, &fakeService{})
	m = press(t, m, keyEsc, runes("T"))

	assert.Equal(t, "Kanagawa", m.theme.Name)
	saved, err := prefs.Load(m.prefsPath)
	require.NoError(t, err)
	assert.Equal(t, "Kanagawa", saved.Theme)
}

func TestRegister_ValidatesThenCreates(t *testing.T) {
	svc := &fakeService{created: library.BorrowerCreated{CardID: "ID000042"}}
	m := newTestModel(t, svc)
	m = press(t, m, keyEsc, runes("5"))
	require.Equal(t, TabRegister, m.tab)

	m = press(t, m, typeText("123-45-6789")...)
	m = press(t, m, keyEnter)
	m = press(t, m, typeText("Ann Reader")...)
	m = press(t, m, keyEnter, keyEnter, keyEnter)

	assert.Equal(t, "SSN, name, and address are required.", m.tracker.Line(actRegister).Text)
	assert.Zero(t, svc.count("create_borrower"))

	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m = press(t, m, typeText("1 Main St")...)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.Equal(t, 1, svc.count("create_borrower"))
	assert.Equal(t, library.NewBorrower{SSN: "123-45-6789", Name: "Ann Reader", Address: "1 Main St"}, svc.lastCreated)
	assert.Equal(t, 1, svc.count("all_borrowers"))
	line := m.tracker.Line(actRegister)
	assert.Equal(t, status.Succeeded, line.State)
	assert.Equal(t, "Registered Ann Reader with card ID000042", line.Text)
	assert.Equal(t, []string{"", "", "", ""}, m.register.form.values(), "form is cleared after registration")
}

func TestBorrowers_ShowLoansSwitchesTab(t *testing.T) {
	svc := &fakeService{borrowers: []library.Borrower{{CardID: "ID7", Name: "Ann"}}}
	m := newTestModel(t, svc)
	m = press(t, m, keyEsc, runes("4"), keyEnter)

	assert.Equal(t, TabLoans, m.tab)
	assert.Equal(t, "ID7", m.loans.search.Value())
	assert.Equal(t, "ID7", m.loans.list.filter.Search)
	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Equal(t, "ID7", svc.lastLoanSearch)
}

func TestSummary_FailureShowsUnknownValues(t *testing.T) {
	svc := &fakeService{stats: library.CatalogStats{Count: 25000}}
	svc.setErr("stats", &library.OperationError{Message: "down"})
	m := newTestModel(t, svc)
	m = run(t, m, m.Init())

	assert.True(t, m.summary.failed)
	assert.Contains(t, summaryText(m.summary), "Books ?")

	svc.setErr("stats", nil)
	m = run(t, m, m.summaryCmd())
	assert.True(t, m.summary.known)
	assert.Contains(t, summaryText(m.summary), "Books 25000")
}

func TestView_RendersMainScreen(t *testing.T) {
	m := newTestModel(t, &fakeService{})
	out := m.View()

	assert.Contains(t, out, "circdesk")
	assert.Contains(t, out, "Catalog")
	assert.Contains(t, out, "Type a search and press enter.")
}

func TestHelpOverlay_ListsBindings(t *testing.T) {
	m := newTestModel(t, &fakeService{})
	m = press(t, m, keyEsc, runes("?"))
	require.True(t, m.showHelp)

	out := m.View()
	assert.Contains(t, out, "Keyboard Shortcuts")
	assert.Contains(t, out, "Recalculate fines")

	m = press(t, m, runes("x"))
	assert.False(t, m.showHelp)
}

func TestSelectionActionsFollowRefetchedSelection(t *testing.T) {
	svc := &fakeService{catalog: catalogFixture()}
	m := newTestModel(t, svc)
	m = searchFor(t, m, "dune")

	assert.False(t, m.keys.CheckoutSelected.Enabled())
	assert.NotContains(t, m.renderFooter(), "Check out selected")

	m = press(t, m, keySpace)
	require.Equal(t, []string{"111"}, m.catalog.list.sel.Keys())
	footer := m.renderFooter()
	assert.Contains(t, footer, "Check out selected")
	assert.Contains(t, footer, "Clear selection")

	// Someone else checks the book out; the reload drops it from the selection.
	svc.markCheckedOut("111", "ID000002")
	m = press(t, m, runes("r"))

	assert.True(t, m.catalog.list.sel.IsEmpty())
	footer = m.renderFooter()
	assert.NotContains(t, footer, "Check out selected")
	assert.NotContains(t, footer, "Clear selection")
	assert.False(t, m.keys.CheckoutSelected.Enabled())
	assert.False(t, m.keys.ClearSelection.Enabled())
	assert.True(t, m.keys.Checkout.Enabled())
}

func TestPaySelected_IgnoredWithoutSelection(t *testing.T) {
	svc := &fakeService{fines: finesFixture()}
	m := newTestModel(t, svc)
	m = press(t, m, runes("3"))

	require.True(t, m.fines.list.sel.IsEmpty())
	assert.NotContains(t, m.renderFooter(), "Pay selected")
	m = press(t, m, runes("P"))
	for _, c := range svc.called() {
		assert.NotContains(t, c, "pay:")
	}
	assert.Nil(t, m.modal)
}
