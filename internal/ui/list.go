package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/circdesk/circdesk/internal/library"
	"github.com/circdesk/circdesk/internal/reconcile"
	"github.com/circdesk/circdesk/internal/selection"
	"github.com/circdesk/circdesk/internal/state"
)

// listView is the state shared by every tabular view: the filter the user
// has asked for, the last reconciled rows, the selection and the cursor.
type listView[T any] struct {
	filter      state.Filter
	shown       state.Filter
	data        state.View[T]
	sel         *selection.Set
	ledger      reconcile.Ledger
	rule        reconcile.Rule[T]
	cursor      int
	placeholder string
	requested   bool
}

func newListView[T any](rule reconcile.Rule[T], filter state.Filter) listView[T] {
	return listView[T]{
		filter:      filter,
		sel:         selection.New(),
		rule:        rule,
		placeholder: reconcile.NoResults,
	}
}

// apply folds a fetch result into the view. A failed fetch keeps the rows
// already on screen. The returned flag reports that a later-issued fetch
// had already been applied.
func (v *listView[T]) apply(msg fetchedMsg[T], at time.Time) (stale bool, pruned []string) {
	stale = v.ledger.Resolve(msg.seq)
	if !msg.res.OK() {
		v.data.Fail(msg.res.Err, at)
		return stale, nil
	}
	page := reconcile.Apply(msg.res.Value, v.sel, msg.filter, v.rule)
	v.data.Replace(page.Rows, at)
	v.shown = msg.filter
	v.placeholder = page.Placeholder
	v.clamp()
	return stale, page.Pruned
}

func (v *listView[T]) current() (T, bool) {
	return v.data.At(v.cursor)
}

func (v *listView[T]) move(delta int) {
	v.cursor += delta
	v.clamp()
}

func (v *listView[T]) moveTo(i int) {
	v.cursor = i
	v.clamp()
}

func (v *listView[T]) clamp() {
	n := v.data.Len()
	if v.cursor >= n {
		v.cursor = n - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

// toggle flips selection of the cursor row when the rule allows it.
func (v *listView[T]) toggle() bool {
	row, ok := v.current()
	if !ok || v.rule.Key == nil {
		return false
	}
	if v.rule.Eligible != nil && !v.rule.Eligible(row) {
		return false
	}
	v.sel.Toggle(v.rule.Key(row))
	return true
}

func (v *listView[T]) marked(row T) bool {
	if v.rule.Key == nil {
		return false
	}
	return v.sel.Has(v.rule.Key(row))
}

func newSearchInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "/ "
	ti.CharLimit = 120
	ti.Width = 40
	return ti
}

type catalogView struct {
	search textinput.Model
	list   listView[library.CatalogEntry]
}

// Only books on the shelf can be selected for checkout.
var catalogRule = reconcile.Rule[library.CatalogEntry]{
	Key:      func(e library.CatalogEntry) string { return e.ISBN },
	Eligible: func(e library.CatalogEntry) bool { return !e.CheckedOut },
}

func newCatalogView() catalogView {
	ti := newSearchInput("title, author or ISBN")
	ti.Prompt = "Search: "
	return catalogView{
		search: ti,
		list:   newListView(catalogRule, state.Filter{}),
	}
}

type loansView struct {
	search textinput.Model
	list   listView[library.Loan]
}

var loanRule = reconcile.Rule[library.Loan]{
	Key: func(l library.Loan) string { return library.FormatLoanID(l.LoanID) },
}

func newLoansView(filter library.LoanFilter) loansView {
	return loansView{
		search: newSearchInput("title, borrower, card or ISBN"),
		list:   newListView(loanRule, state.Filter{Value: string(filter)}),
	}
}

func (v loansView) loanFilter() library.LoanFilter {
	return library.ParseLoanFilter(v.list.filter.Value)
}

type finesView struct {
	search textinput.Model
	list   listView[library.Fine]
}

// Fines are selected per borrower: paying settles all of a card's fines.
var fineRule = reconcile.Rule[library.Fine]{
	Key:      func(f library.Fine) string { return f.CardID },
	Eligible: func(f library.Fine) bool { return !f.Paid },
}

func newFinesView(filter library.FineFilter) finesView {
	return finesView{
		search: newSearchInput("borrower, card, title or ISBN"),
		list:   newListView(fineRule, state.Filter{Value: string(filter)}),
	}
}

func (v finesView) fineFilter() library.FineFilter {
	return library.ParseFineFilter(v.list.filter.Value)
}

type borrowersView struct {
	search textinput.Model
	list   listView[library.Borrower]
}

var borrowerRule = reconcile.Rule[library.Borrower]{
	Key: func(b library.Borrower) string { return b.CardID },
}

func newBorrowersView() borrowersView {
	return borrowersView{
		search: newSearchInput("name, card or SSN"),
		list:   newListView(borrowerRule, state.Filter{}),
	}
}

// selectionFor returns the selection owned by a tab, nil for tabs without one.
func (m *Model) selectionFor(t Tab) *selection.Set {
	switch t {
	case TabCatalog:
		return m.catalog.list.sel
	case TabLoans:
		return m.loans.list.sel
	case TabFines:
		return m.fines.list.sel
	case TabBorrowers:
		return m.borrowers.list.sel
	}
	return nil
}
