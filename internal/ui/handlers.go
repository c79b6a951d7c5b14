package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/circdesk/circdesk/internal/desk"
	"github.com/circdesk/circdesk/internal/library"
	"github.com/circdesk/circdesk/internal/refresh"
	"github.com/circdesk/circdesk/internal/state"
)

// updateSearch feeds a key to a focused search box. Enter submits the
// trimmed value and esc abandons the edit; both return focus to the list.
func updateSearch(ti *textinput.Model, msg tea.KeyMsg, keys keyMap) (submitted bool, query string, cmd tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Submit):
		ti.Blur()
		return true, ti.Value(), nil
	case key.Matches(msg, keys.Cancel):
		ti.Blur()
		return false, "", nil
	}
	*ti, cmd = ti.Update(msg)
	return false, "", cmd
}

// handleListKey applies the navigation keys shared by every list. It
// reports whether the key was consumed.
func handleListKey[T any](l *listView[T], msg tea.KeyMsg, keys keyMap, page int) bool {
	switch {
	case key.Matches(msg, keys.Up):
		l.move(-1)
	case key.Matches(msg, keys.Down):
		l.move(1)
	case key.Matches(msg, keys.PageUp):
		l.move(-max(page, 1))
	case key.Matches(msg, keys.PageDown):
		l.move(max(page, 1))
	case key.Matches(msg, keys.Top):
		l.moveTo(0)
	case key.Matches(msg, keys.Bottom):
		l.moveTo(l.data.Len() - 1)
	default:
		return false
	}
	return true
}

// Catalog

func (m Model) handleCatalogInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	done, q, cmd := updateSearch(&m.catalog.search, msg, m.keys)
	if !done {
		return m, cmd
	}
	query, err := desk.ValidateSearch(q)
	if err != nil {
		m.tracker.Fail(actSearch, err)
		return m, m.catalog.search.Focus()
	}
	return m, m.runSearch(query)
}

func (m Model) handleCatalogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	l := &m.catalog.list
	if handleListKey(l, msg, m.keys, m.pageSize()) {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Search):
		return m, m.catalog.search.Focus()
	case key.Matches(msg, m.keys.Toggle):
		if !l.toggle() {
			if row, ok := l.current(); ok && row.CheckedOut {
				m.tracker.Fail(actCheckout, &desk.ValidationError{Field: "selection", Message: row.ISBN + " is already checked out."})
			}
		}
		return m, nil
	case key.Matches(msg, m.keys.ClearSelection):
		l.sel.Clear()
		return m, nil
	case key.Matches(msg, m.keys.Checkout, m.keys.CheckoutSelected):
		return m.openCheckout()
	}
	return m, nil
}

// openCheckout prompts for the card number. The selection is checked out
// as a batch; without one, the book under the cursor is checked out alone.
func (m Model) openCheckout() (tea.Model, tea.Cmd) {
	isbns := m.catalog.list.sel.Keys()
	if len(isbns) == 0 {
		if row, ok := m.catalog.list.current(); ok && !row.CheckedOut {
			isbns = []string{row.ISBN}
		}
	}
	if err := desk.ValidateSelection(isbns, "available book"); err != nil {
		m.tracker.Fail(actCheckout, err)
		return m, nil
	}
	title := "Check out 1 book"
	if len(isbns) > 1 {
		title = fmt.Sprintf("Check out %d books", len(isbns))
	}
	p := newPrompt(promptCheckoutCard, title, []promptField{{label: "Card number", placeholder: "ID000001"}})
	p.isbns = isbns
	p.batch = !m.catalog.list.sel.IsEmpty()
	m.modal = p
	return m, textinput.Blink
}

func (m Model) submitCheckout(msg promptSubmittedMsg) (tea.Model, tea.Cmd) {
	card, err := desk.ValidateCard(first(msg.values))
	if err != nil {
		m.tracker.Fail(actCheckout, err)
		return m, nil
	}
	isbns := msg.isbns
	d := m.desk

	if !msg.batch {
		isbn := first(isbns)
		cmd := m.mutate(actCheckout, refresh.Checkout, fmt.Sprintf("Checking out %s...", isbn), func(ctx context.Context, out *mutationMsg) {
			co, err := d.Checkout(ctx, isbn, card)
			if err != nil {
				out.err = err
				return
			}
			out.text = fmt.Sprintf("Checked out %s to %s (loan %s, due %s)", isbn, card, library.FormatLoanID(co.LoanID), co.DueDate)
		})
		return m, cmd
	}

	cmd := m.mutate(actCheckout, refresh.Checkout, fmt.Sprintf("Checking out %d books...", len(isbns)), func(ctx context.Context, out *mutationMsg) {
		outcome, err := d.CheckoutBatch(ctx, isbns, card)
		if err != nil {
			out.err = err
			return
		}
		out.batch = &batchReport{
			summary:      "Checkout: " + outcome.Summary(),
			details:      outcome.Details(),
			anySucceeded: outcome.AnySucceeded(),
			settle:       outcome.Settle,
			tab:          TabCatalog,
		}
	})
	return m, cmd
}

// Loans

func (m Model) handleLoansKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	l := &m.loans.list
	if handleListKey(l, msg, m.keys, m.pageSize()) {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Search):
		return m, m.loans.search.Focus()
	case key.Matches(msg, m.keys.CycleFilter):
		next := state.Cycle(library.LoanFilters, m.loans.loanFilter())
		l.filter = l.filter.WithValue(string(next))
		m.prefs.LoanFilter = string(next)
		m.savePrefs()
		return m, m.loadLoans()
	case key.Matches(msg, m.keys.Checkin):
		return m.checkinCurrent()
	case key.Matches(msg, m.keys.ApplyFine):
		row, ok := l.current()
		if !ok {
			m.tracker.Fail(actApplyFine, &desk.ValidationError{Field: "loan_id", Message: "Select a loan first."})
			return m, nil
		}
		return m.openApplyFine(row.LoanID)
	}
	return m, nil
}

func (m Model) checkinCurrent() (tea.Model, tea.Cmd) {
	row, ok := m.loans.list.current()
	if !ok {
		m.tracker.Fail(actCheckin, &desk.ValidationError{Field: "loan_id", Message: "Select a loan first."})
		return m, nil
	}
	id := library.FormatLoanID(row.LoanID)
	if !row.Active() {
		m.tracker.Fail(actCheckin, &desk.ValidationError{Field: "loan_id", Message: "Loan " + id + " is already checked in."})
		return m, nil
	}
	d := m.desk
	loanID := row.LoanID
	cmd := m.mutate(actCheckin, refresh.Checkin, "Checking in loan "+id+"...", func(ctx context.Context, out *mutationMsg) {
		ci, err := d.Checkin(ctx, loanID)
		if err != nil {
			out.err = err
			return
		}
		out.text = fmt.Sprintf("Checked in loan %s on %s", id, ci.DateIn)
	})
	return m, cmd
}

func (m Model) openApplyFine(loanID int64) (tea.Model, tea.Cmd) {
	p := newPrompt(promptApplyFine, "Apply fine to loan "+library.FormatLoanID(loanID), []promptField{
		{label: "Amount", placeholder: "e.g. 2.50"},
		{label: "Days late", placeholder: "e.g. 10"},
	})
	p.hint = "Leave both blank to calculate from the due date."
	p.loanID = loanID
	m.modal = p
	return m, textinput.Blink
}

func (m Model) submitApplyFine(msg promptSubmittedMsg) (tea.Model, tea.Cmd) {
	in := desk.FineInput{LoanID: msg.loanID}
	if len(msg.values) > 0 {
		in.Amount = msg.values[0]
	}
	if len(msg.values) > 1 {
		in.DaysLate = msg.values[1]
	}
	if _, err := in.Application(); err != nil {
		m.tracker.Fail(actApplyFine, err)
		return m, nil
	}
	d := m.desk
	id := library.FormatLoanID(in.LoanID)
	cmd := m.mutate(actApplyFine, refresh.ApplyFine, "Applying fine to loan "+id+"...", func(ctx context.Context, out *mutationMsg) {
		applied, err := d.ApplyFine(ctx, in)
		if err != nil {
			out.err = err
			return
		}
		out.text = fmt.Sprintf("Applied %s fine to loan %s", formatMoney(applied.Amount), id)
		if applied.CardID != "" {
			out.text += " (" + applied.CardID + ")"
		}
		if note := strings.TrimSpace(applied.Message); note != "" {
			out.text += ": " + note
		}
	})
	return m, cmd
}

// Fines

func (m Model) handleFinesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	l := &m.fines.list
	if handleListKey(l, msg, m.keys, m.pageSize()) {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Search):
		return m, m.fines.search.Focus()
	case key.Matches(msg, m.keys.CycleFilter):
		next := state.Cycle(library.FineFilters, m.fines.fineFilter())
		l.filter = l.filter.WithValue(string(next))
		m.prefs.FineFilter = string(next)
		m.savePrefs()
		return m, m.loadFines()
	case key.Matches(msg, m.keys.Toggle):
		l.toggle()
		return m, nil
	case key.Matches(msg, m.keys.ClearSelection):
		l.sel.Clear()
		return m, nil
	case key.Matches(msg, m.keys.Pay):
		row, ok := l.current()
		if !ok {
			m.tracker.Fail(actPay, &desk.ValidationError{Field: "card_no", Message: "Select a fine first."})
			return m, nil
		}
		return m.payFines(row.CardID)
	case key.Matches(msg, m.keys.PaySelected):
		return m.paySelected()
	case key.Matches(msg, m.keys.RefreshFines):
		return m.refreshFines()
	case key.Matches(msg, m.keys.ApplyFine):
		row, ok := l.current()
		if !ok {
			m.tracker.Fail(actApplyFine, &desk.ValidationError{Field: "loan_id", Message: "Select a loan first."})
			return m, nil
		}
		return m.openApplyFine(row.LoanID)
	}
	return m, nil
}

func (m Model) payFines(cardID string) (tea.Model, tea.Cmd) {
	card, err := desk.ValidatePayment(cardID)
	if err != nil {
		m.tracker.Fail(actPay, err)
		return m, nil
	}
	d := m.desk
	cmd := m.mutate(actPay, refresh.PayFines, "Paying fines for "+card+"...", func(ctx context.Context, out *mutationMsg) {
		paid, err := d.PayFines(ctx, card)
		if err != nil {
			out.err = err
			return
		}
		out.text = fmt.Sprintf("Paid %d %s for %s", paid.Paid, plural(paid.Paid, "fine", "fines"), card)
	})
	return m, cmd
}

func (m Model) paySelected() (tea.Model, tea.Cmd) {
	cards := m.fines.list.sel.Keys()
	if err := desk.ValidateSelection(cards, "borrower with unpaid fines"); err != nil {
		m.tracker.Fail(actPay, err)
		return m, nil
	}
	d := m.desk
	cmd := m.mutate(actPay, refresh.PayFines, fmt.Sprintf("Paying fines for %d borrowers...", len(cards)), func(ctx context.Context, out *mutationMsg) {
		outcome, err := d.PayFinesFor(ctx, cards)
		if err != nil {
			out.err = err
			return
		}
		out.batch = &batchReport{
			summary:      "Payment: " + outcome.Summary(),
			details:      outcome.Details(),
			anySucceeded: outcome.AnySucceeded(),
			settle:       outcome.Settle,
			tab:          TabFines,
		}
	})
	return m, cmd
}

func (m Model) refreshFines() (tea.Model, tea.Cmd) {
	d := m.desk
	cmd := m.mutate(actRefreshFines, refresh.RefreshFines, "Recalculating fines...", func(ctx context.Context, out *mutationMsg) {
		res, err := d.RefreshFines(ctx)
		if err != nil {
			out.err = err
			return
		}
		out.text = fmt.Sprintf("Recalculated %d %s", res.Refreshed, plural(res.Refreshed, "fine", "fines"))
	})
	return m, cmd
}

// Borrowers

func (m Model) handleBorrowersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	l := &m.borrowers.list
	if handleListKey(l, msg, m.keys, m.pageSize()) {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Search):
		return m, m.borrowers.search.Focus()
	case key.Matches(msg, m.keys.ShowLoans):
		if row, ok := l.current(); ok {
			return m, emit(showBorrowerLoansMsg{cardID: row.CardID})
		}
	case key.Matches(msg, m.keys.ShowFines):
		if row, ok := l.current(); ok {
			return m, emit(showBorrowerFinesMsg{cardID: row.CardID})
		}
	}
	return m, nil
}

// showBorrowerLoans switches to the loans tab searching for one card.
func (m Model) showBorrowerLoans(cardID string) (tea.Model, tea.Cmd) {
	m.tab = TabLoans
	m.loans.search.SetValue(cardID)
	m.loans.list.filter = m.loans.list.filter.WithSearch(cardID)
	return m, m.loadLoans()
}

// showBorrowerFines switches to the fines tab searching for one card.
func (m Model) showBorrowerFines(cardID string) (tea.Model, tea.Cmd) {
	m.tab = TabFines
	m.fines.search.SetValue(cardID)
	m.fines.list.filter = m.fines.list.filter.WithSearch(cardID)
	return m, m.loadFines()
}

// Prompts

func (m Model) handlePrompt(msg promptSubmittedMsg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case promptCheckoutCard:
		return m.submitCheckout(msg)
	case promptApplyFine:
		return m.submitApplyFine(msg)
	}
	return m, nil
}

// emit wraps a message as a command so cross-view requests go through Update.
func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
