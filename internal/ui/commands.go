package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/circdesk/circdesk/internal/library"
	"github.com/circdesk/circdesk/internal/refresh"
	"github.com/circdesk/circdesk/internal/state"
	"github.com/circdesk/circdesk/internal/status"
)

// Commands

// fetchFunc runs a refetch and returns the message Update applies.
type fetchFunc func(context.Context) (tea.Msg, error)

func (m *Model) catalogFetch(query string) fetchFunc {
	seq := m.catalog.list.ledger.Issue()
	filter := state.Filter{Search: query}
	d := m.desk
	return func(ctx context.Context) (tea.Msg, error) {
		res := library.ResultOf(d.Search(ctx, query))
		_, err := res.Get()
		return fetchedMsg[library.CatalogEntry]{seq: seq, filter: filter, res: res}, err
	}
}

func (m *Model) loansFetch() fetchFunc {
	seq := m.loans.list.ledger.Issue()
	filter := m.loans.list.filter
	d := m.desk
	return func(ctx context.Context) (tea.Msg, error) {
		res := library.ResultOf(d.Loans(ctx, filter))
		_, err := res.Get()
		return fetchedMsg[library.Loan]{seq: seq, filter: filter, res: res}, err
	}
}

func (m *Model) finesFetch() fetchFunc {
	seq := m.fines.list.ledger.Issue()
	filter := m.fines.list.filter
	d := m.desk
	return func(ctx context.Context) (tea.Msg, error) {
		res := library.ResultOf(d.Fines(ctx, filter))
		_, err := res.Get()
		return fetchedMsg[library.Fine]{seq: seq, filter: filter, res: res}, err
	}
}

func (m *Model) borrowersFetch() fetchFunc {
	seq := m.borrowers.list.ledger.Issue()
	filter := m.borrowers.list.filter
	d := m.desk
	return func(ctx context.Context) (tea.Msg, error) {
		res := library.ResultOf(d.Borrowers(ctx, filter))
		_, err := res.Get()
		return fetchedMsg[library.Borrower]{seq: seq, filter: filter, res: res}, err
	}
}

func (m *Model) summaryFetch() fetchFunc {
	d := m.desk
	return func(ctx context.Context) (tea.Msg, error) {
		res := library.ResultOf(d.Summary(ctx))
		_, err := res.Get()
		return summaryMsg{res: res}, err
	}
}

// load turns a fetch into a command tracked under action.
func (m *Model) load(action status.Action, text string, fetch fetchFunc) tea.Cmd {
	m.tracker.Start(action, text)
	ctx := m.ctx
	return tea.Batch(m.startSpinner(), func() tea.Msg {
		msg, _ := fetch(ctx)
		return msg
	})
}

func (m *Model) runSearch(query string) tea.Cmd {
	m.catalog.list.filter = m.catalog.list.filter.WithSearch(query)
	return m.load(actSearch, fmt.Sprintf("Searching for %q...", query), m.catalogFetch(query))
}

func (m *Model) loadLoans() tea.Cmd {
	m.loans.list.requested = true
	return m.load(actLoans, "Loading loans...", m.loansFetch())
}

func (m *Model) loadFines() tea.Cmd {
	m.fines.list.requested = true
	return m.load(actFines, "Loading fines...", m.finesFetch())
}

func (m *Model) loadBorrowers() tea.Cmd {
	m.borrowers.list.requested = true
	return m.load(actBorrowers, "Loading borrowers...", m.borrowersFetch())
}

func (m *Model) summaryCmd() tea.Cmd {
	fetch := m.summaryFetch()
	ctx := m.ctx
	return func() tea.Msg {
		msg, _ := fetch(ctx)
		return msg
	}
}

// refetcher builds the fetch for a planned view. Sequence numbers are issued
// here, on the update loop, before the mutation is sent.
func (m *Model) refetcher(v refresh.View) fetchFunc {
	switch v {
	case refresh.Catalog:
		return m.catalogFetch(m.catalog.list.filter.Search)
	case refresh.Loans:
		m.loans.list.requested = true
		return m.loansFetch()
	case refresh.Fines:
		m.fines.list.requested = true
		return m.finesFetch()
	case refresh.Borrowers:
		m.borrowers.list.requested = true
		return m.borrowersFetch()
	case refresh.Stats:
		return m.summaryFetch()
	}
	return nil
}

// mutation is the work a mutating command performs. It fills in the
// success text, the error, or a batch report on msg.
type mutation func(ctx context.Context, msg *mutationMsg)

// mutate runs op and, once it has succeeded, refetches every view the
// refresh policy names for kind. The returned message is delivered only
// after the refetches have resolved.
func (m *Model) mutate(action status.Action, kind refresh.Mutation, running string, op mutation) tea.Cmd {
	m.tracker.Start(action, running)
	views := refresh.Plan(kind, m.visible)
	fetchers := make(map[refresh.View]fetchFunc, len(views))
	for _, v := range views {
		fetchers[v] = m.refetcher(v)
	}
	ctx := m.ctx
	logger := m.logger
	return tea.Batch(m.startSpinner(), func() tea.Msg {
		msg := mutationMsg{action: action, mutation: kind}
		op(ctx, &msg)
		if msg.err != nil || (msg.batch != nil && !msg.batch.anySucceeded) {
			return msg
		}
		msg.settlement = refresh.Settle(ctx, views, func(ctx context.Context, v refresh.View) (tea.Msg, error) {
			return fetchers[v](ctx)
		})
		if !msg.settlement.OK() {
			logger.Warn("refresh after mutation incomplete", "mutation", kind.String(), "warnings", msg.settlement.Warnings())
		}
		return msg
	})
}

// applyMutation folds the refetched views in first so the success line
// appears only over fresh data.
func (m Model) applyMutation(msg mutationMsg) (tea.Model, tea.Cmd) {
	if msg.err == nil && msg.batch != nil && msg.batch.settle != nil {
		msg.batch.settle(m.selectionFor(msg.batch.tab))
	}
	var cmds []tea.Cmd
	for _, r := range msg.settlement.Results {
		if r.Value == nil {
			continue
		}
		next, cmd := m.Update(r.Value)
		m = next.(Model)
		cmds = append(cmds, cmd)
	}
	warnings := msg.settlement.Warnings()
	switch {
	case msg.err != nil:
		m.tracker.Fail(msg.action, msg.err)
	case msg.batch != nil:
		m.tracker.Partial(msg.action, msg.batch.summary, msg.batch.anySucceeded, msg.batch.details, warnings...)
	default:
		m.tracker.Succeed(msg.action, msg.text, warnings...)
	}
	if msg.err == nil && msg.after != nil {
		msg.after(&m)
	}
	return m, tea.Batch(cmds...)
}
