package ui

import (
	"fmt"

	"github.com/circdesk/circdesk/internal/library"
)

func (m *Model) applyCatalog(msg fetchedMsg[library.CatalogEntry]) {
	l := &m.catalog.list
	stale, pruned := l.apply(msg, m.now())
	m.logFetch("catalog", msg.seq, stale, pruned)
	if err := resultErr(msg.res); err != nil {
		m.tracker.Fail(actSearch, err)
		return
	}
	n := l.data.Len()
	m.tracker.Succeed(actSearch, fmt.Sprintf("%d %s for %q", n, plural(n, "result", "results"), msg.filter.Search))
}

func (m *Model) applyLoans(msg fetchedMsg[library.Loan]) {
	l := &m.loans.list
	stale, pruned := l.apply(msg, m.now())
	m.logFetch("loans", msg.seq, stale, pruned)
	if err := resultErr(msg.res); err != nil {
		m.tracker.Fail(actLoans, err)
		return
	}
	n := l.data.Len()
	m.tracker.Succeed(actLoans, fmt.Sprintf("%d %s %s", n, library.ParseLoanFilter(msg.filter.Value), plural(n, "loan", "loans")))
}

func (m *Model) applyFines(msg fetchedMsg[library.Fine]) {
	l := &m.fines.list
	stale, pruned := l.apply(msg, m.now())
	m.logFetch("fines", msg.seq, stale, pruned)
	if err := resultErr(msg.res); err != nil {
		m.tracker.Fail(actFines, err)
		return
	}
	var total float64
	for _, f := range l.data.Rows() {
		total += f.Amount
	}
	n := l.data.Len()
	m.tracker.Succeed(actFines, fmt.Sprintf("%d %s %s totalling %s", n, library.ParseFineFilter(msg.filter.Value), plural(n, "fine", "fines"), formatMoney(total)))
}

func (m *Model) applyBorrowers(msg fetchedMsg[library.Borrower]) {
	l := &m.borrowers.list
	stale, pruned := l.apply(msg, m.now())
	m.logFetch("borrowers", msg.seq, stale, pruned)
	if err := resultErr(msg.res); err != nil {
		m.tracker.Fail(actBorrowers, err)
		return
	}
	n := l.data.Len()
	m.tracker.Succeed(actBorrowers, fmt.Sprintf("%d %s", n, plural(n, "borrower", "borrowers")))
}

func (m *Model) applySummary(msg summaryMsg) {
	if !msg.res.OK() {
		m.summary = summaryState{failed: true}
		return
	}
	m.summary = summaryState{data: msg.res.Value, known: true}
}

// logFetch records out-of-order results and selection pruning. The late
// result is still applied.
func (m *Model) logFetch(view string, seq uint64, stale bool, pruned []string) {
	if stale {
		m.logger.Debug("applied out-of-order result", "view", view, "seq", seq)
	}
	if len(pruned) > 0 {
		m.logger.Debug("selection pruned", "view", view, "keys", pruned)
	}
}

func resultErr[T any](r library.Result[T]) error {
	_, err := r.Get()
	return err
}
