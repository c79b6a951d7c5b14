package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/circdesk/circdesk/internal/desk"
	"github.com/circdesk/circdesk/internal/library"
	"github.com/circdesk/circdesk/internal/refresh"
	"github.com/circdesk/circdesk/internal/selection"
	"github.com/circdesk/circdesk/internal/state"
	"github.com/circdesk/circdesk/internal/status"
)

// Messages

// fetchedMsg carries one list fetch back to Update. seq is the ledger
// sequence issued when the fetch started.
type fetchedMsg[T any] struct {
	seq    uint64
	filter state.Filter
	res    library.Result[[]T]
}

type summaryMsg struct {
	res library.Result[desk.Summary]
}

// batchReport is the per-item part of a batch mutation.
type batchReport struct {
	summary      string
	details      []string
	anySucceeded bool
	// settle drops succeeded keys from the originating selection.
	settle func(*selection.Set)
	tab    Tab
}

// mutationMsg is sent once a mutation and its follow-up refetches have all
// resolved.
type mutationMsg struct {
	action     status.Action
	mutation   refresh.Mutation
	text       string
	err        error
	batch      *batchReport
	settlement refresh.Settlement[tea.Msg]
	after      func(*Model)
}

// promptKind identifies which prompt produced a submission.
type promptKind int

const (
	promptCheckoutCard promptKind = iota
	promptApplyFine
)

type promptSubmittedMsg struct {
	kind   promptKind
	values []string
	// Context captured when the prompt opened.
	isbns  []string
	batch  bool
	loanID int64
}

// showBorrowerLoansMsg asks the loans view to show one borrower's loans.
type showBorrowerLoansMsg struct {
	cardID string
}

// showBorrowerFinesMsg asks the fines view to show one borrower's fines.
type showBorrowerFinesMsg struct {
	cardID string
}
