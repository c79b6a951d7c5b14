package ui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/circdesk/circdesk/internal/library"
)

// Column layouts. The status column index is used for coloring.
var (
	catalogHeaders  = []string{"", "ISBN", "Title", "Authors", "Status", "Borrower"}
	loanHeaders     = []string{"Loan", "ISBN", "Title", "Borrower", "Card", "Out", "Due", "In", "Status"}
	fineHeaders     = []string{"", "Loan", "Card", "Borrower", "Title", "Due", "Days", "Amount", "Status"}
	borrowerHeaders = []string{"Card", "Name", "SSN", "Address", "Phone", "Loans", "Unpaid"}
)

const (
	catalogStatusCol = 4
	loanStatusCol    = 8
	fineStatusCol    = 8
)

// selectionMark shows whether a row is selected, selectable or neither.
func selectionMark(marked, eligible bool) string {
	switch {
	case marked:
		return "[x]"
	case eligible:
		return "[ ]"
	default:
		return " - "
	}
}

func catalogStatus(e library.CatalogEntry) string {
	if e.CheckedOut {
		return "Checked out"
	}
	return "Available"
}

func catalogCells(e library.CatalogEntry, marked bool) []string {
	borrower := ""
	if e.CheckedOut {
		borrower = e.BorrowerID
	}
	return []string{
		selectionMark(marked, !e.CheckedOut),
		e.ISBN,
		truncate(e.Title, 48),
		truncate(e.AuthorList(), 32),
		catalogStatus(e),
		orDash(borrower),
	}
}

func loanCells(l library.Loan, now time.Time) []string {
	return []string{
		library.FormatLoanID(l.LoanID),
		l.ISBN,
		truncate(orDash(l.Title), 40),
		truncate(orDash(l.BorrowerName), 24),
		l.CardID,
		shortDate(l.DateOut),
		shortDate(l.DueDate),
		shortDate(l.DateIn),
		string(l.Status(now)),
	}
}

func fineStatus(f library.Fine) string {
	if f.Paid {
		return "Paid"
	}
	return "Unpaid"
}

func fineCells(f library.Fine, marked bool) []string {
	return []string{
		selectionMark(marked, !f.Paid),
		library.FormatLoanID(f.LoanID),
		f.CardID,
		truncate(orDash(f.BorrowerName), 24),
		truncate(orDash(f.Title), 36),
		shortDate(f.DueDate),
		strconv.Itoa(f.DaysLate),
		formatMoney(f.Amount),
		fineStatus(f),
	}
}

func borrowerCells(b library.Borrower) []string {
	unpaid := "-"
	if b.UnpaidFines > 0 {
		unpaid = formatMoney(b.UnpaidFines)
	}
	return []string{
		b.CardID,
		truncate(b.Name, 28),
		b.SSN,
		truncate(b.Address, 36),
		orDash(b.Phone),
		strconv.Itoa(b.ActiveLoans),
		unpaid,
	}
}

// summaryText renders the header overview. Unknown figures show as "?".
func summaryText(s summaryState) string {
	if !s.known {
		if s.failed {
			return "Borrowers ?  Loans out ?  Unpaid fines ?  Books ?"
		}
		return "Loading summary..."
	}
	d := s.data
	return fmt.Sprintf("Borrowers %d  Loans out %d  Unpaid fines %d (%s)  Books %d",
		d.Borrowers, d.ActiveLoans, d.UnpaidFines, formatMoney(d.UnpaidTotal), d.Books)
}
