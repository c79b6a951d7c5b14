package library

import (
	"strings"
	"time"
)

const serviceDateLayout = "2006-01-02"

// CatalogEntry mirrors a row returned by /search.
type CatalogEntry struct {
	ISBN       string   `json:"isbn"`
	Title      string   `json:"title"`
	Authors    []string `json:"authors"`
	CheckedOut bool     `json:"checked_out"`
	BorrowerID string   `json:"borrower_id"`
}

// AuthorList joins the authors for display.
func (e CatalogEntry) AuthorList() string {
	return strings.Join(e.Authors, ", ")
}

// Checkout is the service's answer to a single checkout.
type Checkout struct {
	LoanID  int64  `json:"loan_id"`
	ISBN    string `json:"isbn"`
	CardID  string `json:"card_id"`
	DateOut string `json:"date_out"`
	DueDate string `json:"due_date"`
}

// BatchCheckoutItem is one per-ISBN entry of a /checkout/batch reply. The
// service is not required to echo the ISBN; replies are matched by position.
type BatchCheckoutItem struct {
	ISBN    string `json:"isbn"`
	Status  string `json:"status"`
	LoanID  int64  `json:"loan_id"`
	DueDate string `json:"due_date"`
	Error   string `json:"error"`
}

// Succeeded reports whether the service accepted this item.
func (b BatchCheckoutItem) Succeeded() bool {
	switch strings.ToLower(strings.TrimSpace(b.Status)) {
	case "ok", "success":
		return true
	default:
		return false
	}
}

// Checkin is the service's answer to a check-in.
type Checkin struct {
	LoanID int64  `json:"loan_id"`
	DateIn string `json:"date_in"`
}

// Loan is a loan row, optionally joined with title and borrower name.
type Loan struct {
	LoanID       int64  `json:"loan_id"`
	ISBN         string `json:"isbn"`
	CardID       string `json:"card_id"`
	Title        string `json:"title"`
	BorrowerName string `json:"borrower_name"`
	DateOut      string `json:"date_out"`
	DueDate      string `json:"due_date"`
	DateIn       string `json:"date_in"`
}

// Active reports whether the loan has not been checked in.
func (l Loan) Active() bool {
	return strings.TrimSpace(l.DateIn) == ""
}

// Overdue reports whether an active loan's due day is before now's day.
// Loans without a parseable due date are never overdue.
func (l Loan) Overdue(now time.Time) bool {
	if !l.Active() {
		return false
	}
	due := ParseServiceDate(l.DueDate)
	if due.IsZero() {
		return false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	dy, dm, dd := due.Date()
	return time.Date(dy, dm, dd, 0, 0, 0, 0, now.Location()).Before(today)
}

// LoanStatus is derived from a loan at a point in time.
type LoanStatus string

const (
	LoanStatusActive   LoanStatus = "Active"
	LoanStatusOverdue  LoanStatus = "Overdue"
	LoanStatusReturned LoanStatus = "Returned"
)

// Status derives the display status.
func (l Loan) Status(now time.Time) LoanStatus {
	switch {
	case !l.Active():
		return LoanStatusReturned
	case l.Overdue(now):
		return LoanStatusOverdue
	default:
		return LoanStatusActive
	}
}

// LoanQuery narrows /loans to active loans matching any given field.
type LoanQuery struct {
	ISBN   string
	CardID string
	Name   string
}

// LoanFilter selects loans in the admin listing.
type LoanFilter string

const (
	LoanFilterAll      LoanFilter = "all"
	LoanFilterActive   LoanFilter = "active"
	LoanFilterReturned LoanFilter = "returned"
)

// LoanFilters lists the filters in cycle order.
var LoanFilters = []LoanFilter{LoanFilterAll, LoanFilterActive, LoanFilterReturned}

// ParseLoanFilter maps free text to a filter, defaulting to all.
func ParseLoanFilter(value string) LoanFilter {
	for _, f := range LoanFilters {
		if strings.EqualFold(strings.TrimSpace(value), string(f)) {
			return f
		}
	}
	return LoanFilterAll
}

// Fine is a fine row joined with loan and borrower data.
type Fine struct {
	LoanID       int64   `json:"loan_id"`
	CardID       string  `json:"card_id"`
	BorrowerName string  `json:"borrower_name"`
	ISBN         string  `json:"isbn"`
	Title        string  `json:"title"`
	DueDate      string  `json:"due_date"`
	DateIn       string  `json:"date_in"`
	DaysLate     int     `json:"days_late"`
	Amount       float64 `json:"fine_amt"`
	Paid         bool    `json:"paid"`
}

// FineFilter selects fines in the admin listing.
type FineFilter string

const (
	FineFilterUnpaid FineFilter = "unpaid"
	FineFilterPaid   FineFilter = "paid"
	FineFilterAll    FineFilter = "all"
)

// FineFilters lists the filters in cycle order.
var FineFilters = []FineFilter{FineFilterUnpaid, FineFilterPaid, FineFilterAll}

// ParseFineFilter maps free text to a filter, defaulting to unpaid.
func ParseFineFilter(value string) FineFilter {
	for _, f := range FineFilters {
		if strings.EqualFold(strings.TrimSpace(value), string(f)) {
			return f
		}
	}
	return FineFilterUnpaid
}

// Borrower is a borrower row with loan and fine aggregates.
type Borrower struct {
	CardID      string  `json:"card_id"`
	Name        string  `json:"bname"`
	SSN         string  `json:"ssn"`
	Address     string  `json:"address"`
	Phone       string  `json:"phone"`
	ActiveLoans int     `json:"active_loans"`
	UnpaidFines float64 `json:"unpaid_fines"`
}

// NewBorrower is the registration payload.
type NewBorrower struct {
	SSN     string `json:"ssn"`
	Name    string `json:"bname"`
	Address string `json:"address"`
	Phone   string `json:"phone,omitempty"`
}

// BorrowerCreated carries the server-assigned card id.
type BorrowerCreated struct {
	CardID string `json:"card_id"`
}

// FinesRefreshed reports how many fines the service recomputed.
type FinesRefreshed struct {
	Refreshed int `json:"refreshed"`
}

// FinesPaid reports how many fines were settled.
type FinesPaid struct {
	Paid int `json:"paid"`
}

// CatalogStats is the catalog summary.
type CatalogStats struct {
	Count int `json:"count"`
}

// FineApplication asks the service to apply a fine. At most one of Amount
// and DaysLate is set; neither means the service calculates the amount.
type FineApplication struct {
	LoanID   int64    `json:"loan_id"`
	Amount   *float64 `json:"fine_amount,omitempty"`
	DaysLate *int     `json:"days_late,omitempty"`
}

// FineApplied is the service's answer to a fine application.
type FineApplied struct {
	LoanID  int64   `json:"loan_id"`
	Amount  float64 `json:"fine_amount"`
	CardID  string  `json:"card_id"`
	Message string  `json:"message"`
}

// ParseServiceDate parses the service's date and timestamp formats.
func ParseServiceDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{serviceDateLayout, time.RFC3339Nano, time.RFC3339} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}
