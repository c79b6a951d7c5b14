package desk

import (
	"strconv"
	"strings"

	"github.com/circdesk/circdesk/internal/library"
)

// ValidationError is a local input problem detected before any request is
// sent. Message is shown to staff verbatim.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func required(value, field, message string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", invalid(field, message)
	}
	return v, nil
}

// ValidateSearch checks a catalog query.
func ValidateSearch(query string) (string, error) {
	return required(query, "query", "Enter a title, author or ISBN to search.")
}

// ValidateCheckout checks a single checkout.
func ValidateCheckout(isbn, cardID string) (string, string, error) {
	isbn = strings.TrimSpace(isbn)
	cardID = strings.TrimSpace(cardID)
	if isbn == "" || cardID == "" {
		return "", "", invalid("checkout", "ISBN and card number are required.")
	}
	return isbn, cardID, nil
}

// ValidateCard checks the card number a checkout is made against.
func ValidateCard(cardID string) (string, error) {
	return required(cardID, "card_id", "Card number is required for checkout.")
}

// ValidatePayment checks the card number fines are paid for.
func ValidatePayment(cardID string) (string, error) {
	return required(cardID, "card_no", "Card number is required to pay fines.")
}

// ValidateSelection rejects an empty selection. what names the selected
// records, e.g. "available book".
func ValidateSelection(keys []string, what string) error {
	if len(keys) == 0 {
		return invalid("selection", "Select at least one "+what+".")
	}
	return nil
}

// ValidateBorrower trims the registration form and checks required fields.
func ValidateBorrower(b library.NewBorrower) (library.NewBorrower, error) {
	b = library.NewBorrower{
		SSN:     strings.TrimSpace(b.SSN),
		Name:    strings.TrimSpace(b.Name),
		Address: strings.TrimSpace(b.Address),
		Phone:   strings.TrimSpace(b.Phone),
	}
	if b.SSN == "" || b.Name == "" || b.Address == "" {
		return library.NewBorrower{}, invalid("borrower", "SSN, name, and address are required.")
	}
	return b, nil
}

// ValidateLoanQuery requires at least one lookup field.
func ValidateLoanQuery(q library.LoanQuery) error {
	if strings.TrimSpace(q.ISBN+q.CardID+q.Name) == "" {
		return invalid("loan_query", "Enter an ISBN, card number or borrower name.")
	}
	return nil
}

// ParseLoanID parses a loan id typed by staff.
func ParseLoanID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, invalid("loan_id", "Loan ID is required.")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, invalid("loan_id", "Loan ID must be a positive number.")
	}
	return id, nil
}

// FineInput is the apply-fine form as typed. Leaving both Amount and
// DaysLate blank lets the service calculate the fine from the due date.
type FineInput struct {
	LoanID   int64
	Amount   string
	DaysLate string
}

// Application validates the form and builds the request.
func (in FineInput) Application() (FineApplicationRequest, error) {
	if in.LoanID <= 0 {
		return FineApplicationRequest{}, invalid("loan_id", "Select a loan first.")
	}
	amountRaw := strings.TrimSpace(in.Amount)
	daysRaw := strings.TrimSpace(in.DaysLate)
	req := FineApplicationRequest{LoanID: in.LoanID}
	switch {
	case amountRaw != "" && daysRaw != "":
		return FineApplicationRequest{}, invalid("fine", "Give either an amount or days late, not both.")
	case amountRaw != "":
		amount, err := strconv.ParseFloat(strings.TrimPrefix(amountRaw, "$"), 64)
		if err != nil || amount <= 0 {
			return FineApplicationRequest{}, invalid("fine_amount", "Enter a valid fine amount greater than 0.")
		}
		req.Amount = &amount
	case daysRaw != "":
		days, err := strconv.Atoi(daysRaw)
		if err != nil || days <= 0 {
			return FineApplicationRequest{}, invalid("days_late", "Enter a valid number of days late.")
		}
		req.DaysLate = &days
	}
	return req, nil
}
