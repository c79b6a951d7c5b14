// Package library is the HTTP client for the circulation service API.
//
// # Overview
//
// Client implements Service, the full set of operations the console needs:
// catalog search, single and batch checkout, check-in, borrower registration,
// fines (list, recalculate, pay, apply) and the admin listings behind the
// loans, fines and borrowers views. The desk and ui packages depend on the
// Service interface so tests can substitute fakes.
//
//	client, err := library.NewClient("http://127.0.0.1:5000/api",
//		library.WithTimeout(10*time.Second),
//		library.WithLogger(logger),
//	)
//	if err != nil {
//		return err
//	}
//	rows, err := client.SearchCatalog(ctx, "dune")
//
// # Requests
//
// Every request:
//   - carries the caller's context for cancellation and the client timeout
//   - sends Accept: application/json and User-Agent: circdesk/0.1
//   - gets a fresh X-Request-ID (google/uuid) that is also logged
//   - is logged at debug with method, path, status and duration
//
// Bodies are encoded and decoded with json-iterator in its standard
// library compatible configuration.
//
// # Errors
//
// The client returns only *OperationError. Its Message is the service's
// "error" or "message" field when present, otherwise GenericFailure. Kind
// separates rejected requests, unreachable services and malformed replies;
// the transport or decode cause is kept behind Unwrap for logs and never
// shown to staff.
//
// # Batch checkout
//
// /checkout/batch answers with one item per requested ISBN. The service
// does not always echo the ISBN, so items are matched to requests by
// position; see package batch.
//
// # Dates
//
// ParseServiceDate accepts the service's plain dates and RFC 3339
// timestamps. Loan.Status derives Active, Overdue or Returned, where a loan
// is overdue once its due day is before the current calendar day.
package library
