package library

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Service lists every operation the console needs from the circulation
// service. *Client implements it; tests substitute fakes.
type Service interface {
	SearchCatalog(ctx context.Context, query string) ([]CatalogEntry, error)
	Checkout(ctx context.Context, isbn, cardID string) (Checkout, error)
	CheckoutBatch(ctx context.Context, isbns []string, cardID string) ([]BatchCheckoutItem, error)
	Checkin(ctx context.Context, loanID int64) (Checkin, error)
	SearchActiveLoans(ctx context.Context, query LoanQuery) ([]Loan, error)
	CreateBorrower(ctx context.Context, borrower NewBorrower) (BorrowerCreated, error)
	ListFines(ctx context.Context, cardID string, includePaid bool) ([]Fine, error)
	RefreshFines(ctx context.Context) (FinesRefreshed, error)
	PayFines(ctx context.Context, cardID string) (FinesPaid, error)
	ListAllBorrowers(ctx context.Context, search string) ([]Borrower, error)
	ListAllLoans(ctx context.Context, filter LoanFilter, search string) ([]Loan, error)
	ListAllFines(ctx context.Context, filter FineFilter, search string) ([]Fine, error)
	CatalogStats(ctx context.Context) (CatalogStats, error)
	ApplyFine(ctx context.Context, req FineApplication) (FineApplied, error)
	Health(ctx context.Context) error
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

// Client talks to the circulation service's HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *slog.Logger
}

const (
	defaultAPIBase   = "http://127.0.0.1:5000/api"
	defaultUserAgent = "circdesk/0.1"
	requestTimeout   = 10 * time.Second
	maxResponseBytes = 8 << 20
)

// Option customizes a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger routes request logging to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient builds a Client for the API rooted at apiBase.
func NewClient(apiBase string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(apiBase)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: requestTimeout},
		userAgent: defaultUserAgent,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SearchCatalog searches titles, ISBNs and authors.
func (c *Client) SearchCatalog(ctx context.Context, query string) ([]CatalogEntry, error) {
	values := url.Values{}
	values.Set("q", query)
	var rows []CatalogEntry
	if err := c.do(ctx, http.MethodGet, "/search", values, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Checkout lends one book to a borrower.
func (c *Client) Checkout(ctx context.Context, isbn, cardID string) (Checkout, error) {
	body := struct {
		ISBN   string `json:"isbn"`
		CardID string `json:"card_id"`
	}{isbn, cardID}
	var payload Checkout
	if err := c.do(ctx, http.MethodPost, "/checkout", nil, body, &payload); err != nil {
		return Checkout{}, err
	}
	return payload, nil
}

// CheckoutBatch lends several books in one request. The reply holds one
// item per requested ISBN in request order.
func (c *Client) CheckoutBatch(ctx context.Context, isbns []string, cardID string) ([]BatchCheckoutItem, error) {
	body := struct {
		ISBNs  []string `json:"isbns"`
		CardID string   `json:"card_id"`
	}{isbns, cardID}
	var items []BatchCheckoutItem
	if err := c.do(ctx, http.MethodPost, "/checkout/batch", nil, body, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Checkin returns a loan.
func (c *Client) Checkin(ctx context.Context, loanID int64) (Checkin, error) {
	body := struct {
		LoanID int64 `json:"loan_id"`
	}{loanID}
	var payload Checkin
	if err := c.do(ctx, http.MethodPost, "/checkin", nil, body, &payload); err != nil {
		return Checkin{}, err
	}
	return payload, nil
}

// SearchActiveLoans finds active loans by ISBN, card or borrower name.
func (c *Client) SearchActiveLoans(ctx context.Context, query LoanQuery) ([]Loan, error) {
	values := url.Values{}
	if isbn := strings.TrimSpace(query.ISBN); isbn != "" {
		values.Set("isbn", isbn)
	}
	if card := strings.TrimSpace(query.CardID); card != "" {
		values.Set("card_id", card)
	}
	if name := strings.TrimSpace(query.Name); name != "" {
		values.Set("name", name)
	}
	var loans []Loan
	if err := c.do(ctx, http.MethodGet, "/loans", values, nil, &loans); err != nil {
		return nil, err
	}
	return loans, nil
}

// CreateBorrower registers a borrower and returns the assigned card id.
func (c *Client) CreateBorrower(ctx context.Context, borrower NewBorrower) (BorrowerCreated, error) {
	var payload BorrowerCreated
	if err := c.do(ctx, http.MethodPost, "/borrowers", nil, borrower, &payload); err != nil {
		return BorrowerCreated{}, err
	}
	return payload, nil
}

// ListFines lists fines, optionally for one card and including paid ones.
func (c *Client) ListFines(ctx context.Context, cardID string, includePaid bool) ([]Fine, error) {
	values := url.Values{}
	if card := strings.TrimSpace(cardID); card != "" {
		values.Set("card_no", card)
	}
	if includePaid {
		values.Set("include_paid", "1")
	}
	var fines []Fine
	if err := c.do(ctx, http.MethodGet, "/fines", values, nil, &fines); err != nil {
		return nil, err
	}
	return fines, nil
}

// RefreshFines asks the service to recompute fines for late loans.
func (c *Client) RefreshFines(ctx context.Context) (FinesRefreshed, error) {
	var payload FinesRefreshed
	if err := c.do(ctx, http.MethodPost, "/fines/refresh", nil, nil, &payload); err != nil {
		return FinesRefreshed{}, err
	}
	return payload, nil
}

// PayFines settles every unpaid fine of a borrower.
func (c *Client) PayFines(ctx context.Context, cardID string) (FinesPaid, error) {
	body := struct {
		CardNo string `json:"card_no"`
	}{cardID}
	var payload FinesPaid
	if err := c.do(ctx, http.MethodPost, "/fines/pay", nil, body, &payload); err != nil {
		return FinesPaid{}, err
	}
	return payload, nil
}

// ListAllBorrowers lists borrowers with their loan and fine aggregates.
func (c *Client) ListAllBorrowers(ctx context.Context, search string) ([]Borrower, error) {
	values := url.Values{}
	if s := strings.TrimSpace(search); s != "" {
		values.Set("search", s)
	}
	var rows []Borrower
	if err := c.do(ctx, http.MethodGet, "/admin/borrowers", values, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAllLoans lists loans matching filter and search.
func (c *Client) ListAllLoans(ctx context.Context, filter LoanFilter, search string) ([]Loan, error) {
	values := url.Values{}
	values.Set("filter", string(ParseLoanFilter(string(filter))))
	if s := strings.TrimSpace(search); s != "" {
		values.Set("search", s)
	}
	var rows []Loan
	if err := c.do(ctx, http.MethodGet, "/admin/loans", values, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAllFines lists fines matching filter and search.
func (c *Client) ListAllFines(ctx context.Context, filter FineFilter, search string) ([]Fine, error) {
	values := url.Values{}
	values.Set("filter", string(ParseFineFilter(string(filter))))
	if s := strings.TrimSpace(search); s != "" {
		values.Set("search", s)
	}
	var rows []Fine
	if err := c.do(ctx, http.MethodGet, "/admin/fines", values, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// CatalogStats returns the catalog size.
func (c *Client) CatalogStats(ctx context.Context) (CatalogStats, error) {
	var payload CatalogStats
	if err := c.do(ctx, http.MethodGet, "/admin/stats", nil, nil, &payload); err != nil {
		return CatalogStats{}, err
	}
	return payload, nil
}

// ApplyFine applies or updates a fine on a loan.
func (c *Client) ApplyFine(ctx context.Context, req FineApplication) (FineApplied, error) {
	var payload FineApplied
	if err := c.do(ctx, http.MethodPost, "/admin/fines/apply", nil, req, &payload); err != nil {
		return FineApplied{}, err
	}
	return payload, nil
}

// Health probes the service.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}

// Call performs one request and returns the raw success body. Every failure
// is an *OperationError.
func (c *Client) Call(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	if c == nil {
		return nil, &OperationError{Message: GenericFailure, Kind: KindUnreachable, cause: fmt.Errorf("client is nil")}
	}
	endpoint := method + " " + path

	reqURL := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		reqURL.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, c.unreachable(endpoint, fmt.Errorf("encode request: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return nil, c.unreachable(endpoint, fmt.Errorf("create request: %w", err))
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "endpoint", endpoint, "request_id", requestID, "error", err)
		return nil, c.unreachable(endpoint, fmt.Errorf("execute request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.logger.Warn("read response failed", "endpoint", endpoint, "request_id", requestID, "error", err)
		return nil, c.unreachable(endpoint, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		opErr := &OperationError{
			Message:  extractMessage(data),
			Kind:     KindRejected,
			Status:   resp.StatusCode,
			Endpoint: endpoint,
			cause:    fmt.Errorf("api %s returned status %d", endpoint, resp.StatusCode),
		}
		c.logger.Warn("request rejected",
			"endpoint", endpoint,
			"request_id", requestID,
			"status", resp.StatusCode,
			"message", opErr.Message,
			"duration", time.Since(start))
		return nil, opErr
	}

	c.logger.Debug("request ok",
		"endpoint", endpoint,
		"request_id", requestID,
		"status", resp.StatusCode,
		"duration", time.Since(start))
	return data, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, dest any) error {
	data, err := c.Call(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		endpoint := method + " " + path
		c.logger.Warn("decode response failed", "endpoint", endpoint, "error", err)
		return &OperationError{
			Message:  GenericFailure,
			Kind:     KindMalformed,
			Endpoint: endpoint,
			cause:    fmt.Errorf("decode response: %w", err),
		}
	}
	return nil
}

func (c *Client) unreachable(endpoint string, cause error) *OperationError {
	return &OperationError{
		Message:  GenericFailure,
		Kind:     KindUnreachable,
		Endpoint: endpoint,
		cause:    cause,
	}
}

// extractMessage pulls the human-readable message out of an error body.
func extractMessage(data []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return GenericFailure
	}
	if msg := strings.TrimSpace(body.Error); msg != "" {
		return msg
	}
	if msg := strings.TrimSpace(body.Message); msg != "" {
		return msg
	}
	return GenericFailure
}

func parseBaseURL(apiBase string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBase)
	if trimmed == "" {
		trimmed = defaultAPIBase
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_base %q: %w", apiBase, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_base %q: missing host", apiBase)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// FormatLoanID renders a loan id the way staff type it.
func FormatLoanID(id int64) string {
	return strconv.FormatInt(id, 10)
}
