package library

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != defaultAPIBase {
		t.Fatalf("base = %q, want %q", u.String(), defaultAPIBase)
	}

	u, err = parseBaseURL("library.local:8080/api/?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "library.local:8080" || u.Path != "/api" {
		t.Fatalf("url not normalized: %q", u.String())
	}
	if u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("query/fragment not stripped: %q", u.String())
	}

	if _, err := parseBaseURL("http://"); err == nil {
		t.Fatalf("parseBaseURL(http://) returned nil error, want missing host")
	}
}

func TestClient_EncodesRequests(t *testing.T) {
	t.Parallel()

	type seen struct {
		method string
		path   string
		query  url.Values
		body   string
		reqID  string
		agent  string
	}
	var (
		mu  sync.Mutex
		got []seen
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		defer mu.Unlock()
		got = append(got, seen{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.Query(),
			body:   string(body),
			reqID:  r.Header.Get("X-Request-ID"),
			agent:  r.Header.Get("User-Agent"),
		})
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/search":
			_, _ = w.Write([]byte(`[{"isbn":"111","title":"Dune","authors":["Frank Herbert"],"checked_out":true,"borrower_id":"ID000001"}]`))
		case "/api/checkout/batch":
			_, _ = w.Write([]byte(`[{"isbn":"111","status":"ok","loan_id":5},{"status":"error","error":"already checked out"}]`))
		case "/api/admin/fines/apply":
			_, _ = w.Write([]byte(`{"fine_amount":1.75,"card_id":"ID000001","message":"Fine created successfully"}`))
		case "/api/admin/loans":
			_, _ = w.Write([]byte(`[]`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL + "/api")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	rows, err := c.SearchCatalog(ctx, "dune")
	if err != nil {
		t.Fatalf("SearchCatalog returned error: %v", err)
	}
	if len(rows) != 1 || rows[0].ISBN != "111" || !rows[0].CheckedOut || rows[0].AuthorList() != "Frank Herbert" {
		t.Fatalf("SearchCatalog rows = %#v", rows)
	}

	items, err := c.CheckoutBatch(ctx, []string{"111", "222"}, "ID000001")
	if err != nil {
		t.Fatalf("CheckoutBatch returned error: %v", err)
	}
	if len(items) != 2 || !items[0].Succeeded() || items[1].Succeeded() || items[1].Error != "already checked out" {
		t.Fatalf("CheckoutBatch items = %#v", items)
	}

	applied, err := c.ApplyFine(ctx, FineApplication{LoanID: 9})
	if err != nil {
		t.Fatalf("ApplyFine returned error: %v", err)
	}
	if applied.Amount != 1.75 {
		t.Fatalf("ApplyFine amount = %v, want 1.75", applied.Amount)
	}

	if _, err := c.ListAllLoans(ctx, "bogus", " smith "); err != nil {
		t.Fatalf("ListAllLoans returned error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 4 {
		t.Fatalf("server saw %d requests, want 4", len(got))
	}
	if got[0].method != http.MethodGet || got[0].query.Get("q") != "dune" {
		t.Fatalf("search request = %#v", got[0])
	}
	if got[1].method != http.MethodPost || got[1].body != `{"isbns":["111","222"],"card_id":"ID000001"}` {
		t.Fatalf("batch body = %q", got[1].body)
	}
	if got[2].body != `{"loan_id":9}` {
		t.Fatalf("apply fine body = %q, want neither amount nor days", got[2].body)
	}
	if got[3].query.Get("filter") != "all" || got[3].query.Get("search") != "smith" {
		t.Fatalf("loans query = %v", got[3].query)
	}
	for _, s := range got {
		if s.reqID == "" {
			t.Fatalf("request %s missing X-Request-ID", s.path)
		}
		if !strings.HasPrefix(s.agent, "circdesk/") {
			t.Fatalf("User-Agent = %q, want circdesk/*", s.agent)
		}
	}
	if got[0].reqID == got[1].reqID {
		t.Fatalf("request ids should be unique per call")
	}
}

func TestClient_ErrorsAreOperationErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/borrowers":
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"error":"SSN already exists"}`))
		case "/fines/pay":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"Loans still out"}`))
		case "/checkin":
			http.Error(w, "<html>boom</html>", http.StatusInternalServerError)
		case "/admin/stats":
			_, _ = w.Write([]byte("{not-json"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()

	_, err = c.CreateBorrower(ctx, NewBorrower{SSN: "1", Name: "A", Address: "B"})
	var opErr *OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("CreateBorrower error = %T, want *OperationError", err)
	}
	if opErr.Message != "SSN already exists" || opErr.Kind != KindRejected || opErr.Status != http.StatusConflict {
		t.Fatalf("CreateBorrower error = %#v", opErr)
	}

	_, err = c.PayFines(ctx, "ID1")
	if err == nil || err.Error() != "Loans still out" {
		t.Fatalf("PayFines error = %v, want message field", err)
	}

	_, err = c.Checkin(ctx, 3)
	if !errors.As(err, &opErr) || opErr.Message != GenericFailure || opErr.Status != http.StatusInternalServerError {
		t.Fatalf("Checkin error = %#v, want generic failure with status", err)
	}

	_, err = c.CatalogStats(ctx)
	if !errors.As(err, &opErr) || opErr.Kind != KindMalformed || opErr.Message != GenericFailure {
		t.Fatalf("CatalogStats error = %#v, want malformed", err)
	}
	if !strings.Contains(opErr.Cause(), "decode response") {
		t.Fatalf("cause = %q, want decode response", opErr.Cause())
	}
}

func TestClient_UnreachableServiceIsGenericFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	base := server.URL
	server.Close()

	c, err := NewClient(base, WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	err = c.Health(context.Background())
	var opErr *OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("Health error = %T, want *OperationError", err)
	}
	if opErr.Kind != KindUnreachable || opErr.Message != GenericFailure || opErr.Status != 0 {
		t.Fatalf("Health error = %#v, want unreachable generic failure", opErr)
	}
	if opErr.Unwrap() == nil {
		t.Fatalf("transport cause should be kept for logs")
	}
}

func TestExtractMessage(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"error":" Book is already on loan "}`, "Book is already on loan"},
		{`{"error":"","message":"Fine already exists"}`, "Fine already exists"},
		{`{"details":"sqlite locked"}`, GenericFailure},
		{`not json`, GenericFailure},
		{``, GenericFailure},
	}
	for _, tc := range cases {
		if got := extractMessage([]byte(tc.body)); got != tc.want {
			t.Fatalf("extractMessage(%q) = %q, want %q", tc.body, got, tc.want)
		}
	}
}
