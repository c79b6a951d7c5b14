package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/circdesk/circdesk/internal/library"
	"github.com/circdesk/circdesk/internal/selection"
)

var (
	// ErrEmpty is returned before any request when no keys were given.
	ErrEmpty = errors.New("nothing selected")
	// ErrCountMismatch means the reply did not hold one entry per key.
	ErrCountMismatch = errors.New("batch reply count does not match request")
)

// ErrorKind separates whole-batch failures.
type ErrorKind int

const (
	// Transport means the batch request itself failed.
	Transport ErrorKind = iota
	// Structural means the reply could not be matched to the request.
	Structural
)

// Error is a failure of the batch as a whole. It is never attributed to an
// individual item.
type Error struct {
	Kind ErrorKind
	Sent int
	Got  int
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case Structural:
		return fmt.Sprintf("%v: sent %d, got %d", e.Err, e.Sent, e.Got)
	default:
		return fmt.Sprintf("batch of %d failed: %v", e.Sent, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Reply is one per-key answer from a bulk call.
type Reply[P any] struct {
	OK      bool
	Payload P
	Error   string
}

// Item is the outcome for one requested key.
type Item[P any] struct {
	Key     string
	OK      bool
	Payload P
	Error   string
}

// Outcome holds one item per requested key, in request order.
type Outcome[P any] struct {
	Items        []Item[P]
	SuccessCount int
	ErrorCount   int
}

// Run sends every key in a single call and matches replies by position.
func Run[P any](ctx context.Context, keys []string, send func(context.Context, []string) ([]Reply[P], error)) (Outcome[P], error) {
	if len(keys) == 0 {
		return Outcome[P]{}, ErrEmpty
	}
	replies, err := send(ctx, keys)
	if err != nil {
		return Outcome[P]{}, &Error{Kind: Transport, Sent: len(keys), Err: err}
	}
	if len(replies) != len(keys) {
		return Outcome[P]{}, &Error{Kind: Structural, Sent: len(keys), Got: len(replies), Err: ErrCountMismatch}
	}
	var out Outcome[P]
	out.Items = make([]Item[P], 0, len(keys))
	for i, key := range keys {
		out.add(key, replies[i])
	}
	return out, nil
}

// RunEach issues one call per key, in order. Each failure is recorded against
// its key and the remaining keys are still attempted.
func RunEach[P any](ctx context.Context, keys []string, one func(context.Context, string) (P, error)) (Outcome[P], error) {
	if len(keys) == 0 {
		return Outcome[P]{}, ErrEmpty
	}
	var out Outcome[P]
	out.Items = make([]Item[P], 0, len(keys))
	for _, key := range keys {
		payload, err := one(ctx, key)
		if err != nil {
			out.add(key, Reply[P]{Error: library.AsOperationError(err).Message})
			continue
		}
		out.add(key, Reply[P]{OK: true, Payload: payload})
	}
	return out, nil
}

func (o *Outcome[P]) add(key string, r Reply[P]) {
	item := Item[P]{Key: key, OK: r.OK, Payload: r.Payload, Error: strings.TrimSpace(r.Error)}
	if item.OK {
		o.SuccessCount++
	} else {
		if item.Error == "" {
			item.Error = library.GenericFailure
		}
		o.ErrorCount++
	}
	o.Items = append(o.Items, item)
}

// AnySucceeded reports whether at least one item succeeded.
func (o Outcome[P]) AnySucceeded() bool {
	return o.SuccessCount > 0
}

// Succeeded returns the keys that succeeded, in request order.
func (o Outcome[P]) Succeeded() []string {
	var keys []string
	for _, it := range o.Items {
		if it.OK {
			keys = append(keys, it.Key)
		}
	}
	return keys
}

// Failed returns the items that failed, in request order.
func (o Outcome[P]) Failed() []Item[P] {
	var items []Item[P]
	for _, it := range o.Items {
		if !it.OK {
			items = append(items, it)
		}
	}
	return items
}

// Settle removes succeeded keys from sel. Failed keys stay selected so the
// operator can retry them.
func (o Outcome[P]) Settle(sel *selection.Set) {
	if sel == nil {
		return
	}
	sel.Remove(o.Succeeded()...)
}

// Summary renders the counts, always both of them.
func (o Outcome[P]) Summary() string {
	return fmt.Sprintf("%d succeeded, %d failed", o.SuccessCount, o.ErrorCount)
}

// Details renders one line per failed item.
func (o Outcome[P]) Details() []string {
	var lines []string
	for _, it := range o.Failed() {
		lines = append(lines, fmt.Sprintf("%s: %s", it.Key, it.Error))
	}
	return lines
}

// CheckoutReplies adapts a /checkout/batch reply to Run.
func CheckoutReplies(items []library.BatchCheckoutItem) []Reply[library.BatchCheckoutItem] {
	replies := make([]Reply[library.BatchCheckoutItem], len(items))
	for i, it := range items {
		replies[i] = Reply[library.BatchCheckoutItem]{OK: it.Succeeded(), Payload: it, Error: it.Error}
	}
	return replies
}
