package refresh

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/circdesk/circdesk/internal/library"
)

// Result is the outcome of refetching one view.
type Result[R any] struct {
	View  View
	Value R
	Err   error
}

// Settlement holds one Result per planned view, in plan order.
type Settlement[R any] struct {
	Results []Result[R]
}

// Settle refetches every view concurrently and returns once all of them have
// resolved. A failed refetch is recorded on its Result; it does not stop the
// others and does not fail the settlement.
func Settle[R any](ctx context.Context, views []View, fetch func(context.Context, View) (R, error)) Settlement[R] {
	results := make([]Result[R], len(views))
	var g errgroup.Group
	for i, v := range views {
		i, v := i, v
		g.Go(func() error {
			value, err := fetch(ctx, v)
			results[i] = Result[R]{View: v, Value: value, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return Settlement[R]{Results: results}
}

// OK reports whether every refetch succeeded.
func (s Settlement[R]) OK() bool {
	for _, r := range s.Results {
		if r.Err != nil {
			return false
		}
	}
	return true
}

// Warnings describes each failed refetch for a secondary status line.
func (s Settlement[R]) Warnings() []string {
	var out []string
	for _, r := range s.Results {
		if r.Err == nil {
			continue
		}
		out = append(out, fmt.Sprintf("%s refresh failed: %s", r.View, library.AsOperationError(r.Err).Message))
	}
	return out
}
