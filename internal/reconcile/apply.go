package reconcile

import (
	"fmt"

	"github.com/circdesk/circdesk/internal/selection"
	"github.com/circdesk/circdesk/internal/state"
)

// NoResults is the placeholder for an empty list without a search term.
const NoResults = "No results."

// Rule tells Apply how to key a record and whether it may stay selected.
type Rule[T any] struct {
	Key      func(T) string
	Eligible func(T) bool
}

// Page is the reconciled projection of one fetch.
type Page[T any] struct {
	Rows        []T
	Eligible    map[string]bool
	Pruned      []string
	Empty       bool
	Placeholder string
}

// Apply reconciles a freshly fetched list against the view's selection. The
// page is built from fetched alone; nothing from an earlier page survives.
// Selected keys that are missing from fetched or no longer eligible are
// removed from sel before Apply returns.
func Apply[T any](fetched []T, sel *selection.Set, filter state.Filter, rule Rule[T]) Page[T] {
	page := Page[T]{
		Eligible: make(map[string]bool, len(fetched)),
	}
	if len(fetched) > 0 {
		page.Rows = make([]T, len(fetched))
		copy(page.Rows, fetched)
	}
	for _, row := range page.Rows {
		if rule.Key == nil {
			break
		}
		key := rule.Key(row)
		if key == "" {
			continue
		}
		if rule.Eligible == nil || rule.Eligible(row) {
			page.Eligible[key] = true
		}
	}
	if sel != nil {
		page.Pruned = sel.Prune(page.Eligible)
	}
	if len(page.Rows) == 0 {
		page.Empty = true
		page.Placeholder = Placeholder(filter)
	}
	return page
}

// Placeholder returns the empty-list message for filter.
func Placeholder(filter state.Filter) string {
	if f := filter.Normalized(); f.Search != "" {
		return fmt.Sprintf("No results for %q.", f.Search)
	}
	return NoResults
}
