package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circdesk/circdesk/internal/library"
	"github.com/circdesk/circdesk/internal/selection"
	"github.com/circdesk/circdesk/internal/state"
)

var catalogRule = Rule[library.CatalogEntry]{
	Key:      func(e library.CatalogEntry) string { return e.ISBN },
	Eligible: func(e library.CatalogEntry) bool { return !e.CheckedOut },
}

func TestApply_PrunesSelectionAcrossSearches(t *testing.T) {
	sel := selection.New("A", "B")

	page := Apply([]library.CatalogEntry{
		{ISBN: "B"},
		{ISBN: "C"},
	}, sel, state.Filter{Search: "second"}, catalogRule)

	assert.Equal(t, []string{"B"}, sel.Keys())
	assert.Equal(t, []string{"A"}, page.Pruned)
	assert.False(t, page.Empty)
	assert.Empty(t, page.Placeholder)
	assert.Len(t, page.Rows, 2)
}

func TestApply_CheckedOutRowsAreNotEligible(t *testing.T) {
	sel := selection.New("A", "B")

	page := Apply([]library.CatalogEntry{
		{ISBN: "A", CheckedOut: true},
		{ISBN: "B"},
	}, sel, state.Filter{}, catalogRule)

	assert.Equal(t, []string{"B"}, sel.Keys())
	assert.False(t, page.Eligible["A"])
	assert.True(t, page.Eligible["B"])
}

func TestApply_EmptyResultLeavesNothingStale(t *testing.T) {
	sel := selection.New("A")

	page := Apply(nil, sel, state.Filter{Search: "zzz"}, catalogRule)

	assert.True(t, page.Empty)
	assert.Empty(t, page.Rows)
	assert.Equal(t, `No results for "zzz".`, page.Placeholder)
	assert.True(t, sel.IsEmpty())

	page = Apply([]library.CatalogEntry{}, nil, state.Filter{}, catalogRule)
	assert.True(t, page.Empty)
	assert.Equal(t, NoResults, page.Placeholder)
}

func TestApply_CopiesFetchedRows(t *testing.T) {
	fetched := []library.CatalogEntry{{ISBN: "A", Title: "Dune"}}
	page := Apply(fetched, nil, state.Filter{}, catalogRule)
	fetched[0].Title = "changed"

	require.Len(t, page.Rows, 1)
	assert.Equal(t, "Dune", page.Rows[0].Title)
}

func TestApply_NilEligibleMeansEveryKeyedRow(t *testing.T) {
	sel := selection.New("ID1", "ID9")
	rule := Rule[library.Borrower]{Key: func(b library.Borrower) string { return b.CardID }}

	Apply([]library.Borrower{{CardID: "ID1"}, {CardID: ""}}, sel, state.Filter{}, rule)

	assert.Equal(t, []string{"ID1"}, sel.Keys())
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, NoResults, Placeholder(state.Filter{Search: "   "}))
	assert.Equal(t, `No results for "smith".`, Placeholder(state.Filter{Search: " smith "}))
}
