// Package refresh decides which views to refetch after a mutation and
// refetches them together.
//
// The table in Plan is the single source of truth for cross-view
// consistency: a mutation never patches another view's rows, it refetches
// them. Settle runs the refetches concurrently with errgroup and reports
// per-view failures as warnings so a successful mutation is never turned
// into a failure by a secondary refresh.
package refresh
