// Package state holds per-view state for the circulation console.
//
// # Overview
//
// Each list view (catalog, loans, fines, borrowers) owns its own Filter and
// its own View of fetched records. Nothing in this package is global: view
// models create their state on construction and discard it with themselves.
//
// # Replacement Semantics
//
// A successful fetch replaces the held rows wholesale:
//
//	view.Replace(rows, time.Now())
//	→ Rows = copy of rows
//	→ LastError = nil
//
// A failed fetch keeps the previous rows and records the error:
//
//	view.Fail(err, time.Now())
//	→ Rows = <unchanged>
//	→ LastError = err
//
// Rows and Snapshot return copies so a renderer can never mutate what the
// view holds.
//
// # Concurrency Model
//
// Views are only touched from the Bubble Tea update loop. Remote calls run
// as commands and deliver their results as messages, so no locks are needed.
//
// # Filters
//
// Filter pairs a filter value with a search term. Cycle steps through a
// fixed list of filter values:
//
//	next := state.Cycle(library.LoanFilters, current)
package state
