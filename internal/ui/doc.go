// Package ui is the circulation desk's terminal front end, built on Bubble
// Tea.
//
// # Architecture
//
// Model is a value type and Update is the only place state changes. Every
// remote call runs as a tea.Cmd and reports back with a typed message:
//
//   - fetchedMsg[T] carries one list fetch, stamped with the sequence number
//     the view's reconcile.Ledger issued when the fetch started.
//   - mutationMsg arrives after a mutation and all of the refetches the
//     refresh policy planned for it have resolved. The refetched lists are
//     applied first, then the status line moves to its terminal state.
//   - promptSubmittedMsg and the show* messages route one view's request to
//     another through Update instead of calling across views.
//
// Each tab owns its state (selection, filter, rows, cursor) in a listView;
// nothing is shared between tabs. Rendering functions are pure projections of
// that state and are tested without a terminal.
//
// # Tabs
//
//   - Catalog: search, select available books, check out singly or in batch
//   - Loans: filter and search loans, check in, apply a fine
//   - Fines: filter and search fines, pay per borrower or in bulk, recalculate
//   - Borrowers: search, jump to a borrower's loans or fines
//   - Register: new borrower form
package ui
