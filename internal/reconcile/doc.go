// Package reconcile turns fetched lists into rendered pages while keeping
// each view's selection consistent with what is shown.
//
// Apply always performs a full replacement. Eligibility is recomputed from
// the fetched records, never from earlier renders, and the selection is
// pruned before the page is returned. Ledger orders fetches per view.
package reconcile
