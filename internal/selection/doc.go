// Package selection holds the multi-selection basket a view keeps across
// repeated searches.
//
// A Set belongs to exactly one view. It is mutated only from the UI update
// loop, so it carries no locking. Reconciliation prunes it after every fetch
// so that it never holds a key the last rendered list does not offer as
// eligible.
package selection
