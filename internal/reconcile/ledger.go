package reconcile

// Ledger stamps fetches for one view with increasing sequence numbers and
// remembers the newest one applied.
//
// Results are applied in arrival order: whichever fetch resolves last is
// what the view shows, even if it was issued first. Resolve reports such an
// out-of-order arrival so the caller can log it; it never drops a result.
// Seqs issued for fetches that never run (a mutation that failed before its
// refetch) are simply never resolved.
type Ledger struct {
	issued uint64
	newest uint64
}

// Issue returns the sequence number for a new fetch.
func (l *Ledger) Issue() uint64 {
	l.issued++
	return l.issued
}

// Resolve records that the fetch with sequence seq was applied. It reports
// true when a fetch issued after seq had already been applied, meaning the
// view now shows older data than it has shown before.
func (l *Ledger) Resolve(seq uint64) (stale bool) {
	if seq < l.newest {
		return true
	}
	l.newest = seq
	return false
}
