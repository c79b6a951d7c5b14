package state

import "time"

// Snapshot is a copy of one view's latest data.
type Snapshot[T any] struct {
	Rows        []T
	Loaded      bool
	LastUpdated time.Time
	LastError   error
}

// IsEmpty reports whether the view loaded successfully and returned nothing.
func (s Snapshot[T]) IsEmpty() bool {
	return s.Loaded && len(s.Rows) == 0
}

// View holds the fetched records of a single list view. Records are
// immutable snapshots: each successful fetch replaces them wholesale.
//
// A View is owned by one view model and mutated only from the UI update
// loop, so it is not safe for concurrent use.
type View[T any] struct {
	snapshot Snapshot[T]
}

// Replace installs a freshly fetched list, discarding everything previously
// held.
func (v *View[T]) Replace(rows []T, at time.Time) {
	v.snapshot = Snapshot[T]{
		Rows:        cloneRows(rows),
		Loaded:      true,
		LastUpdated: at,
	}
}

// Fail records a failed fetch. The previous rows stay visible.
func (v *View[T]) Fail(err error, at time.Time) {
	if err == nil {
		return
	}
	v.snapshot.LastError = err
	v.snapshot.LastUpdated = at
}

// Rows returns a copy of the current rows.
func (v *View[T]) Rows() []T {
	return cloneRows(v.snapshot.Rows)
}

// Len returns the number of rows held.
func (v *View[T]) Len() int {
	return len(v.snapshot.Rows)
}

// At returns the row at index i.
func (v *View[T]) At(i int) (T, bool) {
	if i < 0 || i >= len(v.snapshot.Rows) {
		var zero T
		return zero, false
	}
	return v.snapshot.Rows[i], true
}

// Snapshot returns a copy of the view's state.
func (v *View[T]) Snapshot() Snapshot[T] {
	snap := v.snapshot
	snap.Rows = cloneRows(v.snapshot.Rows)
	return snap
}

func cloneRows[T any](rows []T) []T {
	if len(rows) == 0 {
		return nil
	}
	dup := make([]T, len(rows))
	copy(dup, rows)
	return dup
}
