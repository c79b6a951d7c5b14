package state

import (
	"errors"
	"testing"
	"time"
)

func TestView_ReplaceAndSnapshotClone(t *testing.T) {
	var v View[int]

	before := time.Now()
	v.Replace([]int{1, 2}, time.Now())

	snap := v.Snapshot()
	if !snap.Loaded || len(snap.Rows) != 2 || snap.Rows[0] != 1 {
		t.Fatalf("snapshot = %#v, want 2 loaded rows", snap)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Rows[0] = 999
	if got := v.Rows()[0]; got != 1 {
		t.Fatalf("Snapshot should clone rows; got %d want 1", got)
	}
}

func TestView_ReplaceDiscardsPreviousRows(t *testing.T) {
	var v View[string]
	v.Replace([]string{"a", "b", "c"}, time.Now())
	v.Replace(nil, time.Now())

	snap := v.Snapshot()
	if len(snap.Rows) != 0 {
		t.Fatalf("rows = %v, want none after empty replace", snap.Rows)
	}
	if !snap.IsEmpty() {
		t.Fatalf("IsEmpty() = false, want true after loading an empty list")
	}
}

func TestView_FailKeepsPreviousData(t *testing.T) {
	var v View[string]
	v.Replace([]string{"a"}, time.Now())

	origErr := errors.New("boom")
	v.Fail(origErr, time.Now())
	v.Fail(nil, time.Now())

	snap := v.Snapshot()
	if len(snap.Rows) != 1 || snap.Rows[0] != "a" {
		t.Fatalf("rows changed on error: %v", snap.Rows)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if !errors.Is(snap.LastError, origErr) {
		t.Fatalf("LastError = %v, want the recorded error", snap.LastError)
	}

	v.Replace([]string{"b"}, time.Now())
	snap = v.Snapshot()
	if snap.LastError != nil {
		t.Fatalf("success should reset error state, got %#v", snap)
	}
}

func TestView_At(t *testing.T) {
	var v View[string]
	if _, ok := v.At(0); ok {
		t.Fatalf("At(0) on empty view returned ok")
	}
	v.Replace([]string{"x", "y"}, time.Now())
	if got, ok := v.At(1); !ok || got != "y" {
		t.Fatalf("At(1) = %q,%v want y,true", got, ok)
	}
	if _, ok := v.At(2); ok {
		t.Fatalf("At(2) returned ok past the end")
	}
}

func TestFilter(t *testing.T) {
	f := Filter{Value: " active ", Search: "  "}
	n := f.Normalized()
	if n.Value != "active" || n.Search != "" {
		t.Fatalf("Normalized() = %#v", n)
	}
	if f.HasSearch() {
		t.Fatalf("HasSearch() = true for blank search")
	}
	if g := f.WithSearch("smith"); !g.HasSearch() || f.Search != "  " {
		t.Fatalf("WithSearch should return a modified copy")
	}
}

func TestCycle(t *testing.T) {
	type mode string
	opts := []mode{"all", "active", "returned"}
	cases := map[mode]mode{
		"all":      "active",
		"active":   "returned",
		"returned": "all",
		"bogus":    "all",
	}
	for in, want := range cases {
		if got := Cycle(opts, in); got != want {
			t.Fatalf("Cycle(%q) = %q, want %q", in, got, want)
		}
	}
	if got := Cycle[mode](nil, "x"); got != "x" {
		t.Fatalf("Cycle with no options = %q, want x", got)
	}
}
