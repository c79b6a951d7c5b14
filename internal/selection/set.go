package selection

// Set is an ordered set of record keys (ISBNs or card ids). Keys keep the
// order in which they were first selected. The zero value is an empty set
// ready to use.
type Set struct {
	order []string
	index map[string]struct{}
}

// New returns a set holding keys, ignoring blanks and duplicates.
func New(keys ...string) *Set {
	s := &Set{}
	for _, k := range keys {
		s.add(k)
	}
	return s
}

// Toggle adds key when absent and removes it when present. It reports
// whether the key is selected afterwards.
func (s *Set) Toggle(key string) bool {
	if key == "" {
		return false
	}
	if s.Has(key) {
		s.Remove(key)
		return false
	}
	s.add(key)
	return true
}

// Has reports whether key is selected.
func (s *Set) Has(key string) bool {
	if s == nil || s.index == nil {
		return false
	}
	_, ok := s.index[key]
	return ok
}

// Len returns the number of selected keys.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// IsEmpty is derived from the members on every call.
func (s *Set) IsEmpty() bool {
	return s.Len() == 0
}

// Keys returns a copy of the selected keys in selection order.
func (s *Set) Keys() []string {
	if s.Len() == 0 {
		return nil
	}
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Remove drops the given keys. Unknown keys are ignored.
func (s *Set) Remove(keys ...string) {
	if s.Len() == 0 || len(keys) == 0 {
		return
	}
	drop := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := s.index[k]; ok {
			drop[k] = struct{}{}
			delete(s.index, k)
		}
	}
	if len(drop) == 0 {
		return
	}
	kept := s.order[:0]
	for _, k := range s.order {
		if _, gone := drop[k]; !gone {
			kept = append(kept, k)
		}
	}
	s.order = kept
}

// Clear empties the set.
func (s *Set) Clear() {
	if s == nil {
		return
	}
	s.order = nil
	s.index = nil
}

// Prune keeps only keys marked eligible and returns the keys it removed.
// Pruning twice with the same map removes nothing the second time.
func (s *Set) Prune(eligible map[string]bool) []string {
	if s.Len() == 0 {
		return nil
	}
	var removed []string
	for _, k := range s.order {
		if !eligible[k] {
			removed = append(removed, k)
		}
	}
	s.Remove(removed...)
	return removed
}

func (s *Set) add(key string) {
	if key == "" || s.Has(key) {
		return
	}
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	s.index[key] = struct{}{}
	s.order = append(s.order, key)
}
