package state

import "strings"

// Filter is the per-view query: a filter value (such as "active" or
// "unpaid") plus a free-text search term. It changes only on explicit user
// action.
type Filter struct {
	Value  string
	Search string
}

// Normalized trims both fields.
func (f Filter) Normalized() Filter {
	return Filter{
		Value:  strings.TrimSpace(f.Value),
		Search: strings.TrimSpace(f.Search),
	}
}

// HasSearch reports whether a search term is set.
func (f Filter) HasSearch() bool {
	return strings.TrimSpace(f.Search) != ""
}

// WithValue returns a copy with the filter value replaced.
func (f Filter) WithValue(value string) Filter {
	f.Value = value
	return f
}

// WithSearch returns a copy with the search term replaced.
func (f Filter) WithSearch(search string) Filter {
	f.Search = search
	return f
}

// Cycle returns the value following current in options, wrapping around.
// Unknown values restart at the first option.
func Cycle[V ~string](options []V, current V) V {
	if len(options) == 0 {
		return current
	}
	for i, opt := range options {
		if opt == current {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}
