package domain

import (
	"slices"
)

// ItemSet is a set of normalized item page URLs. The zero value is not usable;
// create sets with NewItemSet.
type ItemSet map[string]struct{}

// NewItemSet returns a set containing the given URLs. Empty strings are ignored.
func NewItemSet(urls ...string) ItemSet {
	s := make(ItemSet, len(urls))
	for _, u := range urls {
		s.Add(u)
	}

	return s
}

// Add inserts URL into the set and reports whether it was not present before.
func (s ItemSet) Add(URL string) bool {
	if URL == "" {
		return false
	}
	if _, ok := s[URL]; ok {
		return false
	}
	s[URL] = struct{}{}

	return true
}

// Has reports whether URL is in the set.
func (s ItemSet) Has(URL string) bool {
	_, ok := s[URL]

	return ok
}

// Len returns the number of URLs in the set.
func (s ItemSet) Len() int { return len(s) }

// Sorted returns the set content as an ascending slice. It is the canonical
// form used for diffs, notifications and persistence.
func (s ItemSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for u := range s {
		out = append(out, u)
	}
	slices.Sort(out)

	return out
}

// Equal reports whether both sets contain exactly the same URLs.
func (s ItemSet) Equal(other ItemSet) bool {
	if len(s) != len(other) {
		return false
	}
	for u := range s {
		if !other.Has(u) {
			return false
		}
	}

	return true
}

// DiffResult holds the outcome of comparing a freshly discovered item set with
// the persisted registry. Both slices are sorted ascending.
type DiffResult struct {
	// Added contains items discovered now but absent from the registry.
	Added []string `json:"added"`
	// Removed contains items present in the registry but not discovered now.
	Removed []string `json:"removed"`
}

// Empty reports whether the diff carries no change at all.
func (d DiffResult) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}
