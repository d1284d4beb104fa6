package watcher

import (
	"watcher/pkg/domain"
)

// Diff compares the discovered items with the persisted registry. Added holds
// items discovered but not persisted, Removed holds items persisted but not
// discovered. Both are sorted ascending and never nil.
func Diff(discovered, persisted domain.ItemSet) domain.DiffResult {
	res := domain.DiffResult{
		Added:   []string{},
		Removed: []string{},
	}

	for _, u := range discovered.Sorted() {
		if !persisted.Has(u) {
			res.Added = append(res.Added, u)
		}
	}
	for _, u := range persisted.Sorted() {
		if !discovered.Has(u) {
			res.Removed = append(res.Removed, u)
		}
	}

	return res
}
