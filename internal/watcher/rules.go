package watcher

import (
	"regexp"
	"watcher/pkg/serrors"
)

// Default classification patterns.
const (
	DefaultListingPattern   = `/page\d+`
	DefaultItemPattern      = `\.html`
	DefaultExclusionPattern = `(card-games|imports-trick-takers)/page\d+`
)

// Rules classifies URLs found during a traversal. Patterns are unanchored: a
// URL matches when any part of it matches.
type Rules struct {
	// Listing selects pages worth expanding further.
	Listing *regexp.Regexp
	// Item selects pages recorded as catalog items.
	Item *regexp.Regexp
	// Exclusion removes matching URLs from the recorded items. Nil excludes
	// nothing.
	Exclusion *regexp.Regexp
}

// NewRules compiles the given patterns. An empty exclusion pattern disables
// exclusion; listing and item patterns are required.
func NewRules(listing, item, exclusion string) (Rules, error) {
	var (
		r   Rules
		err error
	)

	if listing == "" || item == "" {
		return Rules{}, serrors.With(serrors.ErrBadRequest, "listing and item patterns are required")
	}
	if r.Listing, err = regexp.Compile(listing); err != nil {
		return Rules{}, serrors.Wrap(serrors.ErrBadRequest, err, "invalid listing pattern")
	}
	if r.Item, err = regexp.Compile(item); err != nil {
		return Rules{}, serrors.Wrap(serrors.ErrBadRequest, err, "invalid item pattern")
	}
	if exclusion != "" {
		if r.Exclusion, err = regexp.Compile(exclusion); err != nil {
			return Rules{}, serrors.Wrap(serrors.ErrBadRequest, err, "invalid exclusion pattern")
		}
	}

	return r, nil
}

// DefaultRules returns the rules built from the default patterns.
func DefaultRules() Rules {
	return Rules{
		Listing:   regexp.MustCompile(DefaultListingPattern),
		Item:      regexp.MustCompile(DefaultItemPattern),
		Exclusion: regexp.MustCompile(DefaultExclusionPattern),
	}
}

// IsListing reports whether URL is a listing page.
func (r Rules) IsListing(URL string) bool {
	return r.Listing != nil && r.Listing.MatchString(URL)
}

// IsItem reports whether URL is an item page.
func (r Rules) IsItem(URL string) bool {
	return r.Item != nil && r.Item.MatchString(URL)
}

// IsExcluded reports whether URL matches the exclusion pattern.
func (r Rules) IsExcluded(URL string) bool {
	return r.Exclusion != nil && r.Exclusion.MatchString(URL)
}

// ShouldRecord reports whether URL belongs in the discovered item set.
func (r Rules) ShouldRecord(URL string) bool {
	return URL != "" && r.IsItem(URL) && !r.IsExcluded(URL)
}
