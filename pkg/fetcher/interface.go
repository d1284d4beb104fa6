// Package fetcher defines the page fetching abstraction used by the traversal
// engine. Implementations return the page text or an error carrying
// serrors.ErrFetch.
package fetcher

import "context"

// Fetcher retrieves the text of a page by URL.
//
//go:generate mockgen -package mockfetcher -source=interface.go -destination=mock/mockfetcher.go *
type Fetcher interface {
	// Fetch returns the body of the page at URL. Every failure, including a
	// timeout, is reported as an error matching serrors.ErrFetch.
	Fetch(ctx context.Context, URL string) (string, error)
}
