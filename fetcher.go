package articlemd

import "context"

// Fetcher retrieves raw HTML from URLs.
type Fetcher interface {
	// Fetch downloads the document at url and returns its HTML.
	// The context controls timeout and cancellation; a fetch that exceeds
	// its deadline returns ETIMEOUT, any other transport failure returns
	// EUNAVAILABLE.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}
