package articlemd

import (
	"context"
	"regexp"
)

// URLFilter controls which discovered URLs are kept.
type URLFilter struct {
	// Include patterns - if set, only URLs matching at least one pattern are included.
	Include []*regexp.Regexp

	// Exclude patterns - URLs matching any pattern are excluded.
	// Exclude is applied after Include.
	Exclude []*regexp.Regexp
}

// Match returns true if the URL passes the filter.
// If the filter is nil, all URLs pass.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}

	// If include patterns exist, URL must match at least one
	if len(f.Include) > 0 {
		matched := false
		for _, re := range f.Include {
			if re.MatchString(url) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	// Check exclude patterns
	for _, re := range f.Exclude {
		if re.MatchString(url) {
			return false
		}
	}

	return true
}

// DomainLimiter rate-limits requests per domain.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain,
	// or the context is cancelled.
	Wait(ctx context.Context, domain string) error
}

// SitemapService discovers article URLs from a site's sitemap.
type SitemapService interface {
	// DiscoverURLs finds all URLs from a site's sitemap, applying the
	// optional filter. Returns an empty slice (not nil) if no sitemaps
	// are found.
	DiscoverURLs(ctx context.Context, baseURL string, filter *URLFilter) ([]string, error)
}
