package mock

import (
	"context"

	"github.com/awitkowski/articlemd"
)

var _ articlemd.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of articlemd.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *articlemd.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *articlemd.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
