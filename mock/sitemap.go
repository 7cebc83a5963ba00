package mock

import (
	"context"

	"github.com/fwojciec/sitewalk"
)

var _ sitewalk.SitemapResolver = (*SitemapResolver)(nil)

// SitemapResolver is a mock implementation of sitewalk.SitemapResolver.
type SitemapResolver struct {
	ResolveFn func(ctx context.Context, sitemapURL, baseURL string) ([]string, error)
}

func (s *SitemapResolver) Resolve(ctx context.Context, sitemapURL, baseURL string) ([]string, error) {
	return s.ResolveFn(ctx, sitemapURL, baseURL)
}
