// Package slog provides logging decorators for sitewalk services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitewalk"
)

// Ensure LoggingSitemapResolver implements sitewalk.SitemapResolver.
var _ sitewalk.SitemapResolver = (*LoggingSitemapResolver)(nil)

// LoggingSitemapResolver wraps a SitemapResolver with debug logging.
type LoggingSitemapResolver struct {
	next   sitewalk.SitemapResolver
	logger *slog.Logger
}

// NewLoggingSitemapResolver creates a new LoggingSitemapResolver.
func NewLoggingSitemapResolver(next sitewalk.SitemapResolver, logger *slog.Logger) *LoggingSitemapResolver {
	return &LoggingSitemapResolver{next: next, logger: logger}
}

// Resolve delegates to the wrapped resolver and logs the operation.
func (s *LoggingSitemapResolver) Resolve(ctx context.Context, sitemapURL, baseURL string) (urls []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("sitemap resolution",
			"url", sitemapURL,
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Resolve(ctx, sitemapURL, baseURL)
}
