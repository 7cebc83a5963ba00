package crawl

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/fwojciec/sitewalk"
)

// Discoverer runs the discovery strategies for a site and unions their
// results. Strategies are independent: a broken sitemap or an
// unreachable crawl seed is logged and does not prevent the other
// strategies from contributing.
type Discoverer struct {
	Fetcher  sitewalk.Fetcher
	Sitemaps sitewalk.SitemapResolver
	Links    sitewalk.LinkExtractor

	// Limiter spaces crawl requests; nil disables throttling.
	Limiter sitewalk.DomainLimiter

	// Concurrency bounds DiscoverAll's parallelism across sites.
	// Values below 1 mean sequential.
	Concurrency int

	// Logger receives per-strategy outcomes. A nil Logger discards
	// them.
	Logger *slog.Logger
}

// Discover returns the sorted, deduplicated set of page URLs for one
// site. Whichever strategies are present in the site's discovery spec
// run unconditionally; when the union comes up empty the bare base URL
// is returned, which is a valid outcome, never an error.
func (d *Discoverer) Discover(ctx context.Context, site sitewalk.Site) ([]string, error) {
	if err := site.Validate(); err != nil {
		return nil, err
	}
	logger := d.logger()

	if site.Discovery.Empty() {
		logger.Debug("no discovery strategies configured", "base_url", site.BaseURL)
	}

	set := make(map[string]bool)
	add := func(urls []string) {
		for _, u := range urls {
			set[u] = true
		}
	}

	if len(site.Discovery.URLs) > 0 {
		urls := d.expandURLs(ctx, site.BaseURL, site.Discovery.URLs)
		add(urls)
		logger.Debug("discovered pages from URL list", "base_url", site.BaseURL, "count", len(urls))
	}

	if site.Discovery.Sitemap != "" {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sitemapURL := sitewalk.NormalizeURL(site.Discovery.Sitemap, site.BaseURL)
		urls, err := d.Sitemaps.Resolve(ctx, sitemapURL, site.BaseURL)
		if err != nil {
			logger.Warn("sitemap discovery failed", "sitemap", sitemapURL, "err", err)
		} else {
			add(urls)
			logger.Debug("discovered pages from sitemap", "sitemap", sitemapURL, "count", len(urls))
		}
	}

	if site.Discovery.Crawl != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c := &Crawler{
			Fetcher: d.Fetcher,
			Links:   d.Links,
			Limiter: d.Limiter,
			Logger:  d.Logger,
		}
		urls, err := c.Crawl(ctx, site.BaseURL, *site.Discovery.Crawl)
		// Partial results from an aborted crawl still count.
		add(urls)
		if err != nil {
			logger.Warn("crawl discovery failed", "base_url", site.BaseURL, "err", err)
		} else {
			logger.Debug("discovered pages from crawling", "base_url", site.BaseURL, "count", len(urls))
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(set) == 0 {
		logger.Warn("no pages discovered, defaulting to base URL only", "base_url", site.BaseURL)
		set[site.BaseURL] = true
	}

	out := make([]string, 0, len(set))
	for u := range set {
		out = append(out, u)
	}
	sort.Strings(out)
	return out, nil
}

// DiscoverAll discovers pages for multiple sites, up to Concurrency
// sites in parallel. Per-site state is fully isolated, so one site's
// failure never affects another; failed sites are logged and omitted
// from the result. The result maps each site's base URL to its sorted
// page list.
func (d *Discoverer) DiscoverAll(ctx context.Context, sites []sitewalk.Site) map[string][]string {
	logger := d.logger()

	concurrency := d.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([][]string, len(sites))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, site := range sites {
		g.Go(func() error {
			urls, err := d.Discover(ctx, site)
			if err != nil {
				logger.Warn("site discovery failed", "base_url", site.BaseURL, "err", err)
				return nil
			}
			results[i] = urls
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string][]string, len(sites))
	for i, site := range sites {
		if results[i] != nil {
			out[site.BaseURL] = results[i]
		}
	}
	return out
}

// expandURLs resolves the explicit URL list. Literal entries pass
// through NormalizeURL verbatim; entries containing "*" are expanded by
// fetching their parent path and collecting same-host links whose path
// matches the full pattern. A failed expansion is logged and skipped.
func (d *Discoverer) expandURLs(ctx context.Context, baseURL string, patterns []string) []string {
	logger := d.logger()

	seen := make(map[string]bool)
	var result []string
	add := func(u string) {
		if !seen[u] {
			seen[u] = true
			result = append(result, u)
		}
	}

	for _, pattern := range patterns {
		if !strings.Contains(pattern, "*") {
			add(sitewalk.NormalizeURL(pattern, baseURL))
			continue
		}

		parent := pattern
		if idx := strings.LastIndex(pattern, "/*"); idx != -1 {
			parent = pattern[:idx]
		}
		if parent == "" {
			parent = "/"
		}
		parentURL := sitewalk.NormalizeURL(parent, baseURL)
		logger.Debug("expanding pattern", "pattern", pattern, "parent", parentURL)

		html, err := d.Fetcher.Fetch(ctx, parentURL)
		if err != nil {
			logger.Warn("failed to expand pattern", "pattern", pattern, "err", err)
			continue
		}

		links, err := d.Links.ExtractLinks(html, baseURL)
		if err != nil {
			logger.Warn("failed to expand pattern", "pattern", pattern, "err", err)
			continue
		}

		for _, u := range links {
			if sitewalk.MatchesPattern(sitewalk.ExtractPath(u), pattern) {
				add(u)
			}
		}
	}

	return result
}

func (d *Discoverer) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.New(slog.DiscardHandler)
}
