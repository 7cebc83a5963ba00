// Package crawl provides page discovery orchestration: breadth-first
// site traversal and the per-site discovery strategies (explicit URL
// lists, sitemaps, crawling).
package crawl

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/fwojciec/sitewalk"
)

// DefaultMaxPages caps a crawl whose spec does not set a page budget.
const DefaultMaxPages = 50

// Crawler performs a bounded breadth-first traversal of a single site.
// The zero value is not usable; Fetcher and Links must be set.
type Crawler struct {
	Fetcher sitewalk.Fetcher
	Links   sitewalk.LinkExtractor

	// Limiter spaces requests to the site. A nil Limiter disables
	// throttling, which is the deterministic test path.
	Limiter sitewalk.DomainLimiter

	// NewFrontier returns the frontier for one crawl. A nil NewFrontier
	// uses the in-memory Bloom-backed Frontier.
	NewFrontier func() sitewalk.URLFrontier

	// Logger receives per-URL failures and skip decisions.
	// A nil Logger discards them.
	Logger *slog.Logger
}

// Crawl traverses the site breadth-first from spec.Start, bounded by
// spec.MaxDepth and spec.MaxPages and filtered by the include/exclude
// patterns. Only links on the same host as baseURL are followed.
//
// The result is in dequeue (BFS) order, not sorted. A page that fails
// to fetch during expansion stays in the result; it simply contributes
// no outbound links. Crawl returns early with partial results when the
// context is canceled.
func (c *Crawler) Crawl(ctx context.Context, baseURL string, spec sitewalk.CrawlSpec) ([]string, error) {
	logger := c.logger()

	start := spec.Start
	if start == "" {
		start = "/"
	}
	maxPages := spec.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, sitewalk.Errorf(sitewalk.EINVALID, "invalid base URL %q: %v", baseURL, err)
	}

	frontier := c.frontier()
	frontier.Push(sitewalk.Link{URL: sitewalk.NormalizeURL(start, baseURL), Depth: 0})

	var discovered []string

	for frontier.Len() > 0 && len(discovered) < maxPages {
		if err := ctx.Err(); err != nil {
			return discovered, err
		}

		link, _ := frontier.Pop()

		path := sitewalk.ExtractPath(link.URL)
		if !shouldInclude(path, spec.Include, spec.Exclude) {
			// Hard skip: the page is not recorded and its links are
			// not followed.
			logger.Debug("skipping page", "url", link.URL, "reason", "excluded by pattern")
			continue
		}

		discovered = append(discovered, link.URL)
		logger.Debug("discovered page", "url", link.URL, "depth", link.Depth)

		// Pages at the depth ceiling are recorded but not expanded.
		if link.Depth >= spec.MaxDepth {
			continue
		}

		if c.Limiter != nil {
			if err := c.Limiter.Wait(ctx, base.Host); err != nil {
				return discovered, err
			}
		}

		html, err := c.Fetcher.Fetch(ctx, link.URL)
		if err != nil {
			// A missing rendering engine will fail every remaining
			// page identically; abort the whole crawl.
			if sitewalk.ErrorCode(err) == sitewalk.EUNAVAILABLE {
				return discovered, err
			}
			// The page itself was already recorded; a failed fetch
			// just means no outbound links from it.
			logger.Warn("failed to crawl page", "url", link.URL, "err", err)
			continue
		}

		links, err := c.Links.ExtractLinks(html, baseURL)
		if err != nil {
			logger.Warn("failed to extract links", "url", link.URL, "err", err)
			continue
		}

		for _, u := range links {
			frontier.Push(sitewalk.Link{URL: u, Depth: link.Depth + 1})
		}
	}

	return discovered, nil
}

func (c *Crawler) frontier() sitewalk.URLFrontier {
	if c.NewFrontier != nil {
		return c.NewFrontier()
	}
	return NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// shouldInclude evaluates a URL path against the crawl's filter
// patterns. Exclusions win; an empty include list means "include
// everything not excluded".
func shouldInclude(path string, include, exclude []string) bool {
	for _, pattern := range exclude {
		if sitewalk.MatchesPattern(path, pattern) {
			return false
		}
	}

	if len(include) == 0 {
		return true
	}

	for _, pattern := range include {
		if sitewalk.MatchesPattern(path, pattern) {
			return true
		}
	}
	return false
}
