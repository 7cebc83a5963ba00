package sitewalk

import "context"

// Site describes one website to discover pages for. It is owned by the
// discoverer for the duration of a single run and never mutated.
type Site struct {
	// BaseURL is an absolute origin with no trailing slash,
	// e.g. "https://docs.example.com".
	BaseURL string

	// Discovery selects the strategies to run for this site.
	Discovery DiscoverySpec

	// Fetch carries the fully-defaulted fetch settings.
	Fetch FetchConfig
}

// Validate returns an error if the site contains invalid fields.
func (s *Site) Validate() error {
	if s.BaseURL == "" {
		return Errorf(EINVALID, "site base URL required")
	}
	return nil
}

// DiscoverySpec is a union of zero or more discovery strategies.
// When none is configured, discovery falls back to the base URL alone.
type DiscoverySpec struct {
	// URLs lists literal paths or glob patterns ("/docs/*").
	URLs []string

	// Sitemap is the sitemap path ("/sitemap.xml") or empty.
	Sitemap string

	// Crawl configures breadth-first traversal, or nil.
	Crawl *CrawlSpec
}

// Empty reports whether no strategy is configured at all.
func (s DiscoverySpec) Empty() bool {
	return len(s.URLs) == 0 && s.Sitemap == "" && s.Crawl == nil
}

// CrawlSpec bounds a breadth-first crawl.
type CrawlSpec struct {
	// Start is the path the traversal is seeded with.
	Start string

	// MaxDepth is the link depth ceiling; pages at the ceiling are
	// recorded but not expanded.
	MaxDepth int

	// MaxPages caps the number of returned pages.
	MaxPages int

	// Include patterns - if set, only paths matching at least one
	// pattern are kept.
	Include []string

	// Exclude patterns - paths matching any pattern are skipped and
	// their links are not followed. Exclude wins over Include.
	Exclude []string
}

// SitemapResolver resolves a sitemap document into a flat URL list.
type SitemapResolver interface {
	// Resolve fetches and parses the sitemap at sitemapURL, recursing
	// into sitemap indexes. Entries off-host relative to baseURL are
	// discarded. Malformed XML and failed child sitemaps degrade to
	// fewer results, never to an error.
	Resolve(ctx context.Context, sitemapURL, baseURL string) ([]string, error)
}

// LinkExtractor extracts outbound page links from HTML.
type LinkExtractor interface {
	// ExtractLinks parses HTML and returns absolute same-host URLs,
	// resolved against baseURL. Fragment-only, javascript:, mailto:
	// and tel: links are discarded.
	ExtractLinks(html, baseURL string) ([]string, error)
}
