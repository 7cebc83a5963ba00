package http

import (
	"context"
	"log/slog"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/sitewalk"
)

// Ensure SitemapResolver implements sitewalk.SitemapResolver.
var _ sitewalk.SitemapResolver = (*SitemapResolver)(nil)

// SitemapResolver resolves sitemap XML into a flat URL list.
// It handles both the plain urlset form and the sitemapindex form,
// recursing into child sitemaps. Both namespaced and unnamespaced
// documents parse identically.
type SitemapResolver struct {
	fetcher sitewalk.Fetcher
	logger  *slog.Logger
}

// ResolverOption configures a SitemapResolver.
type ResolverOption func(*SitemapResolver)

// WithResolverLogger sets the logger for parse failures and skipped
// child sitemaps. Defaults to a discard logger.
func WithResolverLogger(logger *slog.Logger) ResolverOption {
	return func(s *SitemapResolver) {
		s.logger = logger
	}
}

// NewSitemapResolver creates a SitemapResolver that retrieves sitemap
// documents through the given fetcher, inheriting its retry policy.
func NewSitemapResolver(fetcher sitewalk.Fetcher, opts ...ResolverOption) *SitemapResolver {
	s := &SitemapResolver{
		fetcher: fetcher,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve fetches and parses the sitemap at sitemapURL.
//
// Sitemap indexes are resolved recursively; a visited set guards
// against self-referencing indexes. A failed or malformed child sitemap
// is logged and skipped without aborting its siblings. Entries that are
// off-host relative to baseURL are discarded.
func (s *SitemapResolver) Resolve(ctx context.Context, sitemapURL, baseURL string) ([]string, error) {
	seen := make(map[string]bool)
	return s.resolve(ctx, sitemapURL, baseURL, seen)
}

func (s *SitemapResolver) resolve(ctx context.Context, sitemapURL, baseURL string, seen map[string]bool) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Guard against indexes that reference themselves or an ancestor.
	if seen[sitemapURL] {
		return nil, nil
	}
	seen[sitemapURL] = true

	xml, err := s.fetcher.Fetch(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(xml); err != nil {
		s.logger.Warn("failed to parse sitemap XML", "url", sitemapURL, "err", err)
		return nil, nil
	}

	root := doc.Root()
	if root == nil {
		s.logger.Warn("empty sitemap XML", "url", sitemapURL)
		return nil, nil
	}

	if root.Tag == "sitemapindex" {
		return s.resolveIndex(ctx, root, baseURL, seen), nil
	}

	return s.parseURLSet(root, baseURL), nil
}

// resolveIndex recursively resolves every child of a <sitemapindex>,
// concatenating results. Child failures are logged and skipped.
func (s *SitemapResolver) resolveIndex(ctx context.Context, root *etree.Element, baseURL string, seen map[string]bool) []string {
	var all []string

	for _, child := range root.SelectElements("sitemap") {
		loc := child.SelectElement("loc")
		if loc == nil {
			continue
		}
		childURL := strings.TrimSpace(loc.Text())
		if childURL == "" {
			continue
		}

		urls, err := s.resolve(ctx, childURL, baseURL, seen)
		if err != nil {
			s.logger.Warn("failed to resolve child sitemap", "url", childURL, "err", err)
			continue
		}
		all = append(all, urls...)
	}

	return all
}

// parseURLSet extracts <loc> entries from a <urlset>, keeping only
// same-host URLs.
func (s *SitemapResolver) parseURLSet(root *etree.Element, baseURL string) []string {
	var urls []string
	for _, urlEl := range root.SelectElements("url") {
		loc := urlEl.SelectElement("loc")
		if loc == nil {
			continue
		}
		u := strings.TrimSpace(loc.Text())
		if u == "" {
			continue
		}
		if !sitewalk.IsSameHost(u, baseURL) {
			continue
		}
		urls = append(urls, u)
	}
	return urls
}
