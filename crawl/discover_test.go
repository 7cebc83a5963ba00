package crawl_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/sitewalk"
	"github.com/fwojciec/sitewalk/crawl"
	"github.com/fwojciec/sitewalk/goquery"
	"github.com/fwojciec/sitewalk/mock"
)

func TestDiscoverer_Discover_empty_spec_falls_back_to_base_url(t *testing.T) {
	t.Parallel()

	d := &crawl.Discoverer{}
	urls, err := d.Discover(context.Background(), sitewalk.Site{BaseURL: base})

	require.NoError(t, err)
	assert.Equal(t, []string{base}, urls)
}

func TestDiscoverer_Discover_requires_a_base_url(t *testing.T) {
	t.Parallel()

	d := &crawl.Discoverer{}
	_, err := d.Discover(context.Background(), sitewalk.Site{})

	require.Error(t, err)
	assert.Equal(t, sitewalk.EINVALID, sitewalk.ErrorCode(err))
}

func TestDiscoverer_Discover_normalizes_explicit_urls(t *testing.T) {
	t.Parallel()

	d := &crawl.Discoverer{}
	urls, err := d.Discover(context.Background(), sitewalk.Site{
		BaseURL: base,
		Discovery: sitewalk.DiscoverySpec{
			URLs: []string{"/", "/about", "https://other.com/page"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{
		base + "/",
		base + "/about",
		"https://other.com/page",
	}, urls)
}

func TestDiscoverer_Discover_expands_glob_patterns(t *testing.T) {
	t.Parallel()

	pages := map[string]string{
		base + "/docs": page("/docs/install", "/docs/usage", "/blog/post", "https://other.com/docs/x"),
	}

	d := &crawl.Discoverer{
		Fetcher: newSiteFetcher(pages, nil),
		Links:   goquery.NewExtractor(),
	}
	urls, err := d.Discover(context.Background(), sitewalk.Site{
		BaseURL: base,
		Discovery: sitewalk.DiscoverySpec{
			URLs: []string{"/docs/*"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{base + "/docs/install", base + "/docs/usage"}, urls)
}

func TestDiscoverer_Discover_failed_expansion_is_skipped(t *testing.T) {
	t.Parallel()

	d := &crawl.Discoverer{
		Fetcher: &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				return "", errors.New("boom")
			},
		},
		Links: goquery.NewExtractor(),
	}
	urls, err := d.Discover(context.Background(), sitewalk.Site{
		BaseURL: base,
		Discovery: sitewalk.DiscoverySpec{
			URLs: []string{"/docs/*", "/about"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{base + "/about"}, urls)
}

func TestDiscoverer_Discover_resolves_sitemaps(t *testing.T) {
	t.Parallel()

	d := &crawl.Discoverer{
		Sitemaps: &mock.SitemapResolver{
			ResolveFn: func(_ context.Context, sitemapURL, baseURL string) ([]string, error) {
				assert.Equal(t, base+"/sitemap.xml", sitemapURL)
				assert.Equal(t, base, baseURL)
				return []string{base + "/a", base + "/b"}, nil
			},
		},
	}
	urls, err := d.Discover(context.Background(), sitewalk.Site{
		BaseURL: base,
		Discovery: sitewalk.DiscoverySpec{
			Sitemap: "/sitemap.xml",
		},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{base + "/a", base + "/b"}, urls)
}

func TestDiscoverer_Discover_sitemap_failure_is_isolated(t *testing.T) {
	t.Parallel()

	d := &crawl.Discoverer{
		Sitemaps: &mock.SitemapResolver{
			ResolveFn: func(context.Context, string, string) ([]string, error) {
				return nil, errors.New("unreachable")
			},
		},
	}
	urls, err := d.Discover(context.Background(), sitewalk.Site{
		BaseURL: base,
		Discovery: sitewalk.DiscoverySpec{
			URLs:    []string{"/about"},
			Sitemap: "/sitemap.xml",
		},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{base + "/about"}, urls)
}

func TestDiscoverer_Discover_unions_strategies_sorted(t *testing.T) {
	t.Parallel()

	pages := map[string]string{
		base + "/": page("/c", "/a"),
	}

	d := &crawl.Discoverer{
		Fetcher: newSiteFetcher(pages, nil),
		Links:   goquery.NewExtractor(),
		Sitemaps: &mock.SitemapResolver{
			ResolveFn: func(context.Context, string, string) ([]string, error) {
				return []string{base + "/b", base + "/a"}, nil
			},
		},
	}
	urls, err := d.Discover(context.Background(), sitewalk.Site{
		BaseURL: base,
		Discovery: sitewalk.DiscoverySpec{
			URLs:    []string{"/a"},
			Sitemap: "/sitemap.xml",
			Crawl:   &sitewalk.CrawlSpec{Start: "/", MaxDepth: 1, MaxPages: 50},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{
		base + "/",
		base + "/a",
		base + "/b",
		base + "/c",
	}, urls)
}

func TestDiscoverer_DiscoverAll_discovers_multiple_sites(t *testing.T) {
	t.Parallel()

	sites := []sitewalk.Site{
		{BaseURL: "https://one.example.com"},
		{BaseURL: "https://two.example.com", Discovery: sitewalk.DiscoverySpec{
			URLs: []string{"/about"},
		}},
		{}, // invalid: logged and omitted
	}

	d := &crawl.Discoverer{Concurrency: 2}
	result := d.DiscoverAll(context.Background(), sites)

	require.Len(t, result, 2)
	assert.Equal(t, []string{"https://one.example.com"}, result["https://one.example.com"])
	assert.Equal(t, []string{"https://two.example.com/about"}, result["https://two.example.com"])
}

func TestDiscoverer_DiscoverAll_is_safe_without_concurrency(t *testing.T) {
	t.Parallel()

	var sites []sitewalk.Site
	for i := 0; i < 5; i++ {
		sites = append(sites, sitewalk.Site{BaseURL: fmt.Sprintf("https://site%d.example.com", i)})
	}

	d := &crawl.Discoverer{}
	result := d.DiscoverAll(context.Background(), sites)

	assert.Len(t, result, 5)
}
