package goquery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/sitewalk/goquery"
)

func TestExtractor_ExtractLinks(t *testing.T) {
	t.Parallel()

	t.Run("resolves relative links against the base URL", func(t *testing.T) {
		t.Parallel()
		html := `<html><body>
			<a href="/docs">Docs</a>
			<a href="about">About</a>
			<a href="https://example.com/pricing">Pricing</a>
		</body></html>`

		links, err := goquery.NewExtractor().ExtractLinks(html, "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://example.com/docs",
			"https://example.com/about",
			"https://example.com/pricing",
		}, links)
	})

	t.Run("filters links to other hosts", func(t *testing.T) {
		t.Parallel()
		html := `<html><body>
			<a href="/local">Local</a>
			<a href="https://other.com/page">External</a>
			<a href="https://sub.example.com/page">Subdomain</a>
		</body></html>`

		links, err := goquery.NewExtractor().ExtractLinks(html, "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/local"}, links)
	})

	t.Run("skips non-page links", func(t *testing.T) {
		t.Parallel()
		html := `<html><body>
			<a href="#section">Anchor</a>
			<a href="javascript:void(0)">JS</a>
			<a href="mailto:hi@example.com">Mail</a>
			<a href="tel:+15551234567">Call</a>
			<a href="/real">Real</a>
		</body></html>`

		links, err := goquery.NewExtractor().ExtractLinks(html, "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/real"}, links)
	})

	t.Run("deduplicates preserving first occurrence order", func(t *testing.T) {
		t.Parallel()
		html := `<html><body>
			<a href="/b">B</a>
			<a href="/a">A</a>
			<a href="/b">B again</a>
		</body></html>`

		links, err := goquery.NewExtractor().ExtractLinks(html, "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://example.com/b",
			"https://example.com/a",
		}, links)
	})

	t.Run("strips tracking parameters", func(t *testing.T) {
		t.Parallel()
		html := `<html><body>
			<a href="/page?utm_source=newsletter&id=7">Page</a>
		</body></html>`

		links, err := goquery.NewExtractor().ExtractLinks(html, "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/page?id=7"}, links)
	})

	t.Run("skips empty and whitespace hrefs", func(t *testing.T) {
		t.Parallel()
		html := `<html><body>
			<a href="">Empty</a>
			<a href="   ">Blank</a>
			<a>No href</a>
		</body></html>`

		links, err := goquery.NewExtractor().ExtractLinks(html, "https://example.com")

		require.NoError(t, err)
		assert.Empty(t, links)
	})

	t.Run("returns no links for an empty document", func(t *testing.T) {
		t.Parallel()
		links, err := goquery.NewExtractor().ExtractLinks("", "https://example.com")

		require.NoError(t, err)
		assert.Empty(t, links)
	})
}
