// Package goquery provides CSS-selector based link extraction from
// HTML documents.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/fwojciec/sitewalk"
)

// Ensure Extractor implements sitewalk.LinkExtractor at compile time.
var _ sitewalk.LinkExtractor = (*Extractor)(nil)

// Extractor extracts anchor links from HTML.
// Results are deduplicated, resolved to absolute URLs against the base
// URL, stripped of tracking parameters, and filtered to the base URL's
// host. Document order of first occurrence is preserved.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractLinks parses HTML and returns same-host absolute URLs.
func (e *Extractor) ExtractLinks(html, baseURL string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, sitewalk.Errorf(sitewalk.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]bool)
	var links []string

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || isNonPageLink(href) {
			return
		}

		resolved := sitewalk.StripTrackingParams(sitewalk.NormalizeURL(href, baseURL))
		if !sitewalk.IsSameHost(resolved, baseURL) {
			return
		}

		if seen[resolved] {
			return
		}
		seen[resolved] = true
		links = append(links, resolved)
	})

	return links, nil
}

// isNonPageLink reports hrefs that never lead to a fetchable page:
// fragment-only anchors and javascript:, mailto: and tel: schemes.
func isNonPageLink(href string) bool {
	lower := strings.ToLower(href)
	return strings.HasPrefix(href, "#") ||
		strings.HasPrefix(lower, "javascript:") ||
		strings.HasPrefix(lower, "mailto:") ||
		strings.HasPrefix(lower, "tel:")
}
