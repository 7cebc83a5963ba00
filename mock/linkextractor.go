package mock

import "github.com/fwojciec/sitewalk"

var _ sitewalk.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of sitewalk.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html, baseURL string) ([]string, error)
}

func (l *LinkExtractor) ExtractLinks(html, baseURL string) ([]string, error) {
	return l.ExtractLinksFn(html, baseURL)
}
