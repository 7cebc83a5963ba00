package mock

import (
	"context"

	"github.com/fwojciec/sitewalk"
)

var _ sitewalk.URLFrontier = (*URLFrontier)(nil)

// URLFrontier is a mock implementation of sitewalk.URLFrontier.
type URLFrontier struct {
	PushFn func(link sitewalk.Link) bool
	PopFn  func() (sitewalk.Link, bool)
	LenFn  func() int
	SeenFn func(url string) bool
}

func (f *URLFrontier) Push(link sitewalk.Link) bool {
	return f.PushFn(link)
}

func (f *URLFrontier) Pop() (sitewalk.Link, bool) {
	return f.PopFn()
}

func (f *URLFrontier) Len() int {
	return f.LenFn()
}

func (f *URLFrontier) Seen(url string) bool {
	return f.SeenFn(url)
}

var _ sitewalk.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of sitewalk.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return d.WaitFn(ctx, domain)
}
