package crawl

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/fwojciec/sitewalk"
)

var _ sitewalk.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter provides per-domain request spacing using token
// buckets. Each domain gets its own limiter, so concurrent discovery of
// independent sites throttles each site separately.
//
// With a burst of 1, the first request to a domain proceeds
// immediately and every subsequent request waits out the configured
// delay.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
}

// NewDomainLimiter creates a DomainLimiter that spaces requests to the
// same domain by at least delay. A non-positive delay disables
// throttling.
func NewDomainLimiter(delay time.Duration) *DomainLimiter {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
	}
}

// Wait blocks until the rate limit allows a request to the domain.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(d.limit, 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
