package sitewalk

import "context"

// Link is a crawl frontier entry: a URL paired with the depth at which
// it was discovered.
type Link struct {
	URL   string
	Depth int
}

// URLFrontier manages a FIFO crawl queue with deduplication.
// Dequeue order is the breadth-first discovery order.
type URLFrontier interface {
	// Push adds a link to the frontier.
	// Returns false if the URL has already been seen.
	Push(link Link) bool

	// Pop returns the next link in FIFO order.
	// Returns false if the frontier is empty.
	Pop() (Link, bool)

	// Len returns the number of URLs in the queue.
	Len() int

	// Seen returns true if the URL has been processed or queued.
	Seen(url string) bool
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
