package sitewalk

import (
	"context"
	"time"
)

// WaitUntil determines when the rendering backend considers a
// navigation complete.
type WaitUntil string

// Navigation wait conditions for JavaScript rendering.
const (
	WaitLoad             WaitUntil = "load"
	WaitDOMContentLoaded WaitUntil = "domcontentloaded"
	WaitNetworkIdle      WaitUntil = "networkidle"
	WaitCommit           WaitUntil = "commit"
)

// FetchConfig holds per-site fetch settings. It arrives fully defaulted
// from the configuration layer and is immutable for the duration of a
// discovery run.
type FetchConfig struct {
	// Delay is the minimum spacing between requests to the same site.
	Delay time.Duration

	// Timeout bounds a single fetch attempt.
	Timeout time.Duration

	// UserAgent is sent with every static request.
	UserAgent string

	// JavaScript selects the rendering backend over plain HTTP.
	JavaScript bool

	// Retries is the attempt budget for transient failures.
	Retries int

	// WaitUntil applies to the rendering backend only.
	WaitUntil WaitUntil
}

// DefaultFetchConfig returns the fetch settings used when the
// configuration layer provides none.
func DefaultFetchConfig() FetchConfig {
	return FetchConfig{
		Delay:     time.Second,
		Timeout:   30 * time.Second,
		UserAgent: "sitewalk/1.0 (+https://github.com/fwojciec/sitewalk)",
		Retries:   3,
		WaitUntil: WaitLoad,
	}
}

// WithDefaults fills unset fields from DefaultFetchConfig, so callers
// constructing a FetchConfig by hand get working settings. Delay is
// left alone: zero is a valid setting meaning no throttling.
func (c FetchConfig) WithDefaults() FetchConfig {
	def := DefaultFetchConfig()
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	if c.UserAgent == "" {
		c.UserAgent = def.UserAgent
	}
	if c.Retries <= 0 {
		c.Retries = def.Retries
	}
	if c.WaitUntil == "" {
		c.WaitUntil = def.WaitUntil
	}
	return c
}

// SleepFunc blocks for the given duration or until the context is
// canceled. Fetch backends accept one so tests can run retry schedules
// instantly.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Fetcher retrieves raw HTML from URLs.
// Implementations own their retry and backoff policy; a returned error
// means the URL could not be fetched within the attempt budget.
// Implementations may use browser automation to handle
// JavaScript-rendered content.
type Fetcher interface {
	// Fetch retrieves the HTML for the URL.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the Fetcher.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}
