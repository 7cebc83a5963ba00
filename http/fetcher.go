// Package http provides HTTP-based implementations of sitewalk.Fetcher
// and sitewalk.SitemapResolver for static sites that don't require
// JavaScript rendering.
package http

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/sitewalk"
)

// Defaults applied when no option overrides them.
const (
	DefaultFetchTimeout = 30 * time.Second
	DefaultUserAgent    = "sitewalk/1.0 (+https://github.com/fwojciec/sitewalk)"
	DefaultRetries      = 3

	// defaultRetryAfter is used when a 429 response carries no
	// parseable Retry-After header.
	defaultRetryAfter = 60 * time.Second
)

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Ensure Fetcher implements sitewalk.Fetcher at compile time.
var _ sitewalk.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using plain HTTP requests.
// Unlike rod.Fetcher, this does not execute JavaScript and is suitable
// for static sites only.
//
// Transient failures (timeouts, connection errors, 5xx responses) are
// retried with exponential backoff until the attempt budget is
// exhausted. HTTP 429 responses honor Retry-After without consuming the
// budget; only genuine failures count against it. HTTP 404 fails
// immediately with ENOTFOUND.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	retries   int
	sleep     sitewalk.SleepFunc
	logger    *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for a single HTTP attempt.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithRetries sets the attempt budget for transient failures.
// Defaults to DefaultRetries (3) if not specified.
func WithRetries(n int) Option {
	return func(f *Fetcher) {
		f.retries = n
	}
}

// WithSleep replaces the function used to wait between attempts.
// Intended for tests that need deterministic retry schedules.
func WithSleep(sleep sitewalk.SleepFunc) Option {
	return func(f *Fetcher) {
		f.sleep = sleep
	}
}

// WithLogger sets the logger for retry and rate-limit events.
// Defaults to a discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
		retries:   DefaultRetries,
		sleep:     sleepContext,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the HTML content from the given URL, retrying
// transient failures. After the attempt budget is exhausted it fails
// with an EINTERNAL error carrying the URL and the last cause.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	var lastErr error

	for attempt := 0; attempt < f.retries; {
		html, retryAfter, err := f.attempt(ctx, url)
		switch {
		case err == nil:
			return html, nil

		case sitewalk.ErrorCode(err) == sitewalk.ENOTFOUND:
			// Terminal for this URL, never retried.
			return "", err

		case retryAfter > 0:
			// Rate limited. Waiting out Retry-After does not consume
			// the attempt budget.
			f.logger.Warn("rate limited", "url", url, "retry_after", retryAfter)
			if serr := f.sleep(ctx, retryAfter); serr != nil {
				return "", serr
			}

		default:
			lastErr = err
			wait := backoff(attempt)
			attempt++
			if attempt >= f.retries {
				break
			}
			f.logger.Warn("fetch failed, retrying",
				"url", url,
				"attempt", attempt,
				"wait", wait,
				"err", err,
			)
			if serr := f.sleep(ctx, wait); serr != nil {
				return "", serr
			}
		}
	}

	return "", sitewalk.Errorf(sitewalk.EINTERNAL,
		"failed to fetch %s after %d attempts: %v", url, f.retries, lastErr)
}

// attempt performs a single GET. A positive retryAfter signals a 429
// response and how long to wait before trying again.
func (f *Fetcher) attempt(ctx context.Context, url string) (html string, retryAfter time.Duration, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", parseRetryAfter(resp.Header.Get("Retry-After")), fmt.Errorf("HTTP 429 for %s", url)

	case resp.StatusCode == http.StatusNotFound:
		return "", 0, sitewalk.Errorf(sitewalk.ENOTFOUND, "page not found: %s", url)

	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", 0, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, err
	}

	return string(body), 0, nil
}

// Close releases resources. For the HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

// backoff returns the exponential delay for a retry: 1s, 2s, 4s, ...
func backoff(attempt int) time.Duration {
	return time.Duration(1<<attempt) * time.Second
}

// parseRetryAfter interprets a Retry-After header value in seconds.
// Missing or unparseable values fall back to defaultRetryAfter.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return defaultRetryAfter
	}
	secs, err := strconv.Atoi(value)
	if err != nil || secs <= 0 {
		return defaultRetryAfter
	}
	return time.Duration(secs) * time.Second
}
