// Package rod provides a browser-based implementation of
// sitewalk.Fetcher for JavaScript-rendered sites.
package rod

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/fwojciec/sitewalk"
)

// Defaults applied when no option overrides them.
const (
	DefaultFetchTimeout = 30 * time.Second
	DefaultRetries      = 3
)

// Ensure Fetcher implements sitewalk.Fetcher at compile time.
var _ sitewalk.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using headless Chrome.
//
// The browser process is scoped to a single fetch attempt: each attempt
// launches, navigates with the configured wait condition, serializes
// the DOM, and releases the browser on every exit path. Navigation
// timeouts and unexpected errors are retried with exponential backoff;
// a missing Chrome/Chromium installation fails with EUNAVAILABLE and is
// never retried.
type Fetcher struct {
	timeout   time.Duration
	retries   int
	waitUntil sitewalk.WaitUntil
	sleep     sitewalk.SleepFunc
	logger    *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the timeout for a single rendering attempt.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRetries sets the attempt budget for transient failures.
// Defaults to DefaultRetries (3) if not specified.
func WithRetries(n int) Option {
	return func(f *Fetcher) {
		f.retries = n
	}
}

// WithWaitUntil sets the navigation wait condition.
// Defaults to sitewalk.WaitLoad if not specified.
func WithWaitUntil(w sitewalk.WaitUntil) Option {
	return func(f *Fetcher) {
		f.waitUntil = w
	}
}

// WithSleep replaces the function used to wait between attempts.
// Intended for tests that need deterministic retry schedules.
func WithSleep(sleep sitewalk.SleepFunc) Option {
	return func(f *Fetcher) {
		f.sleep = sleep
	}
}

// WithLogger sets the logger for retry events.
// Defaults to a discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a new browser-based Fetcher.
// No browser is launched until the first Fetch call.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		retries:   DefaultRetries,
		waitUntil: sitewalk.WaitLoad,
		sleep:     sleepContext,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch navigates to the URL and returns the rendered HTML, retrying
// transient rendering failures. After the attempt budget is exhausted
// it fails with an EINTERNAL error carrying the URL and the last cause.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	var lastErr error

	for attempt := 0; attempt < f.retries; attempt++ {
		html, err := f.render(ctx, url)
		if err == nil {
			return html, nil
		}

		// A missing rendering engine is a configuration error, not a
		// transient fault.
		if sitewalk.ErrorCode(err) == sitewalk.EUNAVAILABLE {
			return "", err
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		lastErr = err
		if attempt+1 >= f.retries {
			break
		}
		wait := backoff(attempt)
		f.logger.Warn("rendering failed, retrying",
			"url", url,
			"attempt", attempt+1,
			"wait", wait,
			"err", err,
		)
		if serr := f.sleep(ctx, wait); serr != nil {
			return "", serr
		}
	}

	return "", sitewalk.Errorf(sitewalk.EINTERNAL,
		"failed to render %s after %d attempts: %v", url, f.retries, lastErr)
}

// render performs a single rendering attempt with a browser scoped to
// the attempt. All browser resources are released on every exit path.
func (f *Fetcher) render(ctx context.Context, url string) (string, error) {
	l := launcher.New().
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return "", sitewalk.Errorf(sitewalk.EUNAVAILABLE,
			"launching browser: %v (Chrome or Chromium must be installed)", err)
	}
	defer l.Kill()

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return "", sitewalk.Errorf(sitewalk.EUNAVAILABLE, "connecting to browser: %v", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()

	page = page.Context(ctx).Timeout(f.timeout)

	if f.waitUntil == sitewalk.WaitCommit {
		// Navigation returns once the response is committed; no
		// further lifecycle event to wait for.
		if err := page.Navigate(url); err != nil {
			return "", err
		}
	} else {
		wait := page.WaitNavigation(lifecycleEvent(f.waitUntil))
		if err := page.Navigate(url); err != nil {
			return "", err
		}
		wait()
	}

	return page.HTML()
}

// Close releases resources. The browser is scoped per fetch attempt, so
// there is nothing long-lived to release.
func (f *Fetcher) Close() error {
	return nil
}

// lifecycleEvent maps a wait condition to its Chrome lifecycle event.
func lifecycleEvent(w sitewalk.WaitUntil) proto.PageLifecycleEventName {
	switch w {
	case sitewalk.WaitDOMContentLoaded:
		return proto.PageLifecycleEventNameDOMContentLoaded
	case sitewalk.WaitNetworkIdle:
		return proto.PageLifecycleEventNameNetworkIdle
	default:
		return proto.PageLifecycleEventNameLoad
	}
}

// backoff returns the exponential delay for a retry: 1s, 2s, 4s, ...
func backoff(attempt int) time.Duration {
	return time.Duration(1<<attempt) * time.Second
}

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
