package feeds

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultRateLimit = 1 * time.Second
	defaultUserAgent = "Mozilla/5.0 (compatible; newsdesk/1.0; +https://github.com/hoanghai1803/newsdesk)"
)

// Options configures a Fetcher. Zero values fall back to package defaults.
type Options struct {
	Timeout   time.Duration
	RateLimit time.Duration
	UserAgent string
	// Transport overrides the base RoundTripper, mainly for tests.
	Transport http.RoundTripper
}

// Fetcher downloads and parses RSS/Atom feeds with per-host rate limiting.
// It is safe for concurrent use.
type Fetcher struct {
	client      *http.Client
	delay       time.Duration
	rateLimiter map[string]time.Time // per-host last request time
	mu          sync.Mutex           // protects rateLimiter
}

// NewFetcher creates a Fetcher from opts.
func NewFetcher(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RateLimit < 0 {
		opts.RateLimit = 0
	} else if opts.RateLimit == 0 {
		opts.RateLimit = defaultRateLimit
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &userAgentTransport{
				base:      base,
				userAgent: opts.UserAgent,
			},
		},
		delay:       opts.RateLimit,
		rateLimiter: make(map[string]time.Time),
	}
}

// Client returns the HTTP client used for feed requests, for callers that
// want the same User-Agent and timeout on related calls.
func (f *Fetcher) Client() *http.Client {
	return f.client
}

// userAgentTransport injects a User-Agent and Accept header on every request.
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")
	}
	return t.base.RoundTrip(req)
}

// Fetch retrieves and parses the feed at feedURL into entries.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) ([]Entry, error) {
	if err := f.waitForRateLimit(ctx, extractDomain(feedURL)); err != nil {
		return nil, err
	}

	fp := gofeed.NewParser()
	fp.Client = f.client

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parsing feed %q: %w", feedURL, err)
	}

	entries := parseFeedItems(feed)
	slog.Debug("fetched feed", "url", feedURL, "items", len(feed.Items), "entries", len(entries))
	return entries, nil
}

// waitForRateLimit enforces the configured minimum delay between requests to
// the same host, returning early if ctx is cancelled.
func (f *Fetcher) waitForRateLimit(ctx context.Context, domain string) error {
	if f.delay == 0 {
		return nil
	}

	f.mu.Lock()
	next := time.Now()
	if last, ok := f.rateLimiter[domain]; ok && next.Sub(last) < f.delay {
		next = last.Add(f.delay)
	}
	// Reserve the slot before sleeping so concurrent callers queue up.
	f.rateLimiter[domain] = next
	f.mu.Unlock()

	wait := time.Until(next)
	if wait <= 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// extractDomain parses a URL and returns its hostname. If parsing fails, it
// returns the raw URL as a fallback key.
func extractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Hostname()
}
