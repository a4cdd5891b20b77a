// Package acquire gathers candidate articles for a set of topics from a set
// of providers, preferring the keyed aggregation API and falling back to
// feeds.
package acquire

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"regexp"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hoanghai1803/newsdesk/internal/feeds"
	"github.com/hoanghai1803/newsdesk/internal/models"
	"github.com/hoanghai1803/newsdesk/internal/newsapi"
)

const (
	// MaxContentLen bounds candidate content taken from feeds and the keyed API.
	MaxContentLen  = 200
	defaultWorkers = 8
)

// newsAPITruncation matches the "[+1234 chars]" marker NewsAPI appends to
// truncated content.
var newsAPITruncation = regexp.MustCompile(`\s*\[\+\d+ chars\]$`)

// Searcher is the keyed aggregation API.
type Searcher interface {
	IsConfigured() bool
	Search(ctx context.Context, query, sourceID string, pageSize int) ([]newsapi.Article, error)
}

// FeedFetcher retrieves parsed feed entries.
type FeedFetcher interface {
	Fetch(ctx context.Context, feedURL string) ([]feeds.Entry, error)
}

// FailedPair records a (topic, source) pair whose endpoint failed. A pair
// whose keyed API failed but whose feed succeeded is still recorded.
type FailedPair struct {
	Topic  string `json:"topic"`
	Source string `json:"source"`
	Stage  string `json:"stage"`
	Error  string `json:"error"`
}

// Result is the outcome of an acquisition.
type Result struct {
	Articles []models.CandidateArticle
	Failed   []FailedPair
}

// Acquirer collects candidates across (topic, source) pairs on a bounded
// worker pool.
type Acquirer struct {
	api     Searcher
	feeds   FeedFetcher
	workers int
	now     func() time.Time
	intN    func(int) int
}

// New creates an Acquirer. api may be nil when no aggregation key is
// configured; fetcher may be nil to disable feeds.
func New(api Searcher, fetcher FeedFetcher, workers int) *Acquirer {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Acquirer{
		api:     api,
		feeds:   fetcher,
		workers: workers,
		now:     time.Now,
		intN:    rand.Intn,
	}
}

type pair struct {
	topic  string
	source models.Provider
}

// Acquire gathers up to 2*count candidates, newest first. Each pair is
// isolated: its failure is logged and recorded but never aborts the others.
func (a *Acquirer) Acquire(ctx context.Context, topics []string, sources []models.Provider, count int) Result {
	if len(topics) == 0 || len(sources) == 0 || count <= 0 {
		return Result{}
	}

	pairs := make([]pair, 0, len(topics)*len(sources))
	for _, t := range topics {
		for _, s := range sources {
			pairs = append(pairs, pair{topic: t, source: s})
		}
	}
	pageSize := (count + len(pairs) - 1) / len(pairs)

	var (
		perPair = make([][]models.CandidateArticle, len(pairs))
		failed  []FailedPair
		mu      sync.Mutex
		memo    = newFeedMemo(a.feeds)
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for i, p := range pairs {
		i, p := i, p
		g.Go(func() error {
			articles, failures := a.acquirePair(ctx, memo, p, pageSize)
			perPair[i] = articles
			if len(failures) > 0 {
				mu.Lock()
				failed = append(failed, failures...)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	var all []models.CandidateArticle
	for _, articles := range perPair {
		all = append(all, articles...)
	}

	slog.Info("acquired candidates",
		"pairs", len(pairs),
		"candidates", len(all),
		"failed", len(failed),
	)
	return Result{Articles: finalize(all, count), Failed: failed}
}

// acquirePair applies the keyed API, then the feed, to one pair. A keyed API
// success is final for the pair.
func (a *Acquirer) acquirePair(ctx context.Context, memo *feedMemo, p pair, pageSize int) ([]models.CandidateArticle, []FailedPair) {
	var failures []FailedPair

	if p.source.APIID != "" && a.api != nil && a.api.IsConfigured() {
		results, err := a.api.Search(ctx, p.topic, p.source.APIID, pageSize)
		if err == nil {
			return a.fromAPI(p.source, results), nil
		}
		slog.Warn("keyed API failed, trying feed",
			"topic", p.topic,
			"source", p.source.Name,
			"error", err,
		)
		failures = append(failures, FailedPair{Topic: p.topic, Source: p.source.Name, Stage: "api", Error: err.Error()})
	}

	if p.source.FeedURL == "" || a.feeds == nil {
		return nil, failures
	}

	entries, err := memo.fetch(ctx, p.source.FeedURL)
	if err != nil {
		slog.Warn("failed to fetch feed",
			"topic", p.topic,
			"source", p.source.Name,
			"url", p.source.FeedURL,
			"error", err,
		)
		failures = append(failures, FailedPair{Topic: p.topic, Source: p.source.Name, Stage: "feed", Error: err.Error()})
		return nil, failures
	}
	return a.fromFeed(p, entries), failures
}

func (a *Acquirer) fromAPI(src models.Provider, results []newsapi.Article) []models.CandidateArticle {
	out := make([]models.CandidateArticle, 0, len(results))
	for _, r := range results {
		content := newsAPITruncation.ReplaceAllString(r.Content, "")
		if content == "" {
			content = r.Description
		}
		published := r.PublishedAt
		if published.IsZero() {
			published = a.now()
		}
		out = append(out, models.CandidateArticle{
			Title:       r.Title,
			Content:     feeds.Truncate(content, MaxContentLen),
			URL:         r.URL,
			Source:      src.Name,
			PublishedAt: published.UTC(),
			Metadata:    apiMetadata(src, r.Author, r.Source),
		})
	}
	return out
}

func (a *Acquirer) fromFeed(p pair, entries []feeds.Entry) []models.CandidateArticle {
	var out []models.CandidateArticle
	for _, e := range entries {
		if !MatchesTopic(p.topic, e.Title, e.Description) {
			continue
		}
		published := e.Published
		if published.IsZero() {
			published = a.now()
		}
		out = append(out, models.CandidateArticle{
			Title:       e.Title,
			Content:     feeds.Truncate(e.Description, MaxContentLen),
			URL:         e.Link,
			Source:      p.source.Name,
			PublishedAt: published.UTC(),
			Metadata:    feedMetadata(p.source, e),
		})
	}
	return out
}

// finalize orders candidates newest first and keeps 2*count of them. The
// sort is stable so equal timestamps keep pair order.
func finalize(articles []models.CandidateArticle, count int) []models.CandidateArticle {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})
	if limit := 2 * count; len(articles) > limit {
		articles = articles[:limit]
	}
	return articles
}

// feedMemo fetches each feed URL at most once per acquisition, since the
// same feed serves every topic of a source.
type feedMemo struct {
	fetcher FeedFetcher
	mu      sync.Mutex
	calls   map[string]*feedCall
}

type feedCall struct {
	once    sync.Once
	entries []feeds.Entry
	err     error
}

func newFeedMemo(fetcher FeedFetcher) *feedMemo {
	return &feedMemo{fetcher: fetcher, calls: make(map[string]*feedCall)}
}

func (m *feedMemo) fetch(ctx context.Context, url string) ([]feeds.Entry, error) {
	m.mu.Lock()
	call, ok := m.calls[url]
	if !ok {
		call = &feedCall{}
		m.calls[url] = call
	}
	m.mu.Unlock()

	call.once.Do(func() {
		call.entries, call.err = m.fetcher.Fetch(ctx, url)
		if call.err != nil {
			call.err = fmt.Errorf("fetching %s: %w", url, call.err)
		}
	})
	return call.entries, call.err
}
