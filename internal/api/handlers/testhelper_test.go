package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hoanghai1803/newsdesk/internal/acquire"
	"github.com/hoanghai1803/newsdesk/internal/curate"
	"github.com/hoanghai1803/newsdesk/internal/feeds"
	"github.com/hoanghai1803/newsdesk/internal/models"
	"github.com/hoanghai1803/newsdesk/internal/rank"
	"github.com/hoanghai1803/newsdesk/internal/sources"
	"github.com/hoanghai1803/newsdesk/internal/storage"
)

var errDown = errors.New("upstream down")

type downCompleter struct{}

func (downCompleter) Complete(context.Context, string, string) (string, error) {
	return "", errDown
}

type downFetcher struct{}

func (downFetcher) Fetch(context.Context, string) ([]feeds.Entry, error) {
	return nil, errDown
}

type testDeps struct {
	curator  *curate.Curator
	selector *sources.Selector
	cache    *storage.Cache
}

// newTestDeps builds the full pipeline over an in-memory cache with every
// upstream service failing, so handlers exercise the degraded paths.
func newTestDeps(t *testing.T) testDeps {
	t.Helper()

	cache, err := storage.OpenCache(context.Background())
	if err != nil {
		t.Fatalf("opening cache: %v", err)
	}
	t.Cleanup(func() { cache.Close() })

	completer := downCompleter{}
	selector := sources.NewSelector(completer, sources.DefaultTable(), 8)
	curator := curate.New(selector, acquire.New(nil, downFetcher{}, 2), rank.NewRanker(completer), cache, completer)
	return testDeps{curator: curator, selector: selector, cache: cache}
}

func seedArticle(t *testing.T, cache *storage.Cache, title, topic, source string, score int) models.StoredArticle {
	t.Helper()
	s, err := cache.Store(context.Background(), models.RankedArticle{
		CandidateArticle: models.CandidateArticle{
			Title:       title,
			Content:     "Body of " + title,
			URL:         "https://example.com/" + title,
			Source:      source,
			PublishedAt: time.Now().Add(-time.Hour),
		},
		Score: score,
		Topic: topic,
	})
	if err != nil {
		t.Fatalf("seeding %q: %v", title, err)
	}
	return s
}
