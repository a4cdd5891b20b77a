// Package curate runs the end-to-end curation flow: select sources, acquire
// candidates, rank them and cache the top results.
package curate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hoanghai1803/newsdesk/internal/acquire"
	"github.com/hoanghai1803/newsdesk/internal/ai"
	"github.com/hoanghai1803/newsdesk/internal/feeds"
	"github.com/hoanghai1803/newsdesk/internal/models"
	"github.com/hoanghai1803/newsdesk/internal/rank"
	"github.com/hoanghai1803/newsdesk/internal/sources"
	"github.com/hoanghai1803/newsdesk/internal/storage"
)

const (
	summaryInputLen    = 1500
	summaryFallbackLen = 200

	summarySystemPrompt = `You are a news editor. Respond only with a valid JSON object of the form {"summary": "..."}.`
)

// Curator wires the pipeline stages together.
type Curator struct {
	selector  *sources.Selector
	acquirer  *acquire.Acquirer
	ranker    *rank.Ranker
	cache     *storage.Cache
	completer ai.Completer
	now       func() time.Time
}

// New creates a Curator. completer is only used for summaries and may be nil.
func New(selector *sources.Selector, acquirer *acquire.Acquirer, ranker *rank.Ranker, cache *storage.Cache, completer ai.Completer) *Curator {
	return &Curator{
		selector:  selector,
		acquirer:  acquirer,
		ranker:    ranker,
		cache:     cache,
		completer: completer,
		now:       time.Now,
	}
}

// Curate validates req and runs one curation. Service failures degrade the
// result instead of failing it; the returned error is either a
// *models.ValidationError or a cache failure that stored nothing.
func (c *Curator) Curate(ctx context.Context, req models.CurationRequest) (models.CurationResponse, error) {
	start := c.now()
	if err := req.Validate(); err != nil {
		return models.CurationResponse{}, err
	}

	var degraded models.Degradation

	selected := c.selector.Select(ctx, req.Topics, req.Region, req.ExcludedSources)
	degraded.SourcesFallback = selected.Fallback

	acquired := c.acquirer.Acquire(ctx, req.Topics, selected.Providers, req.ArticleCount)
	for _, f := range acquired.Failed {
		slog.Debug("pair failed", "topic", f.Topic, "source", f.Source, "stage", f.Stage, "error", f.Error)
	}
	candidates := acquired.Articles
	if len(candidates) == 0 {
		slog.Warn("no articles acquired, using generated placeholders", "topics", req.Topics)
		candidates = c.acquirer.Mock(req.Topics, selected.Providers, req.ArticleCount)
		degraded.MockArticles = true
	}

	ranked := c.ranker.Rank(ctx, candidates, req.Topics, rank.Context{
		Region:          req.Region,
		Country:         req.Country,
		ExcludedSources: req.ExcludedSources,
	})
	degraded.RankingFallback = ranked.Fallback

	top := ranked.Articles
	if len(top) > req.ArticleCount {
		top = top[:req.ArticleCount]
	}

	stored, err := c.store(ctx, top)
	if err != nil {
		return models.CurationResponse{}, err
	}

	if n, err := c.cache.Evict(ctx); err != nil {
		slog.Warn("evicting stale articles", "error", err)
	} else if n > 0 {
		slog.Info("evicted stale articles", "count", n)
	}

	end := c.now()
	slog.Info("curation complete",
		"topics", req.Topics,
		"region", req.Region,
		"articles", len(stored),
		"sources_fallback", degraded.SourcesFallback,
		"mock_articles", degraded.MockArticles,
		"ranking_fallback", degraded.RankingFallback,
	)
	return models.CurationResponse{
		Articles:         stored,
		Count:            len(stored),
		GeneratedAt:      end.UTC(),
		ProcessingTimeMS: end.Sub(start).Milliseconds(),
		Degraded:         degraded,
	}, nil
}

// store writes each article, skipping failed writes. It fails only when
// nothing could be stored.
func (c *Curator) store(ctx context.Context, articles []models.RankedArticle) ([]models.StoredArticle, error) {
	stored := make([]models.StoredArticle, 0, len(articles))
	var lastErr error
	for _, a := range articles {
		s, err := c.cache.Store(ctx, a)
		if err != nil {
			slog.Warn("storing article", "url", a.URL, "error", err)
			lastErr = err
			continue
		}
		stored = append(stored, s)
	}
	if len(stored) == 0 && lastErr != nil {
		return nil, fmt.Errorf("storing articles: %w", lastErr)
	}
	return stored, nil
}

// Summary is a short summary of a cached article.
type Summary struct {
	ID       int64  `json:"id"`
	Summary  string `json:"summary"`
	Fallback bool   `json:"fallback"`
}

// Summarize returns a 2-3 sentence summary of a cached article. When the
// completion service is unavailable or fails, the summary is the start of
// the stored content. Returns storage.ErrNotFound for unknown ids.
func (c *Curator) Summarize(ctx context.Context, id int64) (Summary, error) {
	article, err := c.cache.Get(ctx, id)
	if err != nil {
		return Summary{}, err
	}

	text, err := c.summarize(ctx, article.Content)
	if err != nil {
		slog.Warn("summary degraded to stored content", "id", id, "error", err)
		return Summary{ID: id, Summary: contentExcerpt(article.Content), Fallback: true}, nil
	}
	return Summary{ID: id, Summary: text}, nil
}

func (c *Curator) summarize(ctx context.Context, content string) (string, error) {
	if c.completer == nil {
		return "", ai.ErrNotConfigured
	}
	if strings.TrimSpace(content) == "" {
		return "", errors.New("article has no content")
	}

	prompt := "Summarize this news article in 2-3 sentences, maintaining key facts and context:\n\n" +
		feeds.Truncate(content, summaryInputLen)
	resp, err := c.completer.Complete(ctx, summarySystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("completing summary: %w", err)
	}

	// Providers without a JSON mode may answer in plain text.
	if obj, err := ai.ParseObject(resp); err == nil {
		if s := strings.TrimSpace(ai.StringField(obj, "summary")); s != "" {
			return s, nil
		}
	}
	if s := strings.TrimSpace(resp); s != "" && !strings.HasPrefix(s, "{") {
		return s, nil
	}
	return "", errors.New("empty summary")
}

func contentExcerpt(content string) string {
	if excerpt := feeds.Truncate(content, summaryFallbackLen); excerpt != content {
		return excerpt + "..."
	}
	return content
}
