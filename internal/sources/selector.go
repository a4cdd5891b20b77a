// Package sources picks the news providers a curation run acquires from.
package sources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"

	"github.com/hoanghai1803/newsdesk/internal/ai"
	"github.com/hoanghai1803/newsdesk/internal/models"
)

// FallbackReason is the rationale attached to every static-table provider
// returned in degraded mode.
const FallbackReason = "default fallback source"

const defaultMaxSources = 8

// communityMarkers identify community and social platforms, which are never
// used as news providers.
var communityMarkers = []string{
	"reddit", "twitter", "x.com", "facebook", "instagram", "tiktok",
	"youtube", "threads", "mastodon", "bluesky", "hacker news", "quora",
}

// Result is the outcome of a source selection. When Fallback is true the
// providers come from the static table and Err holds the reason.
type Result struct {
	Providers []models.Provider
	Fallback  bool
	Err       error
}

// Selector recommends providers through a Completer, falling back to a
// static table.
type Selector struct {
	completer  ai.Completer
	table      []models.Provider
	byName     map[string]models.Provider
	maxSources int
}

// NewSelector creates a Selector. completer may be nil, in which case every
// selection uses the static table.
func NewSelector(completer ai.Completer, table []models.Provider, maxSources int) *Selector {
	if maxSources <= 0 {
		maxSources = defaultMaxSources
	}
	byName := make(map[string]models.Provider, len(table))
	for _, p := range table {
		byName[strings.ToLower(p.Name)] = p
	}
	return &Selector{
		completer:  completer,
		table:      slices.Clone(table),
		byName:     byName,
		maxSources: maxSources,
	}
}

// Defaults returns a copy of the static provider table.
func (s *Selector) Defaults() []models.Provider {
	return slices.Clone(s.table)
}

// Select asks the completion service once for up to maxSources providers.
// Any failure yields the static table minus excluded names.
func (s *Selector) Select(ctx context.Context, topics []string, region string, excluded []string) Result {
	providers, err := s.recommend(ctx, topics, region, excluded)
	if err != nil {
		slog.Warn("source selection degraded to static table", "error", err, "region", region)
		return Result{Providers: s.Fallback(excluded), Fallback: true, Err: err}
	}
	slog.Info("selected news sources", "count", len(providers), "topics", topics, "region", region)
	return Result{Providers: providers}
}

// Fallback returns the static table in order, minus excluded names, each
// annotated with FallbackReason.
func (s *Selector) Fallback(excluded []string) []models.Provider {
	skip := nameSet(excluded)
	out := make([]models.Provider, 0, len(s.table))
	for _, p := range s.table {
		if skip[strings.ToLower(p.Name)] {
			continue
		}
		p.Reasoning = FallbackReason
		out = append(out, p)
	}
	return out
}

func (s *Selector) recommend(ctx context.Context, topics []string, region string, excluded []string) ([]models.Provider, error) {
	if s.completer == nil {
		return nil, ai.ErrNotConfigured
	}

	systemPrompt, userPrompt := SelectPrompt(topics, region, excluded, s.maxSources)
	text, err := s.completer.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("requesting source recommendations: %w", err)
	}

	obj, err := ai.ParseObject(text)
	if err != nil {
		return nil, err
	}
	entries, ok := ai.ObjectList(obj, "sources")
	if !ok {
		return nil, &ai.ParseError{Err: errors.New(`missing "sources" array`)}
	}

	providers := s.shape(entries, excluded)
	if len(providers) == 0 {
		return nil, errors.New("no usable sources recommended")
	}
	return providers, nil
}

// shape turns raw recommendations into usable providers: excluded, duplicate
// and community entries are dropped, and missing endpoints are filled from
// the static table when names match.
func (s *Selector) shape(entries []map[string]any, excluded []string) []models.Provider {
	skip := nameSet(excluded)
	seen := make(map[string]bool, len(entries))
	var out []models.Provider

	for _, e := range entries {
		p := models.Provider{
			Name:      ai.StringField(e, "name"),
			Category:  ai.StringField(e, "type"),
			APIID:     ai.StringField(e, "api_id"),
			FeedURL:   validFeedURL(ai.StringField(e, "feed_url")),
			Reasoning: ai.StringField(e, "reasoning"),
		}
		p.Relevance = firstInt(e, "relevanceScore", "relevance_score")
		p.Credibility = firstInt(e, "credibilityScore", "credibility_score")

		key := strings.ToLower(p.Name)
		if p.Name == "" || skip[key] || seen[key] || isCommunity(p) {
			continue
		}
		if known, ok := s.byName[key]; ok {
			if p.APIID == "" {
				p.APIID = known.APIID
			}
			if p.FeedURL == "" {
				p.FeedURL = known.FeedURL
			}
			if p.Category == "" {
				p.Category = known.Category
			}
		}
		if !p.Usable() {
			slog.Debug("dropping recommended source without endpoint", "name", p.Name)
			continue
		}

		seen[key] = true
		out = append(out, p)
		if len(out) == s.maxSources {
			break
		}
	}
	return out
}

func isCommunity(p models.Provider) bool {
	if p.Category == models.CategoryCommunity || p.Category == "social" {
		return true
	}
	name := strings.ToLower(p.Name)
	for _, m := range communityMarkers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

func validFeedURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	return raw
}

func firstInt(m map[string]any, keys ...string) int {
	for _, k := range keys {
		if v, ok := ai.IntField(m, k); ok {
			return v
		}
	}
	return 0
}

func nameSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[strings.ToLower(strings.TrimSpace(n))] = true
	}
	return set
}
