package models

import (
	"fmt"
	"strings"
	"time"
)

// Bounds for CurationRequest.ArticleCount.
const (
	MinArticleCount = 5
	MaxArticleCount = 50
)

// CurationRequest is a validated request to build a personalized feed.
type CurationRequest struct {
	Region          string   `json:"region"`
	Country         string   `json:"country,omitempty"`
	Topics          []string `json:"topics"`
	ArticleCount    int      `json:"article_count"`
	ExcludedSources []string `json:"excluded_sources,omitempty"`
}

// ValidationError describes a rejected CurationRequest field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate normalizes the request in place and reports the first invalid
// field. Topics are trimmed and de-duplicated case-insensitively, keeping the
// first spelling seen.
func (r *CurationRequest) Validate() error {
	r.Region = strings.TrimSpace(r.Region)
	if r.Region == "" {
		return &ValidationError{Field: "region", Reason: "must not be empty"}
	}

	r.Country = strings.ToUpper(strings.TrimSpace(r.Country))
	if r.Country != "" && !isCountryCode(r.Country) {
		return &ValidationError{Field: "country", Reason: fmt.Sprintf("%q is not a two-letter country code", r.Country)}
	}

	r.Topics = dedupe(r.Topics)
	if len(r.Topics) == 0 {
		return &ValidationError{Field: "topics", Reason: "at least one topic is required"}
	}

	if r.ArticleCount < MinArticleCount || r.ArticleCount > MaxArticleCount {
		return &ValidationError{
			Field:  "article_count",
			Reason: fmt.Sprintf("%d is outside [%d,%d]", r.ArticleCount, MinArticleCount, MaxArticleCount),
		}
	}

	r.ExcludedSources = dedupe(r.ExcludedSources)
	return nil
}

func isCountryCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, c := range s {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}

// Degradation records which fallbacks a curation run went through.
type Degradation struct {
	SourcesFallback bool `json:"sources_fallback"`
	MockArticles    bool `json:"mock_articles"`
	RankingFallback bool `json:"ranking_fallback"`
}

// CurationResponse is the assembled result of a curation run.
type CurationResponse struct {
	Articles         []StoredArticle `json:"articles"`
	Count            int             `json:"count"`
	GeneratedAt      time.Time       `json:"generated_at"`
	ProcessingTimeMS int64           `json:"processing_time_ms"`
	Degraded         Degradation     `json:"degraded"`
}
