package models

import "time"

// CandidateArticle is an unranked article gathered during acquisition.
type CandidateArticle struct {
	Title       string         `json:"title"`
	Content     string         `json:"content"`
	URL         string         `json:"url"`
	Source      string         `json:"source"`
	PublishedAt time.Time      `json:"published_at"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// RankedArticle is a candidate with a relevance score in [0,100] and the
// requested topic it was matched to.
type RankedArticle struct {
	CandidateArticle
	Score     int    `json:"score"`
	Topic     string `json:"topic"`
	Reasoning string `json:"reasoning,omitempty"`
}

// StoredArticle is a ranked article held by the cache. ID and FetchedAt are
// assigned on write.
type StoredArticle struct {
	ID int64 `json:"id"`
	RankedArticle
	FetchedAt time.Time `json:"fetched_at"`
}
