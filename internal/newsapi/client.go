// Package newsapi is a minimal client for the NewsAPI "everything" endpoint,
// the keyed aggregation API the acquirer prefers over feeds.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://newsapi.org/v2/everything"
	maxPageSize    = 100
)

// Article is a single NewsAPI result.
type Article struct {
	URL         string
	Title       string
	Description string
	Content     string
	Author      string
	Source      string
	PublishedAt time.Time
}

// Client queries NewsAPI. A Client without an API key reports itself as not
// configured and must not be called.
type Client struct {
	apiKey   string
	baseURL  string
	language string
	client   *http.Client
}

// Config configures a Client.
type Config struct {
	APIKey   string
	BaseURL  string
	Language string
	Timeout  time.Duration
}

// NewClient creates a Client from cfg.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		apiKey:   cfg.APIKey,
		baseURL:  cfg.BaseURL,
		language: cfg.Language,
		client:   &http.Client{Timeout: cfg.Timeout},
	}
}

// IsConfigured returns whether an API key is available.
func (c *Client) IsConfigured() bool {
	return c != nil && c.apiKey != ""
}

type searchResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		URL         string `json:"url"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
		Author      string `json:"author"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// Search returns up to pageSize of the newest articles matching query from
// the NewsAPI source sourceID. Removed articles are skipped.
func (c *Client) Search(ctx context.Context, query, sourceID string, pageSize int) ([]Article, error) {
	if !c.IsConfigured() {
		return nil, fmt.Errorf("newsapi: no API key configured")
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	params := url.Values{
		"q":        {query},
		"sources":  {sourceID},
		"pageSize": {strconv.Itoa(pageSize)},
		"sortBy":   {"publishedAt"},
	}
	if c.language != "" {
		params.Set("language", c.language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("newsapi: creating request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newsapi: sending request: %w", err)
	}
	defer resp.Body.Close()

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("newsapi: decoding response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK || result.Status != "ok" {
		return nil, fmt.Errorf("newsapi: status %d %s: %s", resp.StatusCode, result.Code, result.Message)
	}

	articles := make([]Article, 0, len(result.Articles))
	for _, a := range result.Articles {
		if a.URL == "" || a.Title == "" || a.Title == "[Removed]" || a.URL == "https://removed.com" {
			continue
		}

		var published time.Time
		if a.PublishedAt != "" {
			if t, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
				published = t
			}
		}

		source := a.Source.Name
		if source == "" {
			source = sourceID
		}

		articles = append(articles, Article{
			URL:         a.URL,
			Title:       strings.TrimSpace(a.Title),
			Description: strings.TrimSpace(a.Description),
			Content:     strings.TrimSpace(a.Content),
			Author:      strings.TrimSpace(a.Author),
			Source:      source,
			PublishedAt: published,
		})
	}

	slog.Debug("newsapi search", "query", query, "source", sourceID, "results", len(articles))
	return articles, nil
}
