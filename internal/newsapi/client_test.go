package newsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if key := r.Header.Get("X-Api-Key"); key != "secret" {
			t.Errorf("X-Api-Key = %q, want %q", key, "secret")
		}
		q := r.URL.Query()
		if q.Get("q") != "climate" || q.Get("sources") != "bbc-news" || q.Get("pageSize") != "3" {
			t.Errorf("query = %v", q)
		}
		if q.Get("language") != "en" {
			t.Errorf("language = %q, want en", q.Get("language"))
		}
		_, _ = w.Write([]byte(`{
			"status": "ok",
			"articles": [
				{"url": "https://bbc.example/1", "title": " Climate talks ", "description": "d", "content": "c", "author": "Jo", "publishedAt": "2026-03-01T10:00:00Z", "source": {"id": "bbc-news", "name": "BBC News"}},
				{"url": "https://removed.com", "title": "[Removed]", "source": {"name": "BBC News"}},
				{"url": "https://bbc.example/2", "title": "No source name", "source": {}}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "secret", BaseURL: srv.URL, Language: "en"})
	articles, err := c.Search(context.Background(), "climate", "bbc-news", 3)
	if err != nil {
		t.Fatalf("Search unexpected error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("len(articles) = %d, want 2", len(articles))
	}

	first := articles[0]
	if first.Title != "Climate talks" || first.Source != "BBC News" || first.Author != "Jo" {
		t.Errorf("first = %+v", first)
	}
	if !first.PublishedAt.Equal(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("PublishedAt = %v", first.PublishedAt)
	}
	if articles[1].Source != "bbc-news" {
		t.Errorf("Source = %q, want source id fallback", articles[1].Source)
	}
}

func TestClient_SearchErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"api error", http.StatusUnauthorized, `{"status":"error","code":"apiKeyInvalid","message":"bad key"}`},
		{"rate limited", http.StatusTooManyRequests, `{"status":"error","code":"rateLimited","message":"slow down"}`},
		{"not json", http.StatusBadGateway, `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(Config{APIKey: "k", BaseURL: srv.URL})
			if _, err := c.Search(context.Background(), "ai", "reuters", 5); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestClient_NotConfigured(t *testing.T) {
	c := NewClient(Config{})
	if c.IsConfigured() {
		t.Error("IsConfigured() = true without API key")
	}
	if _, err := c.Search(context.Background(), "ai", "reuters", 5); err == nil {
		t.Error("Search without API key returned nil error")
	}

	var nilClient *Client
	if nilClient.IsConfigured() {
		t.Error("nil client reports configured")
	}
}
