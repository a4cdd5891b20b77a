package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hoanghai1803/newsdesk/internal/acquire"
	"github.com/hoanghai1803/newsdesk/internal/api/handlers"
	"github.com/hoanghai1803/newsdesk/internal/curate"
	"github.com/hoanghai1803/newsdesk/internal/rank"
	"github.com/hoanghai1803/newsdesk/internal/sources"
	"github.com/hoanghai1803/newsdesk/internal/storage"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cache, err := storage.OpenCache(context.Background())
	if err != nil {
		t.Fatalf("opening cache: %v", err)
	}
	t.Cleanup(func() { cache.Close() })

	selector := sources.NewSelector(nil, sources.DefaultTable(), 8)
	curator := curate.New(selector, acquire.New(nil, nil, 1), rank.NewRanker(nil), cache, nil)
	return NewRouter(Deps{
		Curator:      curator,
		Selector:     selector,
		Cache:        cache,
		Availability: handlers.Availability{Aggregation: true},
	})
}

func TestRouterRoutes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/health", http.StatusOK},
		{http.MethodGet, "/api/news/sources/default", http.StatusOK},
		{http.MethodGet, "/api/news/articles", http.StatusOK},
		{http.MethodPost, "/api/news/cleanup", http.StatusOK},
		{http.MethodPost, "/api/news/articles/1/summary", http.StatusNotFound},
		{http.MethodPost, "/api/news/articles/x/summary", http.StatusBadRequest},
		{http.MethodPost, "/api/news/generate", http.StatusBadRequest},
		{http.MethodGet, "/api/news/generate", http.StatusMethodNotAllowed},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			if w.Code != tt.want {
				t.Errorf("got status %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
			if w.Header().Get(RequestIDHeader) == "" {
				t.Error("response has no request id")
			}
		})
	}
}
