package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hoanghai1803/newsdesk/internal/api/handlers"
	"github.com/hoanghai1803/newsdesk/internal/curate"
	"github.com/hoanghai1803/newsdesk/internal/sources"
	"github.com/hoanghai1803/newsdesk/internal/storage"
)

// Deps are the components the HTTP layer serves.
type Deps struct {
	Curator      *curate.Curator
	Selector     *sources.Selector
	Cache        *storage.Cache
	Availability handlers.Availability
}

// NewRouter creates and configures the HTTP router with all API routes.
func NewRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(RequestID)
	r.Use(RequestLogger)
	r.Use(Recovery)
	r.Use(CORS)

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", handlers.Health(d.Availability))

		api.Route("/news", func(news chi.Router) {
			news.Post("/generate", handlers.GenerateNews(d.Curator))
			news.Post("/sources", handlers.SelectSources(d.Selector))
			news.Get("/sources/default", handlers.DefaultSources(d.Selector))
			news.Get("/articles", handlers.ListArticles(d.Cache))
			news.Post("/articles/{id}/summary", handlers.SummarizeArticle(d.Curator))
			news.Post("/cleanup", handlers.Cleanup(d.Cache))
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}` + "\n"))
	})

	return r
}
