package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hoanghai1803/newsdesk/internal/curate"
	"github.com/hoanghai1803/newsdesk/internal/models"
	"github.com/hoanghai1803/newsdesk/internal/sources"
	"github.com/hoanghai1803/newsdesk/internal/storage"
)

const defaultArticleLimit = 20

// GenerateNews handles POST /api/news/generate. It runs a full curation and
// returns the cached top articles.
func GenerateNews(curator *curate.Curator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CurationRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		resp, err := curator.Curate(r.Context(), req)
		if err != nil {
			var verr *models.ValidationError
			if errors.As(err, &verr) {
				writeError(w, http.StatusBadRequest, verr.Error())
				return
			}
			slog.Error("curation failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to generate news")
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

type selectSourcesRequest struct {
	Topics          []string `json:"topics"`
	Region          string   `json:"region"`
	ExcludedSources []string `json:"excluded_sources"`
}

// SelectSources handles POST /api/news/sources. It runs one source selection
// without acquiring anything.
func SelectSources(selector *sources.Selector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body selectSourcesRequest
		if err := decodeJSON(w, r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		// Reuse request validation for topics and region.
		probe := models.CurationRequest{
			Region:          body.Region,
			Topics:          body.Topics,
			ArticleCount:    models.MinArticleCount,
			ExcludedSources: body.ExcludedSources,
		}
		if err := probe.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		res := selector.Select(r.Context(), probe.Topics, probe.Region, probe.ExcludedSources)
		writeJSON(w, http.StatusOK, map[string]any{
			"sources":  res.Providers,
			"fallback": res.Fallback,
		})
	}
}

// DefaultSources handles GET /api/news/sources/default.
func DefaultSources(selector *sources.Selector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"sources": selector.Defaults()})
	}
}

// ListArticles handles GET /api/news/articles. Query parameters: topics
// (comma separated), source, min_score and limit.
func ListArticles(cache *storage.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := storage.Filter{
			Topics: splitList(q.Get("topics")),
			Source: q.Get("source"),
			Limit:  defaultArticleLimit,
		}

		if raw := q.Get("min_score"); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil || v < 0 || v > 100 {
				writeError(w, http.StatusBadRequest, "min_score must be an integer between 0 and 100")
				return
			}
			filter.MinScore = &v
		}
		if raw := q.Get("limit"); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil || v < 1 {
				writeError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			filter.Limit = v
		}

		articles, err := cache.Query(r.Context(), filter)
		if err != nil {
			slog.Error("failed to query articles", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to get articles")
			return
		}
		if articles == nil {
			articles = []models.StoredArticle{}
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"articles": articles,
			"count":    len(articles),
		})
	}
}

// Cleanup handles POST /api/news/cleanup. It evicts articles older than the
// retention window.
func Cleanup(cache *storage.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := cache.Evict(r.Context())
		if err != nil {
			slog.Error("failed to clean up articles", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to clean up articles")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"message": fmt.Sprintf("Cleaned up %d old articles", n),
			"deleted": n,
		})
	}
}

// SummarizeArticle handles POST /api/news/articles/{id}/summary.
func SummarizeArticle(curator *curate.Curator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		summary, err := curator.Summarize(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Article not found")
				return
			}
			slog.Error("failed to summarize article", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to summarize article")
			return
		}

		writeJSON(w, http.StatusOK, summary)
	}
}
