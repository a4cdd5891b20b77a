package handlers

import (
	"net/http"
	"time"
)

// Availability reports which upstream services were configured at startup.
type Availability struct {
	Completion  bool
	Aggregation bool
}

// Health handles GET /api/health.
func Health(avail Availability) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":                "ok",
			"message":               "Service is healthy",
			"timestamp":             time.Now().UTC().Format(time.RFC3339),
			"completion_available":  avail.Completion,
			"aggregation_available": avail.Aggregation,
		})
	}
}
