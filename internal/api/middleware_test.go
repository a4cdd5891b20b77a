package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestCORS(t *testing.T) {
	var reached bool
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusAccepted)
	}))

	t.Run("simple request", func(t *testing.T) {
		reached = false
		w := serve(handler, http.MethodPost, "/api/news/generate")

		want := map[string]string{
			"Access-Control-Allow-Origin":   "*",
			"Access-Control-Allow-Methods":  "GET, POST, OPTIONS",
			"Access-Control-Allow-Headers":  "Content-Type, X-Request-ID",
			"Access-Control-Expose-Headers": "X-Request-ID",
		}
		for header, v := range want {
			if got := w.Header().Get(header); got != v {
				t.Errorf("%s = %q, want %q", header, got, v)
			}
		}
		if !reached || w.Code != http.StatusAccepted {
			t.Errorf("inner handler reached=%v status=%d", reached, w.Code)
		}
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		reached = false
		w := serve(handler, http.MethodOptions, "/api/news/generate")

		if w.Code != http.StatusNoContent {
			t.Errorf("status = %d, want %d", w.Code, http.StatusNoContent)
		}
		if reached {
			t.Error("inner handler called for OPTIONS")
		}
		if w.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Error("preflight response lacks CORS headers")
		}
	})
}

func TestRecovery(t *testing.T) {
	t.Run("panic becomes JSON 500", func(t *testing.T) {
		handler := RequestID(Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		})))
		w := serve(handler, http.MethodGet, "/")

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
		}
		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if body["error"] == "" {
			t.Errorf("body %v has no error", body)
		}
		if w.Header().Get(RequestIDHeader) == "" {
			t.Error("request id lost on panic")
		}
	})

	t.Run("no panic is untouched", func(t *testing.T) {
		handler := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("fine"))
		}))
		w := serve(handler, http.MethodGet, "/")
		if w.Code != http.StatusOK || w.Body.String() != "fine" {
			t.Errorf("got %d %q", w.Code, w.Body.String())
		}
	})
}

func TestRequestLoggerKeepsStatus(t *testing.T) {
	handler := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	if w := serve(handler, http.MethodGet, "/api/health"); w.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", w.Code, http.StatusTeapot)
	}
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		reuse    bool
	}{
		{"generated when absent", "", false},
		{"client value reused", "client-trace-1", true},
		{"oversized value replaced", strings.Repeat("a", 200), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = RequestIDFromContext(r.Context())
			}))

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				r.Header.Set(RequestIDHeader, tt.incoming)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			if got := w.Header().Get(RequestIDHeader); got != seen {
				t.Errorf("header %q differs from context %q", got, seen)
			}
			if tt.reuse {
				if seen != tt.incoming {
					t.Errorf("id = %q, want %q", seen, tt.incoming)
				}
				return
			}
			if _, err := uuid.Parse(seen); err != nil {
				t.Errorf("id %q is not a UUID: %v", seen, err)
			}
		})
	}
}
