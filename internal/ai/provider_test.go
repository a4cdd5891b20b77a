package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		cfg      ProviderConfig
		wantErr  bool
		wantType string
	}{
		{
			name:     "anthropic provider",
			cfg:      ProviderConfig{Provider: "anthropic", APIKey: "test-key", Model: "claude-haiku-4-5"},
			wantType: "*ai.AnthropicProvider",
		},
		{
			name:     "openai provider",
			cfg:      ProviderConfig{Provider: "openai", APIKey: "test-key", Model: "gpt-4o-mini"},
			wantType: "*ai.OpenAIProvider",
		},
		{
			name:     "groq provider",
			cfg:      ProviderConfig{Provider: "groq", APIKey: "test-key", Model: "llama-3.1-70b-versatile"},
			wantType: "*ai.OpenAIProvider",
		},
		{
			name:     "ollama provider",
			cfg:      ProviderConfig{Provider: "ollama", Model: "llama3"},
			wantType: "*ai.OllamaProvider",
		},
		{
			name:    "unsupported provider",
			cfg:     ProviderConfig{Provider: "invalid", APIKey: "test-key"},
			wantErr: true,
		},
		{
			name:    "empty provider",
			cfg:     ProviderConfig{Provider: "", APIKey: "test-key"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.cfg)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if provider != nil {
					t.Fatal("expected nil provider when error occurs")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			switch tt.wantType {
			case "*ai.AnthropicProvider":
				if _, ok := provider.(*AnthropicProvider); !ok {
					t.Errorf("expected *AnthropicProvider, got %T", provider)
				}
			case "*ai.OpenAIProvider":
				if _, ok := provider.(*OpenAIProvider); !ok {
					t.Errorf("expected *OpenAIProvider, got %T", provider)
				}
			case "*ai.OllamaProvider":
				if _, ok := provider.(*OllamaProvider); !ok {
					t.Errorf("expected *OllamaProvider, got %T", provider)
				}
			}
		})
	}
}

func TestNewProvider_GroqDefaultsBaseURL(t *testing.T) {
	provider, err := NewProvider(ProviderConfig{Provider: "groq", APIKey: "k", Model: "m"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := provider.(*OpenAIProvider)
	if p.url != groqAPIURL {
		t.Errorf("url = %q, want %q", p.url, groqAPIURL)
	}
	if p.maxTokens != defaultMaxTokens {
		t.Errorf("maxTokens = %d, want %d", p.maxTokens, defaultMaxTokens)
	}
}

func TestOpenAIProvider_Complete(t *testing.T) {
	var got openaiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q, want %q", auth, "Bearer test-key")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"ok\": true}"}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider(ProviderConfig{APIKey: "test-key", Model: "m", BaseURL: srv.URL, JSONMode: true, MaxTokens: 100})
	text, err := p.Complete(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("Complete unexpected error: %v", err)
	}
	if text != `{"ok": true}` {
		t.Errorf("Complete = %q, want %q", text, `{"ok": true}`)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "user" {
		t.Errorf("messages = %+v, want system+user", got.Messages)
	}
	if got.ResponseFormat == nil || got.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format = %+v, want json_object", got.ResponseFormat)
	}
}

func TestOpenAIProvider_CompleteErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"api error", http.StatusUnauthorized, `{"error":{"message":"bad key"}}`, "bad key"},
		{"bad status", http.StatusInternalServerError, `{}`, "unexpected status code: 500"},
		{"no choices", http.StatusOK, `{"choices":[]}`, "no choices"},
		{"not json", http.StatusBadGateway, `<html>`, "parsing response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p := NewOpenAIProvider(ProviderConfig{APIKey: "k", Model: "m", BaseURL: srv.URL})
			_, err := p.Complete(context.Background(), "sys", "user")
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestAnthropicProvider_Complete(t *testing.T) {
	var got anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if key := r.Header.Get("x-api-key"); key != "test-key" {
			t.Errorf("x-api-key = %q, want %q", key, "test-key")
		}
		if v := r.Header.Get("anthropic-version"); v != "2023-06-01" {
			t.Errorf("anthropic-version = %q", v)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"{\"a\":"},{"type":"text","text":"1}"}]}`))
	}))
	defer srv.Close()

	p := NewAnthropicProvider(ProviderConfig{APIKey: "test-key", Model: "m", BaseURL: srv.URL, MaxTokens: 512})
	text, err := p.Complete(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("Complete unexpected error: %v", err)
	}
	if text != `{"a":1}` {
		t.Errorf("Complete = %q, want %q", text, `{"a":1}`)
	}
	if got.System != "sys" || got.MaxTokens != 512 {
		t.Errorf("request = %+v, want system %q and max_tokens 512", got, "sys")
	}
}

func TestOllamaProvider_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %q, want /api/chat", r.URL.Path)
		}
		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.Stream || req.Format != "json" {
			t.Errorf("request = %+v, want non-streaming json format", req)
		}
		_, _ = w.Write([]byte(`{"message":{"content":"{}"}}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(ProviderConfig{Model: "llama3", BaseURL: srv.URL + "/", JSONMode: true})
	text, err := p.Complete(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("Complete unexpected error: %v", err)
	}
	if text != "{}" {
		t.Errorf("Complete = %q, want %q", text, "{}")
	}
}
