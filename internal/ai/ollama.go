package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// Compile-time interface check.
var _ Completer = (*OllamaProvider)(nil)

const ollamaDefaultURL = "http://localhost:11434"

// OllamaProvider implements Completer against a local Ollama server.
type OllamaProvider struct {
	baseURL     string
	model       string
	jsonMode    bool
	temperature float64
	client      *http.Client
}

// NewOllamaProvider creates an OllamaProvider. No API key is required.
func NewOllamaProvider(cfg ProviderConfig) *OllamaProvider {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = ollamaDefaultURL
	}
	return &OllamaProvider{
		baseURL:     baseURL,
		model:       cfg.Model,
		jsonMode:    cfg.JSONMode,
		temperature: cfg.Temperature,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []openaiMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   string          `json:"format,omitempty"`
	Options  map[string]any  `json:"options,omitempty"`
}

type ollamaResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Error string `json:"error"`
}

// Complete sends a non-streaming chat request to Ollama.
func (p *OllamaProvider) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	reqBody := ollamaRequest{
		Model: p.model,
		Messages: []openaiMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Options: map[string]any{"temperature": p.temperature},
	}
	if p.jsonMode {
		reqBody.Format = "json"
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("ollama complete: marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ollama complete: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	slog.Debug("calling Ollama API", "url", p.baseURL, "model", p.model)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama complete: sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ollama complete: reading response body: %w", err)
	}

	var apiResp ollamaResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("ollama complete: parsing response (status %d): %w", resp.StatusCode, err)
	}
	if apiResp.Error != "" {
		return "", fmt.Errorf("ollama complete: API error (status %d): %s", resp.StatusCode, apiResp.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama complete: unexpected status code: %d", resp.StatusCode)
	}
	if apiResp.Message.Content == "" {
		return "", fmt.Errorf("ollama complete: empty response")
	}

	return apiResp.Message.Content, nil
}
