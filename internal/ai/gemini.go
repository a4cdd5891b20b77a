package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Compile-time interface check.
var _ Completer = (*GeminiProvider)(nil)

// GeminiProvider implements Completer using the Google Gemini SDK.
type GeminiProvider struct {
	client      *genai.Client
	model       string
	jsonMode    bool
	maxTokens   int
	temperature float64
}

// NewGeminiProvider creates a Gemini client authenticated with the configured
// API key. Callers should Close it on shutdown.
func NewGeminiProvider(ctx context.Context, cfg ProviderConfig) (*GeminiProvider, error) {
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	return &GeminiProvider{
		client:      client,
		model:       cfg.Model,
		jsonMode:    cfg.JSONMode,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}, nil
}

// Close releases the underlying client connection.
func (p *GeminiProvider) Close() error {
	return p.client.Close()
}

// Complete generates content from the system instruction and user prompt and
// returns the text parts of the first candidate.
func (p *GeminiProvider) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	model := p.client.GenerativeModel(p.model)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}
	model.SetTemperature(float32(p.temperature))
	model.SetMaxOutputTokens(int32(p.maxTokens))
	if p.jsonMode {
		model.ResponseMIMEType = "application/json"
	}

	slog.Debug("calling Gemini API", "model", p.model)

	resp, err := model.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", fmt.Errorf("gemini complete: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini complete: empty response: no candidates returned")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("gemini complete: empty response: no text parts returned")
	}

	return sb.String(), nil
}
