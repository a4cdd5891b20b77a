package ai

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotConfigured is returned by components that need a Completer when none
// was configured.
var ErrNotConfigured = errors.New("text completion service not configured")

// Completer is a text-completion backend: a prompt pair in, a single blob of
// (hopefully JSON) text out. Implementations make exactly one upstream call
// per invocation and never retry.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ProviderConfig selects and configures a Completer.
type ProviderConfig struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	JSONMode    bool
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

const (
	defaultMaxTokens = 4000
	defaultTimeout   = 60 * time.Second
)

// NewProvider creates the appropriate provider based on config.
func NewProvider(cfg ProviderConfig) (Completer, error) {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	switch cfg.Provider {
	case "anthropic":
		return NewAnthropicProvider(cfg), nil
	case "openai":
		return NewOpenAIProvider(cfg), nil
	case "groq":
		if cfg.BaseURL == "" {
			cfg.BaseURL = groqAPIURL
		}
		return NewOpenAIProvider(cfg), nil
	case "gemini":
		p, err := NewGeminiProvider(context.Background(), cfg)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "ollama":
		return NewOllamaProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}
}
