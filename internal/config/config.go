package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration.
type Config struct {
	Completion  CompletionConfig  `toml:"completion"`
	Aggregation AggregationConfig `toml:"aggregation"`
	Server      ServerConfig      `toml:"server"`
	Sources     SourcesConfig     `toml:"sources"`
	Acquire     AcquireConfig     `toml:"acquire"`
	Log         LogConfig         `toml:"log"`
}

// CompletionConfig selects the text completion service used for source
// selection, ranking and summaries.
type CompletionConfig struct {
	Provider    string  `toml:"provider"`
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	BaseURL     string  `toml:"base_url"`
	JSONMode    bool    `toml:"json_mode"`
	MaxTokens   int     `toml:"max_tokens"`
	Temperature float64 `toml:"temperature"`
}

// AggregationConfig holds the keyed news aggregation API settings.
type AggregationConfig struct {
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
	Language string `toml:"language"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// SourcesConfig controls source selection.
type SourcesConfig struct {
	MaxSources int `toml:"max_sources"`
	// TablePath points to a YAML provider table. Empty uses the built-in one.
	TablePath string `toml:"table_path"`
}

// AcquireConfig controls article acquisition.
type AcquireConfig struct {
	Workers               int    `toml:"workers"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	RateLimitMS           int    `toml:"rate_limit_ms"`
	UserAgent             string `toml:"user_agent"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

const (
	defaultProvider    = "groq"
	defaultMaxTokens   = 2048
	defaultTemperature = 0.7
	defaultPort        = 5000
	defaultMaxSources  = 8
	defaultWorkers     = 8
	defaultTimeoutSecs = 15
	defaultUserAgent   = "newsdesk/1.0 (+https://github.com/hoanghai1803/newsdesk)"
	defaultLogLevel    = "info"
)

// defaultModels is the model used when completion.model is empty.
var defaultModels = map[string]string{
	"groq":      "llama-3.1-70b-versatile",
	"openai":    "gpt-4o-mini",
	"anthropic": "claude-haiku-4-5",
	"gemini":    "gemini-1.5-flash",
	"ollama":    "llama3.1",
}

// providerKeyEnv names the provider-specific API key variable.
var providerKeyEnv = map[string]string{
	"groq":      "GROQ_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"gemini":    "GEMINI_API_KEY",
}

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "warning": true, "error": true,
}

const defaultConfigContent = `[completion]
provider = "groq"                 # groq, openai, anthropic, gemini or ollama
api_key = ""                      # Or set COMPLETION_API_KEY / GROQ_API_KEY
model = "llama-3.1-70b-versatile"
base_url = ""                     # Override the provider endpoint
json_mode = true
max_tokens = 2048
temperature = 0.7

[aggregation]
api_key = ""                      # NewsAPI key, or set NEWS_API_KEY
base_url = ""
language = "en"

[server]
host = ""
port = 5000

[sources]
max_sources = 8
table_path = ""                   # YAML provider table; empty uses the built-in one

[acquire]
workers = 8
request_timeout_seconds = 15
rate_limit_ms = 1000              # Minimum gap between requests to one host; negative disables
user_agent = ""

[log]
level = "info"
`

// Load reads and parses the TOML config from the given path. If the file does
// not exist, it creates a default config file at that path. Environment
// variables override values from the file with highest priority.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := createDefault(path); err != nil {
			return nil, fmt.Errorf("creating default config: %w", err)
		}
		slog.Info("created default config file", "path", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Zero is a meaningful temperature, so its default is set before decoding.
	cfg := Config{Completion: CompletionConfig{Temperature: defaultTemperature}}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := validateExplicit(&cfg, md); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// createDefault writes the default config content to the given path,
// creating any parent directories as needed.
func createDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigContent), 0o644); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

// validateExplicit checks values that were explicitly set in the TOML file,
// where a zero would otherwise be silently replaced by a default.
func validateExplicit(cfg *Config, md toml.MetaData) error {
	if md.IsDefined("server", "port") {
		if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
			return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
		}
	}
	if md.IsDefined("completion", "max_tokens") && cfg.Completion.MaxTokens < 1 {
		return fmt.Errorf("invalid completion.max_tokens %d: must be >= 1", cfg.Completion.MaxTokens)
	}
	if md.IsDefined("sources", "max_sources") && cfg.Sources.MaxSources < 1 {
		return fmt.Errorf("invalid sources.max_sources %d: must be >= 1", cfg.Sources.MaxSources)
	}
	if md.IsDefined("acquire", "workers") && cfg.Acquire.Workers < 1 {
		return fmt.Errorf("invalid acquire.workers %d: must be >= 1", cfg.Acquire.Workers)
	}
	if md.IsDefined("acquire", "request_timeout_seconds") && cfg.Acquire.RequestTimeoutSeconds < 1 {
		return fmt.Errorf("invalid acquire.request_timeout_seconds %d: must be >= 1", cfg.Acquire.RequestTimeoutSeconds)
	}
	return nil
}

// applyDefaults sets default values for any zero-valued fields.
func applyDefaults(cfg *Config) {
	cfg.Completion.Provider = strings.ToLower(strings.TrimSpace(cfg.Completion.Provider))
	if cfg.Completion.Provider == "" {
		cfg.Completion.Provider = defaultProvider
	}
	if cfg.Completion.Model == "" {
		cfg.Completion.Model = defaultModels[cfg.Completion.Provider]
	}
	if cfg.Completion.MaxTokens == 0 {
		cfg.Completion.MaxTokens = defaultMaxTokens
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultPort
	}
	if cfg.Sources.MaxSources == 0 {
		cfg.Sources.MaxSources = defaultMaxSources
	}
	if cfg.Acquire.Workers == 0 {
		cfg.Acquire.Workers = defaultWorkers
	}
	if cfg.Acquire.RequestTimeoutSeconds == 0 {
		cfg.Acquire.RequestTimeoutSeconds = defaultTimeoutSecs
	}
	if cfg.Acquire.UserAgent == "" {
		cfg.Acquire.UserAgent = defaultUserAgent
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultLogLevel
	}
}

// applyEnvOverrides applies environment variable overrides. Environment
// variables take highest priority over config file values.
//
// Priority for completion.api_key:
//  1. COMPLETION_API_KEY (generic, highest)
//  2. the provider's own variable, e.g. GROQ_API_KEY
//
// Priority for aggregation.api_key:
//  1. NEWS_API_KEY
//  2. NEWS_API_KEY_1
func applyEnvOverrides(cfg *Config) {
	if name, ok := providerKeyEnv[cfg.Completion.Provider]; ok {
		if v := os.Getenv(name); v != "" {
			cfg.Completion.APIKey = v
		}
	}
	if v := os.Getenv("COMPLETION_API_KEY"); v != "" {
		cfg.Completion.APIKey = v
	}

	if v := os.Getenv("NEWS_API_KEY_1"); v != "" {
		cfg.Aggregation.APIKey = v
	}
	if v := os.Getenv("NEWS_API_KEY"); v != "" {
		cfg.Aggregation.APIKey = v
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("ignoring non-numeric PORT", "value", v)
		} else {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// validate checks that configuration values are within acceptable ranges.
func validate(cfg *Config) error {
	if _, ok := defaultModels[cfg.Completion.Provider]; !ok {
		return fmt.Errorf("invalid completion.provider %q: must be one of groq, openai, anthropic, gemini, ollama", cfg.Completion.Provider)
	}
	if cfg.Completion.Temperature < 0 || cfg.Completion.Temperature > 2 {
		return fmt.Errorf("invalid completion.temperature %g: must be between 0 and 2", cfg.Completion.Temperature)
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
	}

	if cfg.Sources.MaxSources < 1 {
		return fmt.Errorf("invalid sources.max_sources %d: must be >= 1", cfg.Sources.MaxSources)
	}
	if cfg.Acquire.Workers < 1 {
		return fmt.Errorf("invalid acquire.workers %d: must be >= 1", cfg.Acquire.Workers)
	}

	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if !validLogLevels[cfg.Log.Level] {
		return fmt.Errorf("invalid log.level %q: must be debug, info, warn or error", cfg.Log.Level)
	}

	if !cfg.CompletionAvailable() {
		slog.Warn("completion.api_key is empty: ranking and source selection will use fallbacks")
	}
	if cfg.Aggregation.APIKey == "" {
		slog.Warn("aggregation.api_key is empty: only feed sources will be fetched")
	}

	return nil
}

// CompletionAvailable reports whether a completion service can be built.
// Ollama runs locally and needs no key.
func (c *Config) CompletionAvailable() bool {
	return c.Completion.APIKey != "" || c.Completion.Provider == "ollama"
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// RequestTimeout returns the per-request timeout for outbound fetches.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Acquire.RequestTimeoutSeconds) * time.Second
}

// RateLimit returns the per-host gap between feed requests. Zero means the
// fetcher default, negative disables limiting.
func (c *Config) RateLimit() time.Duration {
	return time.Duration(c.Acquire.RateLimitMS) * time.Millisecond
}
