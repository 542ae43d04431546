// Package llm provides HTTP clients for LLM providers used during
// AI-powered practice extraction and adaptation. Prompts are caller
// input; this package only handles transport, rate limiting and retries.
package llm

import (
	"context"
	"fmt"
	"time"
)

// Defaults shared by the provider clients.
const (
	defaultTimeout     = 60 * time.Second
	defaultMaxTokens   = 4096
	defaultMaxRetries  = 3
	defaultBaseBackoff = time.Second
	defaultRateLimit   = 2 // requests per second
	defaultBurst       = 4
)

// Provider names.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// Environment variables holding API keys, in resolution priority order.
var providerEnvVars = []struct {
	name   string
	envVar string
}{
	{ProviderAnthropic, "ANTHROPIC_API_KEY"},
	{ProviderOpenAI, "OPENAI_API_KEY"},
}

// Config configures a provider client.
type Config struct {
	// Provider selects the backend: "anthropic" or "openai". Empty means
	// resolve from available API keys.
	Provider string `koanf:"provider"`

	// Model overrides the provider's default model.
	Model string `koanf:"model"`

	// BaseURL overrides the provider's API endpoint.
	BaseURL string `koanf:"base_url"`

	// TimeoutSeconds bounds a single HTTP request (default: 60).
	TimeoutSeconds int `koanf:"timeout_seconds"`

	// APIKey is never read from config files; it is populated from the
	// environment by ResolveProvider.
	APIKey string `koanf:"-"`
}

func (c Config) timeout() time.Duration {
	if c.TimeoutSeconds > 0 {
		return time.Duration(c.TimeoutSeconds) * time.Second
	}
	return defaultTimeout
}

// Request is a single completion request.
type Request struct {
	Prompt      string
	System      string
	Model       string // overrides the client default when set
	MaxTokens   int    // defaults to 4096
	Temperature float64
}

// Usage reports token consumption.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Response is a completion result.
type Response struct {
	Content string
	Model   string
	Usage   Usage
}

// Provider is a completion backend.
type Provider interface {
	// Name returns the provider identifier ("anthropic", "openai").
	Name() string

	// DefaultModel returns the model used when Request.Model is empty.
	DefaultModel() string

	// Complete sends a completion request.
	Complete(ctx context.Context, req Request) (Response, error)
}

// APIError is a non-retryable error response from a provider.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (%d): %s", e.Provider, e.StatusCode, e.Message)
}

// retryableError marks transient failures (network errors, 429, 5xx).
type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

func isRetryable(err error) bool {
	_, ok := err.(*retryableError)
	return ok
}

// ResolveProvider returns the best available provider based on API keys
// in the environment, consulted via lookup (pass os.LookupEnv). When
// cfg.Provider names a specific backend only that one is considered.
// Returns nil without error when no API key is available.
func ResolveProvider(cfg Config, lookup func(string) (string, bool)) (Provider, error) {
	for _, entry := range providerEnvVars {
		if cfg.Provider != "" && cfg.Provider != entry.name {
			continue
		}
		key, ok := lookup(entry.envVar)
		if !ok || key == "" {
			continue
		}
		clientCfg := cfg
		clientCfg.APIKey = key
		switch entry.name {
		case ProviderAnthropic:
			return NewAnthropic(clientCfg)
		case ProviderOpenAI:
			return NewOpenAI(clientCfg)
		}
	}
	if cfg.Provider != "" && cfg.Provider != ProviderAnthropic && cfg.Provider != ProviderOpenAI {
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	return nil, nil
}
