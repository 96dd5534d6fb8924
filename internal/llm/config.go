// Package llm provides centralized embedding-model configuration and remote client abstractions.
// It keeps provider SDKs out of the scoring code so providers can be swapped by configuration.
package llm

import "time"

// Provider represents a remote embedding provider
type Provider string

// Provider constants define supported remote providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is any OpenAI-compatible /embeddings endpoint (OpenAI, Ollama, vLLM)
	ProviderOpenAI Provider = "openai"
)

// Config holds the embedding model configuration for a remote provider
type Config struct {
	Provider   Provider
	Model      string
	BaseURL    string        // Only used by ProviderOpenAI
	Dimensions int           // Requested output size; 0 keeps the model default
	BatchSize  int           // Maximum texts per request
	MaxRetries int           // Retries on transport errors, 429 and 5xx
	Timeout    time.Duration // Per-request timeout
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini embedding configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider:   ProviderGemini,
		Model:      "text-embedding-004",
		BatchSize:  100,
		MaxRetries: 2,
		Timeout:    30 * time.Second,
	}
}

// DefaultOpenAIConfig returns the default OpenAI embedding configuration
func DefaultOpenAIConfig() *Config {
	return &Config{
		Provider:   ProviderOpenAI,
		Model:      "text-embedding-3-small",
		BaseURL:    "https://api.openai.com/v1",
		BatchSize:  256,
		MaxRetries: 3,
		Timeout:    30 * time.Second,
	}
}

// DefaultConfigFor returns the defaults for a provider, falling back to Gemini.
func DefaultConfigFor(p Provider) *Config {
	if p == ProviderOpenAI {
		return DefaultOpenAIConfig()
	}
	return DefaultGeminiConfig()
}

// WithModel returns a copy of the config using a different model
func (c *Config) WithModel(model string) *Config {
	newConfig := *c
	newConfig.Model = model
	return &newConfig
}

// withDefaults fills zero fields from the provider defaults.
func (c *Config) withDefaults() *Config {
	defaults := DefaultConfigFor(c.Provider)
	out := *c
	if out.Provider == "" {
		out.Provider = defaults.Provider
	}
	if out.Model == "" {
		out.Model = defaults.Model
	}
	if out.BaseURL == "" {
		out.BaseURL = defaults.BaseURL
	}
	if out.BatchSize <= 0 {
		out.BatchSize = defaults.BatchSize
	}
	if out.MaxRetries < 0 {
		out.MaxRetries = 0
	}
	if out.Timeout <= 0 {
		out.Timeout = defaults.Timeout
	}
	return &out
}
