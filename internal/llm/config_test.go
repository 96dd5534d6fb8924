package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "text-embedding-004", config.Model)
	assert.Equal(t, 100, config.BatchSize)
}

func TestDefaultOpenAIConfig(t *testing.T) {
	config := DefaultOpenAIConfig()

	assert.Equal(t, ProviderOpenAI, config.Provider)
	assert.Equal(t, "text-embedding-3-small", config.Model)
	assert.Equal(t, "https://api.openai.com/v1", config.BaseURL)
}

func TestDefaultConfigFor(t *testing.T) {
	assert.Equal(t, ProviderOpenAI, DefaultConfigFor(ProviderOpenAI).Provider)
	assert.Equal(t, ProviderGemini, DefaultConfigFor(ProviderGemini).Provider)
	assert.Equal(t, ProviderGemini, DefaultConfigFor("unknown").Provider)
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithModel("custom-model")

	// Original should be unchanged
	assert.Equal(t, "text-embedding-004", config.Model)
	assert.Equal(t, "custom-model", newConfig.Model)
	assert.Equal(t, config.Provider, newConfig.Provider)
}

func TestWithDefaults(t *testing.T) {
	cfg := (&Config{Provider: ProviderOpenAI, Model: "nomic-embed-text", MaxRetries: -1}).withDefaults()

	assert.Equal(t, "nomic-embed-text", cfg.Model)
	assert.Equal(t, "https://api.openai.com/v1", cfg.BaseURL)
	assert.Equal(t, 256, cfg.BatchSize)
	assert.Equal(t, 0, cfg.MaxRetries)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestProviderConstants(t *testing.T) {
	assert.Equal(t, Provider("gemini"), ProviderGemini)
	assert.Equal(t, Provider("openai"), ProviderOpenAI)
}
