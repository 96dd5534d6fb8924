package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Client is an abstraction over remote embedding providers
type Client interface {
	// Embed returns one vector per input text, in input order
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	// Provider returns the provider this client talks to
	Provider() Provider
	// Model returns the embedding model name
	Model() string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new embedding client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderOpenAI:
		return NewOpenAIClient(config, apiKey, http.DefaultClient)
	case ProviderGemini, "":
		return NewGeminiClient(ctx, config, apiKey)
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q", config.Provider)
	}
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config.withDefaults(),
	}, nil
}

// Embed embeds texts with the configured Gemini embedding model. Large inputs
// are split into batches that run concurrently.
func (c *GeminiClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	model := c.client.EmbeddingModel(c.config.Model)
	model.TaskType = genai.TaskTypeSemanticSimilarity

	return embedBatches(ctx, texts, c.config.BatchSize, func(ctx context.Context, batch []string) ([][]float32, error) {
		return c.embedBatch(ctx, model, batch)
	})
}

func (c *GeminiClient) embedBatch(ctx context.Context, model *genai.EmbeddingModel, texts []string) ([][]float32, error) {
	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepContext(ctx, retryDelay(attempt-1)); err != nil {
				return nil, err
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
		batch := model.NewBatch()
		for _, t := range texts {
			batch.AddContent(genai.Text(t))
		}
		resp, err := model.BatchEmbedContents(callCtx, batch)
		cancel()
		if err != nil {
			lastErr = &APICallError{Provider: ProviderGemini, Message: "batch embed failed", Cause: err}
			continue
		}

		if len(resp.Embeddings) != len(texts) {
			return nil, &APICallError{
				Provider: ProviderGemini,
				Message:  fmt.Sprintf("expected %d embeddings, got %d", len(texts), len(resp.Embeddings)),
			}
		}
		vectors := make([][]float32, len(texts))
		for i, e := range resp.Embeddings {
			if e == nil || len(e.Values) == 0 {
				return nil, &APICallError{Provider: ProviderGemini, Message: fmt.Sprintf("empty embedding at index %d", i)}
			}
			vectors[i] = e.Values
		}
		return vectors, nil
	}
	return nil, lastErr
}

// Provider returns ProviderGemini
func (c *GeminiClient) Provider() Provider {
	return ProviderGemini
}

// Model returns the embedding model name
func (c *GeminiClient) Model() string {
	return c.config.Model
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
