package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
)

// maxErrorBody bounds how much of a failed response is quoted in errors.
const maxErrorBody = 512

// OpenAIClient implements Client for OpenAI-compatible /embeddings endpoints
type OpenAIClient struct {
	httpClient *http.Client
	config     *Config
	apiKey     string
}

// NewOpenAIClient creates a client for an OpenAI-compatible embeddings API.
// The API key may be empty for local servers that do not check it.
func NewOpenAIClient(config *Config, apiKey string, httpClient *http.Client) (*OpenAIClient, error) {
	if config == nil {
		config = DefaultOpenAIConfig()
	}
	cfg := config.withDefaults()
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OpenAIClient{
		httpClient: httpClient,
		config:     cfg,
		apiKey:     apiKey,
	}, nil
}

type openAIRequest struct {
	Input      []string `json:"input"`
	Model      string   `json:"model"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type openAIResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed embeds texts, splitting them into concurrent batches.
func (c *OpenAIClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	return embedBatches(ctx, texts, c.config.BatchSize, c.embedBatch)
}

func (c *OpenAIClient) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(openAIRequest{Input: texts, Model: c.config.Model, Dimensions: c.config.Dimensions})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embeddings request: %w", err)
	}
	url := strings.TrimRight(c.config.BaseURL, "/") + "/embeddings"

	var lastErr error
	var wait time.Duration
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepContext(ctx, wait); err != nil {
				return nil, err
			}
		}

		vectors, retryAfter, err := c.post(ctx, url, body, len(texts))
		if err == nil {
			return vectors, nil
		}
		lastErr = err
		var apiErr *APICallError
		if !errors.As(err, &apiErr) || !apiErr.Retryable() {
			return nil, err
		}
		wait = retryDelay(attempt)
		if retryAfter > 0 {
			wait = retryAfter
		}
	}
	return nil, lastErr
}

// post performs one request. The returned duration is the server's Retry-After hint.
func (c *OpenAIClient) post(ctx context.Context, url string, body []byte, expected int) ([][]float32, time.Duration, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		return nil, 0, &APICallError{Provider: ProviderOpenAI, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, parseRetryAfter(resp.Header.Get("Retry-After")), &APICallError{
			Provider:   ProviderOpenAI,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))),
		}
	}

	var out openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, 0, &APICallError{Provider: ProviderOpenAI, StatusCode: resp.StatusCode, Message: "failed to decode response", Cause: err}
	}
	if len(out.Data) != expected {
		return nil, 0, &APICallError{
			Provider:   ProviderOpenAI,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("expected %d embeddings, got %d", expected, len(out.Data)),
		}
	}

	sort.SliceStable(out.Data, func(i, j int) bool { return out.Data[i].Index < out.Data[j].Index })
	vectors := make([][]float32, expected)
	for i, d := range out.Data {
		if len(d.Embedding) == 0 {
			return nil, 0, &APICallError{Provider: ProviderOpenAI, StatusCode: resp.StatusCode, Message: fmt.Sprintf("empty embedding at index %d", i)}
		}
		vectors[i] = d.Embedding
	}
	return vectors, 0, nil
}

// parseRetryAfter reads a Retry-After header given in seconds.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return min(time.Duration(secs)*time.Second, maxRetryDelay)
}

// Provider returns ProviderOpenAI
func (c *OpenAIClient) Provider() Provider {
	return ProviderOpenAI
}

// Model returns the embedding model name
func (c *OpenAIClient) Model() string {
	return c.config.Model
}

// Close is a no-op; the HTTP client is shared.
func (c *OpenAIClient) Close() error {
	return nil
}
