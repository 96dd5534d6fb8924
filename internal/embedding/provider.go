// Package embedding provides the text-to-vector capability used for semantic matching.
//
// A Provider is constructed once at startup and injected into the semantic
// matcher. Implementations must be safe for concurrent use and return the
// same vector for the same input.
package embedding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/resume-scorer/internal/llm"
	"github.com/jonathan/resume-scorer/internal/logger"
)

// Provider maps texts to fixed-length vectors.
type Provider interface {
	// Name identifies the provider and model, e.g. "gemini/text-embedding-004".
	Name() string
	// Embed returns one vector per text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Provider kinds accepted by New.
const (
	KindHashing = "hashing"
	KindGemini  = string(llm.ProviderGemini)
	KindOpenAI  = string(llm.ProviderOpenAI)
)

// Options selects and configures a provider.
type Options struct {
	Kind       string
	Model      string
	BaseURL    string
	APIKey     string
	Dimensions int
	BatchSize  int
	MaxRetries int
	Timeout    time.Duration

	// Cache wraps the provider when non-nil.
	Cache    Store
	CacheTTL time.Duration
}

// New builds the configured provider. The returned close function releases
// remote clients and cache connections and is never nil.
func New(ctx context.Context, opts Options, log *zap.Logger) (Provider, func() error, error) {
	log = logger.OrNop(log)
	noop := func() error { return nil }

	var (
		p       Provider
		closeFn = noop
	)
	switch kind := strings.ToLower(strings.TrimSpace(opts.Kind)); kind {
	case "", KindHashing:
		p = NewHashing(opts.Dimensions)
	case KindGemini, KindOpenAI:
		cfg := llm.DefaultConfigFor(llm.Provider(kind))
		if opts.Model != "" {
			cfg = cfg.WithModel(opts.Model)
		}
		if opts.BaseURL != "" {
			cfg.BaseURL = opts.BaseURL
		}
		cfg.Dimensions = opts.Dimensions
		if opts.BatchSize > 0 {
			cfg.BatchSize = opts.BatchSize
		}
		if opts.MaxRetries > 0 {
			cfg.MaxRetries = opts.MaxRetries
		}
		if opts.Timeout > 0 {
			cfg.Timeout = opts.Timeout
		}
		client, err := llm.NewClient(ctx, cfg, opts.APIKey)
		if err != nil {
			return nil, noop, &ProviderError{Provider: kind, Message: "failed to create client", Cause: err}
		}
		p = NewRemote(client)
		closeFn = client.Close
	default:
		return nil, noop, fmt.Errorf("unknown embedding provider %q", opts.Kind)
	}

	log = logger.WithProvider(log, p.Name(), "")
	if opts.Cache != nil {
		p = NewCached(p, opts.Cache, opts.CacheTTL, log)
		log.Debug("embedding cache enabled", zap.Duration("ttl", opts.CacheTTL))
	}
	log.Info("embedding provider ready")
	return p, closeFn, nil
}

// Remote adapts an llm.Client to a Provider.
type Remote struct {
	client llm.Client
}

// NewRemote wraps a remote embedding client.
func NewRemote(client llm.Client) *Remote {
	return &Remote{client: client}
}

// Name returns "<provider>/<model>".
func (r *Remote) Name() string {
	return string(r.client.Provider()) + "/" + r.client.Model()
}

// Embed forwards to the remote client and checks the vector count.
func (r *Remote) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vectors, err := r.client.Embed(ctx, texts)
	if err != nil {
		return nil, &ProviderError{Provider: r.Name(), Message: "embed failed", Cause: err}
	}
	if len(vectors) != len(texts) {
		return nil, &ProviderError{Provider: r.Name(), Message: fmt.Sprintf("expected %d vectors, got %d", len(texts), len(vectors))}
	}
	return vectors, nil
}
