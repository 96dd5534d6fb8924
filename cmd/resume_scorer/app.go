package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/resume-scorer/internal/config"
	"github.com/jonathan/resume-scorer/internal/embedding"
	"github.com/jonathan/resume-scorer/internal/logger"
	"github.com/jonathan/resume-scorer/internal/scoring"
	"github.com/jonathan/resume-scorer/internal/semantic"
)

// app holds the components shared by the score and serve commands.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	scorer  *scoring.Scorer
	closers []func() error
}

// newApp loads configuration and wires logger, embedding provider, cache,
// semantic matcher and scorer.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	log, err := logger.New(cfg.Log.LoggerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	a := &app{cfg: cfg, logger: log}

	store := a.cacheStore(ctx)
	provider, closeProvider, err := embedding.New(ctx, embedding.Options{
		Kind:       cfg.Embedding.Provider,
		Model:      cfg.Embedding.Model,
		BaseURL:    cfg.Embedding.BaseURL,
		APIKey:     cfg.Embedding.APIKey,
		Dimensions: cfg.Embedding.Dimensions,
		BatchSize:  cfg.Embedding.BatchSize,
		MaxRetries: cfg.Embedding.MaxRetries,
		Timeout:    cfg.Embedding.Timeout.Std(),
		Cache:      store,
		CacheTTL:   cfg.Cache.TTL.Std(),
	}, log)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to create embedding provider: %w", err)
	}
	a.closers = append(a.closers, closeProvider)

	a.scorer = scoring.NewScorer(semantic.NewMatcher(provider, log), log)
	return a, nil
}

// cacheStore picks Redis when configured, falling back to an in-process
// cache if Redis is unreachable. It returns nil when caching is off.
func (a *app) cacheStore(ctx context.Context) embedding.Store {
	if url := a.cfg.Cache.RedisURL; url != "" {
		store, err := embedding.NewRedisStore(ctx, url, a.cfg.Cache.Prefix, a.logger)
		if err == nil {
			a.closers = append(a.closers, store.Close)
			return store
		}
		a.logger.Warn("redis cache unavailable, using in-memory cache", zap.Error(err))
		return embedding.NewMemoryStore(a.cfg.Cache.MaxEntries)
	}
	if a.cfg.Cache.Enabled {
		return embedding.NewMemoryStore(a.cfg.Cache.MaxEntries)
	}
	return nil
}

// Close releases remote clients and cache connections.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	_ = a.logger.Sync()
	return errors.Join(errs...)
}
