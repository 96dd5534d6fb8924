// Package llm - util.go provides shared helpers for batching and retrying embedding requests.
package llm

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentBatches bounds in-flight requests for a single Embed call.
const maxConcurrentBatches = 4

const (
	baseRetryDelay = 200 * time.Millisecond
	maxRetryDelay  = 5 * time.Second
)

// splitBatches cuts texts into consecutive chunks of at most size elements.
func splitBatches(texts []string, size int) [][]string {
	if size <= 0 {
		size = len(texts)
	}
	batches := make([][]string, 0, (len(texts)+size-1)/max(1, size))
	for start := 0; start < len(texts); start += size {
		end := min(start+size, len(texts))
		batches = append(batches, texts[start:end])
	}
	return batches
}

// retryDelay is an exponential backoff starting at 200ms and capped at 5s.
func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 10 {
		return maxRetryDelay
	}
	d := baseRetryDelay << attempt
	if d > maxRetryDelay {
		d = maxRetryDelay
	}
	return d
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// embedBatches runs fn over consecutive batches of texts concurrently and
// reassembles the vectors in input order. The first error cancels the rest.
func embedBatches(ctx context.Context, texts []string, size int, fn func(context.Context, []string) ([][]float32, error)) ([][]float32, error) {
	out := make([][]float32, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentBatches)

	offset := 0
	for _, batch := range splitBatches(texts, size) {
		start := offset
		offset += len(batch)
		g.Go(func() error {
			vectors, err := fn(gctx, batch)
			if err != nil {
				return err
			}
			copy(out[start:], vectors)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
