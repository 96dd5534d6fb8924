package embedding

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jonathan/resume-scorer/internal/logger"
)

const redisPingTimeout = 2 * time.Second

// RedisStore keeps vectors in Redis as little-endian float32 blobs.
type RedisStore struct {
	client *redis.Client
	prefix string
	logger *zap.Logger

	warnedUnavailable atomic.Bool
}

// NewRedisStore connects to the Redis URL (redis://[:password@]host:port/db)
// and verifies the connection with a ping.
func NewRedisStore(ctx context.Context, url, prefix string, log *zap.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis unavailable at %s: %w", opts.Addr, err)
	}

	return NewRedisStoreFromClient(client, prefix, log), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, prefix string, log *zap.Logger) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, logger: logger.OrNop(log)}
}

// GetMany fetches all keys in one MGET.
func (r *RedisStore) GetMany(ctx context.Context, keys []string) ([][]float32, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.prefix + k
	}

	values, err := r.client.MGet(ctx, full...).Result()
	if err != nil {
		r.warnUnavailableOnce(err)
		return nil, err
	}

	out := make([][]float32, len(keys))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		vec, err := decodeVector([]byte(s))
		if err != nil {
			r.logger.Debug("dropping corrupt cached vector", zap.String("key", full[i]), zap.Error(err))
			continue
		}
		out[i] = vec
	}
	return out, nil
}

// SetMany writes all entries in one pipeline.
func (r *RedisStore) SetMany(ctx context.Context, entries map[string][]float32, ttl time.Duration) error {
	if len(entries) == 0 {
		return nil
	}
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range entries {
			pipe.Set(ctx, r.prefix+k, encodeVector(v), ttl)
		}
		return nil
	})
	if err != nil {
		r.warnUnavailableOnce(err)
	}
	return err
}

// Close closes the underlying client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) warnUnavailableOnce(err error) {
	if errors.Is(err, redis.Nil) {
		return
	}
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.logger.Warn("redis unavailable, embedding cache bypassed", zap.Error(err))
	}
}

func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(b []byte) ([]float32, error) {
	if len(b) == 0 || len(b)%4 != 0 {
		return nil, fmt.Errorf("invalid vector blob length %d", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return v, nil
}
