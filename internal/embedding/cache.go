package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/resume-scorer/internal/logger"
)

// DefaultCacheTTL is used when no TTL is configured.
const DefaultCacheTTL = 24 * time.Hour

// Store is a vector key-value store used by Cached.
type Store interface {
	// GetMany returns one entry per key; misses are nil.
	GetMany(ctx context.Context, keys []string) ([][]float32, error)
	// SetMany stores all entries with the given TTL.
	SetMany(ctx context.Context, entries map[string][]float32, ttl time.Duration) error
}

// Cached memoizes another provider's vectors in a Store. Store failures are
// logged and treated as misses so the cache never fails an Embed call.
type Cached struct {
	inner  Provider
	store  Store
	ttl    time.Duration
	logger *zap.Logger
}

// NewCached wraps inner with a cache. A non-positive ttl uses DefaultCacheTTL.
func NewCached(inner Provider, store Store, ttl time.Duration, log *zap.Logger) *Cached {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cached{inner: inner, store: store, ttl: ttl, logger: logger.OrNop(log)}
}

// Name returns the wrapped provider's name.
func (c *Cached) Name() string {
	return c.inner.Name()
}

// CacheKey builds the store key for a text embedded by the named provider.
func CacheKey(provider, text string) string {
	sum := sha256.Sum256([]byte(text))
	return "emb:" + provider + ":" + hex.EncodeToString(sum[:])
}

// Embed serves cached vectors and embeds only the missing, de-duplicated texts.
func (c *Cached) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	keys := make([]string, len(texts))
	for i, t := range texts {
		keys[i] = CacheKey(c.inner.Name(), t)
	}

	out := make([][]float32, len(texts))
	cached, err := c.store.GetMany(ctx, keys)
	if err != nil {
		c.logger.Warn("embedding cache read failed", zap.Error(err))
	} else if len(cached) == len(keys) {
		copy(out, cached)
	}

	var (
		missTexts []string
		missKeys  []string
		missIdx   = make(map[string][]int)
	)
	for i, v := range out {
		if v != nil {
			continue
		}
		if _, seen := missIdx[keys[i]]; !seen {
			missTexts = append(missTexts, texts[i])
			missKeys = append(missKeys, keys[i])
		}
		missIdx[keys[i]] = append(missIdx[keys[i]], i)
	}
	c.logger.Debug("embedding cache lookup",
		zap.Int("requested", len(texts)),
		zap.Int("hits", len(texts)-countIndexes(missIdx)),
		zap.Int("misses", len(missTexts)))
	if len(missTexts) == 0 {
		return out, nil
	}

	fresh, err := c.inner.Embed(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(missTexts) {
		return nil, &ProviderError{Provider: c.inner.Name(), Message: "vector count mismatch"}
	}

	entries := make(map[string][]float32, len(fresh))
	for i, v := range fresh {
		entries[missKeys[i]] = v
		for _, idx := range missIdx[missKeys[i]] {
			out[idx] = v
		}
	}
	if err := c.store.SetMany(ctx, entries, c.ttl); err != nil {
		c.logger.Warn("embedding cache write failed", zap.Error(err))
	}
	return out, nil
}

func countIndexes(m map[string][]int) int {
	n := 0
	for _, idx := range m {
		n += len(idx)
	}
	return n
}

// DefaultMaxEntries bounds a MemoryStore created without an explicit size.
const DefaultMaxEntries = 10000

const sweepInterval = time.Minute

// MemoryStore is an in-process Store with per-entry expiry and a size cap.
// Expired entries are swept on write; when the cap is exceeded the entries
// closest to expiry are evicted first.
type MemoryStore struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	maxEntries int
	nextSweep  time.Time
	now        func() time.Time
}

type memoryEntry struct {
	vec     []float32
	expires time.Time
}

// NewMemoryStore creates an empty in-process store holding at most
// maxEntries vectors. A non-positive maxEntries uses DefaultMaxEntries.
func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryStore{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// GetMany returns stored vectors, treating expired entries as misses.
func (m *MemoryStore) GetMany(_ context.Context, keys []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	out := make([][]float32, len(keys))
	for i, k := range keys {
		e, ok := m.entries[k]
		if !ok {
			continue
		}
		if now.After(e.expires) {
			delete(m.entries, k)
			continue
		}
		out[i] = e.vec
	}
	return out, nil
}

// SetMany stores copies of the vectors.
func (m *MemoryStore) SetMany(_ context.Context, entries map[string][]float32, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if !now.Before(m.nextSweep) || len(m.entries)+len(entries) > m.maxEntries {
		m.removeExpired(now)
	}

	expires := now.Add(ttl)
	for k, v := range entries {
		m.entries[k] = memoryEntry{vec: append([]float32(nil), v...), expires: expires}
	}
	m.evictOverflow()
	return nil
}

// removeExpired drops every entry whose TTL has passed. Callers hold mu.
func (m *MemoryStore) removeExpired(now time.Time) {
	for k, e := range m.entries {
		if now.After(e.expires) {
			delete(m.entries, k)
		}
	}
	m.nextSweep = now.Add(sweepInterval)
}

// evictOverflow trims the store to maxEntries, oldest expiry first. Callers hold mu.
func (m *MemoryStore) evictOverflow() {
	excess := len(m.entries) - m.maxEntries
	if excess <= 0 {
		return
	}

	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := m.entries[keys[i]].expires, m.entries[keys[j]].expires
		if a.Equal(b) {
			return keys[i] < keys[j]
		}
		return a.Before(b)
	})
	for _, k := range keys[:excess] {
		delete(m.entries, k)
	}
}

// Len returns the number of stored entries, including expired ones not yet swept.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
