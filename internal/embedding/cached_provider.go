package embedding

import (
	"context"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// CachedProvider wraps another Provider with a bounded in-process LRU
// keyed on the exact input text, so repeated encodes of the same
// normalized query ("tại hải phòng" recurs across many requests) skip
// the network round trip entirely on a hit.
type CachedProvider struct {
	inner  Provider
	cache  *lru.Cache[string, []float32]
	logger *zap.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCachedProvider wraps inner with an LRU of the given size.
func NewCachedProvider(inner Provider, size int, logger *zap.Logger) (*CachedProvider, error) {
	cache, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, err
	}
	return &CachedProvider{inner: inner, cache: cache, logger: logger}, nil
}

func (c *CachedProvider) Dimension() int { return c.inner.Dimension() }

// Encode returns the cached vector for text if present, otherwise
// delegates to inner and caches the result. A cached copy is returned
// defensively so callers mutating the returned slice (e.g. in-place
// weighting) never corrupt the cache entry.
func (c *CachedProvider) Encode(ctx context.Context, text string) ([]float32, error) {
	if v, ok := c.cache.Get(text); ok {
		c.hits.Add(1)
		return cloneVector(v), nil
	}
	c.misses.Add(1)

	v, err := c.inner.Encode(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Add(text, cloneVector(v))
	return v, nil
}

// Stats returns (hits, misses) for operational visibility.
func (c *CachedProvider) Stats() (hits, misses int64) { return c.hits.Load(), c.misses.Load() }

func cloneVector(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
