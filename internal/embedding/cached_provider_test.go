package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingProvider struct {
	calls int
	vec   []float32
	err   error
}

func (p *countingProvider) Dimension() int { return 4 }
func (p *countingProvider) Encode(ctx context.Context, text string) ([]float32, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.vec, nil
}

func TestCachedProvider_CachesRepeatedEncodes(t *testing.T) {
	inner := &countingProvider{vec: []float32{1, 0, 0, 0}}
	c, err := NewCachedProvider(inner, 8, zap.NewNop())
	require.NoError(t, err)

	v1, err := c.Encode(context.Background(), "tại hải phòng")
	require.NoError(t, err)
	v2, err := c.Encode(context.Background(), "tại hải phòng")
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
	assert.Equal(t, 1, inner.calls)

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestCachedProvider_ReturnedVectorIsDefensiveCopy(t *testing.T) {
	inner := &countingProvider{vec: []float32{1, 0, 0, 0}}
	c, err := NewCachedProvider(inner, 8, zap.NewNop())
	require.NoError(t, err)

	v1, err := c.Encode(context.Background(), "query")
	require.NoError(t, err)
	v1[0] = 99

	v2, err := c.Encode(context.Background(), "query")
	require.NoError(t, err)
	assert.Equal(t, float32(1), v2[0], "mutating a previously returned vector must not corrupt the cache")
	assert.Equal(t, 1, inner.calls)
}

func TestCachedProvider_PropagatesInnerError(t *testing.T) {
	inner := &countingProvider{err: errors.New("embedding service down")}
	c, err := NewCachedProvider(inner, 8, zap.NewNop())
	require.NoError(t, err)

	_, err = c.Encode(context.Background(), "query")
	require.Error(t, err)

	// A failed encode must not poison the cache with an empty entry.
	_, err = c.Encode(context.Background(), "query")
	require.Error(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedProvider_DimensionDelegatesToInner(t *testing.T) {
	inner := &countingProvider{}
	c, err := NewCachedProvider(inner, 8, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 4, c.Dimension())
}
