package cache

import (
	"context"
	"time"

	"github.com/vnvoucher/discovery/app/models"
	"go.uber.org/zap"
)

// HybridCache combines RedisCache (L1) and MongoCache (L2). Get checks
// L1 first (an L1 error is logged and treated as a miss), falls back to
// L2 and warms L1 asynchronously on an L2 hit; an L2 error is returned.
// Set writes both tiers concurrently and fails only when both fail.
// Delete, Clear and Close run on L1 then L2 and return the first error.
// Exists checks L1 then L2; GetTTL reads L1 only.
type HybridCache struct {
	l1     SearchResponseCache
	l2     SearchResponseCache
	logger *zap.Logger
}

func NewHybridCache(l1, l2 SearchResponseCache, logger *zap.Logger) *HybridCache {
	return &HybridCache{l1: l1, l2: l2, logger: logger}
}

func (hc *HybridCache) Get(ctx context.Context, key string) (*models.SearchResponse, bool, error) {
	resp, ok, err := hc.l1.Get(ctx, key)
	if err != nil {
		hc.logger.Warn("l1 cache get failed, falling back to l2", zap.Error(err))
	} else if ok {
		return resp, true, nil
	}

	resp, ok, err = hc.l2.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	go func() {
		warmCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := hc.l1.Set(warmCtx, key, resp); err != nil {
			hc.logger.Warn("l1 warm-sync after l2 hit failed", zap.Error(err))
		}
	}()

	return resp, true, nil
}

func (hc *HybridCache) Set(ctx context.Context, key string, resp *models.SearchResponse) error {
	errCh := make(chan error, 2)

	go func() { errCh <- hc.l1.Set(ctx, key, resp) }()
	go func() { errCh <- hc.l2.Set(ctx, key, resp) }()

	err1 := <-errCh
	err2 := <-errCh
	if err1 != nil {
		hc.logger.Warn("l1 cache set failed", zap.Error(err1))
	}
	if err2 != nil {
		hc.logger.Warn("l2 cache set failed", zap.Error(err2))
	}
	if err1 != nil && err2 != nil {
		return err2
	}
	return nil
}

func (hc *HybridCache) Delete(ctx context.Context, key string) error {
	err1 := hc.l1.Delete(ctx, key)
	err2 := hc.l2.Delete(ctx, key)
	if err1 != nil {
		return err1
	}
	return err2
}

func (hc *HybridCache) Clear(ctx context.Context) error {
	err1 := hc.l1.Clear(ctx)
	err2 := hc.l2.Clear(ctx)
	if err1 != nil {
		return err1
	}
	return err2
}

func (hc *HybridCache) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := hc.l1.Exists(ctx, key)
	if err == nil && ok {
		return true, nil
	}
	return hc.l2.Exists(ctx, key)
}

func (hc *HybridCache) GetTTL(ctx context.Context, key string) (time.Duration, error) {
	return hc.l1.GetTTL(ctx, key)
}

func (hc *HybridCache) GetStats(ctx context.Context) (*Stats, error) {
	l1Stats, err := hc.l1.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	l2Stats, err := hc.l2.GetStats(ctx)
	if err != nil {
		return l1Stats, nil
	}
	total := l1Stats.TotalHits + l1Stats.TotalMiss + l2Stats.TotalHits + l2Stats.TotalMiss
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(l1Stats.TotalHits+l2Stats.TotalHits) / float64(total)
	}
	return &Stats{
		HitRate:    hitRate,
		TotalHits:  l1Stats.TotalHits + l2Stats.TotalHits,
		TotalMiss:  l1Stats.TotalMiss + l2Stats.TotalMiss,
		TotalItems: l2Stats.TotalItems,
	}, nil
}

func (hc *HybridCache) Close() error {
	err1 := hc.l1.Close()
	err2 := hc.l2.Close()
	if err1 != nil {
		return err1
	}
	return err2
}
