// Package cache implements the two-tier search-response cache:
// Redis as a fast TTL'd L1 and MongoDB as a persistent L2 that
// survives process restarts.
package cache

import (
	"context"
	"time"

	"github.com/vnvoucher/discovery/app/models"
)

// Stats is the operational snapshot of one cache tier (or, for the
// hybrid cache, both tiers combined).
type Stats struct {
	HitRate    float64 `json:"hit_rate"`
	TotalHits  int64   `json:"total_hits"`
	TotalMiss  int64   `json:"total_miss"`
	TotalItems int64   `json:"total_items"`
}

// SearchResponseCache caches a SearchResponse keyed by the caller's
// cache key (the façade derives the key from the lowercased, trimmed
// query text, mode, top_k, filters, strict_location and min_score).
type SearchResponseCache interface {
	Get(ctx context.Context, key string) (*models.SearchResponse, bool, error)
	Set(ctx context.Context, key string, resp *models.SearchResponse) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Exists(ctx context.Context, key string) (bool, error)
	GetTTL(ctx context.Context, key string) (time.Duration, error)
	GetStats(ctx context.Context) (*Stats, error)
	Close() error
}
