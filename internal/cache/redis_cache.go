package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vnvoucher/discovery/app/models"
	"go.uber.org/zap"
)

// RedisCache is the L1 tier: fast, TTL'd, shared across processes.
type RedisCache struct {
	client *redis.Client
	logger *zap.Logger
	prefix string
	ttl    time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

func NewRedisCache(redisURL string, ttl time.Duration, logger *zap.Logger) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	return &RedisCache{client: client, logger: logger, prefix: "voucher_search:", ttl: ttl}, nil
}

func (rc *RedisCache) Get(ctx context.Context, key string) (*models.SearchResponse, bool, error) {
	val, err := rc.client.Get(ctx, rc.prefix+key).Result()
	if err == redis.Nil {
		rc.misses.Add(1)
		return nil, false, nil
	}
	if err != nil {
		rc.logger.Error("redis cache get failed", zap.Error(err), zap.String("key", key))
		return nil, false, err
	}

	var resp models.SearchResponse
	if err := json.Unmarshal([]byte(val), &resp); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached response: %w", err)
	}
	rc.hits.Add(1)
	return &resp, true, nil
}

func (rc *RedisCache) Set(ctx context.Context, key string, resp *models.SearchResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshal response for cache: %w", err)
	}
	if err := rc.client.Set(ctx, rc.prefix+key, data, rc.ttl).Err(); err != nil {
		rc.logger.Error("redis cache set failed", zap.Error(err), zap.String("key", key))
		return err
	}
	return nil
}

func (rc *RedisCache) Delete(ctx context.Context, key string) error {
	return rc.client.Del(ctx, rc.prefix+key).Err()
}

func (rc *RedisCache) Clear(ctx context.Context) error {
	keys, err := rc.client.Keys(ctx, rc.prefix+"*").Result()
	if err != nil {
		return fmt.Errorf("list cache keys: %w", err)
	}
	if len(keys) > 0 {
		if err := rc.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("delete cache keys: %w", err)
		}
	}
	return nil
}

func (rc *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := rc.client.Exists(ctx, rc.prefix+key).Result()
	return n > 0, err
}

func (rc *RedisCache) GetTTL(ctx context.Context, key string) (time.Duration, error) {
	return rc.client.TTL(ctx, rc.prefix+key).Result()
}

func (rc *RedisCache) GetStats(ctx context.Context) (*Stats, error) {
	hits, misses := rc.hits.Load(), rc.misses.Load()
	total := hits + misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(hits) / float64(total)
	}
	keys, err := rc.client.Keys(ctx, rc.prefix+"*").Result()
	totalItems := int64(0)
	if err == nil {
		totalItems = int64(len(keys))
	}
	return &Stats{HitRate: hitRate, TotalHits: hits, TotalMiss: misses, TotalItems: totalItems}, nil
}

func (rc *RedisCache) Close() error {
	return rc.client.Close()
}
