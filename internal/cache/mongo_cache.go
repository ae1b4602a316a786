package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/vnvoucher/discovery/app/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// searchCacheDoc is the MongoDB document shape for a persisted search
// response.
type searchCacheDoc struct {
	Fingerprint  string                `bson:"fingerprint"`
	Query        string                `bson:"query"`
	Response     models.SearchResponse `bson:"response"`
	CreatedAt    time.Time             `bson:"created_at"`
	LastAccessed time.Time             `bson:"last_accessed"`
	AccessCount  int64                 `bson:"access_count"`
}

// MongoCache is the L2 tier: persistent, survives process restarts,
// fronted by an in-process LRU so repeat hits skip Mongo entirely.
// Documents are keyed by a sha256 fingerprint of the cache key.
type MongoCache struct {
	collection *mongo.Collection
	l1         *lru.Cache[string, *models.SearchResponse]
	logger     *zap.Logger

	totalHits, totalMiss atomic.Int64
}

func NewMongoCache(db *mongo.Database, l1Size int, logger *zap.Logger) (*MongoCache, error) {
	l1, err := lru.New[string, *models.SearchResponse](l1Size)
	if err != nil {
		return nil, fmt.Errorf("create l1 lru: %w", err)
	}

	collection := db.Collection("search_cache")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err = collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "fingerprint", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "last_accessed", Value: 1}}},
	})
	if err != nil {
		logger.Warn("could not create search_cache indexes", zap.Error(err))
	}

	return &MongoCache{collection: collection, l1: l1, logger: logger}, nil
}

func (mc *MongoCache) Get(ctx context.Context, key string) (*models.SearchResponse, bool, error) {
	if resp, ok := mc.l1.Get(key); ok {
		mc.totalHits.Add(1)
		return resp, true, nil
	}

	fp := fingerprint(key)
	var doc searchCacheDoc
	err := mc.collection.FindOne(ctx, bson.M{"fingerprint": fp}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			mc.totalMiss.Add(1)
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("query mongo cache: %w", err)
	}
	mc.totalHits.Add(1)

	go mc.touch(fp)

	mc.l1.Add(key, &doc.Response)
	return &doc.Response, true, nil
}

func (mc *MongoCache) Set(ctx context.Context, key string, resp *models.SearchResponse) error {
	mc.l1.Add(key, resp)

	fp := fingerprint(key)
	doc := searchCacheDoc{
		Fingerprint:  fp,
		Query:        resp.Query,
		Response:     *resp,
		CreatedAt:    time.Now(),
		LastAccessed: time.Now(),
		AccessCount:  1,
	}

	_, err := mc.collection.ReplaceOne(ctx, bson.M{"fingerprint": fp}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert mongo cache: %w", err)
	}
	return nil
}

func (mc *MongoCache) Delete(ctx context.Context, key string) error {
	mc.l1.Remove(key)
	_, err := mc.collection.DeleteOne(ctx, bson.M{"fingerprint": fingerprint(key)})
	return err
}

func (mc *MongoCache) Clear(ctx context.Context) error {
	mc.l1.Purge()
	_, err := mc.collection.DeleteMany(ctx, bson.M{})
	mc.totalHits.Store(0)
	mc.totalMiss.Store(0)
	return err
}

func (mc *MongoCache) Exists(ctx context.Context, key string) (bool, error) {
	if mc.l1.Contains(key) {
		return true, nil
	}
	n, err := mc.collection.CountDocuments(ctx, bson.M{"fingerprint": fingerprint(key)})
	return n > 0, err
}

func (mc *MongoCache) GetTTL(ctx context.Context, key string) (time.Duration, error) {
	return 0, nil // persistent tier carries no TTL
}

func (mc *MongoCache) GetStats(ctx context.Context) (*Stats, error) {
	count, err := mc.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("count mongo cache: %w", err)
	}
	hits, misses := mc.totalHits.Load(), mc.totalMiss.Load()
	total := hits + misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(hits) / float64(total)
	}
	return &Stats{HitRate: hitRate, TotalHits: hits, TotalMiss: misses, TotalItems: count}, nil
}

func (mc *MongoCache) Close() error { return nil }

func (mc *MongoCache) touch(fingerprint string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := mc.collection.UpdateOne(ctx,
		bson.M{"fingerprint": fingerprint},
		bson.M{"$set": bson.M{"last_accessed": time.Now()}, "$inc": bson.M{"access_count": 1}},
	)
	if err != nil {
		mc.logger.Warn("failed to update cache access stats", zap.Error(err))
	}
}

func fingerprint(key string) string {
	h := sha256.Sum256([]byte(key))
	return fmt.Sprintf("sha256:%x", h)
}
