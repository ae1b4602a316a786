// Command server is the wired entrypoint for the voucher discovery
// engine: config, logging, Mongo, Meilisearch, the embedding and
// generator clients, the façade, and a Gin HTTP surface with graceful
// shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vnvoucher/discovery/app/config"
	"github.com/vnvoucher/discovery/app/controllers"
	"github.com/vnvoucher/discovery/internal/cache"
	"github.com/vnvoucher/discovery/internal/embedding"
	"github.com/vnvoucher/discovery/internal/facade"
	"github.com/vnvoucher/discovery/internal/index"
	"github.com/vnvoucher/discovery/internal/location"
	"github.com/vnvoucher/discovery/internal/parser"
	"github.com/vnvoucher/discovery/internal/rag"
	"github.com/vnvoucher/discovery/internal/reembed"
	"github.com/vnvoucher/discovery/internal/rerank"
	"github.com/vnvoucher/discovery/internal/retrieval"
	"github.com/vnvoucher/discovery/internal/store"
	"github.com/vnvoucher/discovery/routes"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(configPath())
	if err != nil {
		panic(err)
	}

	logger := newLogger()
	defer logger.Sync()

	logger.Info("starting voucher discovery engine")

	mongoClient, err := connectMongo(cfg.Mongo.URI, logger)
	if err != nil {
		logger.Fatal("failed to connect to mongodb", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Error("failed to disconnect from mongodb", zap.Error(err))
		}
	}()

	meiliIndex, err := index.NewMeiliIndex(cfg.Meilisearch.Host, cfg.Meilisearch.APIKey, cfg.Meilisearch.IndexName, logger)
	if err != nil {
		logger.Fatal("failed to connect to meilisearch", zap.Error(err))
	}
	if err := meiliIndex.EnsureSchema(context.Background()); err != nil {
		logger.Fatal("failed to configure voucher index", zap.Error(err))
	}

	embedBase := os.Getenv("EMBEDDING_SERVICE_URL")
	if embedBase == "" {
		embedBase = "http://localhost:9000"
	}
	httpEmbed := embedding.NewHTTPProvider(embedBase, cfg.EmbeddingDimension, cfg.Timeouts.Embedding, logger)
	embedProvider, err := embedding.NewCachedProvider(httpEmbed, 5000, logger)
	if err != nil {
		logger.Fatal("failed to create embedding cache", zap.Error(err))
	}

	genBase := os.Getenv("GENERATOR_SERVICE_URL")
	if genBase == "" {
		genBase = "http://localhost:9100"
	}
	generator := rag.NewHTTPGenerator(genBase, cfg.Timeouts.Generator)
	tokenEstimator, err := rag.NewTokenEstimator()
	if err != nil {
		logger.Fatal("failed to create token estimator", zap.Error(err))
	}

	registry := location.New(location.DefaultEntries())
	p := parser.New(registry)
	engine := retrieval.New(meiliIndex, embedProvider, *cfg, logger)
	reranker := rerank.New(registry)
	composer := rag.New(generator, tokenEstimator, cfg.RAG.MaxContextTokens, cfg.RAG.GeneratorTemperature, logger)

	respCache, err := buildCache(cfg, mongoClient, logger)
	if err != nil {
		logger.Fatal("failed to build cache layer", zap.Error(err))
	}
	defer respCache.Close()

	f := facade.New(p, engine, reranker, composer, respCache, *cfg, logger)
	voucherStore := store.New(meiliIndex, embedProvider, registry, logger)
	reembedJob := reembed.New(voucherStore, logger)

	sc := controllers.NewSearchController(f, voucherStore, reembedJob, logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	routes.SetupAllRoutes(router, sc)

	srv := &http.Server{Addr: ":" + port(), Handler: router}

	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("server exited")
}

func buildCache(cfg *config.Config, mongoClient *mongo.Client, logger *zap.Logger) (cache.SearchResponseCache, error) {
	redisURL := cfg.Redis.URL
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}
	redisCache, err := cache.NewRedisCache(redisURL, cfg.Redis.TTL, logger)
	if err != nil {
		return nil, err
	}

	db := mongoClient.Database(cfg.Mongo.Database)
	mongoCache, err := cache.NewMongoCache(db, cfg.Mongo.L1Size, logger)
	if err != nil {
		return nil, err
	}

	return cache.NewHybridCache(redisCache, mongoCache, logger), nil
}

func connectMongo(uri string, logger *zap.Logger) (*mongo.Client, error) {
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	logger.Info("connecting to mongodb", zap.String("uri", uri))

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client, nil
}

func newLogger() *zap.Logger {
	if os.Getenv("APP_ENV") == "development" {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config/discovery.yaml"
}

func port() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return "8080"
}
