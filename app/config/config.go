package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// FieldWeights is a per-field weight table. IndexTimeFieldWeights is
// the base of the query-time weights reported in search_strategy;
// combined_emb is built from app/models.IndexTimeWeights, not from this
// table, so changing it does not change stored vectors. Field names
// match the app/models embedding constants.
type FieldWeights struct {
	Content  float64 `yaml:"content" json:"content"`
	Name     float64 `yaml:"voucher_name" json:"voucher_name"`
	Location float64 `yaml:"location" json:"location"`
	Service  float64 `yaml:"service" json:"service"`
	Target   float64 `yaml:"target" json:"target"`
}

// AdaptiveDeltas are the query-time additive weight bumps applied on
// top of IndexTimeFieldWeights when the query carries a location,
// service requirement, or target audience. They are surfaced in the
// response's search_strategy; the retrieval engine's actual scoring
// is driven by the single chosen dense field, not a recombination of
// these deltas.
type AdaptiveDeltas struct {
	Location float64 `yaml:"location" json:"location"`
	Service  float64 `yaml:"service" json:"service"`
	Target   float64 `yaml:"target" json:"target"`
}

// Retrieval holds the retrieval-engine tunables.
type Retrieval struct {
	LexicalSaturation   float64 `yaml:"lexical_saturation" json:"lexical_saturation"`
	OverFetchMultiplier int     `yaml:"over_fetch_multiplier" json:"over_fetch_multiplier"`
	HardCap             int     `yaml:"hard_cap" json:"hard_cap"`
	DefaultTopK         int     `yaml:"default_top_k" json:"default_top_k"`
	MaxTopK             int     `yaml:"max_top_k" json:"max_top_k"`
}

// RAG holds the RAG-composer tunables.
type RAG struct {
	MaxContextTokens   int     `yaml:"max_context_tokens" json:"max_context_tokens"`
	GeneratorTemperature float64 `yaml:"generator_temperature" json:"generator_temperature"`
	ConcurrencyLimit   int     `yaml:"rag_concurrency_limit" json:"rag_concurrency_limit"`
	QueueSize          int     `yaml:"rag_queue_size" json:"rag_queue_size"`
}

// Timeouts holds per-collaborator deadlines: the overall request
// budget plus the embedding and generator client timeouts. Index and
// Cache are loaded but not applied to any client.
type Timeouts struct {
	Request   time.Duration `yaml:"request" json:"request"`
	Embedding time.Duration `yaml:"embedding" json:"embedding"`
	Index     time.Duration `yaml:"index" json:"index"`
	Generator time.Duration `yaml:"generator" json:"generator"`
	Cache     time.Duration `yaml:"cache" json:"cache"`
}

// Config is the root configuration object for the discovery engine.
type Config struct {
	EmbeddingDimension int            `yaml:"embedding_dimension" json:"embedding_dimension"`
	IndexTimeFieldWeights FieldWeights `yaml:"index_time_field_weights" json:"index_time_field_weights"`
	QueryTimeAdaptiveDeltas AdaptiveDeltas `yaml:"query_time_adaptive_deltas" json:"query_time_adaptive_deltas"`
	Retrieval Retrieval `yaml:"retrieval" json:"retrieval"`
	RAG       RAG       `yaml:"rag" json:"rag"`
	Timeouts  Timeouts  `yaml:"timeouts" json:"timeouts"`

	Meilisearch MeilisearchConfig `yaml:"meilisearch" json:"meilisearch"`
	Redis       RedisConfig       `yaml:"redis" json:"redis"`
	Mongo       MongoConfig       `yaml:"mongo" json:"mongo"`
}

type MeilisearchConfig struct {
	Host      string `yaml:"host" json:"host"`
	APIKey    string `yaml:"api_key" json:"api_key"`
	IndexName string `yaml:"index_name" json:"index_name"`
}

type RedisConfig struct {
	URL string        `yaml:"url" json:"url"`
	TTL time.Duration `yaml:"ttl" json:"ttl"`
}

type MongoConfig struct {
	URI      string `yaml:"uri" json:"uri"`
	Database string `yaml:"database" json:"database"`
	L1Size   int    `yaml:"l1_size" json:"l1_size"`
}

// Default returns the built-in configuration, suitable as a base
// before applying a YAML file or environment overrides on top.
func Default() Config {
	return Config{
		EmbeddingDimension: 768,
		IndexTimeFieldWeights: FieldWeights{
			Content: 0.40, Name: 0.25, Location: 0.15, Service: 0.10, Target: 0.10,
		},
		QueryTimeAdaptiveDeltas: AdaptiveDeltas{
			Location: 0.20, Service: 0.15, Target: 0.10,
		},
		Retrieval: Retrieval{
			LexicalSaturation:   20,
			OverFetchMultiplier: 3,
			HardCap:             50,
			DefaultTopK:         10,
			MaxTopK:             50,
		},
		RAG: RAG{
			MaxContextTokens:     4000,
			GeneratorTemperature: 0.3,
			ConcurrencyLimit:     8,
			QueueSize:            16,
		},
		Timeouts: Timeouts{
			Request:   2500 * time.Millisecond,
			Embedding: 800 * time.Millisecond,
			Index:     800 * time.Millisecond,
			Generator: 1500 * time.Millisecond,
			Cache:     300 * time.Millisecond,
		},
		Meilisearch: MeilisearchConfig{
			Host:      "http://localhost:7700",
			IndexName: "vouchers",
		},
		Redis: RedisConfig{
			TTL: 5 * time.Minute,
		},
		Mongo: MongoConfig{
			Database: "voucher_discovery",
			L1Size:   2000,
		},
	}
}

// Load layers configuration: Default(), then a YAML file if present,
// then environment variables (DISCOVERY_MEILISEARCH_HOST and so on,
// via AutomaticEnv with a "_" key replacer). Everything is bound into
// a single returned struct rather than read through package-level
// viper state, so multiple configurations (e.g. in tests) don't
// collide.
func Load(path string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("discovery")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, cfg)

	// A missing config file is fine — defaults plus environment
	// overrides carry the service. Viper reports an explicitly-set file
	// that does not exist as a plain path error, not its
	// ConfigFileNotFoundError, so both are tolerated here.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	decodeOpt := func(dc *mapstructure.DecoderConfig) { dc.TagName = "yaml" }
	if err := v.Unmarshal(&cfg, viper.DecoderConfigOption(decodeOpt)); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults seeds Viper with Default()'s values so a partial YAML
// file or a single environment override never zeroes out the rest of
// the config.
func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("embedding_dimension", cfg.EmbeddingDimension)
	v.SetDefault("index_time_field_weights", cfg.IndexTimeFieldWeights)
	v.SetDefault("query_time_adaptive_deltas", cfg.QueryTimeAdaptiveDeltas)
	v.SetDefault("retrieval", cfg.Retrieval)
	v.SetDefault("rag", cfg.RAG)
	v.SetDefault("timeouts", cfg.Timeouts)
	v.SetDefault("meilisearch", cfg.Meilisearch)
	v.SetDefault("redis", cfg.Redis)
	v.SetDefault("mongo", cfg.Mongo)
}
