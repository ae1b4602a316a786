// Package facade is the single public entry point of the discovery
// engine: it dispatches on mode (vector, hybrid, rag), orchestrates
// the pipeline, and enforces the response contract. The façade is a
// plain Go API usable with no transport layer at all; HTTP is glue
// around it, not part of it.
package facade

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vnvoucher/discovery/app/config"
	"github.com/vnvoucher/discovery/app/models"
	"github.com/vnvoucher/discovery/internal/cache"
	"github.com/vnvoucher/discovery/internal/normalizer"
	"github.com/vnvoucher/discovery/internal/parser"
	"github.com/vnvoucher/discovery/internal/rag"
	"github.com/vnvoucher/discovery/internal/rerank"
	"github.com/vnvoucher/discovery/internal/retrieval"
	"go.uber.org/zap"
)

// Facade wires the pipeline components together behind Search. It
// also owns the RAG backpressure gate.
type Facade struct {
	normalizer *normalizer.TextNormalizer
	parser     *parser.Parser
	engine     *retrieval.Engine
	reranker   *rerank.Reranker
	composer   *rag.Composer
	cache      cache.SearchResponseCache
	cfg        config.Config
	logger     *zap.Logger

	ragSem   chan struct{}
	ragQueue chan struct{}
}

func New(
	p *parser.Parser,
	engine *retrieval.Engine,
	reranker *rerank.Reranker,
	composer *rag.Composer,
	respCache cache.SearchResponseCache,
	cfg config.Config,
	logger *zap.Logger,
) *Facade {
	return &Facade{
		normalizer: normalizer.New(),
		parser:     p,
		engine:     engine,
		reranker:   reranker,
		composer:   composer,
		cache:      respCache,
		cfg:        cfg,
		logger:     logger,
		ragSem:     make(chan struct{}, cfg.RAG.ConcurrencyLimit),
		ragQueue:   make(chan struct{}, cfg.RAG.QueueSize),
	}
}

// Search runs the full pipeline for one request: validate, cache
// check, parse, retrieve, re-rank, and — in rag mode — compose an
// answer.
func (f *Facade) Search(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error) {
	start := time.Now()

	if err := f.validateRequest(&req); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeouts.Request)
	defer cancel()

	key := cacheKey(req)
	if f.cache != nil {
		if cached, found, err := f.cache.Get(ctx, key); err == nil && found {
			return cached, nil
		} else if err != nil {
			f.logger.Warn("search response cache get failed", zap.Error(err))
		}
	}

	qc := f.components(req)

	candidates, strategy, err := f.engine.Search(ctx, retrieval.Request{
		Query:      qc,
		TopK:       req.TopK,
		Filters:    req.Filters,
		VectorOnly: req.Mode == models.ModeVector,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, models.NewDeadlineExceeded("request deadline reached during retrieval")
		}
		return nil, err
	}

	searchMethod := req.Mode
	results := f.reranker.Rerank(candidates, qc, rerank.Options{
		StrictLocation: req.StrictLocation,
		MinScore:       req.MinScore,
		TopK:           req.TopK,
		SearchMethod:   searchMethod,
	})

	resp := &models.SearchResponse{
		Query: req.Query,
		Mode:  req.Mode,
		Results: results,
		Metadata: models.Metadata{
			TotalResults:       len(results),
			SearchMethod:       searchMethod,
			EmbeddingDimension: f.cfg.EmbeddingDimension,
		},
	}

	if req.Mode != models.ModeVector {
		resp.ParsedComponents = &qc
		resp.SearchStrategy = &models.SearchStrategy{
			DenseField:     strategy.DenseField,
			AppliedWeights: strategy.AppliedWeights,
			Filters:        req.Filters,
			StrictLocation: req.StrictLocation,
		}
		resp.Explanations = explanations(qc, results)
	}

	if req.Mode == models.ModeRAG {
		if err := f.compose(ctx, qc, results, resp); err != nil {
			return nil, err
		}
	}

	resp.Metadata.ProcessingTimeMs = time.Since(start).Milliseconds()

	if f.cache != nil {
		if err := f.cache.Set(ctx, key, resp); err != nil {
			f.logger.Warn("search response cache set failed", zap.Error(err))
		}
	}

	return resp, nil
}

// compose runs the RAG composer under the concurrency gate. If the
// request deadline expires mid-generation the answer is discarded and
// the response keeps the hybrid results, tagged as a fallback.
func (f *Facade) compose(ctx context.Context, qc models.QueryComponents, results []models.SearchResult, resp *models.SearchResponse) error {
	release, err := f.acquireRAGSlot(ctx)
	if err != nil {
		return err
	}
	defer release()

	answer := f.composer.Compose(ctx, qc, results)

	if ctx.Err() != nil {
		resp.Metadata.SearchMethod = models.SearchMethodRAGFallback
		resp.Metadata.Degraded = true
		resp.Metadata.FailedComponent = "rag_composer"
		return nil
	}

	resp.Answer = answer.Text
	resp.Confidence = answer.Confidence
	if answer.UsedFallback {
		resp.Metadata.SearchMethod = models.SearchMethodRAGFallback
		resp.Metadata.Degraded = true
		resp.Metadata.FailedComponent = "rag_generator"
	} else {
		resp.Metadata.SearchMethod = models.SearchMethodRAG
	}
	return nil
}

// acquireRAGSlot applies backpressure: try a running slot first; if
// none is free, try to reserve a queue slot and wait for a running
// slot to open; if the queue itself is full, reject with Overloaded
// rather than let requests pile up unbounded.
func (f *Facade) acquireRAGSlot(ctx context.Context) (func(), error) {
	select {
	case f.ragSem <- struct{}{}:
		return func() { <-f.ragSem }, nil
	default:
	}

	select {
	case f.ragQueue <- struct{}{}:
	default:
		return nil, models.NewOverloaded("rag concurrency limit reached and queue is full")
	}
	defer func() { <-f.ragQueue }()

	select {
	case f.ragSem <- struct{}{}:
		return func() { <-f.ragSem }, nil
	case <-ctx.Done():
		return nil, models.NewDeadlineExceeded("request deadline reached while queued for rag generation")
	}
}

// components takes the mode=vector shortcut — normalization only,
// intent forced to general, nothing else parsed — and runs the full
// parser for the other modes.
func (f *Facade) components(req models.SearchRequest) models.QueryComponents {
	if req.Mode == models.ModeVector {
		norm := f.normalizer.Normalize(req.Query)
		return models.QueryComponents{
			Original:   req.Query,
			Normalized: norm.Normalized,
			Stripped:   norm.Stripped,
			Intent:     models.IntentGeneral,
		}
	}
	return f.parser.Parse(req.Query)
}

func (f *Facade) validateRequest(req *models.SearchRequest) error {
	// Length is judged on the normalized form, so a query that is all
	// noise punctuation fails the same way an empty one does.
	if utf8.RuneCountInString(f.normalizer.Normalize(req.Query).Normalized) < 2 {
		return models.NewBadRequest("query must be at least 2 characters after normalization")
	}
	switch req.Mode {
	case "":
		req.Mode = models.ModeHybrid
	case models.ModeVector, models.ModeHybrid, models.ModeRAG:
	default:
		return models.NewBadRequest(fmt.Sprintf("unknown mode %q", req.Mode))
	}
	if req.TopK == 0 {
		req.TopK = f.cfg.Retrieval.DefaultTopK
	}
	if req.TopK < 1 || req.TopK > f.cfg.Retrieval.MaxTopK {
		return models.NewBadRequest(fmt.Sprintf("top_k must be between 1 and %d", f.cfg.Retrieval.MaxTopK))
	}
	if req.MinScore < 0 || req.MinScore > 1 {
		return models.NewBadRequest("min_score must be between 0 and 1")
	}
	return nil
}

func cacheKey(req models.SearchRequest) string {
	return fmt.Sprintf("%s|%s|%d|%s|%s|%s|%v|%.2f",
		strings.ToLower(strings.TrimSpace(req.Query)), req.Mode, req.TopK,
		req.Filters.Location, req.Filters.Service, req.Filters.PriceRange,
		req.StrictLocation, req.MinScore)
}

// explanations derives one mechanical sentence per result, naming
// the parser's location/service read and the re-ranker's chosen
// factor.
func explanations(qc models.QueryComponents, results []models.SearchResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, explainResult(qc, r))
	}
	return out
}

func explainResult(qc models.QueryComponents, r models.SearchResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: độ phù hợp %.2f theo %s", r.VoucherName, r.SimilarityScore, rankingFactorLabel(r.RankingFactor))
	if qc.HasLocation() {
		fmt.Fprintf(&sb, ", vị trí yêu cầu %q khớp với %q", qc.Location, r.Location)
	}
	if qc.HasServiceRequirements() {
		fmt.Fprintf(&sb, ", dịch vụ yêu cầu: %s", strings.Join(qc.ServiceRequirements, ", "))
	}
	sb.WriteString(".")
	return sb.String()
}

func rankingFactorLabel(factor string) string {
	switch factor {
	case models.RankingExactLocation:
		return "khớp chính xác địa điểm"
	case models.RankingNearbyLocation:
		return "địa điểm lân cận"
	case models.RankingRegionalMatch:
		return "cùng khu vực"
	default:
		return "mức độ tương đồng ngữ nghĩa"
	}
}

// Stats is the operational snapshot surfaced on the admin endpoint.
type Stats struct {
	CacheStats *cache.Stats `json:"cache_stats,omitempty"`
}

func (f *Facade) Stats(ctx context.Context) Stats {
	s := Stats{}
	if f.cache != nil {
		if stats, err := f.cache.GetStats(ctx); err == nil {
			s.CacheStats = stats
		}
	}
	return s
}
