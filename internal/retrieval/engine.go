// Package retrieval assembles and executes the hybrid lexical+dense
// query against the voucher index under intent-adaptive field
// selection and weights, then normalizes each hit's score to [0,1].
package retrieval

import (
	"context"

	"github.com/vnvoucher/discovery/app/config"
	"github.com/vnvoucher/discovery/app/models"
	"github.com/vnvoucher/discovery/internal/embedding"
	"github.com/vnvoucher/discovery/internal/index"
	"go.uber.org/zap"
)

// Candidate is one scored hit, pre-geographic-boost, carrying
// everything the re-ranker needs.
type Candidate struct {
	Doc             index.Document
	RawDense        float64 // cosine in [-1,1]; 0 if HasDense is false
	HasDense        bool
	RawLexical      float64 // raw lexical score from the index, before saturation
	Similarity      float64 // max(dense-normalized, lexical-normalized), pre-boost
}

// Request is the retrieval engine's input.
type Request struct {
	Query      models.QueryComponents
	TopK       int
	Filters    models.Filters
	VectorOnly bool // mode=vector: skip adaptive field selection, use combined_emb
}

// Strategy records the field-selection and weight choices for the
// response's search_strategy field.
type Strategy struct {
	DenseField     string
	AppliedWeights map[string]float64
	Filters        map[string]string
}

// Engine runs hybrid retrieval over an Index and an embedding
// Provider.
type Engine struct {
	index  index.Index
	embed  embedding.Provider
	cfg    config.Config
	logger *zap.Logger
}

func New(idx index.Index, embed embedding.Provider, cfg config.Config, logger *zap.Logger) *Engine {
	return &Engine{index: idx, embed: embed, cfg: cfg, logger: logger}
}

// Search picks the dense field, embeds the query, runs one hybrid
// index query over-fetched for the re-ranker, and returns the
// normalized but not yet geographically re-ranked candidate list.
func (e *Engine) Search(ctx context.Context, req Request) ([]Candidate, Strategy, error) {
	denseField, weights := e.selectField(req)

	qVector, err := e.embed.Encode(ctx, req.Query.Normalized)
	if err != nil {
		e.logger.Warn("embedding provider failed", zap.Error(err))
		return nil, Strategy{}, models.NewEmbeddingUnavailable(err)
	}

	filterMap := buildFilterMap(req.Filters)

	size := req.TopK * e.cfg.Retrieval.OverFetchMultiplier
	if size > e.cfg.Retrieval.HardCap {
		size = e.cfg.Retrieval.HardCap
	}
	if size < req.TopK {
		size = req.TopK
	}

	hits, err := e.index.Query(ctx, index.QueryRequest{
		QueryText:   req.Query.Normalized,
		Keywords:    queryKeywords(req.Query),
		QueryVector: qVector,
		DenseField:  index.DenseFieldName(denseField),
		Filters:     filterMap,
		Size:        size,
	})
	if err != nil {
		e.logger.Error("index query failed", zap.Error(err))
		return nil, Strategy{}, models.NewIndexUnavailable(err)
	}

	candidates := make([]Candidate, 0, len(hits))
	for _, h := range hits {
		candidates = append(candidates, normalizeHit(h, e.cfg.Retrieval.LexicalSaturation))
	}

	return candidates, Strategy{DenseField: denseField, AppliedWeights: weights, Filters: filterMap}, nil
}

// selectField chooses the dense field to score against based on
// intent, and computes the adaptive weight table attached to the
// response's search_strategy.
func (e *Engine) selectField(req Request) (string, map[string]float64) {
	weights := map[string]float64{
		models.FieldContent:  e.cfg.IndexTimeFieldWeights.Content,
		models.FieldName:     e.cfg.IndexTimeFieldWeights.Name,
		models.FieldLocation: e.cfg.IndexTimeFieldWeights.Location,
		models.FieldService:  e.cfg.IndexTimeFieldWeights.Service,
		models.FieldTarget:   e.cfg.IndexTimeFieldWeights.Target,
	}

	if req.Query.HasLocation() {
		weights[models.FieldLocation] += e.cfg.QueryTimeAdaptiveDeltas.Location
	}
	if req.Query.HasServiceRequirements() {
		weights[models.FieldService] += e.cfg.QueryTimeAdaptiveDeltas.Service
	}
	if req.Query.HasTargetAudience() {
		weights[models.FieldTarget] += e.cfg.QueryTimeAdaptiveDeltas.Target
	}

	if req.VectorOnly {
		return models.FieldCombined, weights
	}

	switch {
	case req.Query.Intent == models.IntentFindKids || req.Query.Intent == models.IntentGeneral:
		return models.FieldCombined, weights
	case req.Query.HasLocation() && !req.Query.HasServiceRequirements():
		return models.FieldLocation, weights
	case req.Query.HasServiceRequirements():
		return models.FieldService, weights
	default:
		return models.FieldCombined, weights
	}
}

// normalizeHit maps both score scales into [0,1] — dense as
// (cosine+1)/2, lexical saturating at lexicalSaturation — and keeps
// the larger as the pre-boost similarity.
func normalizeHit(h index.Hit, lexicalSaturation float64) Candidate {
	c := Candidate{
		Doc:        h.Doc,
		RawDense:   h.DenseCosine,
		HasDense:   h.HasDense,
		RawLexical: h.LexicalRaw,
	}

	lexicalNorm := 0.0
	if lexicalSaturation > 0 {
		lexicalNorm = h.LexicalRaw / lexicalSaturation
		if lexicalNorm > 1 {
			lexicalNorm = 1
		}
	}

	denseNorm := 0.0
	if h.HasDense {
		denseNorm = (h.DenseCosine + 1) / 2
	}

	if h.HasDense && denseNorm > lexicalNorm {
		c.Similarity = denseNorm
	} else {
		c.Similarity = lexicalNorm
	}
	return c
}

func queryKeywords(qc models.QueryComponents) []string {
	keywords := append([]string{}, qc.Keywords...)
	if qc.Location != "" {
		keywords = append(keywords, qc.Location)
	}
	keywords = append(keywords, qc.ServiceRequirements...)
	return keywords
}

func buildFilterMap(f models.Filters) map[string]string {
	m := map[string]string{}
	if f.Location != "" {
		m["location"] = f.Location
	}
	if f.Service != "" {
		m["service_category"] = f.Service
	}
	if f.PriceRange != "" {
		m["price_range"] = f.PriceRange
	}
	return m
}
