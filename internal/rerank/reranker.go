// Package rerank applies geographic re-ranking to the retrieval
// engine's candidate list: multiplicative location-based boosting,
// clamping, and deterministic tie-break sorting.
package rerank

import (
	"sort"
	"strings"

	"github.com/vnvoucher/discovery/app/models"
	"github.com/vnvoucher/discovery/internal/location"
	"github.com/vnvoucher/discovery/internal/retrieval"
)

// Options controls the optional behaviors of Rerank.
type Options struct {
	StrictLocation bool
	MinScore       float64
	TopK           int
	SearchMethod   string
}

// Reranker boosts and re-sorts candidates against a location
// registry.
type Reranker struct {
	registry *location.Registry
}

func New(registry *location.Registry) *Reranker {
	return &Reranker{registry: registry}
}

// Rerank implements the full algorithm: boost, clamp, filter (strict
// location then min_score), sort with tie-break, truncate to top_k.
func (r *Reranker) Rerank(candidates []retrieval.Candidate, qc models.QueryComponents, opts Options) []models.SearchResult {
	results := make([]models.SearchResult, 0, len(candidates))

	for _, c := range candidates {
		score, factor := r.boost(c, qc)
		if score > 1 {
			score = 1
		}
		if score < 0 {
			score = 0
		}

		if opts.StrictLocation && qc.HasLocation() && !r.matchesStrictLocation(c.Doc.Location, qc.Location) {
			continue
		}
		if score < opts.MinScore {
			continue
		}

		results = append(results, toSearchResult(c, score, factor, opts.SearchMethod))
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.SimilarityScore != b.SimilarityScore {
			return a.SimilarityScore > b.SimilarityScore
		}
		if a.RawDenseScore != b.RawDenseScore {
			return a.RawDenseScore > b.RawDenseScore
		}
		if a.DataQualityScore != b.DataQualityScore {
			return a.DataQualityScore > b.DataQualityScore
		}
		return a.VoucherID < b.VoucherID
	})

	if opts.TopK > 0 && len(results) > opts.TopK {
		results = results[:opts.TopK]
	}
	return results
}

// boost applies the ordered multiplicative rules: exact canonical
// match ×1.60, surface form in content ×1.30, neighbor ×1.15, same
// region ×1.05. A voucher with unknown location never gets a boost.
func (r *Reranker) boost(c retrieval.Candidate, qc models.QueryComponents) (float64, string) {
	if !qc.HasLocation() {
		return c.Similarity, models.RankingSemanticMatch
	}
	if c.Doc.Location == models.LocationUnknown {
		return c.Similarity, models.RankingSemanticMatch
	}

	switch {
	case c.Doc.Location == qc.Location:
		return c.Similarity * 1.60, models.RankingExactLocation
	case r.registry.ContainsSurfaceForm(c.Doc.Content, qc.Location):
		return c.Similarity * 1.30, models.RankingSemanticMatch
	case r.registry.IsNeighbor(qc.Location, c.Doc.Location):
		return c.Similarity * 1.15, models.RankingNearbyLocation
	case r.registry.RegionOf(c.Doc.Location) != "" && r.registry.RegionOf(c.Doc.Location) == r.registry.RegionOf(qc.Location):
		return c.Similarity * 1.05, models.RankingRegionalMatch
	default:
		return c.Similarity, models.RankingSemanticMatch
	}
}

// matchesStrictLocation implements strict-location mode: only
// canonical or neighbor-level matches survive.
func (r *Reranker) matchesStrictLocation(voucherLocation, queryLocation string) bool {
	if voucherLocation == queryLocation {
		return true
	}
	return r.registry.IsNeighbor(queryLocation, voucherLocation)
}

func toSearchResult(c retrieval.Candidate, score float64, factor, searchMethod string) models.SearchResult {
	d := c.Doc
	return models.SearchResult{
		VoucherID:      d.ID,
		VoucherName:    d.Name,
		ContentSnippet: snippet(d.Content, 200),
		Location:       d.Location,
		ServiceInfo: models.ServiceInfo{
			Category:    d.ServiceCategory,
			Tags:        d.ServiceTags,
			HasKidsArea: d.HasKidsArea,
		},
		PriceInfo: models.PriceInfo{
			Amount:     d.Price,
			PriceRange: d.PriceRange,
		},
		TargetAudience:   d.TargetAudience,
		SimilarityScore:  score,
		RawScore:         c.Similarity,
		RawDenseScore:    c.RawDense,
		RankingFactor:    factor,
		SearchMethod:     searchMethod,
		DataQualityScore: d.DataQualityScore,
	}
}

func snippet(content string, maxRunes int) string {
	r := []rune(strings.TrimSpace(content))
	if len(r) <= maxRunes {
		return string(r)
	}
	return string(r[:maxRunes]) + "…"
}
