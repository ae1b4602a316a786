package rerank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vnvoucher/discovery/app/models"
	"github.com/vnvoucher/discovery/internal/index"
	"github.com/vnvoucher/discovery/internal/location"
	"github.com/vnvoucher/discovery/internal/retrieval"
)

func testRegistry() *location.Registry {
	return location.New(location.DefaultEntries())
}

func candidate(id, loc, content string, similarity float64) retrieval.Candidate {
	return retrieval.Candidate{
		Doc: index.Document{
			ID:       id,
			Name:     id,
			Content:  content,
			Location: loc,
		},
		Similarity: similarity,
	}
}

func TestRerank_ExactLocationBoostOutranksNoMatch(t *testing.T) {
	r := New(testRegistry())
	qc := models.QueryComponents{Location: "Hà Nội"}
	candidates := []retrieval.Candidate{
		candidate("v-far", "Hồ Chí Minh", "mô tả không liên quan", 0.60),
		candidate("v-exact", "Hà Nội", "mô tả ở trung tâm", 0.50),
	}

	results := r.Rerank(candidates, qc, Options{SearchMethod: models.SearchMethodHybrid})
	require.Len(t, results, 2)
	assert.Equal(t, "v-exact", results[0].VoucherID)
	assert.Equal(t, models.RankingExactLocation, results[0].RankingFactor)
	assert.InDelta(t, 0.5*1.60, results[0].SimilarityScore, 1e-9)
}

func TestRerank_ScoreClampedToOne(t *testing.T) {
	r := New(testRegistry())
	qc := models.QueryComponents{Location: "Hà Nội"}
	candidates := []retrieval.Candidate{
		candidate("v-1", "Hà Nội", "mô tả", 0.90),
	}
	results := r.Rerank(candidates, qc, Options{SearchMethod: models.SearchMethodHybrid})
	require.Len(t, results, 1)
	assert.Equal(t, 1.0, results[0].SimilarityScore)
}

func TestRerank_NeighborBoostBetweenExactAndRegional(t *testing.T) {
	r := New(testRegistry())
	qc := models.QueryComponents{Location: "Hồ Chí Minh"}
	candidates := []retrieval.Candidate{
		candidate("v-neighbor", "Vũng Tàu", "mô tả", 0.50),
	}
	results := r.Rerank(candidates, qc, Options{SearchMethod: models.SearchMethodHybrid})
	require.Len(t, results, 1)
	assert.Equal(t, models.RankingNearbyLocation, results[0].RankingFactor)
	assert.InDelta(t, 0.5*1.15, results[0].SimilarityScore, 1e-9)
}

func TestRerank_StrictLocationFiltersNonMatches(t *testing.T) {
	r := New(testRegistry())
	qc := models.QueryComponents{Location: "Hà Nội"}
	candidates := []retrieval.Candidate{
		candidate("v-exact", "Hà Nội", "mô tả", 0.40),
		candidate("v-other", "Cần Thơ", "mô tả", 0.95),
	}
	results := r.Rerank(candidates, qc, Options{StrictLocation: true, SearchMethod: models.SearchMethodHybrid})
	require.Len(t, results, 1)
	assert.Equal(t, "v-exact", results[0].VoucherID)
}

func TestRerank_MinScoreFiltersLowResults(t *testing.T) {
	r := New(testRegistry())
	qc := models.QueryComponents{}
	candidates := []retrieval.Candidate{
		candidate("v-low", "unknown", "mô tả", 0.10),
		candidate("v-high", "unknown", "mô tả", 0.80),
	}
	results := r.Rerank(candidates, qc, Options{MinScore: 0.5, SearchMethod: models.SearchMethodHybrid})
	require.Len(t, results, 1)
	assert.Equal(t, "v-high", results[0].VoucherID)
}

func TestRerank_TieBreakChain(t *testing.T) {
	r := New(testRegistry())
	qc := models.QueryComponents{}
	a := candidate("v-b", "unknown", "x", 0.5)
	a.Doc.DataQualityScore = 0.9
	b := candidate("v-a", "unknown", "x", 0.5)
	b.Doc.DataQualityScore = 0.9

	results := r.Rerank([]retrieval.Candidate{a, b}, qc, Options{SearchMethod: models.SearchMethodHybrid})
	require.Len(t, results, 2)
	assert.Equal(t, "v-a", results[0].VoucherID)
	assert.Equal(t, "v-b", results[1].VoucherID)
}

func TestRerank_TopKTruncates(t *testing.T) {
	r := New(testRegistry())
	qc := models.QueryComponents{}
	candidates := []retrieval.Candidate{
		candidate("v-1", "unknown", "x", 0.9),
		candidate("v-2", "unknown", "x", 0.8),
		candidate("v-3", "unknown", "x", 0.7),
	}
	results := r.Rerank(candidates, qc, Options{TopK: 2, SearchMethod: models.SearchMethodHybrid})
	assert.Len(t, results, 2)
}
