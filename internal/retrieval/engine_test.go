package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vnvoucher/discovery/app/config"
	"github.com/vnvoucher/discovery/app/models"
	"github.com/vnvoucher/discovery/internal/index"
	"go.uber.org/zap"
)

type fakeIndex struct {
	hits     []index.Hit
	queryErr error
	lastReq  index.QueryRequest
}

func (f *fakeIndex) Query(ctx context.Context, req index.QueryRequest) ([]index.Hit, error) {
	f.lastReq = req
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.hits, nil
}
func (f *fakeIndex) Upsert(ctx context.Context, doc index.Document) error { return nil }
func (f *fakeIndex) Delete(ctx context.Context, id string) error         { return nil }
func (f *fakeIndex) EnsureSchema(ctx context.Context) error              { return nil }

type fakeEmbedding struct {
	vec []float32
	err error
}

func (f *fakeEmbedding) Encode(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vec, nil
}
func (f *fakeEmbedding) Dimension() int { return 4 }

func testEngine(idx *fakeIndex, embed *fakeEmbedding) *Engine {
	cfg := config.Default()
	return New(idx, embed, cfg, zap.NewNop())
}

func TestEngine_Search_EmbeddingFailureIsEmbeddingUnavailable(t *testing.T) {
	idx := &fakeIndex{}
	embed := &fakeEmbedding{err: errors.New("embedding service down")}
	e := testEngine(idx, embed)

	_, _, err := e.Search(context.Background(), Request{Query: models.QueryComponents{Normalized: "nha hang"}, TopK: 10})
	require.Error(t, err)
	var modelErr *models.Error
	require.True(t, errors.As(err, &modelErr))
	assert.Equal(t, models.CodeEmbeddingUnavailable, modelErr.Code)
}

func TestEngine_Search_IndexFailureIsIndexUnavailable(t *testing.T) {
	idx := &fakeIndex{queryErr: errors.New("index down")}
	embed := &fakeEmbedding{vec: []float32{1, 0, 0, 0}}
	e := testEngine(idx, embed)

	_, _, err := e.Search(context.Background(), Request{Query: models.QueryComponents{Normalized: "nha hang"}, TopK: 10})
	require.Error(t, err)
	var modelErr *models.Error
	require.True(t, errors.As(err, &modelErr))
	assert.Equal(t, models.CodeIndexUnavailable, modelErr.Code)
}

func TestEngine_Search_NormalizesDenseAndLexicalScores(t *testing.T) {
	idx := &fakeIndex{hits: []index.Hit{
		{Doc: index.Document{ID: "v-1"}, DenseCosine: 1.0, HasDense: true, LexicalRaw: 0},
		{Doc: index.Document{ID: "v-2"}, DenseCosine: 0, HasDense: false, LexicalRaw: 10},
	}}
	embed := &fakeEmbedding{vec: []float32{1, 0, 0, 0}}
	e := testEngine(idx, embed)

	candidates, _, err := e.Search(context.Background(), Request{Query: models.QueryComponents{Normalized: "nha hang"}, TopK: 10})
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.InDelta(t, 1.0, candidates[0].Similarity, 1e-9)
	assert.InDelta(t, 0.5, candidates[1].Similarity, 1e-9)
}

func TestEngine_SelectField_AdaptsToLocationAndService(t *testing.T) {
	idx := &fakeIndex{}
	embed := &fakeEmbedding{vec: []float32{1, 0, 0, 0}}
	e := testEngine(idx, embed)

	field, weights := e.selectField(Request{Query: models.QueryComponents{Intent: models.IntentFindRestaurant, Location: "Hà Nội"}})
	assert.Equal(t, models.FieldLocation, field)
	assert.Greater(t, weights[models.FieldLocation], e.cfg.IndexTimeFieldWeights.Location)
}

func TestEngine_SelectField_VectorOnlyUsesCombined(t *testing.T) {
	idx := &fakeIndex{}
	embed := &fakeEmbedding{vec: []float32{1, 0, 0, 0}}
	e := testEngine(idx, embed)

	field, _ := e.selectField(Request{Query: models.QueryComponents{Intent: models.IntentFindRestaurant, Location: "Hà Nội"}, VectorOnly: true})
	assert.Equal(t, models.FieldCombined, field)
}

func TestEngine_Search_OverFetchRespectsHardCap(t *testing.T) {
	idx := &fakeIndex{}
	embed := &fakeEmbedding{vec: []float32{1, 0, 0, 0}}
	e := testEngine(idx, embed)
	e.cfg.Retrieval.HardCap = 15

	_, _, err := e.Search(context.Background(), Request{Query: models.QueryComponents{Normalized: "x"}, TopK: 10})
	require.NoError(t, err)
	assert.Equal(t, 15, idx.lastReq.Size)
}
