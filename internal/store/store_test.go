package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vnvoucher/discovery/app/models"
	"github.com/vnvoucher/discovery/internal/index"
	"github.com/vnvoucher/discovery/internal/location"
	"go.uber.org/zap"
)

func testRegistry() *location.Registry {
	return location.New(location.DefaultEntries())
}

type fakeIndex struct {
	upserted  []index.Document
	upsertErr error
	deleted   []string
	deleteErr error
}

func (f *fakeIndex) Query(ctx context.Context, req index.QueryRequest) ([]index.Hit, error) {
	return nil, nil
}
func (f *fakeIndex) Upsert(ctx context.Context, doc index.Document) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, doc)
	return nil
}
func (f *fakeIndex) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}
func (f *fakeIndex) EnsureSchema(ctx context.Context) error { return nil }

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Dimension() int { return 4 }

func (f *fakeEmbedder) Encode(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	// Deterministic unit vector derived from the text so different
	// fields never collide.
	v := make([]float32, 4)
	v[len(text)%4] = 1
	return v, nil
}

func TestStore_Upsert_FillsMissingEmbeddingsAndComputesCombined(t *testing.T) {
	idx := &fakeIndex{}
	s := New(idx, &fakeEmbedder{}, testRegistry(), zap.NewNop())

	v := models.Voucher{
		ID:      "v-1",
		Name:    "Nhà hàng Biển Đông",
		Content: "quán ăn hải sản tươi sống",
		Location: "Hải Phòng",
	}

	err := s.Upsert(context.Background(), v)
	require.NoError(t, err)
	require.Len(t, idx.upserted, 1)

	doc := idx.upserted[0]
	assert.Equal(t, "v-1", doc.ID)
	require.Len(t, doc.CombinedEmb, 4)

	var norm float64
	for _, x := range doc.CombinedEmb {
		norm += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, norm, 1e-6)
}

func TestStore_Upsert_DoesNotRecomputeExistingEmbeddings(t *testing.T) {
	idx := &fakeIndex{}
	s := New(idx, &fakeEmbedder{}, testRegistry(), zap.NewNop())

	preset := []float32{0, 1, 0, 0}
	v := models.Voucher{
		ID:      "v-2",
		Name:    "Khách sạn",
		Content: "mô tả",
		Embeddings: map[string][]float32{
			models.FieldContent: preset,
		},
	}

	err := s.Upsert(context.Background(), v)
	require.NoError(t, err)
	require.Len(t, idx.upserted, 1)
	assert.Equal(t, preset, idx.upserted[0].ContentEmb)
}

func TestStore_Upsert_EmbeddingFailureIsEmbeddingUnavailable(t *testing.T) {
	idx := &fakeIndex{}
	s := New(idx, &fakeEmbedder{err: errors.New("encoder down")}, testRegistry(), zap.NewNop())

	v := models.Voucher{ID: "v-3", Name: "X", Content: "mô tả"}
	err := s.Upsert(context.Background(), v)
	require.Error(t, err)

	var modelErr *models.Error
	require.True(t, errors.As(err, &modelErr))
	assert.Equal(t, models.CodeEmbeddingUnavailable, modelErr.Code)
}

func TestStore_Upsert_MissingNameIsInvalidDocument(t *testing.T) {
	idx := &fakeIndex{}
	s := New(idx, &fakeEmbedder{}, testRegistry(), zap.NewNop())

	v := models.Voucher{ID: "v-4", Content: "mô tả"}
	err := s.Upsert(context.Background(), v)
	require.Error(t, err)

	var modelErr *models.Error
	require.True(t, errors.As(err, &modelErr))
	assert.Equal(t, models.CodeInvalidDocument, modelErr.Code)
}

func TestStore_Upsert_DefaultsUnknownLocationAndPriceRange(t *testing.T) {
	idx := &fakeIndex{}
	s := New(idx, &fakeEmbedder{}, testRegistry(), zap.NewNop())

	v := models.Voucher{ID: "v-5", Name: "X", Content: "mô tả"}
	err := s.Upsert(context.Background(), v)
	require.NoError(t, err)
	require.Len(t, idx.upserted, 1)
	assert.Equal(t, models.LocationUnknown, idx.upserted[0].Location)
	assert.Equal(t, models.PriceRangeUnknown, idx.upserted[0].PriceRange)
}

func TestStore_Upsert_RejectsNonCanonicalLocation(t *testing.T) {
	idx := &fakeIndex{}
	s := New(idx, &fakeEmbedder{}, testRegistry(), zap.NewNop())

	cases := []string{"hanoi", "tp hcm", "Atlantis"}
	for _, loc := range cases {
		v := models.Voucher{ID: "v-6", Name: "X", Content: "mô tả", Location: loc}
		err := s.Upsert(context.Background(), v)
		require.Error(t, err, "location %q", loc)

		var modelErr *models.Error
		require.True(t, errors.As(err, &modelErr))
		assert.Equal(t, models.CodeInvalidDocument, modelErr.Code)
	}
	assert.Empty(t, idx.upserted)
}

func TestStore_Upsert_AcceptsCanonicalAndUnknownLocation(t *testing.T) {
	idx := &fakeIndex{}
	s := New(idx, &fakeEmbedder{}, testRegistry(), zap.NewNop())

	for _, loc := range []string{"Hà Nội", models.LocationUnknown} {
		v := models.Voucher{ID: "v-7", Name: "X", Content: "mô tả", Location: loc}
		require.NoError(t, s.Upsert(context.Background(), v), "location %q", loc)
	}
	assert.Len(t, idx.upserted, 2)
}

func TestStore_UpsertBatch_StopsAtFirstError(t *testing.T) {
	idx := &fakeIndex{}
	s := New(idx, &fakeEmbedder{}, testRegistry(), zap.NewNop())

	vouchers := []models.Voucher{
		{ID: "v-1", Name: "A", Content: "mô tả a"},
		{ID: "v-2", Content: "mô tả b"}, // missing name, fails validation
		{ID: "v-3", Name: "C", Content: "mô tả c"},
	}

	written, err := s.UpsertBatch(context.Background(), vouchers)
	require.Error(t, err)
	assert.Equal(t, 1, written)
	assert.Len(t, idx.upserted, 1)
}

func TestStore_UpsertBatch_WritesAllOnSuccess(t *testing.T) {
	idx := &fakeIndex{}
	s := New(idx, &fakeEmbedder{}, testRegistry(), zap.NewNop())

	vouchers := []models.Voucher{
		{ID: "v-1", Name: "A", Content: "mô tả a"},
		{ID: "v-2", Name: "B", Content: "mô tả b"},
	}

	written, err := s.UpsertBatch(context.Background(), vouchers)
	require.NoError(t, err)
	assert.Equal(t, 2, written)
	assert.Len(t, idx.upserted, 2)
}

func TestStore_Delete_WrapsIndexFailure(t *testing.T) {
	idx := &fakeIndex{deleteErr: errors.New("down")}
	s := New(idx, &fakeEmbedder{}, testRegistry(), zap.NewNop())

	err := s.Delete(context.Background(), "v-1")
	require.Error(t, err)
	var modelErr *models.Error
	require.True(t, errors.As(err, &modelErr))
	assert.Equal(t, models.CodeIndexUnavailable, modelErr.Code)
}
