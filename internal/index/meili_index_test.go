package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldVector_FallsBackToCombinedPerDocument(t *testing.T) {
	doc := Document{
		LocationEmb: []float32{0, 1, 0},
		CombinedEmb: []float32{1, 0, 0},
	}

	assert.Equal(t, []float32{0, 1, 0}, fieldVector(doc, "location_emb"))

	// service_emb and target_emb are absent on this voucher: it must
	// still be dense-scored, against its own combined vector.
	assert.Equal(t, []float32{1, 0, 0}, fieldVector(doc, "service_emb"))
	assert.Equal(t, []float32{1, 0, 0}, fieldVector(doc, "target_emb"))

	assert.Equal(t, []float32{1, 0, 0}, fieldVector(doc, "combined_emb"))
}

func TestFieldVector_NilWhenDocumentHasNoVectors(t *testing.T) {
	assert.Nil(t, fieldVector(Document{}, "service_emb"))
}

func TestLexicalScore_NameWeighedOverContent(t *testing.T) {
	score := lexicalScore([]string{"buffet"}, "Buffet hải sản", "buffet tối thứ sáu")
	assert.Equal(t, 4.0, score)

	score = lexicalScore([]string{"buffet", "toi"}, "Nhà hàng", "thực đơn buffet")
	assert.Equal(t, 1.0, score)

	assert.Equal(t, 0.0, lexicalScore(nil, "Nhà hàng", "thực đơn"))
}

func TestBuildFilter(t *testing.T) {
	assert.Equal(t, "", buildFilter(nil))
	assert.Equal(t, `location = "Hà Nội"`, buildFilter(map[string]string{"location": "Hà Nội"}))
}

func TestDot_MismatchedLengthsScoreZero(t *testing.T) {
	assert.Equal(t, 0.0, dot([]float32{1, 0}, []float32{1, 0, 0}))
	assert.InDelta(t, 1.0, dot([]float32{1, 0, 0}, []float32{1, 0, 0}), 1e-9)
}
