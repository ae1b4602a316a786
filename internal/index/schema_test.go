package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vnvoucher/discovery/app/models"
)

func TestFromVoucher_CopiesAllFields(t *testing.T) {
	price := 250_000.0
	v := models.Voucher{
		ID:       "v-1",
		Name:     "Nhà hàng Biển Đông",
		Content:  "hải sản tươi sống",
		Location: "Hải Phòng",
		District:  "Ngô Quyền",
		Region:    "North",
		Service: models.Service{
			Category:       "restaurant",
			Tags:           []string{"seafood", "family"},
			HasKidsArea:    true,
			RestaurantType: "buffet",
		},
		TargetAudience:   "family",
		Price:            &price,
		PriceRange:       models.PriceRangeMid,
		DataQualityScore: 0.9,
		Embeddings: map[string][]float32{
			models.FieldContent:  {1, 0, 0, 0},
			models.FieldLocation: {0, 1, 0, 0},
			models.FieldCombined: {0, 0, 1, 0},
		},
	}

	doc := FromVoucher(v)
	assert.Equal(t, "v-1", doc.ID)
	assert.Equal(t, "Hải Phòng", doc.Location)
	assert.Equal(t, "restaurant", doc.ServiceCategory)
	assert.ElementsMatch(t, []string{"seafood", "family"}, doc.ServiceTags)
	assert.True(t, doc.HasKidsArea)
	assert.Equal(t, "buffet", doc.RestaurantType)
	assert.Equal(t, []float32{1, 0, 0, 0}, doc.ContentEmb)
	assert.Equal(t, []float32{0, 1, 0, 0}, doc.LocationEmb)
	assert.Equal(t, []float32{0, 0, 1, 0}, doc.CombinedEmb)
	assert.Nil(t, doc.ServiceEmb)
	assert.Nil(t, doc.TargetEmb)
}

func TestDenseFieldName(t *testing.T) {
	cases := map[string]string{
		models.FieldLocation: "location_emb",
		models.FieldService:  "service_emb",
		models.FieldTarget:   "target_emb",
		models.FieldCombined: "combined_emb",
		models.FieldContent:  "combined_emb",
		"anything-else":      "combined_emb",
	}
	for field, want := range cases {
		assert.Equal(t, want, DenseFieldName(field), "field=%s", field)
	}
}
