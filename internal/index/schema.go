// Package index implements the multi-field voucher index: the
// searchable store holding, per voucher, its metadata and several
// dense vectors plus the lexical fields keyword matching runs on.
package index

import "github.com/vnvoucher/discovery/app/models"

// IndexName is the Meilisearch index the voucher documents live in.
const IndexName = "vouchers"

// Document is the index-time write shape: scalar metadata, lexical
// fields, and the five dense vectors.
type Document struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Content         string    `json:"content"`
	Location        string    `json:"location"`
	District        string    `json:"district,omitempty"`
	Region          string    `json:"region,omitempty"`
	ServiceCategory string    `json:"service_category"`
	ServiceTags     []string  `json:"service_tags,omitempty"`
	HasKidsArea     bool      `json:"has_kids_area"`
	RestaurantType  string    `json:"restaurant_type,omitempty"`
	TargetAudience  string    `json:"target_audience,omitempty"`
	Price           *float64  `json:"price,omitempty"`
	PriceRange      string    `json:"price_range"`

	ContentEmb  []float32 `json:"content_emb,omitempty"`
	LocationEmb []float32 `json:"location_emb,omitempty"`
	ServiceEmb  []float32 `json:"service_emb,omitempty"`
	TargetEmb   []float32 `json:"target_emb,omitempty"`
	CombinedEmb []float32 `json:"combined_emb"`

	DataQualityScore float64 `json:"data_quality_score"`
}

// FromVoucher converts a voucher into its index write document. The
// caller is expected to have already run Voucher.Validate —
// FromVoucher does not re-check.
func FromVoucher(v models.Voucher) Document {
	return Document{
		ID:               v.ID,
		Name:             v.Name,
		Content:          v.Content,
		Location:         v.Location,
		District:         v.District,
		Region:           v.Region,
		ServiceCategory:  v.Service.Category,
		ServiceTags:      v.Service.Tags,
		HasKidsArea:      v.Service.HasKidsArea,
		RestaurantType:   v.Service.RestaurantType,
		TargetAudience:   v.TargetAudience,
		Price:            v.Price,
		PriceRange:       v.PriceRange,
		ContentEmb:       v.Embeddings[models.FieldContent],
		LocationEmb:      v.Embeddings[models.FieldLocation],
		ServiceEmb:       v.Embeddings[models.FieldService],
		TargetEmb:        v.Embeddings[models.FieldTarget],
		CombinedEmb:      v.Embeddings[models.FieldCombined],
		DataQualityScore: v.DataQualityScore,
	}
}

// DenseFieldName maps a chosen logical field to the Document
// attribute name it lives under in the index.
func DenseFieldName(field string) string {
	switch field {
	case models.FieldLocation:
		return "location_emb"
	case models.FieldService:
		return "service_emb"
	case models.FieldTarget:
		return "target_emb"
	default:
		return "combined_emb"
	}
}

// searchableAttrs orders name before content so the "attribute"
// ranking rule favors name matches, approximating the
// name^3/content^1 boost within what Meilisearch's ranking rules can
// express directly; the literal numeric boost is applied in Go on top
// (see lexicalScore).
var searchableAttrs = []string{"name", "content"}

var filterableAttrs = []string{
	"location", "district", "region", "service_category", "service_tags",
	"has_kids_area", "restaurant_type", "target_audience", "price_range",
}

var sortableAttrs = []string{"price", "data_quality_score"}

var rankingRules = []string{"words", "typo", "proximity", "attribute", "sort", "exactness"}
