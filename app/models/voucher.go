package models

import (
	"fmt"
	"math"
)

// Embedding field names, used both as Voucher.Embeddings keys and as
// the dense field names the Multi-Field Index stores per document.
const (
	FieldContent = "content"
	FieldName    = "voucher_name"
	FieldLocation = "location"
	FieldService  = "service"
	FieldTarget   = "target"
	FieldCombined = "combined"
)

// PriceRange tags, derived from Price by PriceRangeFor.
const (
	PriceRangeBudget   = "budget"
	PriceRangeMid      = "mid-range"
	PriceRangePremium  = "premium"
	PriceRangeLuxury   = "luxury"
	PriceRangeUnknown  = "unknown"
)

const LocationUnknown = "unknown"

// IndexTimeWeights are the fixed weights used to build combined_emb at
// write time. Changing these requires re-indexing every voucher.
var IndexTimeWeights = map[string]float64{
	FieldContent:  0.40,
	FieldName:     0.25,
	FieldLocation: 0.15,
	FieldService:  0.10,
	FieldTarget:   0.10,
}

// Service captures the service-category metadata of a voucher.
type Service struct {
	Category       string   `json:"category" bson:"category"`
	CuisineOrSubtype string `json:"cuisine_or_subtype,omitempty" bson:"cuisine_or_subtype,omitempty"`
	Tags           []string `json:"tags,omitempty" bson:"tags,omitempty"`
	HasKidsArea    bool     `json:"has_kids_area" bson:"has_kids_area"`
	RestaurantType string   `json:"restaurant_type,omitempty" bson:"restaurant_type,omitempty"`
}

// Voucher is the stored entity the discovery engine indexes and
// retrieves. Ingestion creates vouchers; the engine only consumes
// them. Updates are whole-document replace-by-id so the combined
// embedding never drifts out of sync with its field embeddings.
type Voucher struct {
	ID             string             `json:"id" bson:"_id"`
	Name           string             `json:"name" bson:"name"`
	Content        string             `json:"content" bson:"content"`
	Location       string             `json:"location" bson:"location"`
	District       string             `json:"district,omitempty" bson:"district,omitempty"`
	Region         string             `json:"region,omitempty" bson:"region,omitempty"`
	Service        Service            `json:"service" bson:"service"`
	TargetAudience string             `json:"target_audience,omitempty" bson:"target_audience,omitempty"`
	Price          *float64           `json:"price,omitempty" bson:"price,omitempty"`
	PriceRange     string             `json:"price_range" bson:"price_range"`
	Embeddings     map[string][]float32 `json:"embeddings" bson:"embeddings"`
	DataQualityScore float64          `json:"data_quality_score" bson:"data_quality_score"`
}

// PriceRangeFor buckets a VND amount: budget < 100,000; mid-range
// [100,000, 500,000); premium [500,000, 1,000,000); luxury >=
// 1,000,000. A nil price is "unknown" and unranked for price filters.
func PriceRangeFor(price *float64) string {
	if price == nil {
		return PriceRangeUnknown
	}
	p := *price
	switch {
	case p < 100_000:
		return PriceRangeBudget
	case p < 500_000:
		return PriceRangeMid
	case p < 1_000_000:
		return PriceRangePremium
	default:
		return PriceRangeLuxury
	}
}

// Validate checks the voucher is fit for indexing: id and name
// present, every embedding unit-length and of the given dimension,
// the combined embedding consistent with the field embeddings, and
// price_range consistent with price. The returned error is suitable
// for wrapping into InvalidDocument. Empty location defaults to
// "unknown"; empty price_range is filled in from price.
func (v *Voucher) Validate(dimension int) error {
	if v.ID == "" {
		return fmt.Errorf("voucher missing id")
	}
	if v.Name == "" {
		return fmt.Errorf("voucher %s missing name", v.ID)
	}
	combined, ok := v.Embeddings[FieldCombined]
	if !ok {
		return fmt.Errorf("voucher %s missing combined embedding", v.ID)
	}
	if len(combined) != dimension {
		return fmt.Errorf("voucher %s combined embedding has dimension %d, want %d", v.ID, len(combined), dimension)
	}
	for field, vec := range v.Embeddings {
		if len(vec) != dimension {
			return fmt.Errorf("voucher %s field %s has dimension %d, want %d", v.ID, field, len(vec), dimension)
		}
		if !isUnitLength(vec) {
			return fmt.Errorf("voucher %s field %s is not unit-length", v.ID, field)
		}
	}
	if v.Location == "" {
		v.Location = LocationUnknown
	}
	wantRange := PriceRangeFor(v.Price)
	if v.PriceRange == "" {
		v.PriceRange = wantRange
	} else if v.PriceRange != wantRange {
		return fmt.Errorf("voucher %s price_range %q inconsistent with price (want %q)", v.ID, v.PriceRange, wantRange)
	}
	expected, err := ComputeCombinedEmbedding(v.Embeddings)
	if err != nil {
		return fmt.Errorf("voucher %s: %w", v.ID, err)
	}
	if !approxEqual(expected, combined, 1e-6) {
		return fmt.Errorf("voucher %s combined embedding does not match weighted sum of present fields", v.ID)
	}
	return nil
}

// ComputeCombinedEmbedding builds the combined vector: a weighted
// unit-normalized sum of the present field embeddings using
// IndexTimeWeights. Missing fields are skipped; the final
// unit-normalization implicitly renormalizes the remaining weights.
func ComputeCombinedEmbedding(fields map[string][]float32) ([]float32, error) {
	var dim int
	for name, vec := range fields {
		if name == FieldCombined {
			continue
		}
		if dim == 0 {
			dim = len(vec)
		} else if len(vec) != dim {
			return nil, fmt.Errorf("inconsistent embedding dimensions")
		}
	}
	if dim == 0 {
		return nil, fmt.Errorf("no source embeddings to combine")
	}
	sum := make([]float64, dim)
	for name, vec := range fields {
		w, ok := IndexTimeWeights[name]
		if !ok {
			continue
		}
		for i, x := range vec {
			sum[i] += w * float64(x)
		}
	}
	return normalizeVector(sum), nil
}

func normalizeVector(v []float64) []float32 {
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	out := make([]float32, len(v))
	if norm == 0 {
		return out
	}
	scale := 1.0 / math.Sqrt(norm)
	for i, x := range v {
		out[i] = float32(x * scale)
	}
	return out
}

func isUnitLength(v []float32) bool {
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	d := norm - 1.0
	if d < 0 {
		d = -d
	}
	return d < 1e-3
}

func approxEqual(a, b []float32, eps float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		if d < 0 {
			d = -d
		}
		if d > eps {
			return false
		}
	}
	return true
}
