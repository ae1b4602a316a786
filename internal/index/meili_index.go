package index

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"
)

// MeiliIndex is the concrete Index backed by Meilisearch.
//
// Meilisearch executes the lexical candidate match natively; the
// dense cosine and the name^3/content^1 keyword boost are computed
// here in Go against the stored vectors and lexical fields returned
// for each candidate, so the retrieval engine's normalization
// operates on numbers whose provenance is fully under this package's
// control rather than an opaque blended relevance score.
type MeiliIndex struct {
	client    meilisearch.ServiceManager
	logger    *zap.Logger
	indexName string
}

// NewMeiliIndex connects to Meilisearch and verifies the connection
// before returning.
func NewMeiliIndex(host, apiKey, indexName string, logger *zap.Logger) (*MeiliIndex, error) {
	client := meilisearch.New(host, meilisearch.WithAPIKey(apiKey))

	if _, err := client.Health(); err != nil {
		return nil, fmt.Errorf("cannot reach meilisearch: %w", err)
	}

	return &MeiliIndex{client: client, logger: logger, indexName: indexName}, nil
}

// EnsureSchema configures searchable/filterable/sortable attributes,
// ranking rules, and typo tolerance for the voucher index. Run once
// at process start; re-running is harmless.
func (m *MeiliIndex) EnsureSchema(ctx context.Context) error {
	idx := m.client.Index(m.indexName)

	task, err := idx.UpdateSettings(&meilisearch.Settings{
		SearchableAttributes: searchableAttrs,
		FilterableAttributes: filterableAttrs,
		SortableAttributes:   sortableAttrs,
		RankingRules:         rankingRules,
		TypoTolerance: &meilisearch.TypoTolerance{
			Enabled: true,
			MinWordSizeForTypos: meilisearch.MinWordSizeForTypos{
				OneTypo:  4,
				TwoTypos: 8,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("configure voucher index: %w", err)
	}

	m.logger.Info("configured voucher index", zap.Int64("task_uid", task.TaskUID))
	return nil
}

// Upsert writes a single voucher document, replacing any prior
// version by id.
func (m *MeiliIndex) Upsert(ctx context.Context, doc Document) error {
	idx := m.client.Index(m.indexName)
	task, err := idx.AddDocuments([]Document{doc}, "id")
	if err != nil {
		return fmt.Errorf("upsert voucher %s: %w", doc.ID, err)
	}
	m.logger.Debug("upserted voucher", zap.String("id", doc.ID), zap.Int64("task_uid", task.TaskUID))
	return nil
}

// Delete removes a voucher by id, immediately reflected in retrieval.
func (m *MeiliIndex) Delete(ctx context.Context, id string) error {
	idx := m.client.Index(m.indexName)
	task, err := idx.DeleteDocument(id)
	if err != nil {
		return fmt.Errorf("delete voucher %s: %w", id, err)
	}
	m.logger.Debug("deleted voucher", zap.String("id", id), zap.Int64("task_uid", task.TaskUID))
	return nil
}

// attributesToRetrieve is the fixed set of document fields the query
// path needs back: every scalar/metadata field plus every dense
// vector, since the chosen dense field varies per request and the
// lexical scorer reads name/content directly.
var attributesToRetrieve = []string{
	"id", "name", "content", "location", "district", "region",
	"service_category", "service_tags", "has_kids_area", "restaurant_type",
	"target_audience", "price", "price_range", "data_quality_score",
	"content_emb", "location_emb", "service_emb", "target_emb", "combined_emb",
}

// Query issues a single Meilisearch request bounded by req.Size,
// applying req.Filters as exact-term filter clauses, and returns each
// hit with both the raw lexical score and, when req.QueryVector is
// set, the raw cosine against req.DenseField computed from the
// returned document vector.
func (m *MeiliIndex) Query(ctx context.Context, req QueryRequest) ([]Hit, error) {
	idx := m.client.Index(m.indexName)

	searchReq := &meilisearch.SearchRequest{
		Limit:                 int64(req.Size),
		Filter:                buildFilter(req.Filters),
		AttributesToRetrieve:  attributesToRetrieve,
		MatchingStrategy:      "last",
	}

	result, err := idx.Search(req.QueryText, searchReq)
	if err != nil {
		return nil, fmt.Errorf("query voucher index: %w", err)
	}

	hits := make([]Hit, 0, len(result.Hits))
	for _, raw := range result.Hits {
		hitMap, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		doc := parseDocument(hitMap)

		h := Hit{
			Doc:        doc,
			LexicalRaw: lexicalScore(req.Keywords, doc.Name, doc.Content),
		}
		if req.QueryVector != nil {
			if vec := fieldVector(doc, req.DenseField); len(vec) > 0 {
				h.DenseCosine = dot(req.QueryVector, vec)
				h.HasDense = true
			}
		}
		hits = append(hits, h)
	}
	return hits, nil
}

// fieldVector returns the document's vector for the chosen dense
// field. The location/service/target vectors are optional per
// voucher, so a document lacking the chosen field falls back to its
// combined_emb rather than dropping out of dense scoring.
func fieldVector(doc Document, field string) []float32 {
	var vec []float32
	switch field {
	case "location_emb":
		vec = doc.LocationEmb
	case "service_emb":
		vec = doc.ServiceEmb
	case "target_emb":
		vec = doc.TargetEmb
	}
	if len(vec) == 0 {
		return doc.CombinedEmb
	}
	return vec
}

func dot(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// lexicalScore is a best-fields keyword scorer: one point per keyword
// found in content, three points per keyword found in name, matching
// substrings case-insensitively so short typo-laden tokens still
// count.
func lexicalScore(keywords []string, name, content string) float64 {
	nameLower := strings.ToLower(name)
	contentLower := strings.ToLower(content)

	score := 0.0
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(nameLower, kw) {
			score += 3.0
		}
		if strings.Contains(contentLower, kw) {
			score += 1.0
		}
	}
	return score
}

func buildFilter(filters map[string]string) string {
	if len(filters) == 0 {
		return ""
	}
	var clauses []string
	for field, value := range filters {
		clauses = append(clauses, fmt.Sprintf("%s = %s", field, strconv.Quote(value)))
	}
	return strings.Join(clauses, " AND ")
}

func parseDocument(hitMap map[string]interface{}) Document {
	var d Document
	if v, ok := hitMap["id"].(string); ok {
		d.ID = v
	}
	if v, ok := hitMap["name"].(string); ok {
		d.Name = v
	}
	if v, ok := hitMap["content"].(string); ok {
		d.Content = v
	}
	if v, ok := hitMap["location"].(string); ok {
		d.Location = v
	}
	if v, ok := hitMap["district"].(string); ok {
		d.District = v
	}
	if v, ok := hitMap["region"].(string); ok {
		d.Region = v
	}
	if v, ok := hitMap["service_category"].(string); ok {
		d.ServiceCategory = v
	}
	if v, ok := hitMap["service_tags"].([]interface{}); ok {
		for _, t := range v {
			if s, ok := t.(string); ok {
				d.ServiceTags = append(d.ServiceTags, s)
			}
		}
	}
	if v, ok := hitMap["has_kids_area"].(bool); ok {
		d.HasKidsArea = v
	}
	if v, ok := hitMap["restaurant_type"].(string); ok {
		d.RestaurantType = v
	}
	if v, ok := hitMap["target_audience"].(string); ok {
		d.TargetAudience = v
	}
	if v, ok := hitMap["price"].(float64); ok {
		d.Price = &v
	}
	if v, ok := hitMap["price_range"].(string); ok {
		d.PriceRange = v
	}
	if v, ok := hitMap["data_quality_score"].(float64); ok {
		d.DataQualityScore = v
	}
	d.ContentEmb = parseVector(hitMap["content_emb"])
	d.LocationEmb = parseVector(hitMap["location_emb"])
	d.ServiceEmb = parseVector(hitMap["service_emb"])
	d.TargetEmb = parseVector(hitMap["target_emb"])
	d.CombinedEmb = parseVector(hitMap["combined_emb"])
	return d
}

func parseVector(raw interface{}) []float32 {
	arr, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	out := make([]float32, 0, len(arr))
	for _, x := range arr {
		if f, ok := x.(float64); ok {
			out = append(out, float32(f))
		}
	}
	return out
}
