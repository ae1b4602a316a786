package models

// Mode selects one of the three operating modes the search façade
// exposes: pure vector similarity, hybrid lexical+vector, or RAG with
// a generated answer.
const (
	ModeVector = "vector"
	ModeHybrid = "hybrid"
	ModeRAG    = "rag"
)

// Filters is the optional filter bag a caller may attach to a
// request. An empty Filters applies no filter.
type Filters struct {
	Location   string `json:"location,omitempty"`
	Service    string `json:"service,omitempty"`
	PriceRange string `json:"price_range,omitempty"`
}

// SearchRequest is the façade's input.
type SearchRequest struct {
	Query          string  `json:"query"`
	Mode           string  `json:"mode,omitempty"`
	TopK           int     `json:"top_k,omitempty"`
	Filters        Filters `json:"filters,omitempty"`
	StrictLocation bool    `json:"strict_location,omitempty"`
	MinScore       float64 `json:"min_score,omitempty"`
}

// SearchStrategy records the choices the retrieval engine made for
// this request, surfaced on hybrid and rag responses.
type SearchStrategy struct {
	DenseField      string             `json:"dense_field"`
	AppliedWeights  map[string]float64 `json:"applied_weights"`
	Filters         Filters            `json:"filters"`
	StrictLocation  bool               `json:"strict_location"`
}

// Metadata is the always-present response envelope: timing, the
// pipeline that produced the results, and — when a downgrade happened
// — which component failed.
type Metadata struct {
	TotalResults        int    `json:"total_results"`
	ProcessingTimeMs    int64  `json:"processing_time_ms"`
	SearchMethod        string `json:"search_method"`
	EmbeddingDimension  int    `json:"embedding_dimension"`
	FailedComponent     string `json:"failed_component,omitempty"`
	Degraded            bool   `json:"degraded,omitempty"`
}

// SearchResponse is the unified response shape for all three modes.
type SearchResponse struct {
	Query            string            `json:"query"`
	Mode             string            `json:"mode"`
	ParsedComponents *QueryComponents  `json:"parsed_components,omitempty"`
	SearchStrategy   *SearchStrategy   `json:"search_strategy,omitempty"`
	Results          []SearchResult    `json:"results"`
	Explanations     []string          `json:"explanations,omitempty"`
	Metadata         Metadata          `json:"metadata"`

	// RAG-only fields.
	Answer     string  `json:"answer,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}
