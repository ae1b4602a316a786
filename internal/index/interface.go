package index

import "context"

// Hit is one candidate returned by a Query, carrying enough of the
// stored document plus raw, not-yet-normalized scores for the
// retrieval engine to do its own score normalization.
type Hit struct {
	Doc Document

	// LexicalRaw is the raw best-fields relevance of the lexical
	// clause, on an open-ended scale saturating around
	// Config.Retrieval.LexicalSaturation. Zero if the lexical clause
	// produced no match for this document.
	LexicalRaw float64

	// DenseCosine is cosine(query_vector, <chosen_field>) in [-1,1].
	// Present (HasDense true) only when a query vector was supplied.
	DenseCosine float64
	HasDense    bool
}

// QueryRequest is one assembled hybrid query: lexical text plus an
// optional dense vector, hard filters, and an over-fetch size.
type QueryRequest struct {
	QueryText    string
	Keywords     []string
	QueryVector  []float32 // nil for a lexical-only query
	DenseField   string    // Document attribute name, see DenseFieldName
	Filters      map[string]string
	Size         int
}

// Index is the client contract the retrieval engine depends on. Query
// errors are fatal for the request (IndexUnavailable); an empty result
// is not an error.
type Index interface {
	Query(ctx context.Context, req QueryRequest) ([]Hit, error)
	Upsert(ctx context.Context, doc Document) error
	Delete(ctx context.Context, id string) error
	EnsureSchema(ctx context.Context) error
}
