// Package embedding defines the embedding collaborator: an opaque
// text-to-unit-vector function the rest of the pipeline treats as a
// black box.
package embedding

import "context"

// Provider encodes text to a unit vector of fixed dimension; the
// same input yields the same output within a run. Implementations may
// block and are assumed I/O- or compute-bound.
type Provider interface {
	Encode(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// EncodeBatch encodes each text in order — the single-item fallback
// any Provider gets for free, used by callers that don't need a
// provider-specific batch endpoint.
func EncodeBatch(ctx context.Context, p Provider, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := p.Encode(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
