// Package rag assembles retrieved vouchers into a prompt context,
// invokes a generative-LM collaborator, and scores the answer's
// confidence. The generator is treated as a text-in/text-out service;
// a deterministic templated fallback always stands ready.
package rag

import "context"

// GenerateRequest is the assembled prompt passed to a Generator.
type GenerateRequest struct {
	System      string
	User        string
	Temperature float64
}

// Generator is the generative-LM collaborator: a text-in/text-out
// service with its own deadline. The only failure mode the Composer
// needs to distinguish is "did not produce an answer in time" — the
// fallback path handles both a returned error and a context deadline.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}
