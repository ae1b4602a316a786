package rag

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// TokenEstimator counts tokens for the context budget, backed by
// tiktoken-go's cl100k_base encoding — close enough to most
// generative models' tokenizers for a budget estimate.
type TokenEstimator struct {
	mu  sync.Mutex
	enc *tiktoken.Tiktoken
}

func NewTokenEstimator() (*TokenEstimator, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, err
	}
	return &TokenEstimator{enc: enc}, nil
}

// Count returns the estimated token count of text. tiktoken-go's
// encoder is not documented as goroutine-safe, so calls are
// serialized here rather than assumed safe for concurrent requests.
func (t *TokenEstimator) Count(text string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.enc.Encode(text, nil, nil))
}
