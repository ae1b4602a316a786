package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPGenerator calls an out-of-process generative-LM service over
// HTTP. The model stays a black box; this client only knows the
// request/response shape and carries its own timeout.
type HTTPGenerator struct {
	baseURL string
	client  *http.Client
}

func NewHTTPGenerator(baseURL string, timeout time.Duration) *HTTPGenerator {
	return &HTTPGenerator{baseURL: baseURL, client: &http.Client{Timeout: timeout}}
}

type generateRequestBody struct {
	System      string  `json:"system"`
	User        string  `json:"user"`
	Temperature float64 `json:"temperature"`
}

type generateResponseBody struct {
	Text string `json:"text"`
}

func (g *HTTPGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	body, err := json.Marshal(generateRequestBody{System: req.System, User: req.User, Temperature: req.Temperature})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("generator request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generator status %d", resp.StatusCode)
	}

	var out generateResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	return out.Text, nil
}
