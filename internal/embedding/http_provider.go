package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HTTPProvider calls an out-of-process embedding service over HTTP.
// The embedding model itself stays a black box; this client only
// knows the request/response shape, and logs failures at Warn before
// returning an error for the caller to wrap.
type HTTPProvider struct {
	baseURL   string
	client    *http.Client
	dimension int
	logger    *zap.Logger
}

// NewHTTPProvider constructs an HTTPProvider. dimension is the fixed
// vector dimension the deployment's embedding model produces.
func NewHTTPProvider(baseURL string, dimension int, timeout time.Duration, logger *zap.Logger) *HTTPProvider {
	return &HTTPProvider{
		baseURL:   baseURL,
		client:    &http.Client{Timeout: timeout},
		dimension: dimension,
		logger:    logger,
	}
}

func (p *HTTPProvider) Dimension() int { return p.dimension }

type encodeRequest struct {
	Text string `json:"text"`
}

type encodeResponse struct {
	Vector []float32 `json:"vector"`
}

// Encode posts text to the embedding service's /encode endpoint and
// returns its unit vector. Errors never leak the HTTP transport
// details to callers beyond the wrapped message — the façade
// translates any error from this method into EmbeddingUnavailable.
func (p *HTTPProvider) Encode(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(encodeRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/encode", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build encode request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Warn("embedding provider request failed", zap.Error(err))
		return nil, fmt.Errorf("embedding provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		p.logger.Warn("embedding provider non-200 response",
			zap.Int("status", resp.StatusCode), zap.ByteString("body", b))
		return nil, fmt.Errorf("embedding provider status %d", resp.StatusCode)
	}

	var out encodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode encode response: %w", err)
	}
	if len(out.Vector) != p.dimension {
		return nil, fmt.Errorf("embedding provider returned dimension %d, want %d", len(out.Vector), p.dimension)
	}
	return out.Vector, nil
}
