package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/vnvoucher/discovery/app/models"
	"go.uber.org/zap"
)

// Response styles bias the generator's formatting, never the factual
// content rules.
const (
	StyleLocation = "location-focused"
	StyleService  = "service-focused"
	StyleTarget   = "target-focused"
	StyleGeneral  = "general"
)

const systemPrompt = `Bạn là trợ lý tìm kiếm voucher cho một nền tảng thương mại Việt Nam.
Chỉ trả lời dựa trên các voucher được cung cấp trong phần ngữ cảnh bên dưới.
Không bịa ra voucher nào không có trong ngữ cảnh.
Nếu phù hợp, gợi ý thêm đúng một câu hỏi làm rõ ở cuối câu trả lời.`

// Composer turns retrieved results into a generated (or fallback)
// natural-language answer.
type Composer struct {
	generator  Generator
	tokens     *TokenEstimator
	maxContext int
	temperature float64
	logger     *zap.Logger
}

func New(generator Generator, tokens *TokenEstimator, maxContextTokens int, temperature float64, logger *zap.Logger) *Composer {
	return &Composer{generator: generator, tokens: tokens, maxContext: maxContextTokens, temperature: temperature, logger: logger}
}

// Answer is the RAG Composer's output: the generated (or fallback)
// text, its confidence, and whether the fallback path was taken.
type Answer struct {
	Text         string
	Confidence   float64
	UsedFallback bool
}

// Compose assembles the context, prompts the generator, and falls
// back to the deterministic template when generation fails. A nil or
// empty result list short-circuits to the no-results template.
func (c *Composer) Compose(ctx context.Context, qc models.QueryComponents, results []models.SearchResult) Answer {
	if len(results) == 0 {
		return Answer{Text: emptyResultsTemplate(), Confidence: 0}
	}

	contextBlock := c.assembleContext(results)
	style := responseStyle(qc)
	userPrompt := fmt.Sprintf("Câu hỏi: %s\n\nPhong cách trả lời mong muốn: %s\n\nNgữ cảnh voucher:\n%s", qc.Original, style, contextBlock)

	text, err := c.generator.Generate(ctx, GenerateRequest{
		System:      systemPrompt,
		User:        userPrompt,
		Temperature: c.temperature,
	})
	if err != nil {
		c.logger.Warn("rag generator unavailable, falling back to templated answer", zap.Error(err))
		return Answer{Text: fallbackTemplate(results), Confidence: confidence(results), UsedFallback: true}
	}

	return Answer{Text: text, Confidence: confidence(results)}
}

// assembleContext concatenates a templated block per voucher in
// retrieval order until the token budget is reached.
func (c *Composer) assembleContext(results []models.SearchResult) string {
	var sb strings.Builder
	used := 0
	for i, r := range results {
		block := voucherBlock(i+1, r)
		blockTokens := c.tokens.Count(block)
		if used+blockTokens > c.maxContext && sb.Len() > 0 {
			break
		}
		sb.WriteString(block)
		sb.WriteString("\n")
		used += blockTokens
	}
	return sb.String()
}

func voucherBlock(rank int, r models.SearchResult) string {
	price := "không rõ giá"
	if r.PriceInfo.Amount != nil {
		price = fmt.Sprintf("%.0f VND (%s)", *r.PriceInfo.Amount, r.PriceInfo.PriceRange)
	}
	return fmt.Sprintf("%d. %s — %s — %s — %s — %s (độ phù hợp %.2f)",
		rank, r.VoucherName, r.Location, r.ServiceInfo.Category, price, r.ContentSnippet, r.SimilarityScore)
}

// responseStyle selects the style tag from what the parser found,
// location taking precedence over service over target audience.
func responseStyle(qc models.QueryComponents) string {
	switch {
	case qc.HasLocation():
		return StyleLocation
	case qc.HasServiceRequirements():
		return StyleService
	case qc.HasTargetAudience():
		return StyleTarget
	default:
		return StyleGeneral
	}
}

// confidence is the clamped mean retrieved similarity, with a 10%
// bump when three or more results back the answer.
func confidence(results []models.SearchResult) float64 {
	if len(results) == 0 {
		return 0
	}
	var sum float64
	for _, r := range results {
		sum += r.SimilarityScore
	}
	mean := sum / float64(len(results))
	if mean < 0 {
		mean = 0
	}
	if mean > 1 {
		mean = 1
	}
	conf := mean
	if len(results) >= 3 {
		conf *= 1.1
	}
	if conf > 1 {
		conf = 1
	}
	return conf
}

// fallbackTemplate implements the "Generator unavailable or timed
// out" failure mode: a deterministic Markdown list enumerating
// retrieved vouchers.
func fallbackTemplate(results []models.SearchResult) string {
	var sb strings.Builder
	sb.WriteString("Dưới đây là các voucher phù hợp nhất với yêu cầu của bạn:\n\n")
	for _, r := range results {
		tip := "phù hợp với tiêu chí tìm kiếm của bạn"
		if r.RankingFactor == models.RankingExactLocation {
			tip = "đúng khu vực bạn tìm"
		}
		sb.WriteString(fmt.Sprintf("- **%s** (%s) — %s\n", r.VoucherName, r.Location, tip))
	}
	return sb.String()
}

// emptyResultsTemplate implements the "Zero retrieved" failure mode.
func emptyResultsTemplate() string {
	return "Không tìm thấy voucher phù hợp. Vui lòng thử mở rộng từ khóa tìm kiếm (ví dụ: bỏ bớt điều kiện về khu vực hoặc mức giá)."
}
