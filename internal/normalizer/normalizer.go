// Package normalizer folds Vietnamese free-form text into the
// canonical and diacritic-stripped forms the rest of the pipeline
// consumes.
package normalizer

import (
	"regexp"
	"strings"

	unidecode "github.com/mozillazg/go-unidecode"
	"golang.org/x/text/unicode/norm"
)

// controlChars matches every Unicode control character (category Cc),
// including tab, newline and carriage return.
var controlChars = regexp.MustCompile(`[\p{Cc}]`)

// collapseWhitespace folds any run of whitespace to a single space.
var collapseWhitespace = regexp.MustCompile(`\s+`)

// dropPunctuation removes punctuation except the marks that can
// delimit meaningful tokens ("-", ".", ",", "()", "[]", "/").
var dropPunctuation = regexp.MustCompile(`[^\p{L}\p{N}\s\-.,()\[\]/]`)

// Result is the output of Normalize: the canonical form (diacritics
// retained) and the diacritic-stripped form used for fuzzy matching.
type Result struct {
	Normalized string
	Stripped   string
}

// TextNormalizer is pure, deterministic, and stateless — constructed
// once and shared across requests.
type TextNormalizer struct{}

// New constructs a TextNormalizer. It takes no configuration: the
// normalization rules are fixed and not meant to be tuned per
// deployment.
func New() *TextNormalizer {
	return &TextNormalizer{}
}

// Normalize folds raw to NFC, lowercases it, strips control
// characters and punctuation outside the retained set, and collapses
// whitespace, then derives the diacritic-stripped form from the
// result. Empty input yields empty outputs; this never errors.
func (n *TextNormalizer) Normalize(raw string) Result {
	if raw == "" {
		return Result{}
	}

	normalized := norm.NFC.String(raw)
	normalized = strings.ToLower(normalized)
	normalized = controlChars.ReplaceAllString(normalized, " ")
	normalized = dropPunctuation.ReplaceAllString(normalized, " ")
	normalized = collapseWhitespace.ReplaceAllString(normalized, " ")
	normalized = strings.TrimSpace(normalized)

	// unidecode folds Vietnamese letters NFD-based stripping misses —
	// "đ" chief among them, since Unicode encodes it as an atomic code
	// point rather than a base letter plus combining mark.
	stripped := strings.TrimSpace(unidecode.Unidecode(normalized))

	return Result{
		Normalized: normalized,
		Stripped:   stripped,
	}
}
