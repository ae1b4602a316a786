// Package parser turns a raw Vietnamese query into the structured
// QueryComponents the rest of the pipeline consumes. Parsing never
// fails: a low-confidence parse is a legitimate result, not an error,
// and downstream stages degrade gracefully on it.
package parser

import (
	"regexp"
	"sort"
	"strings"

	"github.com/vnvoucher/discovery/app/models"
	"github.com/vnvoucher/discovery/internal/location"
	"github.com/vnvoucher/discovery/internal/normalizer"
)

// cueLocationPatterns anchor on Vietnamese location cue phrases
// ("tại X", "ở X", "khu vực X"). They run against the
// diacritic-stripped form so the same patterns work whether or not
// the caller typed diacritics.
var cueLocationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\btai\s+(.+)$`),
	regexp.MustCompile(`\bo\s+(.+)$`),
	regexp.MustCompile(`\bkhu vuc\s+(.+)$`),
}

// Parser implements the Query Parser component.
type Parser struct {
	normalizer *normalizer.TextNormalizer
	registry   *location.Registry
}

// New constructs a Parser over a Location Registry.
func New(registry *location.Registry) *Parser {
	return &Parser{
		normalizer: normalizer.New(),
		registry:   registry,
	}
}

// Parse extracts intent, location, service requirements, target
// audience, price preference and residual keywords from raw, plus a
// confidence score. It never returns an error.
func (p *Parser) Parse(raw string) models.QueryComponents {
	norm := p.normalizer.Normalize(raw)

	intent, intentScore := detectIntent(norm.Normalized, norm.Stripped)
	loc, locSpan := p.extractLocation(norm.Stripped)
	services, serviceSpans := matchTags(norm.Normalized, norm.Stripped, serviceTagLexicon)
	target, targetSpan := matchFirstTag(norm.Normalized, norm.Stripped, targetAudienceLexicon)
	price, priceSpan := matchPricePreference(norm.Normalized, norm.Stripped)

	consumedSpans := append([]string{locSpan, targetSpan, priceSpan}, serviceSpans...)
	keywords := extractKeywords(norm.Stripped, consumedSpans)

	confidence := 0.5*intentScore + 0.2*boolToFloat(len(keywords) > 0)
	if loc != "" {
		confidence += 0.3
	}
	if confidence > 1.0 {
		confidence = 1.0
	}

	return models.QueryComponents{
		Original:            raw,
		Normalized:          norm.Normalized,
		Stripped:            norm.Stripped,
		Intent:              intent,
		Location:            loc,
		ServiceRequirements: services,
		TargetAudience:      target,
		PricePreference:     price,
		Keywords:            keywords,
		Confidence:          confidence,
	}
}

// detectIntent scores each intent at +0.30 per matched pattern with
// +0.20 extra when the query text is exactly that pattern, capped at
// 1.0. Argmax wins, with models.AllIntents as the fixed tie-break
// order; "general" is the fallback when every score is zero.
func detectIntent(normalized, stripped string) (string, float64) {
	best := models.IntentGeneral
	bestScore := 0.0

	for _, intent := range models.AllIntents {
		set := intentPatterns[intent]
		score := 0.0
		score += scorePatterns(normalized, set.Diacritic)
		score += scorePatterns(stripped, set.Stripped)
		if score > 1.0 {
			score = 1.0
		}
		if score > bestScore {
			bestScore = score
			best = intent
		}
	}

	if bestScore == 0 {
		return models.IntentGeneral, 0
	}
	return best, bestScore
}

func scorePatterns(text string, patterns []string) float64 {
	score := 0.0
	for _, pat := range patterns {
		if pat == "" {
			continue
		}
		if strings.Contains(text, pat) {
			score += 0.30
			if strings.TrimSpace(text) == pat {
				score += 0.20
			}
		}
	}
	return score
}

// extractLocation resolves a location mention: cue-phrase regexes
// first, then direct surface-form matching over the whole query, then
// a fuzzy pass over cue-phrase suffixes. It returns the canonical
// name and the raw stripped-form span that matched, so keyword
// extraction can remove that span.
func (p *Parser) extractLocation(stripped string) (string, string) {
	type candidate struct {
		pos   int
		form  string
		canon string
	}
	var candidates []candidate
	var cueSuffixes []string

	for _, re := range cueLocationPatterns {
		idx := re.FindStringSubmatchIndex(stripped)
		if idx == nil || idx[2] < 0 {
			continue
		}
		cuePos := idx[0]
		suffix := stripped[idx[2]:idx[3]]
		cueSuffixes = append(cueSuffixes, suffix)
		for _, hit := range p.registry.Locate(suffix) {
			candidates = append(candidates, candidate{pos: cuePos, form: hit.Form, canon: hit.Canonical})
		}
	}

	if len(candidates) == 0 {
		for _, hit := range p.registry.Locate(stripped) {
			candidates = append(candidates, candidate{pos: hit.Position, form: hit.Form, canon: hit.Canonical})
		}
	}

	if len(candidates) == 0 {
		// Fuzzy matching only runs on cue-phrase suffixes: a cue says a
		// location follows, so a near-miss spelling there is almost
		// certainly a location, while ordinary words elsewhere in the
		// query ("nha hang" vs "nha trang") are not.
		for _, suffix := range cueSuffixes {
			if canon, span := p.extractLocationFuzzy(suffix); canon != "" {
				return canon, span
			}
		}
		return "", ""
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].pos != candidates[j].pos {
			return candidates[i].pos < candidates[j].pos
		}
		return len(candidates[i].form) > len(candidates[j].form)
	})
	return candidates[0].canon, candidates[0].form
}

// extractLocationFuzzy scores every 1-3 token window of text against
// the registry's similarity metric and accepts the best match
// clearing the registry's fuzzy threshold, so a near-miss spelling
// ("da nag") still resolves.
func (p *Parser) extractLocationFuzzy(text string) (string, string) {
	tokens := strings.Fields(text)
	var bestCanon, bestSpan string
	var bestScore float64
	for i := range tokens {
		for n := 1; n <= 3 && i+n <= len(tokens); n++ {
			span := strings.Join(tokens[i:i+n], " ")
			if canon, score, ok := p.registry.ResolveFuzzy(span); ok && score > bestScore {
				bestCanon, bestSpan, bestScore = canon, span, score
			}
		}
	}
	return bestCanon, bestSpan
}

// matchTags collects every tag whose pattern occurs in either form,
// along with the spans that matched. Used for multi-valued lexicons
// (service requirements).
func matchTags(normalized, stripped string, lexicon []tagPattern) ([]string, []string) {
	var hits, spans []string
	seen := map[string]bool{}
	for _, tp := range lexicon {
		if span, ok := firstMatch(normalized, tp.Diacritic); ok {
			spans = append(spans, span)
			if !seen[tp.Tag] {
				hits = append(hits, tp.Tag)
				seen[tp.Tag] = true
			}
		}
		if span, ok := firstMatch(stripped, tp.Stripped); ok {
			spans = append(spans, span)
			if !seen[tp.Tag] {
				hits = append(hits, tp.Tag)
				seen[tp.Tag] = true
			}
		}
	}
	return hits, spans
}

// matchFirstTag returns the first lexicon entry that matches, in
// table order. Used for single-valued lexicons (target audience).
func matchFirstTag(normalized, stripped string, lexicon []tagPattern) (string, string) {
	for _, tp := range lexicon {
		if span, ok := firstMatch(normalized, tp.Diacritic); ok {
			return tp.Tag, span
		}
		if span, ok := firstMatch(stripped, tp.Stripped); ok {
			return tp.Tag, span
		}
	}
	return "", ""
}

// matchPricePreference picks at most one price-range tag, by
// pricePatterns' priority order.
func matchPricePreference(normalized, stripped string) (string, string) {
	for _, pp := range pricePatterns {
		if span, ok := firstMatch(normalized, pp.Diacritic); ok {
			return pp.Range, span
		}
		if span, ok := firstMatch(stripped, pp.Stripped); ok {
			return pp.Range, span
		}
	}
	return "", ""
}

func firstMatch(text string, patterns []string) (string, bool) {
	for _, pat := range patterns {
		if pat != "" && strings.Contains(text, pat) {
			return pat, true
		}
	}
	return "", false
}

// extractKeywords tokenizes the stripped form, drops stop words, and
// drops tokens already consumed by whichever spans the earlier steps
// matched.
func extractKeywords(stripped string, consumedSpans []string) []string {
	consumed := map[string]bool{}
	for _, span := range consumedSpans {
		for _, tok := range strings.Fields(span) {
			consumed[tok] = true
		}
	}

	var keywords []string
	for _, tok := range strings.Fields(stripped) {
		if stopWords[tok] || consumed[tok] {
			continue
		}
		keywords = append(keywords, tok)
	}
	return keywords
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
