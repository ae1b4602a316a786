// Package location resolves surface forms of Vietnamese
// administrative areas to canonical names and exposes region/neighbor
// metadata. Geography here is symbolic only — a single city/region
// level, no GPS coordinates or ward-level hierarchy.
package location

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/vnvoucher/discovery/internal/normalizer"
	"github.com/xrash/smetrics"
)

// fuzzyThreshold is the minimum sim() score a surface form must clear
// to be accepted by ResolveFuzzy.
const fuzzyThreshold = 0.82

// Region names partition Vietnam.
const (
	RegionNorth   = "North"
	RegionCentral = "Central"
	RegionSouth   = "South"
)

// Entry is one row of the Registry's immutable table.
type Entry struct {
	Canonical    string
	SurfaceForms []string
	Region       string
	Neighbors    []string
}

// Registry is an immutable table populated at start-up. It is safe
// for concurrent read access from many requests, since it is never
// mutated after New.
type Registry struct {
	canonicalByForm map[string]string
	regionByCanon   map[string]string
	neighborsByCanon map[string][]string
	forms           []string // every surface form, longest first
}

// New builds a Registry from entries. Surface forms (and the
// canonical name itself, which is always also a valid surface form)
// are indexed diacritic- and case-insensitively.
func New(entries []Entry) *Registry {
	r := &Registry{
		canonicalByForm:  make(map[string]string),
		regionByCanon:    make(map[string]string),
		neighborsByCanon: make(map[string][]string),
	}
	for _, e := range entries {
		r.regionByCanon[e.Canonical] = e.Region
		r.neighborsByCanon[e.Canonical] = e.Neighbors
		forms := append([]string{e.Canonical}, e.SurfaceForms...)
		for _, f := range forms {
			key := foldKey(f)
			if key == "" {
				continue
			}
			r.canonicalByForm[key] = e.Canonical
			r.forms = append(r.forms, key)
		}
	}
	sort.Slice(r.forms, func(i, j int) bool {
		return len(r.forms[i]) > len(r.forms[j])
	})
	return r
}

// foldKey normalizes a surface form to the same diacritic-free,
// lowercase, whitespace-collapsed key used as the lookup index.
func foldKey(s string) string {
	n := normalizer.New().Normalize(s)
	return n.Stripped
}

// Resolve finds the canonical name for text by longest-match against
// any surface form, case- and diacritic-insensitive. It first tries
// an exact whole-string match, then falls back to finding the longest
// surface form occurring anywhere in text, so callers can pass either
// an isolated location mention or a larger phrase.
func (r *Registry) Resolve(text string) (string, bool) {
	key := foldKey(text)
	if key == "" {
		return "", false
	}
	if canon, ok := r.canonicalByForm[key]; ok {
		return canon, true
	}
	for _, form := range r.forms {
		if strings.Contains(key, form) {
			return r.canonicalByForm[form], true
		}
	}
	return "", false
}

// ResolveFuzzy falls back to a similarity-scored match when Resolve's
// exact/substring lookup misses. It scans every surface form and
// keeps the highest-scoring one that clears fuzzyThreshold, so a
// misspelled or partially romanized location mention ("Da nag",
// "Hai Phog") still resolves.
func (r *Registry) ResolveFuzzy(text string) (string, float64, bool) {
	key := foldKey(text)
	if key == "" {
		return "", 0, false
	}
	var bestForm string
	var bestScore float64
	for _, form := range r.forms {
		if score := sim(key, form); score > bestScore {
			bestScore, bestForm = score, form
		}
	}
	if bestScore < fuzzyThreshold {
		return "", bestScore, false
	}
	return r.canonicalByForm[bestForm], bestScore, true
}

// sim scores the similarity of two already diacritic-folded strings
// as a 0.7/0.3 blend of Jaro-Winkler and normalized Levenshtein
// distance.
func sim(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	jw := smetrics.JaroWinkler(a, b, 0.7, 4)
	ld := levenshtein.ComputeDistance(a, b)
	den := len(a)
	if len(b) > den {
		den = len(b)
	}
	lev := 1.0 - float64(ld)/float64(den)
	return 0.7*jw + 0.3*lev
}

// RegionOf returns the region of a canonical location name, or "" if
// unknown.
func (r *Registry) RegionOf(canonical string) string {
	return r.regionByCanon[canonical]
}

// NeighborsOf returns the canonical neighbors of canonical, or nil if
// unknown.
func (r *Registry) NeighborsOf(canonical string) []string {
	return r.neighborsByCanon[canonical]
}

// IsNeighbor reports whether other is a registered neighbor of
// canonical.
func (r *Registry) IsNeighbor(canonical, other string) bool {
	for _, n := range r.neighborsByCanon[canonical] {
		if n == other {
			return true
		}
	}
	return false
}

// Occurrence is one surface-form hit found by Locate.
type Occurrence struct {
	Canonical string
	Form      string
	Position  int
}

// Locate finds every surface-form occurrence in text (already
// diacritic-folded by the caller's normalizer), ordered earliest
// match first, then longer surface form.
func (r *Registry) Locate(foldedText string) []Occurrence {
	var hits []Occurrence
	for _, form := range r.forms {
		idx := strings.Index(foldedText, form)
		if idx < 0 {
			continue
		}
		hits = append(hits, Occurrence{
			Canonical: r.canonicalByForm[form],
			Form:      form,
			Position:  idx,
		})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Position != hits[j].Position {
			return hits[i].Position < hits[j].Position
		}
		return len(hits[i].Form) > len(hits[j].Form)
	})
	return hits
}

// ContainsSurfaceForm reports whether any surface form resolving to
// canonical occurs inside text (diacritic-insensitive). This backs
// the re-ranker's content-substring boost.
func (r *Registry) ContainsSurfaceForm(text, canonical string) bool {
	key := foldKey(text)
	if key == "" {
		return false
	}
	for _, form := range r.forms {
		if r.canonicalByForm[form] == canonical && strings.Contains(key, form) {
			return true
		}
	}
	return false
}
