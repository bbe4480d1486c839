package query

import (
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/spec"
)

// Two search strategies coexist deliberately. The inline path uses
// plain substring containment: cheap, predictable, good enough for
// small collections. The worker path adds token-level Levenshtein
// similarity on top, so large collections tolerate typos at the cost
// of work that must not run on the interactive loop. The divergence is
// pinned by tests in search_test.go.

// searchFields returns the haystacks a query term is matched against.
func searchFields(r spec.EndpointRecord) []string {
	fields := make([]string, 0, 4+len(r.Tags))
	fields = append(fields, r.Path, r.Summary, r.Description, r.BusinessContext)
	fields = append(fields, r.Tags...)
	return fields
}

// MatchSubstring keeps records where any search field contains the
// term, case-insensitively. An empty term keeps everything.
func MatchSubstring(records []spec.EndpointRecord, term string) []spec.EndpointRecord {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		out := make([]spec.EndpointRecord, len(records))
		copy(out, records)
		return out
	}
	out := make([]spec.EndpointRecord, 0, len(records))
	for _, r := range records {
		if substringHit(r, term) {
			out = append(out, r)
		}
	}
	return out
}

func substringHit(r spec.EndpointRecord, term string) bool {
	for _, f := range searchFields(r) {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// MatchFuzzy keeps records where any search field token is within the
// similarity threshold of the term, or contains it outright. threshold
// is the minimum Levenshtein ratio in (0,1].
func MatchFuzzy(records []spec.EndpointRecord, term string, threshold float64) []spec.EndpointRecord {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		out := make([]spec.EndpointRecord, len(records))
		copy(out, records)
		return out
	}
	out := make([]spec.EndpointRecord, 0, len(records))
	for _, r := range records {
		if fuzzyHit(r, term, threshold) {
			out = append(out, r)
		}
	}
	return out
}

func fuzzyHit(r spec.EndpointRecord, term string, threshold float64) bool {
	for _, f := range searchFields(r) {
		lower := strings.ToLower(f)
		if strings.Contains(lower, term) {
			return true
		}
		for _, token := range tokenize(lower) {
			if similarity(token, term) >= threshold {
				return true
			}
		}
	}
	return false
}

// similarity is the Levenshtein ratio of two strings in [0,1].
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	return levenshtein.RatioForStrings([]rune(a), []rune(b), levenshtein.DefaultOptions)
}

// tokenize splits a field on the separators that appear in paths and
// prose, so "/users/{userId}/orders" yields comparable words.
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case '/', '{', '}', '-', '_', '.', ',', ' ', '\t':
			return true
		}
		return false
	})
}
