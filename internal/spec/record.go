// Package spec defines the normalized domain model extracted from an
// OpenAPI/Swagger document. Records are immutable once built: every
// downstream consumer (query engine, window renderer, exporters) reads
// them and produces new slices, never in-place edits.
package spec

import (
	"sort"
	"strings"
	"time"
)

// Complexity classifies how involved an endpoint is to call.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// ResponseTimeBucket is a coarse latency expectation derived from the
// endpoint's shape, used only as a filter dimension.
type ResponseTimeBucket string

const (
	BucketFast   ResponseTimeBucket = "fast"
	BucketMedium ResponseTimeBucket = "medium"
	BucketSlow   ResponseTimeBucket = "slow"
)

// Parameter is one operation parameter (path, query, header or cookie).
type Parameter struct {
	Name     string
	In       string // "path", "query", "header", "cookie"
	Required bool
	Type     string
}

// EndpointRecord is the normalized unit of exploration: one HTTP method
// on one path. Built once by the parser and never mutated afterwards.
type EndpointRecord struct {
	Method          string
	Path            string
	Summary         string
	Description     string
	Tags            []string // ordered, deduplicated
	Parameters      []Parameter
	HasRequestBody  bool
	Responses       map[string]string // status code -> description
	Security        []string          // security scheme names
	Deprecated      bool
	Complexity      Complexity
	ResponseTime    ResponseTimeBucket
	BusinessContext string
}

// Metadata summarizes one completed parse of a document.
type Metadata struct {
	Title            string
	Version          string
	EndpointCount    int
	SchemaCount      int
	ParseTime        time.Duration
	BytesProcessed   int64
	ChunksProcessed  int
	CompressionRatio float64 // 0 when the source was not compressed
}

// Classify derives the complexity class from the endpoint's shape.
// Parameter count, body presence and response count each add weight.
func Classify(paramCount int, hasBody bool, responseCount int) Complexity {
	score := paramCount
	if hasBody {
		score += 2
	}
	if responseCount > 3 {
		score += 2
	}
	switch {
	case score <= 2:
		return ComplexityLow
	case score <= 5:
		return ComplexityMedium
	default:
		return ComplexityHigh
	}
}

// EstimateResponseTime derives the latency bucket from complexity and
// path depth. Deeply nested collection paths tend to fan out server-side.
func EstimateResponseTime(c Complexity, path string) ResponseTimeBucket {
	depth := strings.Count(path, "/")
	switch {
	case c == ComplexityHigh || depth >= 5:
		return BucketSlow
	case c == ComplexityMedium || depth >= 3:
		return BucketMedium
	default:
		return BucketFast
	}
}

// DeriveBusinessContext builds the free-text field searched alongside
// path and summary. It folds tags and description fragments into one
// lowercase haystack so search does not have to walk the record shape.
func DeriveBusinessContext(summary, description string, tags []string) string {
	parts := make([]string, 0, 2+len(tags))
	if summary != "" {
		parts = append(parts, summary)
	}
	if description != "" {
		parts = append(parts, description)
	}
	parts = append(parts, tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

// NormalizeTags deduplicates tags while preserving first-seen order.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// TopSegment returns the first path segment ("/users/{id}" -> "users").
// Paths without a segment map to "/".
func TopSegment(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if trimmed == "" {
		return "/"
	}
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		trimmed = trimmed[:i]
	}
	if trimmed == "" {
		return "/"
	}
	return trimmed
}

// StatusCodes returns the record's response codes in ascending order.
func (r EndpointRecord) StatusCodes() []string {
	codes := make([]string, 0, len(r.Responses))
	for code := range r.Responses {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Key returns a stable identity for the record within one document.
func (r EndpointRecord) Key() string {
	return r.Method + " " + r.Path
}
