// Pure filter functions: records in, records out, no side effects.
package query

import (
	"strings"

	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/spec"
)

// Apply runs every active filter dimension over records, AND-ing the
// dimensions together. Inactive dimensions are skipped entirely, so an
// empty Filters returns the input (as a fresh slice).
func Apply(records []spec.EndpointRecord, f Filters) []spec.EndpointRecord {
	out := make([]spec.EndpointRecord, 0, len(records))
	for _, r := range records {
		if matches(r, f) {
			out = append(out, r)
		}
	}
	return out
}

// matches applies AND-of-ORs: the record must satisfy at least one
// value within each active dimension.
func matches(r spec.EndpointRecord, f Filters) bool {
	if len(f.Methods) > 0 && !containsFold(f.Methods, r.Method) {
		return false
	}
	if len(f.Tags) > 0 && !anyTag(r.Tags, f.Tags) {
		return false
	}
	if len(f.StatusCodes) > 0 && !anyStatus(r.Responses, f.StatusCodes) {
		return false
	}
	if len(f.Complexity) > 0 && !containsComplexity(f.Complexity, r.Complexity) {
		return false
	}
	if len(f.ResponseTimes) > 0 && !containsBucket(f.ResponseTimes, r.ResponseTime) {
		return false
	}
	if len(f.Security) > 0 && !anySecurity(r.Security, f.Security) {
		return false
	}
	if !triMatch(f.Deprecated, r.Deprecated) {
		return false
	}
	if !triMatch(f.HasParameters, len(r.Parameters) > 0) {
		return false
	}
	if !triMatch(f.HasRequestBody, r.HasRequestBody) {
		return false
	}
	if f.PathContains != "" && !strings.Contains(strings.ToLower(r.Path), strings.ToLower(f.PathContains)) {
		return false
	}
	return true
}

func triMatch(t TriState, value bool) bool {
	switch t {
	case TriOnly:
		return value
	case TriExclude:
		return !value
	default:
		return true
	}
}

func containsFold(haystack []string, needle string) bool {
	for _, h := range haystack {
		if strings.EqualFold(h, needle) {
			return true
		}
	}
	return false
}

func anyTag(tags, wanted []string) bool {
	for _, t := range tags {
		if containsFold(wanted, t) {
			return true
		}
	}
	return false
}

func anyStatus(responses map[string]string, wanted []string) bool {
	for _, code := range wanted {
		if _, ok := responses[code]; ok {
			return true
		}
	}
	return false
}

func anySecurity(schemes, wanted []string) bool {
	for _, s := range schemes {
		if containsFold(wanted, s) {
			return true
		}
	}
	return false
}

func containsComplexity(list []spec.Complexity, c spec.Complexity) bool {
	for _, v := range list {
		if v == c {
			return true
		}
	}
	return false
}

func containsBucket(list []spec.ResponseTimeBucket, b spec.ResponseTimeBucket) bool {
	for _, v := range list {
		if v == b {
			return true
		}
	}
	return false
}
