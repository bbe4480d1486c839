package query

import (
	"sort"
	"strings"

	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/spec"
)

// complexityRank orders complexity classes for sorting.
var complexityRank = map[spec.Complexity]int{
	spec.ComplexityLow:    0,
	spec.ComplexityMedium: 1,
	spec.ComplexityHigh:   2,
}

// Sort returns a stably sorted copy of records. An empty key keeps the
// input order (collection order).
func Sort(records []spec.EndpointRecord, key SortKey, desc bool) []spec.EndpointRecord {
	out := make([]spec.EndpointRecord, len(records))
	copy(out, records)
	if key == "" {
		return out
	}

	less := func(a, b spec.EndpointRecord) bool {
		switch key {
		case SortMethod:
			return a.Method < b.Method
		case SortSummary:
			return strings.ToLower(a.Summary) < strings.ToLower(b.Summary)
		case SortComplexity:
			return complexityRank[a.Complexity] < complexityRank[b.Complexity]
		default: // SortPath
			return a.Path < b.Path
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

// Group partitions sorted records into named buckets. GroupNone yields
// a single "All" bucket. A record with multiple tags lands only in its
// first tag's bucket. Buckets come back ordered by name, except the
// "All" bucket which stands alone.
func Group(records []spec.EndpointRecord, by GroupBy) []Bucket {
	if by == GroupNone || by == "" {
		all := make([]spec.EndpointRecord, len(records))
		copy(all, records)
		return []Bucket{{Name: AllBucket, Records: all}}
	}

	buckets := make(map[string][]spec.EndpointRecord)
	for _, r := range records {
		name := bucketName(r, by)
		buckets[name] = append(buckets[name], r)
	}

	names := make([]string, 0, len(buckets))
	for name := range buckets {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Bucket, 0, len(names))
	for _, name := range names {
		out = append(out, Bucket{Name: name, Records: buckets[name]})
	}
	return out
}

func bucketName(r spec.EndpointRecord, by GroupBy) string {
	switch by {
	case GroupTag:
		if len(r.Tags) > 0 {
			return r.Tags[0]
		}
		return UntaggedBucket
	case GroupMethod:
		return r.Method
	case GroupPathSegment:
		return spec.TopSegment(r.Path)
	default:
		return AllBucket
	}
}
