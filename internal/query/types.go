// Package query implements the adaptive query engine: filtering,
// searching, sorting and grouping of the immutable endpoint record
// collection, routed inline or to a background worker depending on
// collection size, with generation-based stale-result suppression.
package query

import (
	"time"

	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/spec"
)

// Generation tags each submitted query. Strictly increasing; only the
// result of the highest generation observed is ever surfaced.
type Generation uint64

// TriState is a three-valued constraint: no constraint, must hold,
// must not hold. The zero value means "no constraint", so an empty
// Filters literal filters nothing.
type TriState int

const (
	TriAny TriState = iota
	TriOnly
	TriExclude
)

// Filters holds one well-typed predicate per dimension. Empty slices
// and TriAny mean "no constraint". Within a dimension the listed
// values are OR-ed; across dimensions everything is AND-ed.
type Filters struct {
	Methods        []string
	Tags           []string
	StatusCodes    []string
	Complexity     []spec.Complexity
	ResponseTimes  []spec.ResponseTimeBucket
	Security       []string
	Deprecated     TriState
	HasParameters  TriState
	HasRequestBody TriState
	PathContains   string
}

// Active reports whether any dimension constrains the result.
func (f Filters) Active() bool {
	return len(f.Methods) > 0 || len(f.Tags) > 0 || len(f.StatusCodes) > 0 ||
		len(f.Complexity) > 0 || len(f.ResponseTimes) > 0 || len(f.Security) > 0 ||
		f.Deprecated != TriAny || f.HasParameters != TriAny ||
		f.HasRequestBody != TriAny || f.PathContains != ""
}

// GroupBy selects the bucketing dimension.
type GroupBy string

const (
	GroupNone        GroupBy = "none"
	GroupTag         GroupBy = "tag"
	GroupMethod      GroupBy = "method"
	GroupPathSegment GroupBy = "path"
)

// SortKey selects the ordering of the filtered records.
type SortKey string

const (
	SortPath       SortKey = "path"
	SortMethod     SortKey = "method"
	SortSummary    SortKey = "summary"
	SortComplexity SortKey = "complexity"
)

// Query is one filter/search/group specification.
type Query struct {
	Search  string
	Filters Filters
	GroupBy GroupBy
	SortKey SortKey // empty = keep collection order
	Desc    bool
}

// Route records which path computed a result.
type Route string

const (
	RouteInline Route = "inline"
	RouteWorker Route = "worker"
)

// Bucket is one named group of records, already in sorted order.
type Bucket struct {
	Name    string
	Records []spec.EndpointRecord
}

// Result is the product of one query execution. Superseded results are
// discarded whole, never merged.
type Result struct {
	Records    []spec.EndpointRecord
	Buckets    []Bucket
	Total      int
	Generation Generation
	Took       time.Duration
	Route      Route
	Err        error // both worker and inline retry failed
}

// AllBucket is the bucket name used when grouping is disabled.
const AllBucket = "All"

// UntaggedBucket is the tag bucket for records without tags.
const UntaggedBucket = "untagged"
