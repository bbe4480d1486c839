package parse

import (
	"sort"

	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/spec"
)

// Decode shapes shared by the JSON and YAML paths. Only the fields the
// record model needs are declared; everything else is skipped at the
// decoder level so unknown vendor extensions cost nothing.

type infoDoc struct {
	Title   string `json:"title" yaml:"title"`
	Version string `json:"version" yaml:"version"`
}

type parameterDoc struct {
	Name     string     `json:"name" yaml:"name"`
	In       string     `json:"in" yaml:"in"`
	Required bool       `json:"required" yaml:"required"`
	Type     string     `json:"type" yaml:"type"` // swagger 2.0 inline type
	Schema   *schemaRef `json:"schema" yaml:"schema"`
}

type schemaRef struct {
	Type string `json:"type" yaml:"type"`
}

type responseDoc struct {
	Description string `json:"description" yaml:"description"`
}

type requestBodyDoc struct {
	Required bool `json:"required" yaml:"required"`
}

type operationDoc struct {
	Summary     string                `json:"summary" yaml:"summary"`
	Description string                `json:"description" yaml:"description"`
	Tags        []string              `json:"tags" yaml:"tags"`
	Deprecated  bool                  `json:"deprecated" yaml:"deprecated"`
	Parameters  []parameterDoc        `json:"parameters" yaml:"parameters"`
	RequestBody *requestBodyDoc       `json:"requestBody" yaml:"requestBody"`
	Responses   map[string]responseDoc `json:"responses" yaml:"responses"`
	Security    []map[string][]string `json:"security" yaml:"security"`
}

type pathItemDoc struct {
	Parameters []parameterDoc `json:"parameters" yaml:"parameters"`
	Get        *operationDoc  `json:"get" yaml:"get"`
	Put        *operationDoc  `json:"put" yaml:"put"`
	Post       *operationDoc  `json:"post" yaml:"post"`
	Delete     *operationDoc  `json:"delete" yaml:"delete"`
	Options    *operationDoc  `json:"options" yaml:"options"`
	Head       *operationDoc  `json:"head" yaml:"head"`
	Patch      *operationDoc  `json:"patch" yaml:"patch"`
	Trace      *operationDoc  `json:"trace" yaml:"trace"`
}

// methodOrder fixes the extraction order within one path item so the
// same document always yields the same record sequence.
var methodOrder = []string{"GET", "PUT", "POST", "DELETE", "OPTIONS", "HEAD", "PATCH", "TRACE"}

func (p *pathItemDoc) operation(method string) *operationDoc {
	switch method {
	case "GET":
		return p.Get
	case "PUT":
		return p.Put
	case "POST":
		return p.Post
	case "DELETE":
		return p.Delete
	case "OPTIONS":
		return p.Options
	case "HEAD":
		return p.Head
	case "PATCH":
		return p.Patch
	case "TRACE":
		return p.Trace
	}
	return nil
}

// extractRecords converts one decoded path item into endpoint records,
// merging path-level parameters into each operation.
func extractRecords(path string, item *pathItemDoc) []spec.EndpointRecord {
	var out []spec.EndpointRecord
	for _, method := range methodOrder {
		op := item.operation(method)
		if op == nil {
			continue
		}
		out = append(out, buildRecord(method, path, item.Parameters, op))
	}
	return out
}

func buildRecord(method, path string, shared []parameterDoc, op *operationDoc) spec.EndpointRecord {
	params := make([]spec.Parameter, 0, len(shared)+len(op.Parameters))
	hasBody := op.RequestBody != nil
	for _, p := range append(append([]parameterDoc{}, shared...), op.Parameters...) {
		if p.In == "body" { // swagger 2.0 body parameter
			hasBody = true
			continue
		}
		typ := p.Type
		if typ == "" && p.Schema != nil {
			typ = p.Schema.Type
		}
		params = append(params, spec.Parameter{
			Name:     p.Name,
			In:       p.In,
			Required: p.Required || p.In == "path",
			Type:     typ,
		})
	}

	responses := make(map[string]string, len(op.Responses))
	for code, resp := range op.Responses {
		responses[code] = resp.Description
	}

	// Scheme names are collected sorted so repeated parses of the same
	// document yield structurally equal records.
	var security []string
	seen := make(map[string]bool)
	for _, req := range op.Security {
		for scheme := range req {
			if !seen[scheme] {
				seen[scheme] = true
				security = append(security, scheme)
			}
		}
	}
	sort.Strings(security)

	tags := spec.NormalizeTags(op.Tags)
	complexity := spec.Classify(len(params), hasBody, len(responses))

	return spec.EndpointRecord{
		Method:          method,
		Path:            path,
		Summary:         op.Summary,
		Description:     op.Description,
		Tags:            tags,
		Parameters:      params,
		HasRequestBody:  hasBody,
		Responses:       responses,
		Security:        security,
		Deprecated:      op.Deprecated,
		Complexity:      complexity,
		ResponseTime:    spec.EstimateResponseTime(complexity, path),
		BusinessContext: spec.DeriveBusinessContext(op.Summary, op.Description, tags),
	}
}

// estimateRecordSize approximates the retained heap footprint of one
// record for the soft memory budget. Strings dominate; everything else
// is covered by a fixed overhead.
func estimateRecordSize(r spec.EndpointRecord) int64 {
	n := int64(len(r.Method) + len(r.Path) + len(r.Summary) + len(r.Description) + len(r.BusinessContext))
	for _, t := range r.Tags {
		n += int64(len(t))
	}
	for _, p := range r.Parameters {
		n += int64(len(p.Name) + len(p.In) + len(p.Type))
	}
	for code, desc := range r.Responses {
		n += int64(len(code) + len(desc))
	}
	for _, s := range r.Security {
		n += int64(len(s))
	}
	return n + 192
}
