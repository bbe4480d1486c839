// Package e2e exercises the full pipeline: a synthetic document flows
// through the streaming parser into the query engine and out to a
// virtualized window, the way the interactive app drives it.
package e2e

import (
	"fmt"
	"strings"
)

// resource groups used by the synthetic document generator.
var fixtureTags = []string{"users", "orders", "payments", "inventory", "shipping"}

// syntheticDoc generates a deterministic OpenAPI document with
// pathCount path items, each carrying a GET and a POST operation.
func syntheticDoc(pathCount int) string {
	var b strings.Builder
	b.WriteString(`{
  "openapi": "3.0.3",
  "info": {"title": "Synthetic", "version": "2.0.0"},
  "paths": {`)

	for i := 0; i < pathCount; i++ {
		tag := fixtureTags[i%len(fixtureTags)]
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `
    "/%s/resource%04d": {
      "get": {
        "summary": "Read %s resource %d",
        "tags": ["%s"],
        "parameters": [{"name": "verbose", "in": "query", "schema": {"type": "boolean"}}],
        "responses": {"200": {"description": "OK"}, "404": {"description": "Missing"}}
      },
      "post": {
        "summary": "Write %s resource %d",
        "tags": ["%s"],
        "requestBody": {"required": true},
        "security": [{"apiKey": []}],
        "responses": {"201": {"description": "Created"}}
      }
    }`, tag, i, tag, i, tag, tag, i, tag)
	}

	b.WriteString(`
  },
  "components": {
    "schemas": {
      "Resource": {"type": "object", "properties": {"id": {"type": "string"}}},
      "Error": {"type": "object"}
    }
  }
}`)
	return b.String()
}
