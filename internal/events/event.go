// Package events records pipeline diagnostics as JSONL lines. Events
// are typed structs written asynchronously through a buffered channel
// so emitters never block; a ring buffer keeps the most recent events
// in memory for live inspection.
package events

import (
	"encoding/json"
	"time"
)

// Level is event severity.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Kind categorizes an event, dot-delimited "<subsystem>.<action>".
type Kind string

const (
	// Document pipeline
	KindDocumentOpen  Kind = "document.open"
	KindDocumentDone  Kind = "document.done"
	KindDocumentError Kind = "document.error"
	KindParseStage    Kind = "parse.stage"

	// Query engine
	KindQuerySubmit   Kind = "query.submit"
	KindQueryComplete Kind = "query.complete"
	KindQueryFallback Kind = "query.fallback"
	KindQueryRetry    Kind = "query.retry"
	KindQueryStale    Kind = "query.stale"

	// System
	KindStartup  Kind = "sys.startup"
	KindShutdown Kind = "sys.shutdown"
)

// Event is one diagnostics record, serialized as a single JSONL line.
// Everything except Kind and Time is optional.
type Event struct {
	Time      time.Time     `json:"t"`
	Level     Level         `json:"level,omitempty"`
	Kind      Kind          `json:"kind"`
	Comp      string        `json:"comp,omitempty"` // emitting component: "coord", "query", "main"
	SessionID string        `json:"session_id,omitempty"`
	Gen       uint64        `json:"gen,omitempty"`    // query generation
	Route     string        `json:"route,omitempty"`  // inline or worker
	Stage     string        `json:"stage,omitempty"`  // parse stage
	Source    string        `json:"source,omitempty"` // document source name
	Query     string        `json:"query,omitempty"`  // search term
	Count     int           `json:"count,omitempty"`
	Dur       time.Duration `json:"-"`
	DurMs     float64       `json:"dur_ms,omitempty"` // derived from Dur at marshal time
	Err       string        `json:"err,omitempty"`
	Msg       string        `json:"msg,omitempty"`
}

// MarshalJSON converts Dur to DurMs on the way out.
func (e Event) MarshalJSON() ([]byte, error) {
	type alias Event
	a := struct{ alias }{alias: alias(e)}
	if e.Dur > 0 {
		a.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(a)
}
