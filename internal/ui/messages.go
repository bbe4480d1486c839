package ui

import (
	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/parse"
	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/query"
	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/spec"
)

// Messages for Bubble Tea

// ParseProgressMsg is sent as the parser works through the document
type ParseProgressMsg struct {
	Pct     float64
	Stage   parse.Stage
	Message string
}

// RecordsStreamedMsg carries a batch of records extracted before the
// whole document finished (prioritized extraction)
type RecordsStreamedMsg struct {
	Records []spec.EndpointRecord
}

// ParseDoneMsg is sent when the parse session reaches a terminal stage
type ParseDoneMsg struct {
	Result *parse.Result
	Err    error
}

// QueryResultMsg carries a fresh query result from the engine
type QueryResultMsg struct {
	Result query.Result
}

// FrameMsg drives scroll animation and the isScrolling quiet period
type FrameMsg struct{}
