package parse

import (
	"errors"
	"fmt"
	"strings"
)

// ParseError reports malformed or truncated input. Offset is the byte
// offset into the (decompressed) document where decoding stopped; Line
// is set when the underlying decoder reports one, otherwise 0.
type ParseError struct {
	Offset int64
	Line   int
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("parse error at byte %d: %s", e.Offset, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError reports a document that decoded cleanly but fails
// structural specification rules.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Violations, "; "))
}

// MemoryExceededError reports that the session's soft memory budget was
// exhausted and a reclamation pass found no headroom.
type MemoryExceededError struct {
	Budget   int64
	Retained int64
}

func (e *MemoryExceededError) Error() string {
	return fmt.Sprintf("memory budget exceeded: retained %d bytes, budget %d bytes", e.Retained, e.Budget)
}

// ErrAborted is returned by Result when the session was aborted before
// reaching Done.
var ErrAborted = errors.New("parse: session aborted")
