// Package parse implements the chunked, memory-bounded streaming parser
// that turns raw OpenAPI/Swagger document bytes into endpoint records.
//
// A session pulls the source one chunk at a time, completes one
// top-level structural unit (a path item or schema entry) per step and
// converts it to records immediately, so retained memory stays at
// O(chunkSize) plus the growing record set, which is checked against a
// soft budget. Progress is reported through a callback with a
// monotonically non-decreasing percentage.
package parse

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/logging"
	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/spec"
)

// Stage is the lifecycle state of a parse session.
type Stage string

const (
	StageIdle       Stage = "idle"
	StageReading    Stage = "reading"
	StageDecoding   Stage = "decoding"
	StageValidating Stage = "validating"
	StageExtracting Stage = "extracting"
	StageDone       Stage = "done"
	StageError      Stage = "error"
)

// ProgressFunc receives progress updates. Percentage is in [0,100] and
// never decreases over the life of a session.
type ProgressFunc func(pct float64, stage Stage, message string)

// Config controls one parse session.
type Config struct {
	ChunkSize           int   // bytes consumed per step; default 64 KiB
	MaxMemoryBytes      int64 // soft retained-memory ceiling; default 50 MiB
	EnableCompression   bool  // source is gzip-compressed, inflate incrementally
	ValidateOnParse     bool  // run structural validation before finalizing
	PrioritizeEndpoints bool  // stream records out as they are extracted
	MaxChunksPerSecond  int   // chunk pacing; 0 = unpaced
	Progress            ProgressFunc
}

func (c Config) withDefaults() Config {
	if c.ChunkSize <= 0 {
		c.ChunkSize = 64 * 1024
	}
	if c.MaxMemoryBytes <= 0 {
		c.MaxMemoryBytes = 50 * 1024 * 1024
	}
	return c
}

// Result is the terminal product of a successful session.
type Result struct {
	Records  []spec.EndpointRecord
	Metadata spec.Metadata
}

// docSummary accumulates document-level facts during the walk.
type docSummary struct {
	versionMarker string // value of the "openapi" or "swagger" key
	info          infoDoc
	schemaCount   int
	sawPaths      bool
}

// Session is one in-progress parse. Created by Begin, it runs in its
// own goroutine; Result blocks until a terminal stage is reached.
type Session struct {
	id  string
	cfg Config
	src io.Reader
	// total raw source size in bytes, <= 0 when unknown
	size int64

	ctx    context.Context
	cancel context.CancelFunc

	limiter *rate.Limiter
	started time.Time

	stream chan []spec.EndpointRecord

	mu        sync.Mutex
	stage     Stage
	lastPct   float64
	retained  int64
	reclaimed bool

	raw        *countingReader // transport byte counter, set once reading starts
	bufCharged bool            // working buffer charged to the budget

	done   chan struct{}
	result *Result
	err    error

	records []spec.EndpointRecord
	summary docSummary
	chunks  int
}

// Begin starts a parse session over src. size is the total raw source
// size when known (file stat, Content-Length), or <= 0. The returned
// session is already running; call Result to wait for it.
func Begin(ctx context.Context, src io.Reader, size int64, cfg Config) *Session {
	cfg = cfg.withDefaults()
	ctx, cancel := context.WithCancel(ctx)

	s := &Session{
		id:      uuid.NewString(),
		cfg:     cfg,
		src:     src,
		size:    size,
		ctx:     ctx,
		cancel:  cancel,
		stage:   StageIdle,
		started: time.Now(),
		done:    make(chan struct{}),
	}
	if cfg.MaxChunksPerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.MaxChunksPerSecond), 1)
	}
	if cfg.PrioritizeEndpoints {
		s.stream = make(chan []spec.EndpointRecord, 64)
	}

	logging.Info("Parse session starting",
		"session", s.id, "size", size, "chunk", cfg.ChunkSize, "budget", cfg.MaxMemoryBytes)

	go s.run()
	return s
}

// ID returns the session's unique id.
func (s *Session) ID() string { return s.id }

// Stage returns the current lifecycle stage. Safe for concurrent use.
func (s *Session) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

// Stream returns the channel of record batches emitted while the
// session runs. Nil unless Config.PrioritizeEndpoints was set. The
// channel is closed when the session reaches a terminal stage.
func (s *Session) Stream() <-chan []spec.EndpointRecord {
	return s.stream
}

// Abort cancels the session cooperatively. The session still reaches a
// terminal stage; Result then returns ErrAborted.
func (s *Session) Abort() {
	s.cancel()
}

// Result blocks until the session reaches a terminal stage and returns
// its product or typed error. All buffers are released by then.
func (s *Session) Result() (*Result, error) {
	<-s.done
	return s.result, s.err
}

// run drives the session to a terminal stage. It never hangs: reader
// errors, decode errors, budget breaches and cancellation all resolve
// into a terminal error.
func (s *Session) run() {
	res, err := s.parse()

	s.mu.Lock()
	if err != nil {
		s.stage = StageError
		s.err = err
	} else {
		s.stage = StageDone
		s.result = res
	}
	// Terminal stage releases working state; only the result survives.
	s.records = nil
	s.mu.Unlock()

	if s.stream != nil {
		close(s.stream)
	}
	if err != nil {
		logging.Error("Parse session failed", "session", s.id, "error", err)
	} else {
		logging.Info("Parse session done",
			"session", s.id,
			"endpoints", res.Metadata.EndpointCount,
			"schemas", res.Metadata.SchemaCount,
			"bytes", res.Metadata.BytesProcessed,
			"took", res.Metadata.ParseTime)
	}
	close(s.done)
}

func (s *Session) parse() (*Result, error) {
	s.setStage(StageReading)
	s.report(0, StageReading, "opening document")

	cr, raw, err := newInputReader(s.ctx, s.src, s.cfg, s.afterChunk)
	if err != nil {
		return nil, err
	}
	s.raw = raw
	br := bufio.NewReaderSize(cr, s.cfg.ChunkSize)

	format, err := probeFormat(br)
	if err != nil {
		return nil, s.classify(err, 0)
	}

	s.setStage(StageDecoding)
	s.report(5, StageDecoding, fmt.Sprintf("decoding %s document", format))

	switch format {
	case formatJSON:
		err = s.parseJSON(br)
	case formatYAML:
		err = s.parseYAML(br)
	}
	if err != nil {
		return nil, err
	}

	if s.cfg.ValidateOnParse {
		s.setStage(StageValidating)
		s.report(90, StageValidating, "validating document structure")
		if err := s.validate(); err != nil {
			return nil, err
		}
	}

	s.setStage(StageExtracting)
	s.report(95, StageExtracting, fmt.Sprintf("finalizing %d endpoints", len(s.records)))

	meta := spec.Metadata{
		Title:           s.summary.info.Title,
		Version:         s.summary.info.Version,
		EndpointCount:   len(s.records),
		SchemaCount:     s.summary.schemaCount,
		ParseTime:       time.Since(s.started),
		BytesProcessed:  raw.n,
		ChunksProcessed: cr.chunks,
	}
	if s.cfg.EnableCompression && raw.n > 0 {
		meta.CompressionRatio = float64(cr.inflated) / float64(raw.n)
	}

	records := s.records
	s.report(100, StageDone, "parse complete")
	return &Result{Records: records, Metadata: meta}, nil
}

// afterChunk runs between chunks: pacing, progress, memory guard. This
// is the parser's cooperative yield point, so huge documents never hold
// the caller's loop for more than one chunk of work.
func (s *Session) afterChunk(chunk int, inflated int64) error {
	if s.limiter != nil {
		if err := s.limiter.Wait(s.ctx); err != nil {
			return err
		}
	}
	s.chunks = chunk

	// size counts transport bytes, so a compressed source must be
	// measured by raw bytes read, not inflated output.
	transferred := inflated
	if s.cfg.EnableCompression && s.raw != nil {
		transferred = s.raw.n
	}
	if s.size > 0 {
		// Reserve the tail of the range for validation/extraction.
		pct := float64(transferred) / float64(s.size) * 85
		s.report(5+pct, StageDecoding,
			fmt.Sprintf("%s of %s", humanize.Bytes(uint64(transferred)), humanize.Bytes(uint64(s.size))))
	} else {
		s.report(s.lastPercent(), StageDecoding,
			fmt.Sprintf("%s processed", humanize.Bytes(uint64(inflated))))
	}

	// Only one chunk's working buffer is resident at a time. Charge it
	// once; bytes already decoded and discarded are not retained.
	if s.bufCharged {
		return s.checkBudget(0)
	}
	s.bufCharged = true
	return s.checkBudget(int64(s.cfg.ChunkSize))
}

// addRecords appends freshly extracted records, charges them to the
// memory budget and streams them out when prioritization is on.
func (s *Session) addRecords(recs []spec.EndpointRecord) error {
	if len(recs) == 0 {
		return nil
	}
	var add int64
	for _, r := range recs {
		add += estimateRecordSize(r)
	}
	s.records = append(s.records, recs...)

	if s.stream != nil {
		// Non-blocking: a slow consumer must not stall the parse, the
		// full set is still delivered through Result.
		select {
		case s.stream <- recs:
		default:
		}
	}
	return s.checkBudget(add)
}

// checkBudget charges add bytes against the soft ceiling. On the first
// breach a reclamation pass runs (GC hint); a breach after reclamation
// is fatal.
func (s *Session) checkBudget(add int64) error {
	s.mu.Lock()
	s.retained += add
	retained := s.retained
	budget := s.cfg.MaxMemoryBytes
	reclaimed := s.reclaimed
	if retained > budget && !reclaimed {
		s.reclaimed = true
	}
	s.mu.Unlock()

	if retained <= budget {
		return nil
	}
	if !reclaimed {
		logging.Warn("Memory budget breached, reclaiming",
			"session", s.id, "retained", retained, "budget", budget)
		runtime.GC()
		return nil
	}
	return &MemoryExceededError{Budget: budget, Retained: retained}
}

// validate applies the structural rules the document must satisfy.
func (s *Session) validate() error {
	var violations []string
	if s.summary.versionMarker == "" {
		violations = append(violations, "missing openapi/swagger version marker")
	}
	if s.summary.info.Title == "" {
		violations = append(violations, "missing info.title")
	}
	if !s.summary.sawPaths {
		violations = append(violations, "document has no paths section")
	}
	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

func (s *Session) setStage(st Stage) {
	s.mu.Lock()
	s.stage = st
	s.mu.Unlock()
	logging.Debug("Parse stage", "session", s.id, "stage", st)
}

// report invokes the progress callback, clamping the percentage so it
// never decreases and never exceeds 100.
func (s *Session) report(pct float64, stage Stage, message string) {
	s.mu.Lock()
	if pct < s.lastPct {
		pct = s.lastPct
	}
	if pct > 100 {
		pct = 100
	}
	s.lastPct = pct
	cb := s.cfg.Progress
	s.mu.Unlock()

	if cb != nil {
		cb(pct, stage, message)
	}
}

func (s *Session) lastPercent() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPct
}

// classify maps low-level failures onto the session error taxonomy.
func (s *Session) classify(err error, offset int64) error {
	var mem *MemoryExceededError
	var parseErr *ParseError
	var valErr *ValidationError
	switch {
	case errors.As(err, &mem):
		return mem
	case errors.As(err, &parseErr):
		return parseErr
	case errors.As(err, &valErr):
		return valErr
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrAborted, err)
	case errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF):
		return &ParseError{Offset: offset, Msg: "unexpected end of document (truncated input)", Err: err}
	default:
		return &ParseError{Offset: offset, Msg: err.Error(), Err: err}
	}
}
