package query

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/events"
	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/logging"
	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/spec"
	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/work"
)

// Options tune the engine's routing and matching behavior.
type Options struct {
	// WorkerThreshold is the collection size at which queries are
	// dispatched to the background worker. Default 100.
	WorkerThreshold int
	// FuzzyThreshold is the minimum similarity for the worker-routed
	// fuzzy search path. Default 0.4.
	FuzzyThreshold float64
	// ForceRoute overrides adaptive routing when set.
	ForceRoute Route
	// MailboxSize bounds the worker mailbox. 0 = work.DefaultMailboxSize.
	MailboxSize int
}

func (o Options) withDefaults() Options {
	if o.WorkerThreshold <= 0 {
		o.WorkerThreshold = 100
	}
	if o.FuzzyThreshold <= 0 {
		o.FuzzyThreshold = 0.4
	}
	return o
}

// workerPayload crosses the worker boundary. Records is always a deep
// copy of the engine's collection.
type workerPayload struct {
	Query      Query
	Records    []spec.EndpointRecord
	Generation Generation
	Fuzzy      float64
}

// pendingQuery remembers what a worker envelope was asked so failures
// can be retried inline.
type pendingQuery struct {
	gen Generation
	q   Query
}

// Engine routes queries over an immutable record collection. Results
// come out of Results(); only the freshest generation is ever
// delivered, late results from superseded generations are dropped
// silently.
type Engine struct {
	opts   Options
	worker *work.Worker

	mu       sync.Mutex
	records  []spec.EndpointRecord
	gen      Generation            // last assigned generation
	latest   Generation            // highest generation eligible to surface
	canceled map[Generation]bool     // cooperatively canceled generations
	pending  map[uint64]pendingQuery // worker envelope id -> generation + query

	results chan Result

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewEngine creates a stopped engine. Call Start before submitting.
func NewEngine(opts Options) *Engine {
	opts = opts.withDefaults()
	e := &Engine{
		opts:     opts,
		canceled: make(map[Generation]bool),
		pending:  make(map[uint64]pendingQuery),
		results:  make(chan Result, 8),
	}
	e.worker = work.New("search", opts.MailboxSize, e.handleWorkerRequest)
	return e
}

// Start launches the search worker and the response pump.
func (e *Engine) Start(ctx context.Context) {
	e.ctx, e.cancel = context.WithCancel(ctx)
	e.worker.Start(e.ctx)
	e.wg.Add(1)
	go e.pump()
	logging.Info("Query engine started",
		"threshold", e.opts.WorkerThreshold, "fuzzy", e.opts.FuzzyThreshold)
}

// Close stops the worker and the pump. In-flight work finishes and is
// discarded.
func (e *Engine) Close() {
	if e.cancel != nil {
		e.cancel()
	}
	e.worker.Stop()
	e.wg.Wait()
	logging.Info("Query engine closed")
}

// SetRecords installs a new record collection. The slice is treated as
// immutable from here on. All in-flight generations become stale.
func (e *Engine) SetRecords(records []spec.EndpointRecord) {
	e.mu.Lock()
	e.records = records
	e.gen++
	e.latest = e.gen
	e.canceled = make(map[Generation]bool)
	e.mu.Unlock()
	logging.Info("Record collection installed", "count", len(records))
}

// Size returns the active collection size.
func (e *Engine) Size() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.records)
}

// Results returns the engine's result channel. Exactly the freshest
// generation's results appear here, in submission order of acceptance.
func (e *Engine) Results() <-chan Result {
	return e.results
}

// Submit assigns the query a fresh generation and routes it. Below the
// threshold computation happens synchronously before Submit returns;
// at or above it the query goes to the worker and the result arrives
// on Results later. Worker unavailability falls back to the inline
// path transparently.
func (e *Engine) Submit(q Query) Generation {
	e.mu.Lock()
	e.gen++
	gen := e.gen
	e.latest = gen
	records := e.records
	e.mu.Unlock()

	if e.routeToWorker(len(records)) {
		payload := workerPayload{
			Query:      q,
			Records:    spec.CopyRecords(records),
			Generation: gen,
			Fuzzy:      e.opts.FuzzyThreshold,
		}
		// Submit and register under one critical section: the pump's
		// pending lookup takes the same lock, so even a worker that
		// finishes instantly cannot observe a missing entry.
		e.mu.Lock()
		id, err := e.worker.Submit("query", payload)
		if err == nil {
			e.pending[id] = pendingQuery{gen: gen, q: q}
			e.mu.Unlock()
			events.Info(events.KindQuerySubmit, events.Event{Comp: "query", Gen: uint64(gen), Route: string(RouteWorker), Query: q.Search})
			return gen
		}
		e.mu.Unlock()
		// Worker unavailable (stopped or mailbox full): transparent
		// inline fallback, never surfaced to the caller.
		logging.Debug("Worker unavailable, falling back inline", "gen", uint64(gen), "reason", err)
		events.Warn(events.KindQueryFallback, events.Event{Comp: "query", Gen: uint64(gen), Err: err.Error()})
	}

	events.Info(events.KindQuerySubmit, events.Event{Comp: "query", Gen: uint64(gen), Route: string(RouteInline), Query: q.Search})

	res := execute(records, q, e.opts.FuzzyThreshold, RouteInline)
	res.Generation = gen
	e.deliver(res)
	return gen
}

// Cancel marks a generation obsolete. It does not interrupt in-flight
// worker computation; the late result is simply dropped.
func (e *Engine) Cancel(gen Generation) {
	e.mu.Lock()
	e.canceled[gen] = true
	e.mu.Unlock()
	logging.Debug("Query canceled", "gen", uint64(gen))
}

// Run submits q and blocks until its result (or a fresher one) arrives.
// Intended for single-consumer use such as CLI commands and tests.
func (e *Engine) Run(ctx context.Context, q Query) (Result, error) {
	gen := e.Submit(q)
	for {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case res := <-e.results:
			if res.Generation >= gen {
				if res.Err != nil {
					return Result{}, res.Err
				}
				return res, nil
			}
		}
	}
}

// routeToWorker applies the routing rule.
func (e *Engine) routeToWorker(size int) bool {
	switch e.opts.ForceRoute {
	case RouteInline:
		return false
	case RouteWorker:
		return true
	}
	return size >= e.opts.WorkerThreshold
}

// handleWorkerRequest executes one query on the worker goroutine. The
// worker path uses fuzzy matching; see search.go for why the two paths
// differ.
func (e *Engine) handleWorkerRequest(ctx context.Context, req work.Request, progress func(float64, string)) (any, error) {
	payload, ok := req.Payload.(workerPayload)
	if !ok {
		return nil, fmt.Errorf("query: unexpected payload %T", req.Payload)
	}
	progress(0, fmt.Sprintf("querying %d records", len(payload.Records)))
	res := execute(payload.Records, payload.Query, payload.Fuzzy, RouteWorker)
	res.Generation = payload.Generation
	return res, nil
}

// pump forwards worker responses to Results, retrying failures inline
// once and dropping everything stale.
func (e *Engine) pump() {
	defer e.wg.Done()
	responses := e.worker.Responses()
	for {
		select {
		case <-e.ctx.Done():
			return
		case resp := <-responses:
			e.handleResponse(resp)
		}
	}
}

func (e *Engine) handleResponse(resp work.Response) {
	if !resp.Terminal() {
		return
	}

	e.mu.Lock()
	pq, ok := e.pending[resp.ID]
	delete(e.pending, resp.ID)
	records := e.records
	e.mu.Unlock()
	if !ok {
		return
	}

	if resp.Kind == work.KindError {
		// One inline retry before surfacing; only a failure of both
		// paths reaches the caller.
		logging.Warn("Worker query failed, retrying inline", "gen", uint64(pq.gen), "error", resp.Err)
		events.Warn(events.KindQueryRetry, events.Event{Comp: "query", Gen: uint64(pq.gen), Err: resp.Err.Error()})
		e.deliver(retryInline(records, pq, e.opts.FuzzyThreshold, resp.Err))
		return
	}

	res, ok := resp.Payload.(Result)
	if !ok {
		logging.Error("Worker returned unexpected payload", "gen", uint64(pq.gen))
		return
	}
	e.deliver(res)
}

// retryInline re-runs a failed worker query on the inline path. If the
// retry fails too, the result carries the combined error.
func retryInline(records []spec.EndpointRecord, pq pendingQuery, fuzzy float64, cause error) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{
				Generation: pq.gen,
				Err:        fmt.Errorf("query failed on both paths: %v (worker: %w)", r, cause),
			}
		}
	}()
	res = execute(records, pq.q, fuzzy, RouteInline)
	res.Generation = pq.gen
	return res
}

// deliver surfaces res only if it is still the freshest accepted
// generation. Anything else is a silent discard (logged at debug).
func (e *Engine) deliver(res Result) {
	e.mu.Lock()
	latest := e.latest
	canceled := e.canceled[res.Generation]
	delete(e.canceled, res.Generation)
	e.mu.Unlock()

	if canceled || res.Generation < latest {
		logging.Debug("Stale result discarded",
			"gen", uint64(res.Generation), "latest", uint64(latest), "canceled", canceled)
		events.Emit(events.Event{Kind: events.KindQueryStale, Level: events.LevelDebug, Comp: "query", Gen: uint64(res.Generation)})
		return
	}
	events.Info(events.KindQueryComplete, events.Event{Comp: "query", Gen: uint64(res.Generation), Route: string(res.Route), Count: res.Total, Dur: res.Took})

	// Freshest wins: push out older queued results rather than block.
	for {
		select {
		case e.results <- res:
			return
		default:
			select {
			case stale := <-e.results:
				logging.Debug("Queued result displaced", "gen", uint64(stale.Generation))
			default:
			}
		}
	}
}

// execute runs the full pipeline: filter, search, sort, group. route
// selects the search strategy (inline = substring, worker = fuzzy).
func execute(records []spec.EndpointRecord, q Query, fuzzy float64, route Route) Result {
	started := time.Now()

	filtered := Apply(records, q.Filters)
	if route == RouteWorker {
		filtered = MatchFuzzy(filtered, q.Search, fuzzy)
	} else {
		filtered = MatchSubstring(filtered, q.Search)
	}
	sorted := Sort(filtered, q.SortKey, q.Desc)
	buckets := Group(sorted, q.GroupBy)

	return Result{
		Records: sorted,
		Buckets: buckets,
		Total:   len(sorted),
		Took:    time.Since(started),
		Route:   route,
	}
}
