// Package work provides the background execution actor used to keep
// expensive computation off the interactive loop. A Worker is a single
// goroutine with a bounded mailbox reached only by message passing:
// callers submit request envelopes and read response envelopes, never
// sharing mutable state with the handler.
//
// Logging: lifecycle and per-request state changes are logged via
// internal/logging for debugging, since the UI may cover the terminal.
package work

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/logging"
)

// Submission errors. Both are expected conditions: callers fall back to
// inline computation rather than treating them as fatal.
var (
	ErrNotRunning  = errors.New("work: worker not running")
	ErrMailboxFull = errors.New("work: mailbox full")
)

// DefaultMailboxSize bounds how many requests may queue before Submit
// starts rejecting. Small on purpose: a deep queue of superseded
// queries is wasted work.
const DefaultMailboxSize = 16

// Kind discriminates response envelopes.
type Kind string

const (
	KindSuccess  Kind = "success"
	KindError    Kind = "error"
	KindProgress Kind = "progress"
)

// Request is the envelope submitted to a worker. ID is assigned by
// Submit and correlates the request with its responses.
type Request struct {
	Type    string
	Payload any
	ID      uint64
}

// Response is the envelope emitted by a worker. For each request ID the
// worker emits zero or more progress responses followed by exactly one
// terminal response (success or error).
type Response struct {
	Kind     Kind
	Payload  any
	ID       uint64
	Progress float64 // 0..1, meaningful for KindProgress
	Message  string  // progress message
	Err      error   // set for KindError
}

// Terminal reports whether the response ends its request.
func (r Response) Terminal() bool {
	return r.Kind == KindSuccess || r.Kind == KindError
}

// Handler computes one request. The progress callback may be called any
// number of times before returning; the returned value or error becomes
// the terminal response.
type Handler func(ctx context.Context, req Request, progress func(pct float64, msg string)) (any, error)

// Worker is a single background actor with an explicit start/stop
// lifecycle so tests can spin up and tear down isolated instances.
type Worker struct {
	name    string
	handler Handler

	mailbox   chan Request
	responses chan Response

	nextID atomic.Uint64

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a stopped worker. mailboxSize <= 0 uses DefaultMailboxSize.
func New(name string, mailboxSize int, handler Handler) *Worker {
	if mailboxSize <= 0 {
		mailboxSize = DefaultMailboxSize
	}
	return &Worker{
		name:      name,
		handler:   handler,
		mailbox:   make(chan Request, mailboxSize),
		responses: make(chan Response, mailboxSize*4),
	}
}

// Start launches the worker goroutine. Starting a running worker is a
// no-op.
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	ctx, w.cancel = context.WithCancel(ctx)
	w.running = true
	w.wg.Add(1)
	go w.loop(ctx)
	logging.Info("Worker started", "worker", w.name, "mailbox", cap(w.mailbox))
}

// Stop shuts the worker down and waits for the in-flight request, if
// any, to finish. In-flight work is not preempted; its late response is
// still emitted and it is the caller's job to discard it.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.cancel()
	w.mu.Unlock()

	w.wg.Wait()
	logging.Info("Worker stopped", "worker", w.name)
}

// Running reports whether the worker accepts submissions.
func (w *Worker) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Submit enqueues a request without blocking. It returns the assigned
// envelope ID, or ErrNotRunning / ErrMailboxFull when the request
// cannot be accepted.
func (w *Worker) Submit(reqType string, payload any) (uint64, error) {
	w.mu.Lock()
	running := w.running
	w.mu.Unlock()
	if !running {
		return 0, ErrNotRunning
	}

	req := Request{Type: reqType, Payload: payload, ID: w.nextID.Add(1)}
	select {
	case w.mailbox <- req:
		logging.Debug("Work submitted", "worker", w.name, "id", req.ID, "type", req.Type)
		return req.ID, nil
	default:
		logging.Debug("Work rejected, mailbox full", "worker", w.name, "type", req.Type)
		return 0, ErrMailboxFull
	}
}

// Responses returns the channel of response envelopes. The channel is
// never closed; drain it for as long as the worker may be running.
func (w *Worker) Responses() <-chan Response {
	return w.responses
}

// loop drains the mailbox until the context is canceled.
func (w *Worker) loop(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-w.mailbox:
			w.handle(ctx, req)
		}
	}
}

// handle runs one request and emits its terminal response. Panics in
// the handler become error responses so one bad request cannot take the
// actor down.
func (w *Worker) handle(ctx context.Context, req Request) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Work panicked", "worker", w.name, "id", req.ID, "panic", r)
			w.emit(Response{Kind: KindError, ID: req.ID, Err: fmt.Errorf("work: panic: %v", r)})
		}
	}()

	progress := func(pct float64, msg string) {
		w.emit(Response{Kind: KindProgress, ID: req.ID, Progress: pct, Message: msg})
	}

	result, err := w.handler(ctx, req, progress)
	if err != nil {
		logging.Error("Work failed", "worker", w.name, "id", req.ID, "type", req.Type,
			"error", err, "duration", time.Since(started))
		w.emit(Response{Kind: KindError, ID: req.ID, Err: err})
		return
	}
	logging.Debug("Work completed", "worker", w.name, "id", req.ID, "type", req.Type,
		"duration", time.Since(started))
	w.emit(Response{Kind: KindSuccess, ID: req.ID, Payload: result})
}

// emit delivers a response, dropping progress envelopes when the
// consumer is not keeping up. Terminal envelopes always get through.
func (w *Worker) emit(resp Response) {
	if resp.Terminal() {
		w.responses <- resp
		return
	}
	select {
	case w.responses <- resp:
	default:
		logging.Debug("Progress dropped (consumer full)", "worker", w.name, "id", resp.ID)
	}
}
