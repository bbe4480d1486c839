package events

// Goroutine safety:
// The drain goroutine is the sole reader of l.ch and the sole writer to l.w.
// Logger.mu protects only the l.ring pointer (read by drain, written by
// SetRingBuffer). The ring buffer's own mu handles concurrent access.

import (
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

// emitChanSize is the capacity of the async write channel.
// At ~200 bytes/event, 4096 events buffers ~800KB.
const emitChanSize = 4096

// entry carries both serialized bytes (for the sink) and the original
// Event (for the ring). Keeping the struct copy avoids a lossy JSON
// round-trip: Dur is json:"-" and would not survive one.
type entry struct {
	data []byte
	ev   Event
}

// Logger serializes events as JSONL through an async drain goroutine.
// Emit is non-blocking: when the channel is full the event is dropped
// and counted rather than stalling the parse or query path.
type Logger struct {
	mu        sync.Mutex
	ring      *RingBuffer // nil until SetRingBuffer
	sessionID string      // random hex, set once at creation
	ch        chan entry
	w         io.Writer
	closer    io.Closer // closed on Close when the sink is a file
	dropped   atomic.Uint64
	closed    atomic.Bool
	done      chan struct{} // closed when drain exits
	closeOnce sync.Once
}

// NewLogger creates a Logger writing JSONL to w asynchronously.
// Call Close to flush and stop the drain goroutine.
func NewLogger(w io.Writer) *Logger {
	var sid [8]byte
	_, _ = rand.Read(sid[:])

	l := &Logger{
		sessionID: fmt.Sprintf("%x", sid[:]),
		ch:        make(chan entry, emitChanSize),
		w:         w,
		done:      make(chan struct{}),
	}
	go l.drain()
	return l
}

// NewFileLogger opens (or creates, appending) a JSONL file at path.
// Close closes the file.
func NewFileLogger(path string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create events dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open events file: %w", err)
	}
	l := NewLogger(f)
	l.closer = f
	return l, nil
}

// NewNullLogger creates a Logger that discards output.
// Callers should still Close it to stop the drain goroutine.
func NewNullLogger() *Logger {
	return NewLogger(io.Discard)
}

// SetRingBuffer attaches an in-memory ring that mirrors every event the
// drain goroutine writes.
func (l *Logger) SetRingBuffer(rb *RingBuffer) {
	l.mu.Lock()
	l.ring = rb
	l.mu.Unlock()
}

// Emit queues ev for writing, stamping Time (if zero) and SessionID.
// Safe to call from any goroutine, including concurrently with Close:
// if Close races between the closed check and the channel send, the
// resulting panic is recovered and the event counted as dropped.
func (l *Logger) Emit(ev Event) {
	if l == nil {
		return
	}
	defer func() {
		if recover() != nil {
			l.dropped.Add(1)
		}
	}()

	if l.closed.Load() {
		l.dropped.Add(1)
		return
	}

	if ev.Time.IsZero() {
		ev.Time = time.Now().UTC()
	}
	if ev.Level == "" {
		ev.Level = LevelInfo
	}
	ev.SessionID = l.sessionID

	data, err := ev.MarshalJSON()
	if err != nil {
		l.dropped.Add(1)
		return
	}

	select {
	case l.ch <- entry{data: append(data, '\n'), ev: ev}:
	default:
		l.dropped.Add(1)
	}
}

// Info emits an info-level event of the given kind.
func (l *Logger) Info(kind Kind, ev Event) {
	ev.Kind = kind
	ev.Level = LevelInfo
	l.Emit(ev)
}

// Warn emits a warn-level event of the given kind.
func (l *Logger) Warn(kind Kind, ev Event) {
	ev.Kind = kind
	ev.Level = LevelWarn
	l.Emit(ev)
}

// Error emits an error-level event of the given kind.
func (l *Logger) Error(kind Kind, ev Event) {
	ev.Kind = kind
	ev.Level = LevelError
	l.Emit(ev)
}

// Dropped reports how many events were discarded under pressure.
func (l *Logger) Dropped() uint64 {
	if l == nil {
		return 0
	}
	return l.dropped.Load()
}

// Close flushes queued events and stops the drain goroutine. Idempotent.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		close(l.ch)
		<-l.done
		if l.closer != nil {
			l.closer.Close()
		}
		if n := l.dropped.Load(); n > 0 {
			fmt.Fprintf(os.Stderr, "events: dropped %d under pressure\n", n)
		}
	})
	return nil
}

func (l *Logger) drain() {
	defer close(l.done)
	for e := range l.ch {
		if _, err := l.w.Write(e.data); err != nil {
			l.dropped.Add(1)
		}

		l.mu.Lock()
		rb := l.ring
		l.mu.Unlock()

		if rb != nil {
			rb.Push(e.ev)
		}
	}
}
