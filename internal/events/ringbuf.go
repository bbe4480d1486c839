package events

import "sync"

// RingBuffer holds the most recent events in memory. Once full, each
// push overwrites the oldest entry.
type RingBuffer struct {
	mu    sync.Mutex
	buf   []Event
	next  int
	full  bool
	total uint64
}

// NewRingBuffer returns a ring holding up to capacity events.
// Capacity must be positive.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = 1
	}
	return &RingBuffer{buf: make([]Event, capacity)}
}

// Push records ev, evicting the oldest event when full.
func (r *RingBuffer) Push(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf[r.next] = ev
	r.next++
	r.total++
	if r.next == len(r.buf) {
		r.next = 0
		r.full = true
	}
}

// Snapshot returns the retained events oldest-first.
func (r *RingBuffer) Snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		out := make([]Event, r.next)
		copy(out, r.buf[:r.next])
		return out
	}
	out := make([]Event, 0, len(r.buf))
	out = append(out, r.buf[r.next:]...)
	out = append(out, r.buf[:r.next]...)
	return out
}

// Last returns up to n most recent events oldest-first.
func (r *RingBuffer) Last(n int) []Event {
	snap := r.Snapshot()
	if n >= len(snap) {
		return snap
	}
	return snap[len(snap)-n:]
}

// Len reports how many events are retained.
func (r *RingBuffer) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.full {
		return len(r.buf)
	}
	return r.next
}

// Cap reports the ring capacity.
func (r *RingBuffer) Cap() int { return len(r.buf) }

// Stats counts retained events by kind.
func (r *RingBuffer) Stats() map[Kind]int {
	stats := make(map[Kind]int)
	for _, ev := range r.Snapshot() {
		stats[ev.Kind]++
	}
	return stats
}

// Total reports how many events have ever been pushed, including
// evicted ones.
func (r *RingBuffer) Total() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}
