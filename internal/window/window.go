// Package window computes the minimal visible slice of an arbitrarily
// long ordered list for a scrolled viewport. It supports a constant
// item height fast path and a variable-height path backed by a lazily
// rebuilt prefix-sum offset table, plus overscan, throttled scroll
// input and spring-animated scroll-to-index.
package window

import (
	"math"
	"sort"
	"time"

	"github.com/charmbracelet/harmonica"
	"golang.org/x/time/rate"
)

const (
	// DefaultThrottle caps how often raw scroll events are applied,
	// roughly one animation frame.
	DefaultThrottle = 16 * time.Millisecond
	// DefaultQuietPeriod is how long after the last scroll event the
	// window still reports IsScrolling.
	DefaultQuietPeriod = 150 * time.Millisecond
	// DefaultOverscan is the number of extra items rendered on each
	// side of the viewport.
	DefaultOverscan = 3
)

// HeightFunc returns the height of the item at index.
type HeightFunc func(index int) float64

// VisibleItem is one renderable row of the computed window.
type VisibleItem struct {
	Index  int
	Offset float64
	Height float64
}

// Option configures a Window.
type Option func(*Window)

// WithUniformHeight selects the constant-height fast path.
func WithUniformHeight(h float64) Option {
	return func(w *Window) {
		w.uniform = h
		w.heightFn = nil
	}
}

// WithHeightFunc selects the variable-height path.
func WithHeightFunc(f HeightFunc) Option {
	return func(w *Window) {
		w.uniform = 0
		w.heightFn = f
	}
}

// WithOverscan sets how many extra items surround the viewport.
func WithOverscan(n int) Option {
	return func(w *Window) { w.overscan = n }
}

// WithThrottle sets the minimum interval between applied scroll events.
func WithThrottle(d time.Duration) Option {
	return func(w *Window) { w.throttle = d }
}

// WithQuietPeriod sets how long IsScrolling stays true after activity.
func WithQuietPeriod(d time.Duration) Option {
	return func(w *Window) { w.quiet = d }
}

// Window is the virtualized viewport state. Not safe for concurrent
// use; it belongs to the interactive loop.
type Window struct {
	count          int
	viewportHeight float64
	uniform        float64 // > 0 selects the fast path
	heightFn       HeightFunc
	overscan       int

	scrollTop float64

	// offsets[i] is the cumulative height of items [0, i); its length
	// is count+1 so offsets[count] is the total height. Rebuilt lazily
	// whenever the count or any height is invalidated.
	offsets []float64
	dirty   bool

	throttle   time.Duration
	quiet      time.Duration
	limiter    *rate.Limiter
	lastScroll time.Time

	spring    harmonica.Spring
	springPos float64
	springVel float64
	target    float64
	animating bool
}

// New creates a window over count items with the given viewport height.
// Without a height option, a uniform height of 1 is assumed.
func New(count int, viewportHeight float64, opts ...Option) *Window {
	w := &Window{
		count:          count,
		viewportHeight: viewportHeight,
		uniform:        1,
		overscan:       DefaultOverscan,
		throttle:       DefaultThrottle,
		quiet:          DefaultQuietPeriod,
		dirty:          true,
		spring:         harmonica.NewSpring(harmonica.FPS(60), 6.0, 0.8),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.limiter = rate.NewLimiter(rate.Every(w.throttle), 1)
	return w
}

// SetCount changes the item count, invalidating the offset table. The
// scroll position is retained; progress reporting clamps as needed.
func (w *Window) SetCount(n int) {
	if n < 0 {
		n = 0
	}
	w.count = n
	w.dirty = true
}

// Count returns the current item count.
func (w *Window) Count() int { return w.count }

// SetViewportHeight resizes the viewport.
func (w *Window) SetViewportHeight(h float64) {
	w.viewportHeight = h
}

// InvalidateHeights forces a prefix-sum rebuild on next use. Call it
// after the height function's answers change.
func (w *Window) InvalidateHeights() {
	w.dirty = true
}

// SetScrollTop applies a raw scroll event. Events arriving faster than
// the throttle interval are dropped; the return value reports whether
// the event was applied. Applying a scroll cancels any smooth
// animation in flight.
func (w *Window) SetScrollTop(top float64) bool {
	if !w.limiter.Allow() {
		return false
	}
	w.applyScroll(top)
	return true
}

// applyScroll clamps and stores the position without throttling.
func (w *Window) applyScroll(top float64) {
	w.animating = false
	max := w.maxScroll()
	if top < 0 {
		top = 0
	}
	if top > max {
		top = max
	}
	w.scrollTop = top
	w.lastScroll = time.Now()
}

// ScrollTop returns the current scroll position.
func (w *Window) ScrollTop() float64 { return w.scrollTop }

// IsScrolling reports whether a scroll event arrived within the quiet
// period, so consumers can skip expensive per-item work mid-flick.
func (w *Window) IsScrolling() bool {
	if w.lastScroll.IsZero() {
		return false
	}
	return time.Since(w.lastScroll) < w.quiet
}

// TotalHeight is the sum of all item heights.
func (w *Window) TotalHeight() float64 {
	if w.count == 0 {
		return 0
	}
	if w.uniform > 0 {
		return float64(w.count) * w.uniform
	}
	w.rebuild()
	return w.offsets[w.count]
}

// maxScroll is the largest meaningful scrollTop.
func (w *Window) maxScroll() float64 {
	m := w.TotalHeight() - w.viewportHeight
	if m < 0 {
		return 0
	}
	return m
}

// Range returns the inclusive visible index range, overscan included.
// An empty collection yields (0, -1).
func (w *Window) Range() (int, int) {
	if w.count == 0 {
		return 0, -1
	}
	if w.uniform > 0 {
		start := int(math.Floor(w.scrollTop / w.uniform))
		end := start + int(math.Ceil(w.viewportHeight/w.uniform)) + w.overscan
		start -= w.overscan
		if start < 0 {
			start = 0
		}
		if end > w.count-1 {
			end = w.count - 1
		}
		return start, end
	}

	w.rebuild()

	// First index whose bottom edge is past scrollTop: binary search
	// over the prefix sums, O(log n).
	start := sort.Search(w.count, func(i int) bool {
		return w.offsets[i+1] > w.scrollTop
	})
	if start >= w.count {
		start = w.count - 1
	}

	// Forward scan until the viewport span is covered.
	limit := w.scrollTop + w.viewportHeight
	end := start
	for end < w.count-1 && w.offsets[end+1] < limit {
		end++
	}

	start -= w.overscan
	if start < 0 {
		start = 0
	}
	end += w.overscan
	if end > w.count-1 {
		end = w.count - 1
	}
	return start, end
}

// Visible returns the renderable rows for the current range.
func (w *Window) Visible() []VisibleItem {
	start, end := w.Range()
	if end < start {
		return []VisibleItem{}
	}
	out := make([]VisibleItem, 0, end-start+1)
	for i := start; i <= end; i++ {
		out = append(out, VisibleItem{
			Index:  i,
			Offset: w.OffsetOf(i),
			Height: w.heightOf(i),
		})
	}
	return out
}

// OffsetOf returns the top offset of item i.
func (w *Window) OffsetOf(i int) float64 {
	if i < 0 {
		return 0
	}
	if i >= w.count {
		return w.TotalHeight()
	}
	if w.uniform > 0 {
		return float64(i) * w.uniform
	}
	w.rebuild()
	return w.offsets[i]
}

func (w *Window) heightOf(i int) float64 {
	if w.uniform > 0 {
		return w.uniform
	}
	return w.heightFn(i)
}

// ScrollProgress reports scroll position in [0,1]. When the content
// fits the viewport it is 0 at the top; a stale position past a shrunk
// total clamps to 1.
func (w *Window) ScrollProgress() float64 {
	if w.count == 0 {
		return 0
	}
	denom := w.TotalHeight() - w.viewportHeight
	if denom <= 0 {
		if w.scrollTop > 0 {
			return 1
		}
		return 0
	}
	p := w.scrollTop / denom
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// ScrollToIndex scrolls so item i's top edge sits at the viewport top.
// With smooth set, the move is animated by a spring; call Tick each
// frame until it returns false.
func (w *Window) ScrollToIndex(i int, smooth bool) {
	if i < 0 {
		i = 0
	}
	if i > w.count-1 {
		i = w.count - 1
	}
	target := w.OffsetOf(i)
	if target > w.maxScroll() {
		target = w.maxScroll()
	}
	if !smooth {
		w.applyScroll(target)
		return
	}
	w.springPos = w.scrollTop
	w.springVel = 0
	w.target = target
	w.animating = true
	w.lastScroll = time.Now()
}

// ScrollToTop jumps to the top immediately.
func (w *Window) ScrollToTop() {
	w.applyScroll(0)
}

// Tick advances the smooth-scroll animation one frame. It returns true
// while the animation is still running.
func (w *Window) Tick() bool {
	if !w.animating {
		return false
	}
	w.springPos, w.springVel = w.spring.Update(w.springPos, w.springVel, w.target)
	w.scrollTop = w.springPos
	w.lastScroll = time.Now()
	if math.Abs(w.springPos-w.target) < 0.5 && math.Abs(w.springVel) < 0.5 {
		w.scrollTop = w.target
		w.animating = false
	}
	return w.animating
}

// rebuild recomputes the prefix-sum table if it is stale.
func (w *Window) rebuild() {
	if !w.dirty && len(w.offsets) == w.count+1 {
		return
	}
	if cap(w.offsets) < w.count+1 {
		w.offsets = make([]float64, w.count+1)
	}
	w.offsets = w.offsets[:w.count+1]
	w.offsets[0] = 0
	for i := 0; i < w.count; i++ {
		h := w.heightOf(i)
		if h < 0 {
			h = 0
		}
		w.offsets[i+1] = w.offsets[i] + h
	}
	w.dirty = false
}
