// Package throttle limits how often a function runs: at most one immediate
// call per window, plus one trailing call carrying the latest argument.
package throttle

import (
	"sync"
	"time"
)

// Timer is the part of *time.Timer the throttler needs.
type Timer interface {
	Stop() bool
}

// Clock abstracts time so tests can drive the throttler deterministically.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Option configures a Throttler.
type Option func(*options)

type options struct {
	clock Clock
}

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// Throttler wraps fn. The first call in an idle period runs at once and
// opens a window of length delay. Calls inside the window are held; only
// the latest argument survives, and it runs exactly once when the window
// closes. The trailing run does not open a new window.
type Throttler[T any] struct {
	fn    func(T)
	delay time.Duration
	clock Clock

	mu      sync.Mutex
	started bool
	lastRan time.Time
	timer   Timer
	pending T
}

// New returns a Throttler for fn. To keep a receiver, pass a method value
// such as obj.Method.
func New[T any](fn func(T), delay time.Duration, opts ...Option) *Throttler[T] {
	o := options{clock: realClock{}}
	for _, opt := range opts {
		opt(&o)
	}
	return &Throttler[T]{fn: fn, delay: delay, clock: o.clock}
}

// Func is shorthand for New(fn, delay).Call.
func Func[T any](fn func(T), delay time.Duration) func(T) {
	return New(fn, delay).Call
}

// Call invokes fn now or schedules the trailing run.
func (t *Throttler[T]) Call(arg T) {
	t.mu.Lock()
	now := t.clock.Now()
	if !t.started || now.Sub(t.lastRan) >= t.delay {
		t.started = true
		t.lastRan = now
		t.mu.Unlock()
		t.fn(arg)
		return
	}

	t.pending = arg
	if t.timer == nil {
		t.timer = t.clock.AfterFunc(t.delay-now.Sub(t.lastRan), t.fire)
	}
	t.mu.Unlock()
}

// Stop cancels a pending trailing run. It reports whether one was pending.
func (t *Throttler[T]) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer == nil {
		return false
	}
	t.timer.Stop()
	t.timer = nil
	var zero T
	t.pending = zero
	return true
}

func (t *Throttler[T]) fire() {
	t.mu.Lock()
	if t.timer == nil {
		// stopped
		t.mu.Unlock()
		return
	}
	arg := t.pending
	var zero T
	t.pending = zero
	t.timer = nil
	t.mu.Unlock()

	t.fn(arg)
}
