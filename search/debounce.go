// Package search runs search-as-you-type lookups against the backend.
//
// A Debouncer waits for the caller to stop typing for one window before it
// fetches, and only ever delivers the result of the most recent query. A
// newer query cancels the context of an older fetch still in flight; if the
// older fetch returns anyway its result is dropped.
package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const DefaultWindow = 200 * time.Millisecond

// FetchFunc looks up items for a trimmed query.
type FetchFunc[T any] func(ctx context.Context, query string) ([]T, error)

// Result is delivered once per fetch that is still current when it returns.
type Result[T any] struct {
	Query string
	Items []T
	Err   error
}

type Debouncer[T any] struct {
	fetch    FetchFunc[T]
	window   time.Duration
	onResult func(Result[T])

	mu         sync.Mutex
	generation uint64
	timer      *time.Timer
	cancel     context.CancelFunc
	closed     bool
}

func NewDebouncer[T any](fetch FetchFunc[T], window time.Duration, onResult func(Result[T])) *Debouncer[T] {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Debouncer[T]{fetch: fetch, window: window, onResult: onResult}
}

// Query schedules a fetch for q after the debounce window, superseding any
// pending or in-flight query.
func (d *Debouncer[T]) Query(q string) {
	q = strings.TrimSpace(q)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.generation++
	gen := d.generation
	d.stopLocked()
	d.timer = time.AfterFunc(d.window, func() { d.run(gen, q) })
}

// Close stops the pending timer and cancels any fetch in flight. Results of
// fetches still running are dropped.
func (d *Debouncer[T]) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.generation++
	d.stopLocked()
}

func (d *Debouncer[T]) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

func (d *Debouncer[T]) run(gen uint64, q string) {
	d.mu.Lock()
	if gen != d.generation || d.closed {
		d.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.mu.Unlock()
	defer cancel()

	items, err := d.fetch(ctx, q)

	d.mu.Lock()
	stale := gen != d.generation || d.closed
	d.mu.Unlock()
	if stale {
		log.Debug().Str("query", q).Msg("[search Debouncer] discarding stale result")
		return
	}
	if d.onResult != nil {
		d.onResult(Result[T]{Query: q, Items: items, Err: err})
	}
}
