// Package view implements the fetch lifecycle shared by every list and
// detail surface: loading, ready, empty and error states, cancellation of
// superseded requests, and suppression of stale responses.
package view

import (
	"context"
	"sync"

	"github.com/ultraverse/market-web/internal/upstream"
)

// State is the render state of a view
type State int

const (
	StateLoading State = iota
	StateReady
	StateEmpty
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateEmpty:
		return "empty"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Loader serializes the fetches of one view. Beginning a new load cancels the
// in-flight one and advances a generation counter; results carrying a stale
// generation must be discarded even if the transport delivered them late.
type Loader struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// Begin cancels any prior in-flight load and opens a new generation
func (l *Loader) Begin(parent context.Context) (context.Context, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		l.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	l.cancel = cancel
	l.gen++
	return ctx, l.gen
}

// Alive reports whether the generation is still the current one
func (l *Loader) Alive(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return gen == l.gen
}

// Cancel aborts the in-flight load, used on view teardown
func (l *Loader) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.gen++
}

// Controller holds the lifecycle state of one list view. The zero value
// starts in the loading state.
type Controller[T any] struct {
	loader Loader

	mu    sync.Mutex
	state State
	items []T
	err   error
}

// Load runs one fetch cycle and commits the outcome unless a newer load
// superseded it in the meantime. Cancellation never reaches the error state;
// an aborted cycle leaves whatever state the superseding load produces.
func (c *Controller[T]) Load(ctx context.Context, fetch func(context.Context) ([]T, error)) {
	fetchCtx, gen := c.loader.Begin(ctx)

	c.mu.Lock()
	c.state = StateLoading
	c.mu.Unlock()

	items, err := fetch(fetchCtx)

	// liveness check before committing anything: the transport may deliver a
	// late success after the view moved on
	if !c.loader.Alive(gen) {
		return
	}
	if err != nil && upstream.IsCanceled(err) {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case err != nil:
		c.state = StateError
		c.err = err
		c.items = nil
	case len(items) == 0:
		c.state = StateEmpty
		c.err = nil
		c.items = nil
	default:
		c.state = StateReady
		c.err = nil
		c.items = items
	}
}

// Teardown cancels any in-flight fetch; a response arriving afterwards is
// never committed
func (c *Controller[T]) Teardown() {
	c.loader.Cancel()
}

// Snapshot returns the current state, items and error
func (c *Controller[T]) Snapshot() (State, []T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.items, c.err
}
