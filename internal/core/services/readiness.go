package services

import (
	"context"
	"sync"
)

// Readiness is a once-resolved handle for a lazily loaded dependency.
// The first Wait or Start triggers the load; every caller shares its
// outcome, including a failure.
type Readiness struct {
	load func(ctx context.Context) error

	once sync.Once
	done chan struct{}
	err  error
}

// NewReadiness creates a handle that runs load at most once.
func NewReadiness(load func(ctx context.Context) error) *Readiness {
	return &Readiness{
		load: load,
		done: make(chan struct{}),
	}
}

// Start begins loading without waiting for the outcome.
func (r *Readiness) Start(ctx context.Context) {
	r.once.Do(func() {
		// The load is shared, so it must not die with the first caller's context.
		loadCtx := context.WithoutCancel(ctx)
		go func() {
			defer close(r.done)
			r.err = r.load(loadCtx)
		}()
	})
}

// Wait starts the load if needed and blocks until it resolves or ctx ends.
func (r *Readiness) Wait(ctx context.Context) error {
	r.Start(ctx)

	select {
	case <-r.done:
		return r.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Resolved reports whether the load finished successfully.
func (r *Readiness) Resolved() bool {
	select {
	case <-r.done:
		return r.err == nil
	default:
		return false
	}
}
