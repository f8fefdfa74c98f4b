// Package session serializes every mutation of a document.Store through one
// writer goroutine. Asynchronous producers (image imports) never touch the
// store directly; they enqueue a mutation when their result is ready.
package session

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/example/riskmap/internal/document"
)

// ErrClosed is returned by Apply once the session loop has stopped.
var ErrClosed = errors.New("session closed")

// Mutation is a synchronous change applied on the writer goroutine.
type Mutation func(store *document.Store)

// ImageProducer fetches or decodes image data off the writer goroutine.
type ImageProducer func(ctx context.Context) (document.Image, error)

type request struct {
	mutate Mutation
	done   chan struct{}
}

// Session owns a Store for the duration of an editing session.
type Session struct {
	store    *document.Store
	requests chan request
	stopped  chan struct{}
}

// New creates a session around store. Call Run (or use With) before Apply.
func New(store *document.Store) *Session {
	return &Session{
		store:    store,
		requests: make(chan request),
		stopped:  make(chan struct{}),
	}
}

// Run applies queued mutations one at a time until ctx is done.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.stopped)
	for {
		select {
		case <-ctx.Done():
			return nil
		case req := <-s.requests:
			req.mutate(s.store)
			close(req.done)
		}
	}
}

// Apply enqueues a mutation and waits until it has been applied.
func (s *Session) Apply(ctx context.Context, mutate Mutation) error {
	req := request{mutate: mutate, done: make(chan struct{})}
	select {
	case s.requests <- req:
	case <-s.stopped:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	<-req.done
	return nil
}

// Read runs fn on the writer goroutine so it sees a consistent store.
func (s *Session) Read(ctx context.Context, fn func(store *document.Store)) error {
	return s.Apply(ctx, Mutation(fn))
}

// Import runs the producers concurrently. Each successful result is applied
// as soon as it is ready, so the last one to finish wins. A failed producer
// leaves the image untouched and does not cancel the others; the first error
// is returned.
func (s *Session) Import(ctx context.Context, producers ...ImageProducer) error {
	var g errgroup.Group
	for i, produce := range producers {
		i, produce := i, produce
		g.Go(func() error {
			img, err := produce(ctx)
			if err != nil {
				return fmt.Errorf("import %d: %w", i+1, err)
			}
			return s.Apply(ctx, func(store *document.Store) {
				store.SetImage(img)
			})
		})
	}
	return g.Wait()
}

// With starts a session loop around store, calls fn, then stops the loop.
func With(ctx context.Context, store *document.Store, fn func(ctx context.Context, s *Session) error) error {
	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)

	s := New(store)
	g.Go(func() error {
		return s.Run(gctx)
	})
	g.Go(func() error {
		defer cancel()
		return fn(gctx, s)
	})
	return g.Wait()
}
