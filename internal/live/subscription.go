package live

import (
	"context"
	"errors"
	"sync"
)

// ErrNoValue can be returned by a query to skip an emission, e.g. when a
// single-row lookup finds nothing yet.
var ErrNoValue = errors.New("live: no value")

// QueryFunc produces the current result of a watched query.
type QueryFunc[T any] func(ctx context.Context) (T, error)

// Subscription delivers successive query results until it is closed.
type Subscription[T any] struct {
	updates chan T
	cancel  context.CancelFunc
	done    chan struct{}

	mu  sync.Mutex
	err error
}

// Watch registers for changes on tables, then runs query and emits its result.
// Every notification for those tables triggers a new run. Notifications that
// arrive while a result is waiting to be received are coalesced into one run.
//
// The subscription ends when ctx is done, Close is called or query fails; the
// Updates channel is closed in every case.
func Watch[T any](ctx context.Context, tracker *Tracker, tables []string, query QueryFunc[T]) *Subscription[T] {
	ctx, cancel := context.WithCancel(ctx)
	s := &Subscription[T]{
		updates: make(chan T),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	// Register before the first query so writes landing in between are seen.
	notify, unregister := tracker.observe(tables)
	go s.run(ctx, notify, unregister, query)
	return s
}

// Map wraps a query so its result is converted before emission.
func Map[S, T any](query QueryFunc[S], convert func(S) T) QueryFunc[T] {
	return func(ctx context.Context) (T, error) {
		src, err := query(ctx)
		if err != nil {
			var zero T
			return zero, err
		}
		return convert(src), nil
	}
}

func (s *Subscription[T]) run(ctx context.Context, notify <-chan struct{}, unregister func(), query QueryFunc[T]) {
	defer close(s.done)
	defer close(s.updates)
	defer unregister()

	for {
		value, err := query(ctx)
		switch {
		case err == nil:
			select {
			case s.updates <- value:
			case <-ctx.Done():
				return
			}
		case errors.Is(err, ErrNoValue):
		default:
			if ctx.Err() == nil {
				s.setErr(err)
			}
			return
		}

		select {
		case <-notify:
		case <-ctx.Done():
			return
		}
	}
}

// Updates returns the channel results are delivered on.
func (s *Subscription[T]) Updates() <-chan T {
	return s.updates
}

// Next blocks for the next result. ok is false once the subscription ended.
func (s *Subscription[T]) Next(ctx context.Context) (value T, ok bool) {
	select {
	case value, ok = <-s.updates:
		return value, ok
	case <-ctx.Done():
		return value, false
	}
}

// Close cancels the subscription and waits for its goroutine to exit.
func (s *Subscription[T]) Close() {
	s.cancel()
	<-s.done
}

// Err reports the query failure that ended the subscription, if any.
func (s *Subscription[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Subscription[T]) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}
