package event

import (
	"context"
	"sync"
	"sync/atomic"
)

// Waiter is a single-resolution future returned by WaitUntilFirstDispatch
type Waiter struct {
	done    chan struct{}
	once    sync.Once
	claimed atomic.Bool
	data    any
	err     error
}

func newWaiter() *Waiter {
	return &Waiter{done: make(chan struct{})}
}

// claim lets exactly one dispatch deliver to the waiter, even when dispatches race
func (w *Waiter) claim() bool {
	return w.claimed.CompareAndSwap(false, true)
}

func (w *Waiter) resolve(data any, err error) {
	w.once.Do(func() {
		w.data, w.err = data, err
		close(w.done)
	})
}

// Done is closed once the waiter is resolved
func (w *Waiter) Done() <-chan struct{} {
	return w.done
}

// Wait blocks until the waiter resolves or ctx is done
// Giving up on ctx does not unsubscribe the pending one-shot listener
func (w *Waiter) Wait(ctx context.Context) (any, error) {
	select {
	case <-w.done:
		return w.data, w.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Result returns the outcome without blocking; resolved is false while pending
func (w *Waiter) Result() (data any, resolved bool, err error) {
	select {
	case <-w.done:
		return w.data, true, w.err
	default:
		return nil, false, nil
	}
}
