package core

import (
	"context"
	"sync"
)

// OperationState is the observable state of an Operation.
type OperationState string

const (
	OperationPending OperationState = "pending"
	OperationSettled OperationState = "settled"
	OperationFailed  OperationState = "failed"
)

// Operation is the outcome of work running in the background. It starts pending and moves
// exactly once to settled (with a value) or failed (with an error).
type Operation[T any] struct {
	done  chan struct{}
	once  sync.Once
	mu    sync.RWMutex
	state OperationState
	value T
	err   error
}

func newOperation[T any]() *Operation[T] {
	return &Operation[T]{done: make(chan struct{}), state: OperationPending}
}

// Go runs fn in a new goroutine and returns its Operation.
func Go[T any](fn func() (T, error)) *Operation[T] {
	op := newOperation[T]()
	go func() {
		v, err := fn()
		op.complete(v, err)
	}()
	return op
}

func (o *Operation[T]) complete(v T, err error) {
	o.once.Do(func() {
		o.mu.Lock()
		if err != nil {
			o.state, o.err = OperationFailed, err
		} else {
			o.state, o.value = OperationSettled, v
		}
		o.mu.Unlock()
		close(o.done)
	})
}

// State reports the current state without blocking.
func (o *Operation[T]) State() OperationState {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// Done is closed when the operation leaves the pending state.
func (o *Operation[T]) Done() <-chan struct{} {
	return o.done
}

// Wait blocks until the operation completes or ctx is done. A done ctx does not cancel the
// operation itself.
func (o *Operation[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-o.done:
		o.mu.RLock()
		defer o.mu.RUnlock()
		return o.value, o.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
