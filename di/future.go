package di

import "context"

// Future is an awaitable, memoized, one-shot async result: a single loader
// goroutine is started the first time LoadAsync is called; later calls
// return the same Future, so loading is idempotent. Wait blocks until the
// loader finishes or ctx is done, whichever comes first.
type Future struct {
	done  chan struct{}
	value any
	err   error
}

// NewFuture starts loader in its own goroutine and returns a Future that
// resolves when it completes.
func NewFuture(ctx context.Context, loader func(ctx context.Context) (any, error)) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.value, f.err = loader(ctx)
	}()
	return f
}

// Wait blocks until the Future resolves or ctx is canceled, whichever comes
// first. Calling Wait again after the Future has resolved returns
// immediately with the same result.
func (f *Future) Wait(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Done reports whether the Future has resolved (successfully or not)
// without blocking.
func (f *Future) Done() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}
