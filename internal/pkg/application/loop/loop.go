package loop

import (
	"context"
	"errors"
	"sync"
)

// Dispatcher hands a closure over to whoever owns the state it touches.
type Dispatcher func(func())

var ErrStopped = errors.New("loop is not running")

// Loop runs posted closures one at a time on a single goroutine. All dashboard
// state is mutated from inside closures run by the loop, so none of it needs locking.
type Loop struct {
	queue chan func()
	done  chan struct{}
	once  sync.Once
	after func()
}

func New(size int) *Loop {
	if size <= 0 {
		size = 128
	}

	return &Loop{
		queue: make(chan func(), size),
		done:  make(chan struct{}),
	}
}

// AfterEach registers fn to run on the loop after every closure. It must be set
// before Run is called.
func (l *Loop) AfterEach(fn func()) {
	l.after = fn
}

// Run blocks until ctx is cancelled. Closures still queued when the loop stops are discarded.
func (l *Loop) Run(ctx context.Context) {
	defer l.once.Do(func() { close(l.done) })

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.queue:
			fn()
			if l.after != nil {
				l.after()
			}
		}
	}
}

// Post enqueues fn without waiting for it to run. It returns false once the loop
// has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Dispatch adapts Post to the Dispatcher signature.
func (l *Loop) Dispatch(fn func()) {
	l.Post(fn)
}

// Call posts fn and waits for it to finish.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})

	ok := l.Post(func() {
		defer close(finished)
		fn()
	})
	if !ok {
		return ErrStopped
	}

	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) Done() <-chan struct{} {
	return l.done
}
