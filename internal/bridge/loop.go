package bridge

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/wagiedev/notebooklm-sdk-go/internal/errors"
)

// Loop is a dedicated goroutine draining a task queue. Tasks start work and
// return quickly; the work itself runs on its own goroutine and reports back
// on a per-call completion channel, so concurrent blocking callers do not
// serialize behind each other.
type Loop struct {
	log *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	tasks chan func()
	stop  chan struct{}

	// eg owns the loop goroutine; calls tracks work started by tasks.
	eg    errgroup.Group
	calls sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	closeOnce sync.Once
	closeErr  error
}

// New starts a loop. The loop lives until Close.
func New(log *slog.Logger) *Loop {
	ctx, cancel := context.WithCancel(context.Background())

	l := &Loop{
		log:    log.With("component", "bridge"),
		ctx:    ctx,
		cancel: cancel,
		tasks:  make(chan func()),
		stop:   make(chan struct{}),
	}

	l.eg.Go(l.run)

	l.log.Debug("Bridge loop started")

	return l
}

func (l *Loop) run() error {
	for {
		select {
		case task := <-l.tasks:
			task()
		case <-l.stop:
			return nil
		}
	}
}

// submit hands task to the loop goroutine. It fails with
// errors.ErrClientClosed once Close has started.
func (l *Loop) submit(task func()) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return errors.ErrClientClosed
	}

	l.tasks <- task

	return nil
}

type result[T any] struct {
	value T
	err   error
}

// Run starts fn from the loop goroutine and blocks until it completes.
// fn receives the loop's context, which is cancelled by Close. Values and
// errors are returned exactly as fn produced them.
func Run[T any](l *Loop, fn func(ctx context.Context) (T, error)) (T, error) {
	done := make(chan result[T], 1)

	err := l.submit(func() {
		l.calls.Go(func() {
			v, err := fn(l.ctx)
			done <- result[T]{value: v, err: err}
		})
	})
	if err != nil {
		var zero T

		return zero, err
	}

	r := <-done

	return r.value, r.err
}

// Close rejects new work, runs finalize on the loop goroutine and waits for
// it, then cancels outstanding calls and joins the loop and every call it
// started. Only the first Close runs finalize; later calls wait for it and
// return its result.
func (l *Loop) Close(finalize func(ctx context.Context) error) error {
	l.closeOnce.Do(func() {
		// Taking the write lock waits out submits already handing tasks over.
		l.mu.Lock()
		l.closed = true
		l.mu.Unlock()

		if finalize != nil {
			done := make(chan error, 1)

			l.tasks <- func() {
				done <- finalize(l.ctx)
			}

			l.closeErr = <-done
		}

		l.cancel()
		close(l.stop)

		if err := l.eg.Wait(); err != nil && l.closeErr == nil {
			l.closeErr = err
		}

		l.calls.Wait()

		l.log.Debug("Bridge loop stopped")
	})

	return l.closeErr
}
