package bridge

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wagiedev/notebooklm-sdk-go/internal/errors"
)

func newTestLoop(t *testing.T) *Loop {
	t.Helper()

	l := New(slog.New(slog.DiscardHandler))
	t.Cleanup(func() { _ = l.Close(nil) })

	return l
}

func TestRun_ReturnsValue(t *testing.T) {
	l := newTestLoop(t)

	got, err := Run(l, func(context.Context) (map[string]any, error) {
		return map[string]any{"status": "success"}, nil
	})
	require.NoError(t, err)
	require.Equal(t, map[string]any{"status": "success"}, got)
}

func TestRun_ReturnsSameErrorValue(t *testing.T) {
	l := newTestLoop(t)

	want := &errors.Error{Kind: errors.KindNotFound, Operation: "notebook_get", Message: "Notebook not found"}

	_, err := Run(l, func(context.Context) (int, error) {
		return 0, want
	})

	got, ok := stderrors.AsType[*errors.Error](err)
	require.True(t, ok)
	require.Same(t, want, got)
}

func TestRun_ConcurrentCallersDoNotSerialize(t *testing.T) {
	l := newTestLoop(t)

	const callers = 4

	var (
		wg      sync.WaitGroup
		running atomic.Int32
		release = make(chan struct{})
	)

	for range callers {
		wg.Go(func() {
			_, err := Run(l, func(context.Context) (struct{}, error) {
				running.Add(1)
				<-release

				return struct{}{}, nil
			})
			assert.NoError(t, err)
		})
	}

	// Every call is in flight at once before any completes.
	require.Eventually(t, func() bool { return running.Load() == callers }, time.Second, 5*time.Millisecond)
	close(release)
	wg.Wait()
}

func TestClose_RunsFinalizeOnce(t *testing.T) {
	l := New(slog.New(slog.DiscardHandler))

	var finalized atomic.Int32

	finalize := func(ctx context.Context) error {
		assert.NoError(t, ctx.Err(), "finalize runs before cancellation")
		finalized.Add(1)

		return nil
	}

	require.NoError(t, l.Close(finalize))
	require.NoError(t, l.Close(finalize))
	require.Equal(t, int32(1), finalized.Load())

	_, err := Run(l, func(context.Context) (int, error) { return 1, nil })
	require.ErrorIs(t, err, errors.ErrClientClosed)
}

func TestClose_ReturnsFinalizeError(t *testing.T) {
	l := New(slog.New(slog.DiscardHandler))

	boom := stderrors.New("terminate failed")

	require.ErrorIs(t, l.Close(func(context.Context) error { return boom }), boom)
}

func TestRun_AfterCloseFailsWithClientClosed(t *testing.T) {
	l := New(slog.New(slog.DiscardHandler))
	require.NoError(t, l.Close(nil))

	called := false
	_, err := Run(l, func(context.Context) (int, error) {
		called = true

		return 1, nil
	})

	require.ErrorIs(t, err, errors.ErrClientClosed)
	require.False(t, called)
}

func TestClose_CancelsOutstandingCalls(t *testing.T) {
	l := New(slog.New(slog.DiscardHandler))

	started := make(chan struct{})
	errCh := make(chan error, 1)

	go func() {
		_, err := Run(l, func(ctx context.Context) (int, error) {
			close(started)
			<-ctx.Done()

			return 0, ctx.Err()
		})
		errCh <- err
	}()

	<-started
	require.NoError(t, l.Close(nil))
	require.ErrorIs(t, <-errCh, context.Canceled)
}
