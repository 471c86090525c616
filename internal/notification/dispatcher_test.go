package notification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"paintshop/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcher_RunsTasksAndDrains(t *testing.T) {
	m := metrics.New()
	d := NewDispatcher(DispatcherConfig{Workers: 3, QueueSize: 10, TaskTimeout: time.Second}, discardLogger(), m)
	d.Start(context.Background())

	var ran int32
	for i := 0; i < 10; i++ {
		ok := d.Enqueue(Task{Name: "count", Run: func(ctx context.Context) error {
			atomic.AddInt32(&ran, 1)
			return nil
		}})
		require.True(t, ok)
	}

	require.NoError(t, d.Shutdown(context.Background()))
	assert.Equal(t, int32(10), atomic.LoadInt32(&ran))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.NotifyTasks.WithLabelValues("count", metrics.ResultOK)))
}

func TestDispatcher_DropsWhenQueueFull(t *testing.T) {
	m := metrics.New()
	d := NewDispatcher(DispatcherConfig{Workers: 1, QueueSize: 1}, discardLogger(), m)

	//ワーカー未起動なのでキューは進まない
	noop := Task{Name: "noop", Run: func(ctx context.Context) error { return nil }}
	assert.True(t, d.Enqueue(noop))
	assert.False(t, d.Enqueue(noop))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotifyTasks.WithLabelValues("noop", metrics.ResultDropped)))
}

func TestDispatcher_EnqueueAfterShutdown(t *testing.T) {
	d := NewDispatcher(DispatcherConfig{Workers: 1, QueueSize: 4}, discardLogger(), nil)
	d.Start(context.Background())
	require.NoError(t, d.Shutdown(context.Background()))

	ok := d.Enqueue(Task{Name: "late", Run: func(ctx context.Context) error { return nil }})
	assert.False(t, ok)

	//2回目のShutdownは何もしない
	assert.NoError(t, d.Shutdown(context.Background()))
}

func TestDispatcher_RecoversPanicAndKeepsWorking(t *testing.T) {
	m := metrics.New()
	d := NewDispatcher(DispatcherConfig{Workers: 1, QueueSize: 4}, discardLogger(), m)
	d.Start(context.Background())

	var after int32
	d.Enqueue(Task{Name: "boom", Run: func(ctx context.Context) error { panic("smtp exploded") }})
	d.Enqueue(Task{Name: "fail", Run: func(ctx context.Context) error { return errors.New("refused") }})
	d.Enqueue(Task{Name: "after", Run: func(ctx context.Context) error {
		atomic.StoreInt32(&after, 1)
		return nil
	}})

	require.NoError(t, d.Shutdown(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&after))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotifyTasks.WithLabelValues("boom", metrics.ResultFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotifyTasks.WithLabelValues("fail", metrics.ResultFailed)))
}

func TestDispatcher_TaskTimeout(t *testing.T) {
	d := NewDispatcher(DispatcherConfig{Workers: 1, QueueSize: 1, TaskTimeout: 20 * time.Millisecond}, discardLogger(), nil)
	d.Start(context.Background())

	var gotErr error
	var mu sync.Mutex
	d.Enqueue(Task{Name: "slow", Run: func(ctx context.Context) error {
		<-ctx.Done()
		mu.Lock()
		gotErr = ctx.Err()
		mu.Unlock()
		return ctx.Err()
	}})

	require.NoError(t, d.Shutdown(context.Background()))
	mu.Lock()
	defer mu.Unlock()
	assert.ErrorIs(t, gotErr, context.DeadlineExceeded)
}

func TestDispatcher_ShutdownDeadlineCancelsRunningTask(t *testing.T) {
	d := NewDispatcher(DispatcherConfig{Workers: 1, QueueSize: 1, TaskTimeout: time.Minute}, discardLogger(), nil)
	d.Start(context.Background())

	started := make(chan struct{})
	d.Enqueue(Task{Name: "stuck", Run: func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}})
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := d.Shutdown(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
