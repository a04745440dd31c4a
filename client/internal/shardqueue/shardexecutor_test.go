package shardqueue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MonikaTammineni/fsadproject/apierr"
)

func noop(context.Context) error { return nil }

// blockShard occupies the single worker of ex until the returned func is called.
func blockShard(t *testing.T, ex *ShardExecutor, key string) func() {
	t.Helper()
	started := make(chan struct{})
	release := make(chan struct{})
	if err := ex.Submit(context.Background(), key, JobFunc(func(context.Context) error {
		close(started)
		<-release
		return nil
	})); err != nil {
		t.Fatalf("submit blocking job: %v", err)
	}
	<-started
	var once sync.Once
	return func() { once.Do(func() { close(release) }) }
}

func TestDo_ReturnsJobResult(t *testing.T) {
	t.Parallel()
	ex := NewShardExecutor(Config{Shards: 2})
	defer ex.Stop()

	if err := ex.Do(context.Background(), "file:1", JobFunc(noop)); err != nil {
		t.Fatalf("Do: %v", err)
	}
	boom := errors.New("boom")
	if err := ex.Do(context.Background(), "file:1", JobFunc(func(context.Context) error { return boom })); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestDo_NoRetryByDefault(t *testing.T) {
	t.Parallel()
	ex := NewShardExecutor(Config{Shards: 1})
	defer ex.Stop()

	var attempts int32
	err := ex.Do(context.Background(), "k", JobFunc(func(context.Context) error {
		atomic.AddInt32(&attempts, 1)
		return apierr.NewHTTPError(503, "unavailable", "delete file")
	}))
	if err == nil {
		t.Fatal("expected error")
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Fatalf("attempts = %d, want 1", got)
	}
}

func TestDo_RetriesRecoverableWhenEnabled(t *testing.T) {
	t.Parallel()
	ex := NewShardExecutor(Config{Shards: 1, MaxAttempts: 3, BaseBackoff: time.Millisecond})
	defer ex.Stop()

	var attempts int32
	err := ex.Do(context.Background(), "k", JobFunc(func(context.Context) error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return apierr.NewHTTPError(503, "unavailable", "edit user")
		}
		return nil
	}))
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Fatalf("attempts = %d, want 3", got)
	}
}

func TestDo_IrrecoverableFailsFast(t *testing.T) {
	t.Parallel()
	ex := NewShardExecutor(Config{Shards: 1, MaxAttempts: 5, BaseBackoff: time.Millisecond})
	defer ex.Stop()

	var attempts int32
	err := ex.Do(context.Background(), "k", JobFunc(func(context.Context) error {
		atomic.AddInt32(&attempts, 1)
		return apierr.NewHTTPError(400, `{"message":"bad"}`, "edit user")
	}))
	if !apierr.IsIrrecoverable(err) {
		t.Fatalf("expected irrecoverable error, got %v", err)
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Fatalf("attempts = %d, want 1", got)
	}
}

func TestDo_PanicBecomesError(t *testing.T) {
	t.Parallel()
	ex := NewShardExecutor(Config{Shards: 1})
	defer ex.Stop()

	err := ex.Do(context.Background(), "k", JobFunc(func(context.Context) error { panic("bad job") }))
	if !errors.Is(err, ErrJobPanic) {
		t.Fatalf("expected ErrJobPanic, got %v", err)
	}
	// The worker survives.
	if err := ex.Do(context.Background(), "k", JobFunc(noop)); err != nil {
		t.Fatalf("follow-up Do: %v", err)
	}
}

func TestWorker_SkipsCanceledJob(t *testing.T) {
	var handlerCalls int32
	ex := NewShardExecutor(Config{Shards: 1, ErrorHandler: func(error) { atomic.AddInt32(&handlerCalls, 1) }})
	defer ex.Stop()

	release := blockShard(t, ex, "k")
	var ran int32
	jobCtx, cancelJob := context.WithCancel(context.Background())
	if err := ex.Submit(jobCtx, "k", JobFunc(func(context.Context) error {
		atomic.StoreInt32(&ran, 1)
		return nil
	})); err != nil {
		t.Fatalf("submit: %v", err)
	}
	cancelJob()
	release()

	if err := ex.Barrier(context.Background(), "k"); err != nil {
		t.Fatalf("barrier: %v", err)
	}
	if atomic.LoadInt32(&ran) == 1 {
		t.Fatal("canceled job must not run")
	}
	if got := atomic.LoadInt32(&handlerCalls); got != 1 {
		t.Fatalf("error handler calls = %d, want 1", got)
	}
}

func TestErrorHandler_PanicRecovered(t *testing.T) {
	ex := NewShardExecutor(Config{Shards: 1, ErrorHandler: func(error) { panic("handler panic") }})
	defer ex.Stop()

	if err := ex.Do(context.Background(), "k", JobFunc(func(context.Context) error { return errors.New("boom") })); err == nil {
		t.Fatal("expected error")
	}
	if err := ex.Do(context.Background(), "k", JobFunc(noop)); err != nil {
		t.Fatalf("worker did not continue after handler panic: %v", err)
	}
}

func TestSubmit_QueueFull(t *testing.T) {
	t.Parallel()
	ex := NewShardExecutor(Config{Shards: 1, QueueSize: 1, EnqueueTimeout: 10 * time.Millisecond})
	defer ex.Stop()
	release := blockShard(t, ex, "same")
	defer release()

	_ = ex.Submit(context.Background(), "same", JobFunc(noop))
	err := ex.Submit(context.Background(), "same", JobFunc(noop))
	var qf *QueueFullError
	if !errors.As(err, &qf) || !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected queue full error, got %v", err)
	}
	if qf.Capacity != 1 || qf.Error() == "" {
		t.Fatalf("unexpected diagnostics: %+v", qf)
	}
}

func TestSubmit_ContextCanceledWhileWaiting(t *testing.T) {
	ex := NewShardExecutor(Config{Shards: 1, QueueSize: 1, EnqueueTimeout: time.Second})
	defer ex.Stop()
	release := blockShard(t, ex, "k")
	defer release()

	_ = ex.Submit(context.Background(), "k", JobFunc(noop))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := ex.Submit(ctx, "k", JobFunc(noop)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDo_WaitEndsWithCallerContext(t *testing.T) {
	ex := NewShardExecutor(Config{Shards: 1})
	defer ex.Stop()
	release := blockShard(t, ex, "k")
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := ex.Do(ctx, "k", JobFunc(noop)); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestShardExecutor_FIFOOrderingPerKey(t *testing.T) {
	ex := NewShardExecutor(Config{Shards: 4, QueueSize: 10})
	defer ex.Stop()

	var (
		mu    sync.Mutex
		order []int
	)
	for i := 0; i < 5; i++ {
		v := i
		if err := ex.Submit(context.Background(), "appointment:7", JobFunc(func(context.Context) error {
			mu.Lock()
			order = append(order, v)
			mu.Unlock()
			return nil
		})); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	if err := ex.Barrier(context.Background(), "appointment:7"); err != nil {
		t.Fatalf("barrier: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	for i, v := range order {
		if i != v {
			t.Fatalf("expected FIFO order, got %v", order)
		}
	}
}

func TestShardExecutor_ParallelDifferentKeys(t *testing.T) {
	ex := NewShardExecutor(Config{Shards: 4, QueueSize: 10})
	defer ex.Stop()

	keyA, keyB := "A", "B"
	for ex.shardFor(keyB) == ex.shardFor(keyA) {
		keyB += "x"
	}
	start := make(chan struct{})
	done := make(chan struct{})
	_ = ex.Submit(context.Background(), keyA, JobFunc(func(context.Context) error {
		<-start
		close(done)
		return nil
	}))
	_ = ex.Submit(context.Background(), keyB, JobFunc(func(context.Context) error {
		close(start)
		<-done
		return nil
	}))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("jobs blocked each other; expected parallelism")
	}
}

func TestShardExecutor_StopDrainsAndRejects(t *testing.T) {
	ex := NewShardExecutor(Config{Shards: 1, QueueSize: 4})
	release := blockShard(t, ex, "k")

	var ran int32
	for i := 0; i < 3; i++ {
		_ = ex.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
			atomic.AddInt32(&ran, 1)
			return nil
		}))
	}
	stopped := make(chan struct{})
	go func() {
		ex.Stop()
		close(stopped)
	}()
	release()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not complete")
	}
	if got := atomic.LoadInt32(&ran); got != 3 {
		t.Fatalf("drained %d jobs, want 3", got)
	}
	if err := ex.Submit(context.Background(), "k", JobFunc(noop)); !errors.Is(err, ErrExecutorClosed) {
		t.Fatalf("expected ErrExecutorClosed, got %v", err)
	}
	ex.Stop()
}
