// Package shardqueue runs remote mutations on a small pool of workers
// partitioned by key. Jobs for the same key (one record) run one at a time in
// submission order; jobs for different records may run in parallel.
//
// Callers must not invoke Submit concurrently for the same key if they rely
// on FIFO order between those submissions.
package shardqueue

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"github.com/MonikaTammineni/fsadproject/apierr"
)

type queuedJob struct {
	ctx    context.Context
	job    Job
	result chan<- error // nil for fire-and-forget submissions
}

// ShardExecutor executes Jobs on worker goroutines selected by a stable hash
// of the key.
type ShardExecutor struct {
	cfg    Config
	queues []chan queuedJob // len == cfg.Shards

	done   chan struct{} // closed in Stop()
	closed uint32        // 0 → running, 1 → closed

	wg sync.WaitGroup
}

// NewShardExecutor constructs the executor and starts its shard workers.
func NewShardExecutor(cfg Config) *ShardExecutor {
	if cfg.Shards <= 0 {
		cfg.Shards = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.EnqueueTimeout <= 0 {
		cfg.EnqueueTimeout = 100 * time.Millisecond
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 100 * time.Millisecond
	}
	if cfg.MaxInterval <= 0 {
		cfg.MaxInterval = 5 * time.Second
	}

	p := &ShardExecutor{
		cfg:    cfg,
		queues: make([]chan queuedJob, cfg.Shards),
		done:   make(chan struct{}),
	}
	for i := 0; i < cfg.Shards; i++ {
		ch := make(chan queuedJob, cfg.QueueSize)
		p.queues[i] = ch
		p.wg.Add(1)
		go p.runWorker(i, ch)
	}
	return p
}

// Submit enqueues job for the shard derived from key and returns without
// waiting for it to run.
//
//   - Returns ErrExecutorClosed if the executor is stopped.
//   - Returns ErrQueueFull (wrapped in *QueueFullError) if the shard is full
//     after EnqueueTimeout elapses.
//   - Returns ctx.Err() if the caller-provided context is cancelled first.
func (p *ShardExecutor) Submit(ctx context.Context, key string, job Job) error {
	return p.enqueue(ctx, key, queuedJob{ctx: ctx, job: job})
}

// Do enqueues job and waits for its final outcome, after any retries. The
// wait ends early with ctx.Err() if ctx is cancelled; the job itself then
// observes the same cancellation.
func (p *ShardExecutor) Do(ctx context.Context, key string, job Job) error {
	result := make(chan error, 1)
	if err := p.enqueue(ctx, key, queuedJob{ctx: ctx, job: job, result: result}); err != nil {
		return err
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *ShardExecutor) enqueue(ctx context.Context, key string, qj queuedJob) error {
	// Stop() may have set the flag without closing p.done yet.
	if atomic.LoadUint32(&p.closed) == 1 {
		return ErrExecutorClosed
	}
	select {
	case <-p.done:
		return ErrExecutorClosed
	default:
	}

	shard := p.shardFor(key)
	ch := p.queues[shard]

	timer := time.NewTimer(p.cfg.EnqueueTimeout)
	defer timer.Stop()

	select {
	case ch <- qj:
		submissionsTotal.WithLabelValues(labelFor(shard)).Inc()
		return nil

	case <-p.done:
		return ErrExecutorClosed

	case <-ctx.Done():
		return ctx.Err()

	case <-timer.C:
		queueFullTotal.WithLabelValues(labelFor(shard)).Inc()
		return &QueueFullError{
			Shard:    shard,
			Length:   len(ch),
			Capacity: cap(ch),
		}
	}
}

// Barrier waits until every job submitted for key before the call has run.
func (p *ShardExecutor) Barrier(ctx context.Context, key string) error {
	return p.Do(ctx, key, JobFunc(func(context.Context) error { return nil }))
}

// Stop lets every worker finish its queue, waits for them and returns. It is
// idempotent and safe for concurrent use.
func (p *ShardExecutor) Stop() {
	if !atomic.CompareAndSwapUint32(&p.closed, 0, 1) {
		return
	}
	log.Debug().Int("shards", p.cfg.Shards).Msg("shardqueue: stopping executor")
	close(p.done)
	p.wg.Wait()
	log.Debug().Msg("shardqueue: executor stopped, all queues drained")
}

// Close lets ShardExecutor satisfy io.Closer.
func (p *ShardExecutor) Close() error {
	p.Stop()
	return nil
}

// ------------------------- internals -------------------------

func (p *ShardExecutor) runWorker(idx int, ch <-chan queuedJob) {
	defer p.wg.Done()
	label := labelFor(idx)

	for {
		select {
		case qj := <-ch:
			p.execute(label, qj)
			queueDepth.WithLabelValues(label).Set(float64(len(ch)))

		case <-p.done:
			// Drain remaining jobs in FIFO order without retries, then exit.
			drained := 0
			for {
				select {
				case qj := <-ch:
					p.finish(qj, runOnce(qj))
					drained++
				default:
					if drained > 0 {
						log.Debug().Int("worker", idx).Int("jobs", drained).Msg("shardqueue: drained on stop")
					}
					queueDepth.WithLabelValues(label).Set(0)
					return
				}
			}
		}
	}
}

func (p *ShardExecutor) execute(label string, qj queuedJob) {
	if qj.job == nil {
		p.finish(qj, nil)
		return
	}
	// A job whose caller gave up is skipped so it cannot stall the shard.
	if err := qj.ctx.Err(); err != nil {
		p.finish(qj, err)
		return
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.cfg.BaseBackoff
	exp.Multiplier = 2
	exp.MaxInterval = p.cfg.MaxInterval
	exp.Reset()

	var err error
	for attempt := 1; ; attempt++ {
		start := time.Now()
		err = runOnce(qj)
		runDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())

		if err == nil || apierr.IsIrrecoverable(err) || attempt >= p.cfg.MaxAttempts {
			break
		}
		wait := exp.NextBackOff()
		log.Debug().Err(err).Int("attempt", attempt).Dur("wait", wait).Msg("shardqueue: retrying")
		select {
		case <-time.After(wait):
			continue
		case <-p.done:
		case <-qj.ctx.Done():
			err = qj.ctx.Err()
		}
		break
	}
	p.finish(qj, err)
}

// runOnce runs the job and turns a panic into ErrJobPanic so the worker and
// the waiter both survive it.
func runOnce(qj queuedJob) (err error) {
	if qj.job == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("shardqueue: job panic")
			err = fmt.Errorf("%w: %v", ErrJobPanic, r)
		}
	}()
	return qj.job.Run(qj.ctx)
}

func (p *ShardExecutor) finish(qj queuedJob, err error) {
	if err != nil {
		p.safeHandleError(err)
	}
	if qj.result != nil {
		qj.result <- err
	}
}

func (p *ShardExecutor) safeHandleError(err error) {
	if err == nil || p.cfg.ErrorHandler == nil {
		return
	}
	func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Msg("shardqueue: error handler panic")
			}
		}()
		p.cfg.ErrorHandler(err)
	}()
}

func (p *ShardExecutor) shardFor(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(p.cfg.Shards))
}
