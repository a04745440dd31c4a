package client

import (
	"context"
	"time"

	"github.com/MonikaTammineni/fsadproject/client/internal/job"
	"github.com/MonikaTammineni/fsadproject/client/internal/shardqueue"
)

// executor abstracts the per-record job runner used by mutations.
type executor interface {
	Do(context.Context, string, shardqueue.Job) error
	Stop()
}

// meteredExecutor records the outcome and latency of every mutation.
type meteredExecutor struct{ executor }

func (m meteredExecutor) Do(ctx context.Context, key string, j shardqueue.Job) error {
	start := time.Now()
	err := m.executor.Do(ctx, key, j)
	shard := job.ShardLabel(key)
	mutationsTotal.WithLabelValues(shard, outcome(err)).Inc()
	mutationDuration.WithLabelValues(shard).Observe(time.Since(start).Seconds())
	return err
}
