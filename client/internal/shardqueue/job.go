package shardqueue

import "context"

// Job is one remote mutation. Run may be called more than once when retries
// are enabled, so it must be safe to repeat.
type Job interface {
	Run(ctx context.Context) error
}

// JobFunc adapts a function to a Job.
type JobFunc func(ctx context.Context) error

// Run implements Job for JobFunc.
func (f JobFunc) Run(ctx context.Context) error { return f(ctx) }
