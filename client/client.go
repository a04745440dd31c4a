// Package client is the SDK for the clinic record API: accounts, patients,
// medical files and appointments. Reads are plain HTTP calls; mutations run
// on a per-record queue so that two changes to the same record are applied
// in the order they were made.
//
// Every operation takes the caller's session.Session explicitly. The client
// itself holds no login state.
package client

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/MonikaTammineni/fsadproject/client/internal/job"
	"github.com/MonikaTammineni/fsadproject/client/internal/shardqueue"
	"github.com/MonikaTammineni/fsadproject/session"
)

type Client struct {
	baseURL string
	http    *http.Client
	exec    executor
	now     func() time.Time

	closedOnce uint32 // ensures Close is idempotent
}

// New constructs a Client for baseURL. It panics when baseURL is empty or
// an option fails; use NewE to get the error instead.
func New(baseURL string, opts ...Option) *Client {
	c, err := NewE(baseURL, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// NewE is New returning construction errors.
func NewE(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("baseURL cannot be empty")
	}

	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		now:     time.Now,
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.exec == nil {
		exec, err := newDefaultExecutor()
		if err != nil {
			return nil, err
		}
		c.exec = exec
	}

	c.wrapTransportWithRequestID()
	return c, nil
}

// BaseURL returns the API address the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Close stops the mutation executor after draining queued jobs. Safe to call
// multiple times.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closedOnce, 0, 1) {
		return nil
	}
	if c.exec != nil {
		c.exec.Stop()
	}
	return nil
}

// AwaitConsistency blocks until every mutation already queued for the record
// (resource, id) has finished. It does so by queueing a no-op behind them.
func (c *Client) AwaitConsistency(ctx context.Context, resource, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.exec.Do(ctx, job.Key(resource, id), job.New(func(context.Context) error { return nil }))
}

// newDefaultExecutor constructs the shardqueue executor from SQ_* settings.
func newDefaultExecutor() (executor, error) {
	cfg, err := shardqueue.LoadConfig()
	if err != nil {
		return nil, err
	}
	return meteredExecutor{shardqueue.NewShardExecutor(cfg)}, nil
}

// authed rejects calls made without a session token before anything is sent.
func authed(s session.Session) error {
	if s.Token == "" {
		return ErrNotLoggedIn
	}
	return nil
}
