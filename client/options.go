package client

// This file defines functional options that configure the Client during
// construction.

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MonikaTammineni/fsadproject/client/internal/shardqueue"
)

// Option configures a Client during construction in New.
//
// Options are applied before the request-id transport is installed, so
// transport options end up underneath it.
type Option func(*Client) error

// WithHTTPTimeout sets the underlying http.Client Timeout. Prefer per-call
// context deadlines; this bounds a single HTTP exchange. Must be > 0.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.Timeout = d
		return nil
	}
}

// WithHTTPClient replaces the http.Client. The client is copied, so the
// transports the SDK installs do not leak into the caller's value.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return errors.New("http client must not be nil")
		}
		cp := *hc
		c.http = &cp
		return nil
	}
}

// WithDebugLogging wraps the transport so each request and response is
// logged when enabled is true. Applying it twice installs one wrapper.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if !enabled {
			return nil
		}
		if _, ok := c.http.Transport.(*debugTransport); ok {
			return nil
		}
		c.http.Transport = &debugTransport{base: c.http.Transport}
		return nil
	}
}

// WithExecutorConfig builds the mutation executor from cfg instead of the
// SQ_* environment.
func WithExecutorConfig(cfg shardqueue.Config) Option {
	return func(c *Client) error {
		if c.exec != nil {
			return errors.New("executor already configured")
		}
		c.exec = meteredExecutor{shardqueue.NewShardExecutor(cfg)}
		return nil
	}
}

// WithClock overrides the time source used by form validation.
func WithClock(now func() time.Time) Option {
	return func(c *Client) error {
		if now == nil {
			return errors.New("clock must not be nil")
		}
		c.now = now
		return nil
	}
}

// withExecutor injects a test executor.
func withExecutor(e executor) Option {
	return func(c *Client) error {
		c.exec = e
		return nil
	}
}
