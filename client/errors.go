package client

import (
	"errors"

	"github.com/MonikaTammineni/fsadproject/client/internal/shardqueue"
	"github.com/MonikaTammineni/fsadproject/session"
)

// ErrBackPressure is returned when the mutation queue for a record is full.
var ErrBackPressure = shardqueue.ErrQueueFull

// IsBackPressure reports whether err is a back-pressure error.
func IsBackPressure(err error) bool { return errors.Is(err, ErrBackPressure) }

// ErrNotLoggedIn is returned by operations called with an empty session.
var ErrNotLoggedIn = session.ErrNoSession

// ErrClosed is returned for mutations attempted after Close.
var ErrClosed = shardqueue.ErrExecutorClosed
