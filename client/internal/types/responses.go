package types

import (
	"context"
	"encoding/json"

	"github.com/MonikaTammineni/fsadproject/client/internal/shardqueue"
)

// Executor runs a mutation on the per-record queue and waits for its result.
type Executor interface {
	Do(ctx context.Context, key string, job shardqueue.Job) error
}

// Ack is the answer to a mutation. The server replies either with a plain
// text message or with the stored record; Record is nil for text replies.
type Ack struct {
	Message string
	Record  json.RawMessage
}

// HasRecord reports whether the server echoed a JSON object.
func (a Ack) HasRecord() bool {
	return len(a.Record) > 0 && a.Record[0] == '{'
}
