// Package notify delivers user-facing success and error messages. Sinks are
// fire-and-forget: Notify never blocks and never reports delivery.
package notify

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Level classifies a notification.
type Level int

const (
	Info Level = iota
	Success
	Error
)

func (l Level) String() string {
	switch l {
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Notification is a single message for the operator.
type Notification struct {
	Level   Level
	Message string
	At      time.Time
}

// Sink receives notifications.
type Sink interface {
	Notify(Notification)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Notification)

// Notify implements Sink.
func (f SinkFunc) Notify(n Notification) { f(n) }

// Discard drops every notification.
var Discard Sink = SinkFunc(func(Notification) {})

var droppedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "fsad",
	Subsystem: "notify",
	Name:      "dropped_total",
	Help:      "Notifications dropped because the queue was full or closed.",
})

// Queue buffers notifications for a consumer goroutine. When the buffer is
// full the new notification is dropped rather than blocking the producer.
type Queue struct {
	ch      chan Notification
	mu      sync.RWMutex // guards close against concurrent sends
	closed  bool
	dropped atomic.Uint64
}

// NewQueue returns a queue holding at most size pending notifications.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 64
	}
	return &Queue{ch: make(chan Notification, size)}
}

// Notify enqueues n without blocking.
func (q *Queue) Notify(n Notification) {
	if n.At.IsZero() {
		n.At = time.Now()
	}
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		q.drop()
		return
	}
	select {
	case q.ch <- n:
	default:
		q.drop()
	}
}

func (q *Queue) drop() {
	q.dropped.Add(1)
	droppedTotal.Inc()
}

// C returns the receive side of the queue. It is closed by Close.
func (q *Queue) C() <-chan Notification { return q.ch }

// Dropped reports how many notifications were discarded.
func (q *Queue) Dropped() uint64 { return q.dropped.Load() }

// Drain returns every notification currently buffered without waiting.
func (q *Queue) Drain() []Notification {
	var out []Notification
	for {
		select {
		case n, ok := <-q.ch:
			if !ok {
				return out
			}
			out = append(out, n)
		default:
			return out
		}
	}
}

// Close stops accepting notifications and closes C. Safe to call twice.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.ch)
}

// LogSink writes notifications to a zerolog logger.
type LogSink struct {
	Logger zerolog.Logger
}

// Notify implements Sink.
func (s LogSink) Notify(n Notification) {
	ev := s.Logger.Info()
	if n.Level == Error {
		ev = s.Logger.Error()
	}
	ev.Str("notification", n.Level.String()).Msg(n.Message)
}

// Fanout delivers each notification to every sink in order.
type Fanout []Sink

// Notify implements Sink.
func (f Fanout) Notify(n Notification) {
	for _, s := range f {
		if s != nil {
			s.Notify(n)
		}
	}
}
