package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/MonikaTammineni/fsadproject/client/internal/shardqueue"
)

// errRT is an http.RoundTripper that always fails (simulates network loss).
type errRT struct{}

func (e *errRT) RoundTrip(*http.Request) (*http.Response, error) { return nil, errors.New("boom") }

// mockExec records the keys of submitted jobs and runs them inline.
type mockExec struct {
	mu   sync.Mutex
	keys []string
}

func (m *mockExec) Do(ctx context.Context, key string, j shardqueue.Job) error {
	m.mu.Lock()
	m.keys = append(m.keys, key)
	m.mu.Unlock()
	return j.Run(ctx)
}

func (m *mockExec) lastKey() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.keys) == 0 {
		return ""
	}
	return m.keys[len(m.keys)-1]
}

// failingExec rejects every job without running it.
type failingExec struct{}

func (failingExec) Do(context.Context, string, shardqueue.Job) error {
	return shardqueue.ErrExecutorClosed
}

// serve starts a server answering every request with status and body, and
// stores the last request for inspection.
func serve(t *testing.T, status int, body string) (*httptest.Server, func() *http.Request) {
	t.Helper()
	var (
		mu   sync.Mutex
		last *http.Request
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		last = r.Clone(context.Background())
		mu.Unlock()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, func() *http.Request {
		mu.Lock()
		defer mu.Unlock()
		return last
	}
}
