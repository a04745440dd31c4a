package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MonikaTammineni/fsadproject/apierr"
	"github.com/MonikaTammineni/fsadproject/client/internal/shardqueue"
	"github.com/MonikaTammineni/fsadproject/session"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

type stubExec struct {
	mu    sync.Mutex
	keys  []string
	stops int
}

func (s *stubExec) Do(ctx context.Context, key string, j shardqueue.Job) error {
	s.mu.Lock()
	s.keys = append(s.keys, key)
	s.mu.Unlock()
	return j.Run(ctx)
}

func (s *stubExec) Stop() { s.stops++ }

var sess = session.Session{Token: "tok", AccountType: AccountAdmin}

func TestNew(t *testing.T) {
	t.Parallel()
	c := New("http://example.com", withExecutor(&stubExec{}))
	if c.BaseURL() != "http://example.com" {
		t.Fatalf("BaseURL = %s", c.BaseURL())
	}
	if _, ok := c.http.Transport.(*requestIDTransport); !ok {
		t.Fatalf("request id transport not installed: %T", c.http.Transport)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for empty baseURL")
		}
	}()
	New("")
}

func TestNewE_OptionError(t *testing.T) {
	t.Parallel()
	if _, err := NewE("http://example.com", WithHTTPTimeout(0)); err == nil {
		t.Fatal("expected error for zero timeout")
	}
	if _, err := NewE("http://example.com", WithHTTPClient(nil)); err == nil {
		t.Fatal("expected error for nil http client")
	}
}

func TestCloseIdempotent(t *testing.T) {
	t.Parallel()
	se := &stubExec{}
	c := New("http://example.com", withExecutor(se))
	_ = c.Close()
	_ = c.Close()
	if se.stops != 1 {
		t.Fatalf("Stop called %d times", se.stops)
	}
}

func TestAwaitConsistency(t *testing.T) {
	t.Parallel()
	se := &stubExec{}
	c := New("http://example.com", withExecutor(se))
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := c.AwaitConsistency(ctx, "file", "9"); err != nil {
		t.Fatalf("AwaitConsistency: %v", err)
	}
	if len(se.keys) != 1 || se.keys[0] != "file:9" {
		t.Fatalf("keys = %v", se.keys)
	}
}

func TestRequestIDHeader(t *testing.T) {
	t.Parallel()
	var got []string
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		got = append(got, r.Header.Get(RequestIDHeader))
		return &http.Response{StatusCode: 200, Body: http.NoBody, Header: http.Header{}}, nil
	})
	c := New("http://example.com", WithHTTPClient(&http.Client{Transport: rt}), withExecutor(&stubExec{}))
	for i := 0; i < 2; i++ {
		req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, "http://example.com", http.NoBody)
		if _, err := c.http.Do(req); err != nil {
			t.Fatalf("Do: %v", err)
		}
	}
	if len(got) != 2 || got[0] == "" || got[0] == got[1] {
		t.Fatalf("request ids = %v", got)
	}

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, "http://example.com", http.NoBody)
	req.Header.Set(RequestIDHeader, "fixed")
	_, _ = c.http.Do(req)
	if got[2] != "fixed" {
		t.Fatalf("caller request id overwritten: %s", got[2])
	}
}

func TestWithDebugLogging(t *testing.T) {
	t.Parallel()
	c := New("http://example.com", WithDebugLogging(true), WithDebugLogging(true), withExecutor(&stubExec{}))
	rid, ok := c.http.Transport.(*requestIDTransport)
	if !ok {
		t.Fatalf("unexpected outer transport %T", c.http.Transport)
	}
	dt, ok := rid.base.(*debugTransport)
	if !ok {
		t.Fatalf("expected debugTransport beneath request ids, got %T", rid.base)
	}
	if _, nested := dt.base.(*debugTransport); nested {
		t.Fatal("debug transport installed twice")
	}
}

func TestNew_AutoEnableDebugViaEnv(t *testing.T) {
	t.Setenv("FSAD_DEBUG", "true")
	c := New("http://example.com", withExecutor(&stubExec{}))
	if _, ok := c.http.Transport.(*requestIDTransport).base.(*debugTransport); !ok {
		t.Fatal("expected debugTransport when FSAD_DEBUG=true")
	}
}

func TestDebugTransport_ErrorPath(t *testing.T) {
	t.Parallel()
	rt := roundTripFunc(func(*http.Request) (*http.Response, error) { return nil, context.DeadlineExceeded })
	c := New("http://example.com", WithHTTPClient(&http.Client{Transport: rt}), WithDebugLogging(true), withExecutor(&stubExec{}))
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, "http://example.com", http.NoBody)
	if _, err := c.http.Do(req); err == nil {
		t.Fatal("expected error from underlying transport")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("FSAD_BASE_URL", "http://clinic:9000")
	t.Setenv("FSAD_HTTP_TIMEOUT", "5s")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.BaseURL != "http://clinic:9000" || cfg.HTTPTimeout != 5*time.Second || cfg.Debug {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	c, err := NewFromEnv(withExecutor(&stubExec{}))
	if err != nil {
		t.Fatalf("NewFromEnv: %v", err)
	}
	if c.BaseURL() != "http://clinic:9000" || c.http.Timeout != 5*time.Second {
		t.Fatalf("client not built from env: %s %s", c.BaseURL(), c.http.Timeout)
	}
}

func TestOperationsRequireSession(t *testing.T) {
	t.Parallel()
	c := New("http://unused.invalid", withExecutor(&stubExec{}))
	ctx := context.Background()
	var none session.Session
	if _, err := c.ListUsers(ctx, none); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("ListUsers: %v", err)
	}
	if err := c.DeleteFile(ctx, none, 1); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("DeleteFile: %v", err)
	}
	if _, err := c.BookAppointment(ctx, none, CreateAppointmentRequest{}); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("BookAppointment: %v", err)
	}
}

func TestLogin_BuildsSession(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"validated":true,"token":"t9","firstName":"Asha","lastName":"Rao","accountType":"DOCTOR"}`))
	}))
	defer srv.Close()
	c := New(srv.URL, withExecutor(&stubExec{}))
	s, err := c.Login(context.Background(), LoginRequest{Email: "a@b.co", Password: "pw1234"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if s.Token != "t9" || s.AccountType != AccountDoctor || s.DisplayName() != "Asha Rao" {
		t.Fatalf("unexpected session: %+v", s)
	}
}

func TestRegister_ValidationBlocksRequest(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("no request expected")
	}))
	defer srv.Close()
	se := &stubExec{}
	c := New(srv.URL, withExecutor(se))
	_, err := c.Register(context.Background(), RegisterRequest{Email: "bad"})
	if !apierr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(se.keys) != 0 {
		t.Fatalf("job queued: %v", se.keys)
	}
}

func TestBookAppointment_DefaultsAndValidation(t *testing.T) {
	t.Parallel()
	bodies := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		bodies <- string(b)
		_, _ = w.Write([]byte("Appointment created successfully."))
	}))
	defer srv.Close()

	now := time.Date(2026, 10, 19, 10, 7, 0, 0, time.UTC)
	c := New(srv.URL, withExecutor(&stubExec{}), WithClock(func() time.Time { return now }))

	_, err := c.BookAppointment(context.Background(), sess, CreateAppointmentRequest{PatientID: 3, DoctorID: 7, AppointmentDate: "2026-10-19", AppointmentTime: "10:10"})
	if !apierr.IsValidation(err) {
		t.Fatalf("expected validation error for a slot before 10:15, got %v", err)
	}

	ack, err := c.BookAppointment(context.Background(), sess, CreateAppointmentRequest{PatientID: 3, DoctorID: 7, AppointmentDate: "2026-10-19", AppointmentTime: "10:30"})
	if err != nil || ack.Message != "Appointment created successfully." {
		t.Fatalf("BookAppointment = %+v, %v", ack, err)
	}
	if body := <-bodies; !strings.Contains(body, `"status":"SCHEDULED"`) {
		t.Fatalf("status not defaulted: %s", body)
	}
}

func TestChangePassword_Mismatch(t *testing.T) {
	t.Parallel()
	c := New("http://unused.invalid", withExecutor(&stubExec{}))
	_, err := c.ChangePassword(context.Background(), sess, "old1pass", "new1pass", "new2pass")
	var e *apierr.Error
	if !errors.As(err, &e) || e.Fields["confirmPassword"] != "Passwords do not match" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMutations_RunOnRealExecutor(t *testing.T) {
	t.Parallel()
	var (
		mu    sync.Mutex
		order []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		order = append(order, r.URL.Path)
		mu.Unlock()
		if r.URL.Path == "/s3/deleteFile" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("Failed to delete file"))
			return
		}
		_, _ = w.Write([]byte("File details updated successfully."))
	}))
	defer srv.Close()

	c := New(srv.URL, WithExecutorConfig(shardqueue.Config{Shards: 2, QueueSize: 8}))
	defer func() { _ = c.Close() }()

	ctx := context.Background()
	if _, err := c.UpdateFile(ctx, sess, FileItem{FileID: 9, FileName: "a.png"}); err != nil {
		t.Fatalf("UpdateFile: %v", err)
	}
	err := c.DeleteFile(ctx, sess, 9)
	if apierr.UserMessage(err, "") != "Failed to delete file" {
		t.Fatalf("DeleteFile error = %v", err)
	}
	mu.Lock()
	got := append([]string(nil), order...)
	mu.Unlock()
	if len(got) != 2 || got[0] != "/s3/updateFile" || got[1] != "/s3/deleteFile" {
		t.Fatalf("order = %v", got)
	}

	_ = c.Close()
	if err := c.DeleteFile(ctx, sess, 9); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed after Close, got %v", err)
	}
}

func TestOutcomeLabels(t *testing.T) {
	t.Parallel()
	cases := map[string]error{
		"ok":            nil,
		"canceled":      context.Canceled,
		"no_session":    ErrNotLoggedIn,
		"back_pressure": &shardqueue.QueueFullError{},
		"validation":    apierr.Validation(map[string]string{"a": "b"}),
		"shape":         apierr.Shape("op", "x"),
		"transport":     errors.New("plain"),
	}
	for want, err := range cases {
		if got := outcome(err); got != want {
			t.Fatalf("outcome(%v) = %s, want %s", err, got, want)
		}
	}
	if !IsBackPressure(&shardqueue.QueueFullError{}) {
		t.Fatal("IsBackPressure should match QueueFullError")
	}
}
