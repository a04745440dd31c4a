package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MonikaTammineni/fsadproject/apierr"
	"github.com/MonikaTammineni/fsadproject/client/internal/types"
)

func TestLogin_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.URL.Query().Has("token") {
			t.Fatal("login must not carry a token")
		}
		var got types.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&got)
		if got.Email != "a@b.co" || got.Password != "pw1234" {
			t.Fatalf("unexpected body: %+v", got)
		}
		_, _ = w.Write([]byte(`{"validated":true,"token":"t1","firstName":"Asha","lastName":"Rao","accountType":"ADMIN","message":"Login successful"}`))
	}))
	defer srv.Close()

	lr, err := Login(context.Background(), srv.Client(), srv.URL, types.LoginRequest{Email: "a@b.co", Password: "pw1234"})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if lr.Token != "t1" || lr.AccountType != types.AccountAdmin {
		t.Fatalf("unexpected response: %+v", lr)
	}
}

func TestLogin_RefusedInBand(t *testing.T) {
	t.Parallel()
	srv, _ := serve(t, http.StatusOK, `{"validated":false,"message":"Invalid email or password"}`)
	_, err := Login(context.Background(), srv.Client(), srv.URL, types.LoginRequest{Email: "a@b.co", Password: "bad"})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := apierr.UserMessage(err, ""); got != "Invalid email or password" {
		t.Fatalf("message = %q", got)
	}
}

func TestLogin_RequiresCredentials(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("no request expected")
	}))
	defer srv.Close()
	if _, err := Login(context.Background(), srv.Client(), srv.URL, types.LoginRequest{}); !apierr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegister_ThroughExecutor(t *testing.T) {
	t.Parallel()
	srv, last := serve(t, http.StatusOK, `{"registered":true,"message":"User registered successfully","id":12,"token":"t2"}`)
	exec := &mockExec{}
	rr, err := Register(context.Background(), exec, srv.Client(), srv.URL, types.RegisterRequest{Email: "New@Example.com"})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if rr.ID != 12 || rr.Token != "t2" {
		t.Fatalf("unexpected response: %+v", rr)
	}
	if exec.lastKey() != "register:new@example.com" {
		t.Fatalf("key = %q", exec.lastKey())
	}
	if last().URL.Path != "/auth/register" {
		t.Fatalf("path = %s", last().URL.Path)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()
	srv, _ := serve(t, http.StatusOK, `{"registered":false,"message":"Email already exists"}`)
	_, err := Register(context.Background(), &mockExec{}, srv.Client(), srv.URL, types.RegisterRequest{Email: "x@y.z"})
	if got := apierr.UserMessage(err, ""); got != "Email already exists" {
		t.Fatalf("message = %q (%v)", got, err)
	}
}

func TestRegister_ExecutorFailure(t *testing.T) {
	t.Parallel()
	srv, last := serve(t, http.StatusOK, `{}`)
	if _, err := Register(context.Background(), failingExec{}, srv.Client(), srv.URL, types.RegisterRequest{}); err == nil {
		t.Fatal("expected error")
	}
	if last() != nil {
		t.Fatal("request sent although the executor rejected the job")
	}
}

func TestIsValidToken(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("token") == "good" {
			_, _ = w.Write([]byte("Valid Token"))
			return
		}
		_, _ = w.Write([]byte("Invalid Token"))
	}))
	defer srv.Close()

	ok, err := IsValidToken(context.Background(), srv.Client(), srv.URL, "good")
	if err != nil || !ok {
		t.Fatalf("good token: %v %v", ok, err)
	}
	ok, err = IsValidToken(context.Background(), srv.Client(), srv.URL, "bad")
	if err != nil || ok {
		t.Fatalf("bad token: %v %v", ok, err)
	}
}

func TestChangePassword_Envelope(t *testing.T) {
	t.Parallel()
	srv, last := serve(t, http.StatusOK, `{"headers":{},"body":"Incorrect old password.","statusCode":"BAD_REQUEST","statusCodeValue":400}`)
	_, err := ChangePassword(context.Background(), &mockExec{}, srv.Client(), srv.URL, "tok", types.PasswordChangeRequest{OldPassword: "a", NewPassword: "b"})
	if got := apierr.UserMessage(err, ""); got != "Incorrect old password." {
		t.Fatalf("message = %q (%v)", got, err)
	}
	if last().URL.Query().Get("token") != "tok" {
		t.Fatalf("token not sent: %s", last().URL.RawQuery)
	}
}

func TestNetworkError_IsRecoverableTransport(t *testing.T) {
	t.Parallel()
	hc := &http.Client{Transport: &errRT{}}
	_, err := ListUsers(context.Background(), hc, "http://example.invalid", "tok")
	if apierr.KindOf(err) != apierr.KindTransport || apierr.IsIrrecoverable(err) {
		t.Fatalf("expected recoverable transport error, got %v", err)
	}
}

func TestCanceledContext_NoRequest(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	srv, last := serve(t, http.StatusOK, `[]`)
	if _, err := ListPatients(ctx, srv.Client(), srv.URL, "tok"); err == nil {
		t.Fatal("expected context error")
	}
	if last() != nil {
		t.Fatal("request sent with canceled context")
	}
}
