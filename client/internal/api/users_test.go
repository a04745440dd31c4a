package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MonikaTammineni/fsadproject/apierr"
	"github.com/MonikaTammineni/fsadproject/client/internal/types"
)

func TestListPatients_EnvelopeAndBareArray(t *testing.T) {
	t.Parallel()
	for _, body := range []string{
		`[{"id":1,"firstName":"Bob","dateOfBirth":"1990-01-02"},{"id":2,"firstName":"amy"}]`,
		`{"headers":{},"body":[{"id":1,"firstName":"Bob","dateOfBirth":"1990-01-02"},{"id":2,"firstName":"amy"}],"statusCode":"OK","statusCodeValue":200}`,
	} {
		srv, last := serve(t, http.StatusOK, body)
		ps, err := ListPatients(context.Background(), srv.Client(), srv.URL, "tok")
		if err != nil {
			t.Fatalf("ListPatients error: %v", err)
		}
		if len(ps) != 2 || ps[0].FirstName != "Bob" || ps[0].DateOfBirth != "1990-01-02" {
			t.Fatalf("unexpected patients: %+v", ps)
		}
		if r := last(); r.Method != http.MethodGet || r.URL.Path != "/auth/getAllPatients" || r.URL.Query().Get("token") != "tok" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL)
		}
	}
}

func TestListUsers_EmptyObjectIsShapeError(t *testing.T) {
	t.Parallel()
	srv, _ := serve(t, http.StatusOK, `{}`)
	if _, err := ListUsers(context.Background(), srv.Client(), srv.URL, "tok"); !apierr.IsShape(err) {
		t.Fatalf("expected shape error, got %v", err)
	}
}

func TestListUsers_Non2xx(t *testing.T) {
	t.Parallel()
	srv, _ := serve(t, http.StatusInternalServerError, `{"message":"db down"}`)
	_, err := ListUsers(context.Background(), srv.Client(), srv.URL, "tok")
	var e *apierr.Error
	if !errors.As(err, &e) || e.StatusCode != 500 || e.Message != "db down" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestListDoctors_NoneFound(t *testing.T) {
	t.Parallel()
	srv, last := serve(t, http.StatusOK, `{"headers":{},"body":"No doctors found.","statusCode":"NOT_FOUND","statusCodeValue":404}`)
	ds, err := ListDoctors(context.Background(), srv.Client(), srv.URL, "tok")
	if err != nil || len(ds) != 0 {
		t.Fatalf("ListDoctors = %+v, %v", ds, err)
	}
	if last().Method != http.MethodPost {
		t.Fatalf("method = %s", last().Method)
	}
}

func TestGetUser(t *testing.T) {
	t.Parallel()
	srv, _ := serve(t, http.StatusOK, `{"id":5,"firstName":"Asha","status":true,"createdOn":1735689600000}`)
	u, err := GetUser(context.Background(), srv.Client(), srv.URL, "tok")
	if err != nil || u.ID != 5 || !u.Status || u.CreatedOn != "2025-01-01T00:00:00Z" {
		t.Fatalf("GetUser = %+v, %v", u, err)
	}
}

func TestEditUser_TextAck(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/editUser" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var u types.User
		_ = json.NewDecoder(r.Body).Decode(&u)
		if u.ID != 2 || u.FirstName != "Amelia" {
			t.Fatalf("unexpected body: %+v", u)
		}
		_, _ = w.Write([]byte("User updated successfully."))
	}))
	defer srv.Close()

	exec := &mockExec{}
	ack, err := EditUser(context.Background(), exec, srv.Client(), srv.URL, "tok", types.User{ID: 2, FirstName: "Amelia"})
	if err != nil || ack.Message != "User updated successfully." {
		t.Fatalf("EditUser = %+v, %v", ack, err)
	}
	if exec.lastKey() != "user:2" {
		t.Fatalf("key = %q", exec.lastKey())
	}
}

func TestEditUser_RefusedText(t *testing.T) {
	t.Parallel()
	srv, _ := serve(t, http.StatusOK, "Invalid or expired token.")
	_, err := EditUser(context.Background(), &mockExec{}, srv.Client(), srv.URL, "tok", types.User{ID: 2})
	if got := apierr.UserMessage(err, ""); got != "Invalid or expired token." {
		t.Fatalf("message = %q (%v)", got, err)
	}
}

func TestEditUser_RequiresID(t *testing.T) {
	t.Parallel()
	if _, err := EditUser(context.Background(), failingExec{}, http.DefaultClient, "http://unused", "tok", types.User{}); !apierr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	t.Parallel()
	srv, last := serve(t, http.StatusOK, `"User deleted successfully."`)
	exec := &mockExec{}
	if err := DeleteUser(context.Background(), exec, srv.Client(), srv.URL, "tok", 7); err != nil {
		t.Fatalf("DeleteUser error: %v", err)
	}
	r := last()
	if r.Method != http.MethodPost || r.URL.Path != "/auth/deleteUser" || r.URL.Query().Get("user_id") != "7" {
		t.Fatalf("unexpected request %s %s", r.Method, r.URL)
	}
	if exec.lastKey() != "user:7" {
		t.Fatalf("key = %q", exec.lastKey())
	}
}

func TestDeleteUser_ServerError(t *testing.T) {
	t.Parallel()
	srv, _ := serve(t, http.StatusInternalServerError, "User could not be deleted")
	err := DeleteUser(context.Background(), &mockExec{}, srv.Client(), srv.URL, "tok", 1)
	if got := apierr.UserMessage(err, ""); got != "User could not be deleted" {
		t.Fatalf("message = %q (%v)", got, err)
	}
}
