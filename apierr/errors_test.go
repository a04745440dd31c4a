package apierr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestClassifyHTTPError_Categories(t *testing.T) {
	t.Parallel()
	cases := []struct {
		status int
		want   ErrorCategory
	}{
		{400, Irrecoverable},
		{401, Irrecoverable},
		{404, Irrecoverable},
		{408, Recoverable},
		{429, Recoverable},
		{500, Recoverable},
		{503, Recoverable},
		{302, Recoverable},
	}
	for _, tc := range cases {
		e := NewHTTPError(tc.status, "", "op")
		if e.Category != tc.want {
			t.Fatalf("status %d: got %s want %s", tc.status, e.Category, tc.want)
		}
		if e.Kind != KindTransport {
			t.Fatalf("status %d: expected transport kind, got %s", tc.status, e.Kind)
		}
	}
}

func TestMessageFromBody(t *testing.T) {
	t.Parallel()
	if got := MessageFromBody(`{"message":"email already used"}`); got != "email already used" {
		t.Fatalf("json message: %q", got)
	}
	if got := MessageFromBody(`{"error":"Not Found"}`); got != "Not Found" {
		t.Fatalf("json error: %q", got)
	}
	if got := MessageFromBody("  File not found \n"); got != "File not found" {
		t.Fatalf("text body: %q", got)
	}
	if got := MessageFromBody(""); got != "" {
		t.Fatalf("empty body: %q", got)
	}
	long := strings.Repeat("x", maxMessageLen+50)
	if got := MessageFromBody(long); len(got) != maxMessageLen {
		t.Fatalf("expected truncation to %d, got %d", maxMessageLen, len(got))
	}
}

func TestMessageFromBody_TruncatesOnRuneBoundary(t *testing.T) {
	t.Parallel()
	body := strings.Repeat("x", maxMessageLen-1) + strings.Repeat("é", 30)
	got := MessageFromBody(body)
	if !utf8.ValidString(got) {
		t.Fatalf("truncated message is not valid UTF-8: %q", got[len(got)-4:])
	}
	if len(got) != maxMessageLen-1 {
		t.Fatalf("expected cut before the split rune at %d, got %d", maxMessageLen-1, len(got))
	}
}

func TestKindSentinels(t *testing.T) {
	t.Parallel()
	wrapped := fmt.Errorf("save file: %w", Conflict("7"))
	if !IsConflict(wrapped) {
		t.Fatal("expected conflict through wrapping")
	}
	if IsShape(wrapped) || IsBusy(wrapped) || IsValidation(wrapped) {
		t.Fatal("conflict must not match other kinds")
	}
	if KindOf(wrapped) != KindConflict {
		t.Fatalf("KindOf: %s", KindOf(wrapped))
	}
	if KindOf(errors.New("plain")) != KindTransport {
		t.Fatal("unclassified errors count as transport")
	}
	if !IsShape(Shape("list files", "no array found")) {
		t.Fatal("expected shape")
	}
	if !IsBusy(Busy()) {
		t.Fatal("expected busy")
	}
}

func TestValidation(t *testing.T) {
	t.Parallel()
	if Validation(nil) != nil {
		t.Fatal("empty field map must yield nil")
	}
	fields := map[string]string{"email": "Invalid email format", "firstName": "Required"}
	err := Validation(fields)
	if !IsValidation(err) {
		t.Fatalf("expected validation, got %v", err)
	}
	fields["email"] = "mutated"
	var e *Error
	if !errors.As(err, &e) || e.Fields["email"] != "Invalid email format" {
		t.Fatal("validation error must own a copy of its fields")
	}
	if !strings.Contains(err.Error(), "email: Invalid email format; firstName: Required") {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !IsIrrecoverable(err) {
		t.Fatal("validation errors are never retried")
	}
}

func TestUserMessage(t *testing.T) {
	t.Parallel()
	err := fmt.Errorf("delete: %w", NewHTTPError(400, "Appointment already cancelled", "delete appointment"))
	if got := UserMessage(err, "Delete failed"); got != "Appointment already cancelled" {
		t.Fatalf("got %q", got)
	}
	if got := UserMessage(NewNetworkError("list", errors.New("dial tcp")), "Failed to fetch"); got != "Failed to fetch" {
		t.Fatalf("got %q", got)
	}
}

func TestRefused(t *testing.T) {
	t.Parallel()
	err := Refused("login", "Invalid email or password")
	if KindOf(err) != KindTransport || !IsIrrecoverable(err) {
		t.Fatalf("unexpected classification: %v", err)
	}
	if got := UserMessage(err, "fallback"); got != "Invalid email or password" {
		t.Fatalf("UserMessage = %q", got)
	}
	if !strings.Contains(err.Error(), "login refused") {
		t.Fatalf("error text missing operation: %s", err.Error())
	}
}
