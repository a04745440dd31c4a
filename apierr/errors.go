// Package apierr classifies failures of the remote record API and of local
// record handling. The Kind drives what the user is told; the Category drives
// whether the mutation executor may retry.
package apierr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind is the user-facing class of a failure.
type Kind int

const (
	// KindTransport covers network failures and non-2xx responses.
	KindTransport Kind = iota

	// KindValidation is a local, per-field input error. Nothing was sent.
	KindValidation

	// KindShape means the response body did not have the expected structure.
	KindShape

	// KindConflict means an edit was based on a stale version of a record.
	KindConflict

	// KindBusy means another mutation for the same view is still in flight.
	KindBusy
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindValidation:
		return "validation"
	case KindShape:
		return "shape"
	case KindConflict:
		return "conflict"
	case KindBusy:
		return "busy"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ErrorCategory determines how errors should be handled by retry logic.
type ErrorCategory int

const (
	// Recoverable errors may be retried with exponential backoff.
	// Examples: 500 Internal Server Error, network timeouts, connection failures.
	Recoverable ErrorCategory = iota

	// Irrecoverable errors should fail immediately without retry.
	// Examples: 401 Unauthorized, 403 Forbidden, 400 Bad Request.
	Irrecoverable
)

// String returns a human-readable representation of the error category.
func (c ErrorCategory) String() string {
	switch c {
	case Recoverable:
		return "Recoverable"
	case Irrecoverable:
		return "Irrecoverable"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// Sentinels usable with errors.Is against any *Error of the same Kind.
var (
	ErrTransport  = &Error{Kind: KindTransport}
	ErrValidation = &Error{Kind: KindValidation}
	ErrShape      = &Error{Kind: KindShape}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrBusy       = &Error{Kind: KindBusy}
)

// Error wraps a failure with classification metadata.
type Error struct {
	Kind       Kind
	Category   ErrorCategory
	StatusCode int               // HTTP status code (0 for non-HTTP errors)
	Message    string            // server-provided or user-facing message
	Body       string            // raw response body for debugging
	Fields     map[string]string // per-field messages for KindValidation
	Underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.StatusCode > 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if len(e.Fields) > 0 {
		names := make([]string, 0, len(e.Fields))
		for name := range e.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, 0, len(names))
		for _, name := range names {
			parts = append(parts, name+": "+e.Fields[name])
		}
		b.WriteString(" [")
		b.WriteString(strings.Join(parts, "; "))
		b.WriteString("]")
	}
	if e.Underlying != nil {
		b.WriteString(": ")
		b.WriteString(e.Underlying.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error for error chain compatibility.
func (e *Error) Unwrap() error {
	return e.Underlying
}

// Is matches any *Error with the same Kind, so the package sentinels work
// with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Validation builds a KindValidation error from per-field messages.
// It returns nil when fields is empty.
func Validation(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	copied := make(map[string]string, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return &Error{Kind: KindValidation, Category: Irrecoverable, Message: "invalid input", Fields: copied}
}

// Shape reports an unexpected response structure for operation.
func Shape(operation, detail string) error {
	return &Error{
		Kind:       KindShape,
		Category:   Irrecoverable,
		Message:    detail,
		Underlying: fmt.Errorf("%s: unexpected response shape", operation),
	}
}

// Conflict reports an edit against a stale record version.
func Conflict(id string) error {
	return &Error{
		Kind:     KindConflict,
		Category: Irrecoverable,
		Message:  fmt.Sprintf("record %s changed since editing started", id),
	}
}

// Busy reports a mutation rejected because another one is in flight.
func Busy() error {
	return &Error{Kind: KindBusy, Category: Irrecoverable, Message: "another change is still being saved"}
}

// KindOf returns the Kind of the first *Error in err's chain. Errors that
// carry no classification are treated as transport failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindTransport
}

// IsIrrecoverable returns true if the error should not be retried.
func IsIrrecoverable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Category == Irrecoverable
	}
	return false
}

// IsShape reports whether err is a response shape error.
func IsShape(err error) bool { return errors.Is(err, ErrShape) }

// IsValidation reports whether err is a local validation error.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsConflict reports whether err is a stale-version conflict.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

// IsBusy reports whether err was rejected because a mutation is in flight.
func IsBusy(err error) bool { return errors.Is(err, ErrBusy) }

// UserMessage returns the most useful message for a notification: the
// server-provided message when there is one, else fallback.
func UserMessage(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
