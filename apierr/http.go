package apierr

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxMessageLen bounds how much of a plain-text body becomes a message.
const maxMessageLen = 300

// ClassifyHTTPError determines whether an HTTP error should be retried.
// - 4xx client errors (except 408 and 429) are irrecoverable
// - 5xx server errors are recoverable
// - Network-level errors are recoverable
func ClassifyHTTPError(statusCode int, body string, underlyingErr error) *Error {
	return &Error{
		Kind:       KindTransport,
		Category:   getHTTPErrorCategory(statusCode),
		StatusCode: statusCode,
		Message:    MessageFromBody(body),
		Body:       body,
		Underlying: underlyingErr,
	}
}

// getHTTPErrorCategory maps HTTP status codes to error categories.
func getHTTPErrorCategory(statusCode int) ErrorCategory {
	switch {
	case statusCode >= 400 && statusCode < 500:
		switch statusCode {
		case 408, 429:
			return Recoverable
		default:
			return Irrecoverable
		}
	case statusCode >= 500 && statusCode < 600:
		return Recoverable
	default:
		// Unexpected status codes - be conservative and retry
		return Recoverable
	}
}

// NewHTTPError creates a classified error for HTTP failures.
func NewHTTPError(statusCode int, body string, operation string) *Error {
	underlyingErr := fmt.Errorf("%s failed: HTTP %d", operation, statusCode)
	return ClassifyHTTPError(statusCode, body, underlyingErr)
}

// NewNetworkError creates a classified error for network-level failures.
// Network errors are always recoverable as they may be transient.
func NewNetworkError(operation string, err error) *Error {
	return &Error{
		Kind:       KindTransport,
		Category:   Recoverable,
		Underlying: fmt.Errorf("%s network error: %w", operation, err),
	}
}

// MessageFromBody extracts a human message from an error response. The
// remote API answers either {"message": "..."} / {"error": "..."} JSON or a
// bare text line.
func MessageFromBody(body string) string {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "{") {
		var payload struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal([]byte(trimmed), &payload); err == nil {
			if payload.Message != "" {
				return payload.Message
			}
			return payload.Error
		}
	}
	if len(trimmed) > maxMessageLen {
		cut := maxMessageLen
		for cut > 0 && !utf8.RuneStart(trimmed[cut]) {
			cut--
		}
		return trimmed[:cut]
	}
	return trimmed
}

// Refused reports a request the server answered with 2xx but declined in
// the body, such as a rejected login or a plain-text failure notice.
func Refused(operation, message string) *Error {
	return &Error{
		Kind:       KindTransport,
		Category:   Irrecoverable,
		StatusCode: 200,
		Message:    message,
		Body:       message,
		Underlying: fmt.Errorf("%s refused by server", operation),
	}
}
