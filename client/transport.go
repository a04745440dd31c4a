package client

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader carries a per-request id so server logs can be matched
// with client logs.
const RequestIDHeader = "X-Request-ID"

// requestIDTransport stamps outgoing requests with a fresh request id unless
// the caller already set one.
type requestIDTransport struct {
	base http.RoundTripper
}

func (t *requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(RequestIDHeader) != "" {
		return t.base.RoundTrip(req)
	}
	cloned := req.Clone(req.Context())
	cloned.Header.Set(RequestIDHeader, uuid.NewString())
	return t.base.RoundTrip(cloned)
}

// wrapTransportWithRequestID installs requestIDTransport on top of whatever
// transport the options configured.
func (c *Client) wrapTransportWithRequestID() {
	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	if _, ok := base.(*requestIDTransport); ok {
		return
	}
	c.http.Transport = &requestIDTransport{base: base}
}
