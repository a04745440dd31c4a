package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/MonikaTammineni/fsadproject/apierr"
	"github.com/MonikaTammineni/fsadproject/client/internal/job"
	"github.com/MonikaTammineni/fsadproject/client/internal/types"
)

// maxBodyBytes caps how much of a JSON or text response is read.
const maxBodyBytes = 16 << 20

// emptyNotice matches the text the server sends instead of an empty list,
// e.g. "No files found for the patient." or "No appointments found".
var emptyNotice = regexp.MustCompile(`(?i)^no [a-z ]+ found`)

// endpoint builds an absolute URL for path. The session token always
// travels as the token query parameter.
func endpoint(baseURL, path, token string, params url.Values) string {
	q := url.Values{}
	for k, vs := range params {
		q[k] = vs
	}
	if token != "" {
		q.Set("token", token)
	}
	target := strings.TrimRight(baseURL, "/") + path
	if enc := q.Encode(); enc != "" {
		target += "?" + enc
	}
	return target
}

func newRequest(ctx context.Context, method, target string, body any) (*http.Request, error) {
	if body == nil {
		return http.NewRequestWithContext(ctx, method, target, nil)
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// send performs req and returns the body of a 2xx response. Network
// failures and non-2xx statuses become classified apierr errors.
func send(httpClient *http.Client, req *http.Request, op string) ([]byte, error) {
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, apierr.NewNetworkError(op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apierr.NewNetworkError(op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apierr.NewHTTPError(resp.StatusCode, string(body), op)
	}
	return body, nil
}

// call is the common path of a synchronous request.
func call(ctx context.Context, httpClient *http.Client, method, target string, body any, op string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req, err := newRequest(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	return send(httpClient, req, op)
}

// mutate runs fn on the executor queue for key and waits for it.
func mutate(ctx context.Context, exec types.Executor, key string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return exec.Do(ctx, key, job.New(fn))
}

// unwrap strips a serialized response entity
// ({"headers":{},"body":...,"statusCodeValue":200}) or a bare {"body": ...}
// wrapper. An entity carrying an error status becomes a transport error even
// though the HTTP status was 200.
func unwrap(op string, raw []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed, nil
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return trimmed, nil
	}
	inner, hasBody := probe["body"]
	rawStatus, hasStatus := probe["statusCodeValue"]
	if !hasBody && !hasStatus {
		return trimmed, nil
	}
	if hasStatus {
		var status int
		if err := json.Unmarshal(rawStatus, &status); err == nil && status >= 400 {
			return nil, apierr.NewHTTPError(status, textOf(inner), op)
		}
	}
	if len(inner) == 0 {
		return []byte("null"), nil
	}
	return bytes.TrimSpace(inner), nil
}

// textOf returns raw as text, unquoting a JSON string.
func textOf(raw []byte) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	if bytes.Equal(raw, []byte("null")) {
		return ""
	}
	return string(raw)
}

// decodeList extracts the array from a list response. Both a top-level
// array and {"body": [...]} are accepted. A "No ... found" notice in place
// of the array, plain or as a 404 entity, means an empty list. Anything else
// is a shape error.
func decodeList(op string, raw []byte) ([]json.RawMessage, error) {
	inner, err := unwrap(op, raw)
	if err != nil {
		var e *apierr.Error
		if errors.As(err, &e) && e.StatusCode == http.StatusNotFound && emptyNotice.MatchString(e.Message) {
			return []json.RawMessage{}, nil
		}
		return nil, err
	}
	if len(inner) == 0 || inner[0] != '[' {
		if text := textOf(inner); emptyNotice.MatchString(text) {
			return []json.RawMessage{}, nil
		}
		return nil, apierr.Shape(op, "response does not contain a list")
	}
	var items []json.RawMessage
	if err := json.Unmarshal(inner, &items); err != nil {
		return nil, apierr.Shape(op, "response list is malformed")
	}
	if items == nil {
		items = []json.RawMessage{}
	}
	return items, nil
}

// decodeItems decodes every element of a list response into T.
func decodeItems[T any](op string, raw []byte) ([]T, error) {
	items, err := decodeList(op, raw)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			return nil, apierr.Shape(op, "list element has unexpected fields")
		}
		out = append(out, v)
	}
	return out, nil
}

// decodeObject decodes a single JSON object, unwrapping an entity first.
func decodeObject(op string, raw []byte, v any) error {
	inner, err := unwrap(op, raw)
	if err != nil {
		return err
	}
	if len(inner) == 0 || inner[0] != '{' {
		return apierr.Shape(op, "response is not an object")
	}
	if err := json.Unmarshal(inner, v); err != nil {
		return apierr.Shape(op, "response object is malformed")
	}
	return nil
}

// decodeAck interprets a mutation response. A JSON object is the stored
// record. Text must read as a success notice ("... successfully"); any other
// text is the server declining the change.
func decodeAck(op string, raw []byte) (*types.Ack, error) {
	inner, err := unwrap(op, raw)
	if err != nil {
		return nil, err
	}
	if len(inner) > 0 && (inner[0] == '{' || inner[0] == '[') {
		return &types.Ack{Record: json.RawMessage(inner)}, nil
	}
	text := strings.TrimSpace(textOf(inner))
	if text != "" && !strings.Contains(strings.ToLower(text), "success") {
		return nil, apierr.Refused(op, text)
	}
	return &types.Ack{Message: text}, nil
}
