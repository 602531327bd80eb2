package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 4 << 20

// Call describes one request against the service.
type Call struct {
	// Op names the operation for errors and the call journal, e.g. "questions.random".
	Op     string
	Method string
	// Path is relative to the API base URL unless Root is set, in which
	// case it is resolved against the server root.
	Path  string
	Root  bool
	Query url.Values
	Body  any
	// Idempotent marks calls that may be retried safely.
	Idempotent bool
	// RequestID is sent as X-Request-ID and recorded in the journal.
	RequestID string
}

// Result is a successful (2xx) response.
type Result struct {
	Status int
	Body   []byte
}

// Transport performs a single Call. Implementations return *Error for
// network and server failures.
type Transport interface {
	Do(ctx context.Context, call *Call) (*Result, error)
}

// HTTPTransport sends calls over HTTP with a per-request timeout.
type HTTPTransport struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPTransport creates a transport rooted at baseURL.
func NewHTTPTransport(baseURL string, timeout time.Duration) (*HTTPTransport, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL %q must use http or https", baseURL)
	}
	return &HTTPTransport{
		base:   u,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// BaseURL returns the API base URL.
func (t *HTTPTransport) BaseURL() string {
	return t.base.String()
}

func (t *HTTPTransport) Do(ctx context.Context, call *Call) (*Result, error) {
	var body io.Reader
	if call.Body != nil {
		data, err := json.Marshal(call.Body)
		if err != nil {
			return nil, &Error{Kind: KindUnhandled, Op: call.Op, Detail: "could not encode request", Err: err}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, call.Method, t.resolve(call), body)
	if err != nil {
		return nil, &Error{Kind: KindUnhandled, Op: call.Op, Detail: "could not build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if call.RequestID != "" {
		req.Header.Set("X-Request-ID", call.RequestID)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, networkError(call.Op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, networkError(call.Op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Kind:   KindServerError,
			Op:     call.Op,
			Status: resp.StatusCode,
			Detail: detailFrom(data),
		}
	}

	return &Result{Status: resp.StatusCode, Body: data}, nil
}

func (t *HTTPTransport) resolve(call *Call) string {
	u := *t.base
	if call.Root {
		u.Path = call.Path
	} else {
		u.Path = t.base.Path + call.Path
	}
	u.RawPath = ""
	if len(call.Query) > 0 {
		u.RawQuery = call.Query.Encode()
	}
	return u.String()
}

// detailFrom extracts the "detail" field of an error body. Validation
// failures carry a list of {msg} objects instead of a string.
func detailFrom(body []byte) string {
	var env struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(env.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(env.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
