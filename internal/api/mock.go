package api

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is a canned response for the MockTransport. Body is
// marshalled to JSON unless it is already a json.RawMessage.
type MockResponse struct {
	Status int
	Body   any
	Err    error
}

// MockTransport is a deterministic Transport for testing.
// It returns canned responses in FIFO order and records all calls.
type MockTransport struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Call
}

// NewMockTransport creates a MockTransport with the given canned responses.
func NewMockTransport(responses ...MockResponse) *MockTransport {
	return &MockTransport{responses: responses}
}

// Do returns the next canned response, or a network failure when the
// queue is empty. Non-2xx statuses become server errors.
func (m *MockTransport) Do(_ context.Context, call *Call) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, *call)

	if len(m.responses) == 0 {
		return nil, networkError(call.Op, nil)
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]

	if resp.Err != nil {
		return nil, resp.Err
	}

	var body []byte
	switch b := resp.Body.(type) {
	case nil:
	case json.RawMessage:
		body = b
	case []byte:
		body = b
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, &Error{Kind: KindUnhandled, Op: call.Op, Err: err}
		}
		body = data
	}

	status := resp.Status
	if status == 0 {
		status = 200
	}
	if status < 200 || status > 299 {
		return nil, &Error{Kind: KindServerError, Op: call.Op, Status: status, Detail: detailFrom(body)}
	}
	return &Result{Status: status, Body: body}, nil
}

// AddResponse appends a canned response to the queue.
func (m *MockTransport) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Do calls made.
func (m *MockTransport) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastCall returns the most recent call, or nil.
func (m *MockTransport) LastCall() *Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return nil
	}
	c := m.Calls[len(m.Calls)-1]
	return &c
}
