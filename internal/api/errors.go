package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
)

// Kind classifies a failure for the user-facing layer.
type Kind int

const (
	// KindInvalidInput is a local validation failure. No request was sent.
	KindInvalidInput Kind = iota
	// KindNetworkFailure means no response was received (unreachable, timeout, cancelled).
	KindNetworkFailure
	// KindServerError means the server answered with a non-success status.
	KindServerError
	// KindUnhandled covers everything else, such as an undecodable body.
	KindUnhandled
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input"
	case KindNetworkFailure:
		return "network failure"
	case KindServerError:
		return "server error"
	default:
		return "unhandled"
	}
}

// networkFailureMessage is shown whenever the server could not be reached.
const networkFailureMessage = "network connection failed, please check your network settings"

// Error is the error type returned by every Backend operation.
type Error struct {
	Kind   Kind
	Op     string // e.g. "interview.chat"
	Status int    // HTTP status, 0 when no response was received
	Detail string // server-provided detail or validation message
	Err    error
}

func (e *Error) Error() string {
	msg := e.Message()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Kind == KindServerError && e.Status != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Message returns a single human-readable line suitable for display.
func (e *Error) Message() string {
	switch e.Kind {
	case KindInvalidInput:
		return e.Detail
	case KindNetworkFailure:
		return networkFailureMessage
	case KindServerError:
		if e.Detail != "" {
			return e.Detail
		}
		if t := http.StatusText(e.Status); t != "" {
			return t
		}
		return "request failed"
	default:
		if e.Detail != "" {
			return e.Detail
		}
		if e.Err != nil {
			return e.Err.Error()
		}
		return "request failed"
	}
}

// InvalidInput builds a KindInvalidInput error for op.
func InvalidInput(op, detail string) *Error {
	return &Error{Kind: KindInvalidInput, Op: op, Detail: detail}
}

// KindOf reports the Kind of err. Context cancellation and transport errors
// that escaped classification count as network failures.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	if isNetworkError(err) {
		return KindNetworkFailure
	}
	return KindUnhandled
}

// IsKind reports whether err is classified as k.
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// MessageOf returns the display line for any error.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	if isNetworkError(err) {
		return networkFailureMessage
	}
	return err.Error()
}

func isNetworkError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// networkError wraps a transport failure for op.
func networkError(op string, err error) *Error {
	return &Error{Kind: KindNetworkFailure, Op: op, Err: err}
}

// unhandledError wraps a decode or validation failure for op.
func unhandledError(op string, err error) *Error {
	return &Error{Kind: KindUnhandled, Op: op, Detail: "unexpected response from server", Err: err}
}

// Classify converts err into an *Error for op unless it already is one.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	switch {
	case errors.As(err, &apiErr):
		return err
	case isNetworkError(err):
		return networkError(op, err)
	default:
		return unhandledError(op, err)
	}
}
