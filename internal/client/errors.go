package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrTimeout matches (via errors.Is) any request that exceeded its deadline
var ErrTimeout = errors.New("request timed out")

// APIError is returned for every non-2xx response
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string // server-provided message, if any
	Body    []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s failed (status %d): %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s failed (status %d)", e.Method, e.Path, e.Status)
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	return &APIError{
		Method:  method,
		Path:    path,
		Status:  status,
		Message: serverMessage(body),
		Body:    body,
	}
}

// serverMessage pulls "message" or "error" from a JSON error body
func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

// TransportError wraps failures where no HTTP response was received
type TransportError struct {
	Method  string
	Path    string
	Err     error
	timeout bool
}

func (e *TransportError) Error() string {
	if e.timeout {
		return fmt.Sprintf("%s %s timed out: %v", e.Method, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s: failed to send request: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrTimeout) true for timed-out requests
func (e *TransportError) Is(target error) bool {
	return target == ErrTimeout && e.timeout
}

// Timeout reports whether the request exceeded its deadline
func (e *TransportError) Timeout() bool { return e.timeout }

// StatusCode returns the HTTP status carried by err, or 0
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsUnauthorized reports whether err is a 401 response
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsForbidden reports whether err is a 403 response
func IsForbidden(err error) bool {
	return StatusCode(err) == http.StatusForbidden
}

// Message converts err into the human-readable banner text shown at the call
// site: the server message when present, otherwise a description of the
// failure class, otherwise fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if msg := strings.TrimSpace(apiErr.Message); msg != "" {
			return msg
		}
		if apiErr.Status >= http.StatusInternalServerError {
			return "Server error. Please try again later."
		}
		return fallback
	}

	if errors.Is(err, ErrTimeout) {
		return "The server took too long to respond. Please try again."
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return "Cannot connect to server. Is the backend running?"
	}

	return fallback
}
