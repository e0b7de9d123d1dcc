package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"
)

// APIError is a rejection returned by the backend with a status code and message body.
type APIError struct {
	Status  int
	Message string
	Body    []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream error: %d - %s", e.Status, e.Message)
}

func (e *APIError) IsConflict() bool {
	return e.Status == http.StatusConflict
}

func (e *APIError) IsNotFound() bool {
	return e.Status == http.StatusNotFound
}

// NetworkError is a transport-level failure where the request outcome on the
// server is unknown.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("upstream %s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsNetwork reports whether err is a timeout, refused/reset/aborted connection or
// DNS failure. Validation errors and HTTP rejections are not network errors.
func IsNetwork(err error) bool {
	if err == nil {
		return false
	}

	var ne *NetworkError
	if errors.As(err, &ne) {
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// Message returns the text of a backend rejection, or "" if err is not one.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// StatusCode returns the HTTP status of a backend rejection, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
