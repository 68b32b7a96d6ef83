package remoteapi

import (
	"errors"
	"fmt"
)

// ErrNoBaseURL means the configured base URL is empty or not an http(s)
// address; no network call is attempted in that case.
var ErrNoBaseURL = errors.New("base url is empty or not an http address")

// ConnectionError wraps a transport-level failure (DNS, connect, timeout).
type ConnectionError struct {
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	if e == nil {
		return "connection error"
	}
	return fmt.Sprintf("connection to %s failed: %v", e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// HTTPError means the remote answered with a non-2xx status.
type HTTPError struct {
	URL        string
	StatusCode int
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "http error"
	}
	return fmt.Sprintf("request to %s returned status %d", e.URL, e.StatusCode)
}

// ParseError means the response body was not the expected JSON structure.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	if e == nil {
		return "parse error"
	}
	return fmt.Sprintf("response from %s could not be parsed: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// GatewayError means the gateway envelope reported success=false.
type GatewayError struct {
	URL string
}

func (e *GatewayError) Error() string {
	if e == nil {
		return "gateway error"
	}
	return fmt.Sprintf("gateway at %s reported failure", e.URL)
}
