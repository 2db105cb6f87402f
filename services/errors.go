package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// NetworkError means the request never produced a successful HTTP response:
// either the round trip failed (StatusCode 0) or the API answered non-2xx.
type NetworkError struct {
	StatusCode int
	Status     string
	Err        error
}

func (e *NetworkError) Error() string {
	if e == nil {
		return "network error"
	}
	if e.StatusCode == 0 {
		if e.Err != nil {
			return fmt.Sprintf("network error: %v", e.Err)
		}
		return "network error"
	}
	status := strings.TrimSpace(e.Status)
	if status == "" {
		status = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("network error: HTTP %d %s", e.StatusCode, status)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// QueryError carries the first entry of the API's errors list.
type QueryError struct {
	Message string
	Status  int
}

func (e *QueryError) Error() string {
	if e == nil || strings.TrimSpace(e.Message) == "" {
		return "query error"
	}
	return "query error: " + e.Message
}

// DecodeError means the response body could not be turned into the expected payload.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	if e == nil || e.Err == nil {
		return "decode error"
	}
	return fmt.Sprintf("decode error: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsNotFound reports whether err says the requested media does not exist.
func IsNotFound(err error) bool {
	var netErr *NetworkError
	if errors.As(err, &netErr) && netErr.StatusCode == http.StatusNotFound {
		return true
	}
	var qErr *QueryError
	if errors.As(err, &qErr) {
		return qErr.Status == http.StatusNotFound
	}
	return false
}
