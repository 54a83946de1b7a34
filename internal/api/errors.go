package api

import (
	"errors"
	"fmt"
	"net/http"
)

// RateLimitCode is the error code the API returns when a caller is throttled.
const RateLimitCode = "RATE_LIMIT_EXCEEDED"

var (
	// ErrUnauthorized matches any 401 response. The session must be dropped.
	ErrUnauthorized = errors.New("api: unauthorized")

	// ErrRateLimited matches a RATE_LIMIT_EXCEEDED code or a 429 response.
	ErrRateLimited = errors.New("api: rate limited")

	// ErrNotFound matches any 404 response.
	ErrNotFound = errors.New("api: not found")
)

// Error is a non-2xx response from the API.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api: %d %s: %s", e.Status, e.Code, e.Message)
	}
	if e.Message != "" {
		return fmt.Sprintf("api: %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
}

// Is maps the response onto the package sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrRateLimited:
		return e.Code == RateLimitCode || e.Status == http.StatusTooManyRequests
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// Message returns the server-provided message of err, if it is an *Error.
func Message(err error) (string, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message, true
	}
	return "", false
}
