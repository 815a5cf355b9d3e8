package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is matched by API errors carrying a 404 status.
	ErrNotFound = errors.New("tmdb: not found")
	// ErrUnauthorized is matched by API errors carrying a 401 status.
	ErrUnauthorized = errors.New("tmdb: unauthorized")
)

// APIError is a non-2xx response. Code and Message come from TMDB's
// {status_code, status_message} body when present.
type APIError struct {
	Path    string
	Status  int
	Code    int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api %s returned status %d: %s", e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Status)
}

// Unwrap maps well-known statuses onto the package sentinels.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	default:
		return nil
	}
}

// temporary reports whether the error should count against the circuit
// breaker. Client errors describe the request, not upstream health.
func temporary(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500 || apiErr.Status == http.StatusTooManyRequests
	}
	return true
}
