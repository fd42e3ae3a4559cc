package httpclient

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError represents an HTTP error response
type HTTPError struct {
	StatusCode int
	URL        string
	Message    string
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d for URL %s: %s", e.StatusCode, e.URL, e.Message)
}

// NewHTTPError creates a new HTTP error
func NewHTTPError(statusCode int, url, message string) error {
	return &HTTPError{
		StatusCode: statusCode,
		URL:        url,
		Message:    message,
	}
}

// IsServerError reports whether err is an HTTPError carrying a 5xx status.
// Server errors are treated as transient by availability checks.
func IsServerError(err error) bool {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return false
	}
	return httpErr.StatusCode >= http.StatusInternalServerError
}
