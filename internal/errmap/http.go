// Package errmap maps host errors to the HTTP responses of the ops
// endpoints. Every sentinel a health probe can observe has an explicit entry.
package errmap

import (
	"errors"
	"net/http"

	"github.com/aelexs/tickhost/internal/domain"
)

// HTTPError represents an HTTP error response.
type HTTPError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e HTTPError) Error() string {
	return e.Message
}

// httpMapping defines a domain error to HTTP status/code mapping.
type httpMapping struct {
	err        error
	statusCode int
	code       string
}

// httpMappings maps domain errors to HTTP status codes and error codes.
// Order matters: first match wins (via errors.Is).
var httpMappings = []httpMapping{
	// Lifecycle: the process may still become healthy
	{domain.ErrNotReady, http.StatusServiceUnavailable, "NOT_READY"},
	{domain.ErrShuttingDown, http.StatusServiceUnavailable, "SHUTTING_DOWN"},

	// Faults: the process must be restarted
	{domain.ErrHostFaulted, http.StatusInternalServerError, "FAULTED"},
	{domain.ErrPassFault, http.StatusInternalServerError, "FAULTED"},
	{domain.ErrBuilderMissing, http.StatusInternalServerError, "NOT_CONFIGURED"},
}

// ToHTTPError converts a domain error to an HTTP error.
func ToHTTPError(err error) HTTPError {
	if err == nil {
		return HTTPError{StatusCode: http.StatusOK}
	}
	for _, m := range httpMappings {
		if errors.Is(err, m.err) {
			return HTTPError{StatusCode: m.statusCode, Code: m.code, Message: err.Error()}
		}
	}
	// Never expose internal error details to clients
	return HTTPError{StatusCode: http.StatusInternalServerError, Code: "INTERNAL", Message: "internal error"}
}

// ToHTTPStatusCode extracts just the HTTP status code for a domain error.
func ToHTTPStatusCode(err error) int {
	return ToHTTPError(err).StatusCode
}
