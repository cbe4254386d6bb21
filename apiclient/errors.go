package apiclient

import (
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/jrsteele09/squadhub/internal/errors"
)

// ErrUnauthorized matches any 401 response.
var ErrUnauthorized = apperrors.ErrUnauthorized

// Error is returned for every non-2xx response. Body keeps the raw payload
// so forms can normalize field errors from it.
type Error struct {
	StatusCode int
	Method     string
	URL        string
	Body       []byte
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	if detail := strings.TrimSpace(string(e.Body)); detail != "" && len(detail) <= 200 {
		msg += ": " + detail
	}
	return msg
}

func (e *Error) Is(target error) bool {
	switch target {
	case apperrors.ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case apperrors.ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case apperrors.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case apperrors.ErrValidation:
		return e.StatusCode == http.StatusBadRequest
	}
	return false
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if apperrors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
