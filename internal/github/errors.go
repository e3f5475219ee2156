package github

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrNotConfigured is returned by every call when no token is set.
var ErrNotConfigured = errors.New("github: token not configured")

// APIError is a response from the GitHub REST API with an unexpected
// status code.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("github: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("github: HTTP %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a GitHub 404 response.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var eb struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &eb) == nil {
		apiErr.Message = eb.Message
	}
	return apiErr
}
