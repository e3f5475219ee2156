package vercel

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrNotConfigured is returned by every call when no token is set.
var ErrNotConfigured = errors.New("vercel: token not configured")

// APIError is a non-2xx response from the Vercel API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("vercel: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("vercel: HTTP %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a Vercel 404 response.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		apiErr.Message = eb.Error.Message
	}
	return apiErr
}
