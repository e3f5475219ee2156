package request

import (
	"net/http"
	"strconv"
)

// ParseLimit reads the limit query parameter. Missing, malformed or
// non-positive values yield fallback; values above max are clamped.
func ParseLimit(r *http.Request, fallback, max int) int {
	limit := fallback
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > max {
		limit = max
	}
	return limit
}
