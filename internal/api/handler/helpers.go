package handler

import (
	"net/http"

	"github.com/edvin/opsdash/internal/api/request"
	"github.com/edvin/opsdash/internal/api/response"
)

// decodeBody decodes and validates a JSON body. Malformed JSON is
// reported as is; a failed validation is reported as missing.
func decodeBody(w http.ResponseWriter, r *http.Request, v any, missing string) bool {
	if err := request.Decode(r, v); err != nil {
		if request.IsValidation(err) {
			response.WriteError(w, http.StatusBadRequest, missing)
		} else {
			response.WriteError(w, http.StatusBadRequest, err.Error())
		}
		return false
	}
	return true
}
