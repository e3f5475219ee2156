package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/edvin/opsdash/internal/core"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// WriteServiceError writes a *core.Error with its status and message.
// Any other error is logged and reported as a 500.
func WriteServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr *core.Error
	if errors.As(err, &svcErr) {
		if svcErr.Status >= http.StatusInternalServerError {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg(svcErr.Message)
		}
		WriteError(w, svcErr.Status, svcErr.Message)
		return
	}
	zerolog.Ctx(r.Context()).Error().Err(err).Msg("unhandled service error")
	WriteError(w, http.StatusInternalServerError, "Internal server error")
}

// WriteSuccess writes a 200 object with "success": true merged into fields.
func WriteSuccess(w http.ResponseWriter, fields map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	WriteJSON(w, http.StatusOK, body)
}
