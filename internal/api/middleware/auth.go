package middleware

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/edvin/opsdash/internal/api/response"
	"github.com/edvin/opsdash/internal/auth"
)

// RequireAuth rejects requests the authorizer does not accept.
func RequireAuth(authorizer auth.Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !authorizer.Authorized(r) {
				zerolog.Ctx(r.Context()).Debug().Str("path", r.URL.Path).Msg("unauthorized request")
				response.WriteError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
