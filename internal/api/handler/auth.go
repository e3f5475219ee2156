package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/edvin/opsdash/internal/api/request"
	"github.com/edvin/opsdash/internal/api/response"
	"github.com/edvin/opsdash/internal/auth"
)

type Auth struct {
	checker      *auth.PasswordChecker
	secureCookie bool
}

func NewAuth(checker *auth.PasswordChecker, secureCookie bool) *Auth {
	return &Auth{checker: checker, secureCookie: secureCookie}
}

// Login exchanges the admin password for the session cookie.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	if !h.checker.Configured() {
		response.WriteError(w, http.StatusInternalServerError, "ADMIN_PASSWORD not configured")
		return
	}

	var req request.Login
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if !h.checker.Check(req.Password) {
		zerolog.Ctx(r.Context()).Warn().Msg("admin login rejected")
		response.WriteError(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	http.SetCookie(w, auth.SessionCookie(h.secureCookie))
	response.WriteSuccess(w, nil)
}
