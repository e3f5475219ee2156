package auth

import (
	"crypto/subtle"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	CookieName   = "devops-auth"
	CookieValue  = "authenticated"
	CookieMaxAge = 7 * 24 * time.Hour
)

// Authorizer decides whether a request may perform privileged writes.
type Authorizer interface {
	Authorized(r *http.Request) bool
}

// CookieAuthorizer accepts requests carrying the shared session cookie.
type CookieAuthorizer struct{}

func (CookieAuthorizer) Authorized(r *http.Request) bool {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c.Value), []byte(CookieValue)) == 1
}

// SessionCookie returns the cookie set after a successful login.
func SessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    CookieValue,
		Path:     "/",
		MaxAge:   int(CookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// PasswordChecker verifies the admin password against either a bcrypt
// hash or a plaintext secret. The hash wins when both are set.
type PasswordChecker struct {
	password string
	hash     []byte
}

func NewPasswordChecker(password, hash string) *PasswordChecker {
	pc := &PasswordChecker{password: password}
	if hash != "" {
		pc.hash = []byte(hash)
	}
	return pc
}

// Configured reports whether an admin secret exists.
func (p *PasswordChecker) Configured() bool {
	return p != nil && (p.password != "" || len(p.hash) > 0)
}

// Check reports whether candidate matches the configured secret.
func (p *PasswordChecker) Check(candidate string) bool {
	if !p.Configured() {
		return false
	}
	if len(p.hash) > 0 {
		return bcrypt.CompareHashAndPassword(p.hash, []byte(candidate)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(p.password)) == 1
}
