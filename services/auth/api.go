package auth

import (
	"context"
	"net/http"
)

const CookieName = "Authed-User"

// Validation is the outcome of checking the session cookie of a request.
type Validation struct {
	Authed      bool
	AccessToken string
	// RedirectURL is the authorize url to start a new session with; only set when there was no cookie at all.
	RedirectURL string
	// ClearCookie is set when the request carried a cookie that no longer leads to a usable session.
	ClearCookie bool
}

//go:generate mockgen -source=api.go -package auth -destination validator_mock.go SessionValidator
type SessionValidator interface {
	Validate(c context.Context, r *http.Request) Validation
}

// SetSessionCookie hands the browser the session id.
func SetSessionCookie(w http.ResponseWriter, sessionUID string, maxAgeSeconds int) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sessionUID,
		MaxAge:   maxAgeSeconds,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie right away.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   CookieName,
		Value:  "null",
		MaxAge: -1,
	})
}

func sessionUIDFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" || cookie.Value == "null" {
		return ""
	}
	return cookie.Value
}
