package common

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const SessionCookieName = "nsid"

func setSessionCookie(w http.ResponseWriter, r *http.Request, sessionId string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionId,
		Domain:   strings.TrimPrefix(r.Host, "."),
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
		MaxAge:   7200,
		Path:     "/",
	})
}

// HandleSessionCookie returns the caller's session id, issuing a new one
// when the cookie is missing or malformed.
func HandleSessionCookie(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(SessionCookieName)
	if err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	sessionId := uuid.New().String()
	setSessionCookie(w, r, sessionId)
	return sessionId
}
