// internal/handlers/session.go
package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ElyraTeam/minigames-backend/internal/auth"
)

const sessionCookieName = "session"

// EnsureSession resolves the caller's durable session id from the session
// cookie, minting a fresh identity when the cookie is absent or fails to
// verify. Must run before any WebSocket upgrade, since it may set a cookie.
func EnsureSession(w http.ResponseWriter, r *http.Request) (string, error) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if sessionID, err := auth.AuthenticateSessionJWT(cookie.Value); err == nil {
			return sessionID, nil
		}
	}

	sessionID := uuid.NewString()
	token, err := auth.CreateSessionJWT(sessionID)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		HttpOnly: true,
		Path:     "/",
		MaxAge:   auth.TOKEN_EXPIRE_TIME_SEC,
	})
	return sessionID, nil
}
