package server

import (
	"context"
	"net/http"

	"github.com/BuddyApator/Energie-Buddy/internal/auth"
	"github.com/BuddyApator/Energie-Buddy/internal/webutil"
)

const sessionCookieName = "energie_buddy_session"

type contextKey string

const sessionContextKey contextKey = "session"

// requireSession resolves the session cookie and stores the session on the
// request context. Requests without a live session get a 401 and never reach
// the handler.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			webutil.RespondWithError(w, http.StatusUnauthorized, "not signed in")
			return
		}

		session, ok := s.sessions.Get(cookie.Value)
		if !ok {
			webutil.RespondWithError(w, http.StatusUnauthorized, "session expired")
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFromContext returns the session placed by requireSession.
func sessionFromContext(ctx context.Context) auth.Session {
	session, _ := ctx.Value(sessionContextKey).(auth.Session)
	return session
}

func setSessionCookie(w http.ResponseWriter, session auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
