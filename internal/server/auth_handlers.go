package server

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/BuddyApator/Energie-Buddy/internal/errors"
	"github.com/BuddyApator/Energie-Buddy/internal/webutil"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

func decodeBody(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return apperrors.NewInvalidInput("invalid request payload: " + err.Error())
	}
	defer r.Body.Close()
	return nil
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) error {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}

	user, err := s.auth.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		return err
	}

	webutil.RespondWithJSON(w, http.StatusCreated, user)
	return nil
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) error {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}

	user, err := s.auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	session := s.sessions.Create(user.ID, user.DisplayName)
	setSessionCookie(w, session)

	webutil.RespondWithJSON(w, http.StatusOK, session)
	return nil
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) error {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		s.sessions.Destroy(cookie.Value)
	}
	clearSessionCookie(w)

	webutil.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
	return nil
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) error {
	webutil.RespondWithJSON(w, http.StatusOK, sessionFromContext(r.Context()))
	return nil
}
