package server

import (
	"net/http"

	"github.com/BuddyApator/Energie-Buddy/internal/settings"
	"github.com/BuddyApator/Energie-Buddy/internal/webutil"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) error {
	cfg, err := s.settings.Load()
	if err != nil {
		return err
	}

	webutil.RespondWithJSON(w, http.StatusOK, cfg)
	return nil
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) error {
	var cfg settings.Settings
	if err := decodeBody(r, &cfg); err != nil {
		return err
	}

	if err := s.settings.Save(cfg); err != nil {
		return err
	}

	webutil.RespondWithJSON(w, http.StatusOK, cfg)
	return nil
}
