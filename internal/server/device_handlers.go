package server

import (
	"net/http"
	"time"

	apperrors "github.com/BuddyApator/Energie-Buddy/internal/errors"
	"github.com/BuddyApator/Energie-Buddy/internal/webutil"
)

type pollRequest struct {
	Address string `json:"address,omitempty"` // overrides the configured device address
}

// handleDiscover runs one time-boxed mDNS browse. Finding no device is a
// normal outcome reported with an empty address, not an error.
func (s *Server) handleDiscover(w http.ResponseWriter, r *http.Request) error {
	address, err := s.discover(r.Context(), s.discoveryTimeout)
	if err != nil {
		return err
	}

	webutil.RespondWithJSON(w, http.StatusOK, map[string]string{"address": address})
	return nil
}

// handlePoll reads the relay once and appends the result to the session
// user's ledger through the same gate manual entries go through.
func (s *Server) handlePoll(w http.ResponseWriter, r *http.Request) error {
	session := sessionFromContext(r.Context())

	var req pollRequest
	if r.ContentLength > 0 {
		if err := decodeBody(r, &req); err != nil {
			return err
		}
	}

	address := req.Address
	if address == "" {
		cfg, err := s.settings.Load()
		if err != nil {
			return err
		}
		address = cfg.DeviceAddress
	}
	if address == "" {
		return apperrors.NewDeviceNotFound("no device address configured or supplied")
	}

	sample, err := s.meterClient.Read(address)
	if err != nil {
		return err
	}

	reading, err := s.ledger.Append(r.Context(), session.UserID, time.Now().UTC(), sample.TotalKWh)
	if err != nil {
		return err
	}

	webutil.RespondWithJSON(w, http.StatusCreated, map[string]any{
		"reading": reading,
		"sample":  sample,
	})
	return nil
}
