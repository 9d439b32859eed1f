package server

import (
	"net/http"
	"strconv"
	"time"

	apperrors "github.com/BuddyApator/Energie-Buddy/internal/errors"
	"github.com/BuddyApator/Energie-Buddy/internal/webutil"
)

const defaultRecentCount = 5

type createReadingRequest struct {
	RecordedAt string  `json:"recorded_at,omitempty"` // RFC 3339; defaults to now
	Value      float64 `json:"value"`
}

func (s *Server) handleListReadings(w http.ResponseWriter, r *http.Request) error {
	session := sessionFromContext(r.Context())

	readings, err := s.ledger.History(r.Context(), session.UserID)
	if err != nil {
		return err
	}

	webutil.RespondWithJSON(w, http.StatusOK, readings)
	return nil
}

func (s *Server) handleCreateReading(w http.ResponseWriter, r *http.Request) error {
	session := sessionFromContext(r.Context())

	var req createReadingRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}

	var recordedAt time.Time
	if req.RecordedAt != "" {
		var err error
		recordedAt, err = time.Parse(time.RFC3339, req.RecordedAt)
		if err != nil {
			return apperrors.NewInvalidInput("recorded_at must be RFC 3339")
		}
	}

	reading, err := s.ledger.Append(r.Context(), session.UserID, recordedAt, req.Value)
	if err != nil {
		return err
	}

	webutil.RespondWithJSON(w, http.StatusCreated, reading)
	return nil
}

func (s *Server) handleRecentReadings(w http.ResponseWriter, r *http.Request) error {
	session := sessionFromContext(r.Context())

	n := defaultRecentCount
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return apperrors.NewInvalidInput("n must be a non-negative integer")
		}
		n = parsed
	}

	readings, err := s.ledger.Recent(r.Context(), session.UserID, n)
	if err != nil {
		return err
	}

	webutil.RespondWithJSON(w, http.StatusOK, readings)
	return nil
}
