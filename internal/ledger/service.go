// Package ledger is the gate between callers and the append-only reading
// store: it validates new readings before they land and retrieves a user's
// history in a form the consumption engine can work with.
package ledger

import (
	"context"
	"math"
	"time"

	"github.com/BuddyApator/Energie-Buddy/internal/consumption"
	apperrors "github.com/BuddyApator/Energie-Buddy/internal/errors"
	"github.com/BuddyApator/Energie-Buddy/pkg/models"
)

// ReadingStore is the persistence contract the service needs. The store must
// preserve insertion order on read.
type ReadingStore interface {
	InsertReading(ctx context.Context, reading *models.Reading) error
	ListReadings(ctx context.Context, userID string) ([]models.Reading, error)
}

// Service validates and appends readings and serves ordered history.
type Service struct {
	store ReadingStore
}

func NewService(store ReadingStore) *Service {
	return &Service{store: store}
}

// Append validates and stores one new reading. The append is all-or-nothing
// for the single row; on storage failure nothing is written and the error is
// classified as storage trouble rather than bad input.
func (s *Service) Append(ctx context.Context, userID string, recordedAt time.Time, value float64) (*models.Reading, error) {
	if userID == "" {
		return nil, apperrors.NewInvalidInput("user id must not be empty")
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, apperrors.NewInvalidInput("reading value must be a finite number")
	}
	if value < 0 {
		return nil, apperrors.NewInvalidInput("reading value must not be negative")
	}
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	reading := &models.Reading{
		UserID:     userID,
		RecordedAt: recordedAt,
		Value:      value,
	}
	if err := s.store.InsertReading(ctx, reading); err != nil {
		return nil, apperrors.NewStorageUnavailable(err, "appending reading")
	}

	return reading, nil
}

// History returns the user's full ledger ordered ascending by timestamp,
// stable within equal timestamps. An empty ledger is an empty slice, not an
// error; an error means the store itself failed.
func (s *Service) History(ctx context.Context, userID string) ([]models.Reading, error) {
	readings, err := s.store.ListReadings(ctx, userID)
	if err != nil {
		return nil, apperrors.NewStorageUnavailable(err, "loading readings")
	}
	return consumption.OrderByTime(readings), nil
}

// Recent returns the last n readings of the ordered ledger.
func (s *Service) Recent(ctx context.Context, userID string, n int) ([]models.Reading, error) {
	ordered, err := s.History(ctx, userID)
	if err != nil {
		return nil, err
	}
	return consumption.Tail(ordered, n), nil
}
