// Package auth admits or rejects household members and tracks their
// sessions. Credentials are compared as stored, in plaintext, which is only
// defensible inside a single-household trust boundary; see the README.
package auth

import (
	"context"
	"time"

	apperrors "github.com/BuddyApator/Energie-Buddy/internal/errors"
	"github.com/BuddyApator/Energie-Buddy/pkg/models"
)

// UserStore is the persistence contract the service needs.
type UserStore interface {
	InsertUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// Service handles registration and login against the user store.
type Service struct {
	store UserStore
}

func NewService(store UserStore) *Service {
	return &Service{store: store}
}

// Register creates a new user. The identifier check is a case-sensitive
// exact match on the id as stored; no normalization is performed.
func (s *Service) Register(ctx context.Context, id, password, displayName string) (*models.User, error) {
	if id == "" || password == "" {
		return nil, apperrors.NewInvalidInput("identifier and password are required")
	}

	existing, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, apperrors.NewStorageUnavailable(err, "checking existing user")
	}
	if existing != nil {
		return nil, apperrors.NewAlreadyExists("identifier is already registered")
	}

	user := &models.User{
		ID:          id,
		Password:    password,
		DisplayName: displayName,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.InsertUser(ctx, user); err != nil {
		return nil, apperrors.NewStorageUnavailable(err, "creating user")
	}

	return user, nil
}

// Authenticate checks a credential pair by exact equality and returns the
// matching user. A missing user and a wrong password yield the same error so
// login failures don't reveal which identifiers exist.
func (s *Service) Authenticate(ctx context.Context, id, password string) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, apperrors.NewStorageUnavailable(err, "looking up user")
	}
	if user == nil || user.Password != password {
		return nil, apperrors.NewInvalidCredentials("unknown identifier or wrong password")
	}
	return user, nil
}
