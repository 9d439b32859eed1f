package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is one authenticated browser session. Sessions are process-local
// and die on sign-out, expiry, or restart; nothing about them is persisted.
type Session struct {
	Token       string    `json:"-"`
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// SessionManager hands out and resolves session tokens. Safe for concurrent
// use by multiple request goroutines.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionManager(ttl time.Duration) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create opens a session for the given user and returns it with a fresh
// opaque token.
func (m *SessionManager) Create(userID, displayName string) Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	session := Session{
		Token:       uuid.NewString(),
		UserID:      userID,
		DisplayName: displayName,
		ExpiresAt:   m.now().Add(m.ttl),
	}
	m.sessions[session.Token] = session
	return session
}

// Get resolves a token to its session. Expired sessions are removed on the
// way out and report as absent.
func (m *SessionManager) Get(token string) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[token]
	if !ok {
		return Session{}, false
	}
	if m.now().After(session.ExpiresAt) {
		delete(m.sessions, token)
		return Session{}, false
	}
	return session, true
}

// Destroy ends a session. Unknown tokens are a no-op.
func (m *SessionManager) Destroy(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}
