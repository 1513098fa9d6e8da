package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrUnauthenticated is returned when a token maps to no live session.
var ErrUnauthenticated = errors.New("no active session")

const defaultSessionTTL = 24 * time.Hour

type sessionEntry struct {
	userID    int64
	expiresAt time.Time
}

// SessionManager holds the token→user map server-side. Tokens are
// opaque uuids; the cookie layer signs them before they reach a browser.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]sessionEntry
	ttl      time.Duration
}

func NewSessionManager(ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionManager{
		sessions: make(map[string]sessionEntry),
		ttl:      ttl,
	}
}

var _ Sessions = (*SessionManager)(nil)

// Create opens a session for the user and returns its token.
func (m *SessionManager) Create(userID int64) string {
	token := uuid.NewString()
	m.mu.Lock()
	m.sessions[token] = sessionEntry{
		userID:    userID,
		expiresAt: time.Now().Add(m.ttl),
	}
	m.mu.Unlock()
	return token
}

// Resolve returns the user id behind a token, refreshing its expiry.
func (m *SessionManager) Resolve(token string) (int64, error) {
	if token == "" {
		return 0, ErrUnauthenticated
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[token]
	if !ok {
		return 0, ErrUnauthenticated
	}
	if time.Now().After(entry.expiresAt) {
		delete(m.sessions, token)
		return 0, ErrUnauthenticated
	}
	entry.expiresAt = time.Now().Add(m.ttl)
	m.sessions[token] = entry
	return entry.userID, nil
}

// Destroy invalidates the token. Unknown tokens are a no-op.
func (m *SessionManager) Destroy(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

// Run ticks at the given interval sweeping expired sessions until ctx
// is canceled.
func (m *SessionManager) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			m.sweep(now)
		}
	}
}

func (m *SessionManager) sweep(now time.Time) {
	m.mu.Lock()
	for token, entry := range m.sessions {
		if now.After(entry.expiresAt) {
			delete(m.sessions, token)
		}
	}
	m.mu.Unlock()
}
