package auth

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"carservice/internal/user"
)

// SessionStore maps live session ids (token jti) to resolved identities.
// Entries are created on login and removed on logout, so a signed token is
// only honored while its session is alive.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]user.Identity
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]user.Identity)}
}

func (s *SessionStore) Put(id string, ident user.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = ident
}

func (s *SessionStore) Get(id string) (user.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ident, ok := s.sessions[id]
	return ident, ok
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

type sessionClaims struct {
	jwt.RegisteredClaims

	Role string `json:"role"`
}

// Manager issues and verifies login tokens (JWT, HS256). The token carries
// the session id; the store decides whether that session is still live.
type Manager struct {
	secret []byte
	ttl    time.Duration
	store  *SessionStore
}

func NewManager(secret string, ttl time.Duration, store *SessionStore) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, store: store}
}

func (m *Manager) Issue(ident user.Identity, now time.Time) (string, error) {
	sessionID := uuid.NewString()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   fmt.Sprintf("%d", ident.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Role: string(ident.Role),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(m.secret)
	if err != nil {
		return "", err
	}

	m.store.Put(sessionID, ident)
	return signed, nil
}

// Authenticate verifies a token's signature and expiry, then resolves the
// identity from the session store. A revoked (logged-out) session fails even
// if the token itself is still within its validity window.
func (m *Manager) Authenticate(tokenString string, now time.Time) (*user.Identity, error) {
	sessionID, err := m.parseSessionID(tokenString, now)
	if err != nil {
		return nil, err
	}

	ident, ok := m.store.Get(sessionID)
	if !ok {
		return nil, fmt.Errorf("session revoked or unknown")
	}
	return &ident, nil
}

// Revoke ends the session named by the token. Bad tokens are not an error:
// logout of an already-dead session is a no-op.
func (m *Manager) Revoke(tokenString string, now time.Time) {
	sessionID, err := m.parseSessionID(tokenString, now)
	if err != nil {
		return
	}
	m.store.Delete(sessionID)
}

func (m *Manager) parseSessionID(tokenString string, now time.Time) (string, error) {
	if tokenString == "" {
		return "", fmt.Errorf("missing token")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	claims := &sessionClaims{}
	tok, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !tok.Valid {
		return "", fmt.Errorf("invalid token")
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(now) {
		return "", fmt.Errorf("token expired")
	}
	if claims.ID == "" {
		return "", fmt.Errorf("missing session id")
	}
	return claims.ID, nil
}
