// Package auth stands in for the hosted authentication provider. It only
// knows which identity a session token belongs to.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"helpmarket/internal/models"
	"helpmarket/utils"
)

var ErrInvalidIdentity = errors.New("invalid identity")

// Authenticator resolves the identity behind a session
type Authenticator interface {
	CurrentUser(token string) (models.Identity, bool)
	SignOut(token string)
}

// SessionStore is an in-memory Authenticator
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Identity // key: token
}

// NewSessionStore creates an empty session store
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]models.Identity)}
}

// SignIn opens a session for identity and returns its token
func (s *SessionStore) SignIn(identity models.Identity) (string, error) {
	identity.UserID = strings.TrimSpace(identity.UserID)
	if identity.UserID == "" {
		return "", fmt.Errorf("%w: empty user id", ErrInvalidIdentity)
	}
	if identity.Rating < 0 || identity.Rating > 5 {
		return "", fmt.Errorf("%w: rating %.1f outside 0-5", ErrInvalidIdentity, identity.Rating)
	}
	if identity.DisplayName == "" {
		identity.DisplayName = identity.UserID
	}

	token := utils.NewToken()
	s.mu.Lock()
	s.sessions[token] = identity
	s.mu.Unlock()
	return token, nil
}

// CurrentUser returns the identity signed in with token
func (s *SessionStore) CurrentUser(token string) (models.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.sessions[token]
	return id, ok
}

// SignOut ends the session. Unknown tokens are ignored.
func (s *SessionStore) SignOut(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}
