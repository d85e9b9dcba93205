// Package session owns the authenticated principal and the token pair.
// Every other module reads tokens through this single owner; only login,
// refresh and logout mutate it.
package session

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pminsight/client/internal/models"
)

// Session holds the authenticated identity and credentials. Readers always
// see the latest value; there is no caching of tokens at call sites.
type Session struct {
	mu        sync.RWMutex
	access    string
	refresh   string
	principal *models.Principal
	store     Store
}

// New constructs a session backed by store, restoring any persisted
// credentials.
func New(store Store) *Session {
	s := &Session{store: store}
	p, err := store.Load()
	if err != nil {
		if err != ErrNoSession {
			log.Printf("[SESSION] Failed to restore session: %v", err)
		}
		return s
	}
	s.access = p.AccessToken
	s.refresh = p.RefreshToken
	if len(p.AuthUser) > 0 {
		var principal models.Principal
		if err := json.Unmarshal(p.AuthUser, &principal); err != nil {
			log.Printf("[SESSION] Corrupt auth_user in store, ignoring: %v", err)
		} else {
			s.principal = &principal
		}
	}
	return s
}

// Authenticated reports whether a principal and token pair are present.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access != "" && s.principal != nil
}

// AccessToken returns the current access token.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

// RefreshToken returns the current refresh token.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

// Principal returns a copy of the authenticated user, or nil.
func (s *Session) Principal() *models.Principal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.principal == nil {
		return nil
	}
	p := *s.principal
	return &p
}

// SetCredentials installs a full login result and persists it.
func (s *Session) SetCredentials(access, refresh string, principal models.Principal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.refresh = refresh
	s.principal = &principal
	s.persistLocked()
}

// SetAccessToken replaces only the access token after a refresh.
func (s *Session) SetAccessToken(access string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.persistLocked()
}

// Clear wipes credentials and the backing store. Used by logout and by
// irrecoverable authentication failure.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	s.refresh = ""
	s.principal = nil
	if err := s.store.Clear(); err != nil {
		log.Printf("[SESSION] Failed to clear store: %v", err)
	}
}

func (s *Session) persistLocked() {
	p := persisted{AccessToken: s.access, RefreshToken: s.refresh}
	if s.principal != nil {
		data, err := json.Marshal(s.principal)
		if err == nil {
			p.AuthUser = data
		}
	}
	if err := s.store.Save(p); err != nil {
		log.Printf("[SESSION] Failed to persist session: %v", err)
	}
}

// AccessExpiresWithin reports whether the access token expires inside d.
// The token is parsed without signature verification; the client never
// holds the signing key and only needs the exp claim.
func (s *Session) AccessExpiresWithin(d time.Duration) bool {
	s.mu.RLock()
	token := s.access
	s.mu.RUnlock()
	if token == "" {
		return true
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return true
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Until(exp.Time) < d
}
