package services

import (
	"fmt"
	"sync"

	"golang.org/x/oauth2"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
)

// Session holds the bearer token and identity of the signed-in viewer.
//
// It is safe for concurrent use and implements [oauth2.TokenSource].
type Session struct {
	mu           sync.RWMutex
	token        string
	user         models.User
	onInvalidate []func()
}

// NewSession creates a session, authenticated when token is non-empty.
func NewSession(token string, user models.User) *Session {
	return &Session{token: token, user: user}
}

// Token implements [oauth2.TokenSource].
func (s *Session) Token() (*oauth2.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return nil, shared.ErrNotAuthenticated
	}
	return &oauth2.Token{AccessToken: s.token, TokenType: "Bearer"}, nil
}

// Authenticated reports whether a token is present.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// User returns the signed-in viewer.
func (s *Session) User() models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Set replaces the token and viewer, e.g. after login.
func (s *Session) Set(token string, user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.user = token, user
}

// Require returns [shared.ErrNotAuthenticated] unless a token is present.
func (s *Session) Require() error {
	if !s.Authenticated() {
		return fmt.Errorf("%w: sign in first", shared.ErrNotAuthenticated)
	}
	return nil
}

// OnInvalidate registers fn to run after the session is cleared.
func (s *Session) OnInvalidate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onInvalidate = append(s.onInvalidate, fn)
}

// Invalidate clears the token and runs the registered hooks once per cleared token.
func (s *Session) Invalidate() {
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return
	}
	s.token, s.user = "", models.User{}
	hooks := append([]func(){}, s.onInvalidate...)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}
