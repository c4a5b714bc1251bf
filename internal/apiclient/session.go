package apiclient

import (
	"errors"
	"sync"

	"golang.org/x/oauth2"
)

// ErrNoToken is returned for authenticated calls made without a bearer token.
var ErrNoToken = errors.New("apiclient: no bearer token")

// Session holds the bearer token for one signed-in user. The token is passed
// in explicitly; nothing is read from ambient storage.
type Session struct {
	mu      sync.RWMutex
	token   string
	revoked chan struct{}
}

// NewSession creates a session. An empty token yields a signed-out session.
func NewSession(token string) *Session {
	s := &Session{revoked: make(chan struct{})}
	if token == "" {
		close(s.revoked)
	}
	s.token = token
	return s
}

// SetToken replaces the bearer token, re-arming Done after a revoke.
func (s *Session) SetToken(token string) {
	if token == "" {
		s.Revoke()
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		s.revoked = make(chan struct{})
	}
	s.token = token
}

// Revoke drops the token. Pollers watching Done stop.
func (s *Session) Revoke() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return
	}
	s.token = ""
	close(s.revoked)
}

// Authenticated reports whether the session holds a token.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Done returns a channel closed when the current token is revoked.
// For a signed-out session the channel is already closed.
func (s *Session) Done() <-chan struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revoked
}

// TokenSource exposes the session as an oauth2.TokenSource. Each call reads
// the current token, so SetToken and Revoke apply to in-flight clients.
func (s *Session) TokenSource() oauth2.TokenSource {
	return sessionTokenSource{s}
}

type sessionTokenSource struct {
	s *Session
}

func (ts sessionTokenSource) Token() (*oauth2.Token, error) {
	ts.s.mu.RLock()
	defer ts.s.mu.RUnlock()
	if ts.s.token == "" {
		return nil, ErrNoToken
	}
	return &oauth2.Token{AccessToken: ts.s.token, TokenType: "Bearer"}, nil
}
