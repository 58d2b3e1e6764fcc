package server

import (
	"crypto/subtle"
	"net/http"
	"sync"

	"github.com/google/uuid"
)

// SessionCookie names the cookie carrying the session token.
const SessionCookie = "quicktransfer_session"

// sessions tracks the tokens handed out by a successful login. With no
// password configured every request is authorized.
type sessions struct {
	password string

	mu     sync.RWMutex
	tokens map[string]struct{}
}

func newSessions(password string) *sessions {
	return &sessions{
		password: password,
		tokens:   make(map[string]struct{}),
	}
}

// check reports whether password matches the configured one.
func (s *sessions) check(password string) bool {
	return subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
}

// issue creates a new session token.
func (s *sessions) issue() string {
	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = struct{}{}
	s.mu.Unlock()
	return token
}

// authorized reports whether r may access the files.
func (s *sessions) authorized(r *http.Request) bool {
	if s.password == "" {
		return true
	}
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tokens[c.Value]
	return ok
}

// require rejects unauthorized requests with 403.
func (s *sessions) require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authorized(r) {
			http.Error(w, "Access denied", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}
