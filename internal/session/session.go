// Package session holds the login state of the local user and the identity
// providers that establish it.
package session

import (
	"sync/atomic"

	"github.com/xiaot623/chatbridge/internal/domain"
	"github.com/xiaot623/chatbridge/internal/principal"
)

// Session is the login state of the local user.
type Session struct {
	LoggedIn  bool                `json:"logged_in"`
	Principal principal.Principal `json:"principal"`
	Username  string              `json:"username"`
}

// LoggedOut is the session before any login.
func LoggedOut() Session {
	return Session{Username: domain.DefaultUserName}
}

// Store holds the current session. Updates replace the whole value at once,
// so readers never see a principal without its username.
type Store struct {
	current atomic.Pointer[Session]
}

// NewStore creates a store holding the logged out session.
func NewStore() *Store {
	s := &Store{}
	s.Replace(LoggedOut())
	return s
}

// Load returns a copy of the current session.
func (s *Store) Load() Session {
	return *s.current.Load()
}

// Replace installs sess as the current session.
func (s *Store) Replace(sess Session) {
	s.current.Store(&sess)
}
