package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/sakif/modelshare/internal/model"
)

// State is the session's authentication state.
type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Session is the in-process authentication context: Anonymous until a Login
// succeeds, Authenticated(user) until Logout. Nothing survives a restart.
//
// Session is safe for concurrent use.
type Session struct {
	auth   Authenticator
	logger *slog.Logger

	mu   sync.RWMutex
	user *model.User
}

// NewSession returns an Anonymous session that authenticates through auth,
// usually a Chain of StaticCredentials and RepositoryCredentials.
func NewSession(auth Authenticator, logger *slog.Logger) *Session {
	return &Session{auth: auth, logger: logger}
}

// Login authenticates username and password. On success the session becomes
// Authenticated as the returned user and Login reports true. On any failure
// the session keeps whatever state it had and Login reports false; bad
// credentials are never an error.
func (s *Session) Login(ctx context.Context, username, password string) bool {
	user, err := s.auth.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			s.logger.Info("login refused", slog.String("username", username))
		} else {
			s.logger.Error("login failed",
				slog.String("username", username),
				slog.String("error", err.Error()),
			)
		}
		return false
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()

	s.logger.Info("user logged in",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
		slog.Bool("isAdmin", user.IsAdmin),
	)
	return true
}

// Logout returns the session to Anonymous. It is safe to call at any time.
func (s *Session) Logout() {
	s.mu.Lock()
	prev := s.user
	s.user = nil
	s.mu.Unlock()

	if prev != nil {
		s.logger.Info("user logged out", slog.String("userID", prev.ID))
	}
}

// User returns the authenticated user, or nil when Anonymous. The result is
// a copy.
func (s *Session) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return Anonymous
	}
	return Authenticated
}

// IsAdmin reports whether the session is Authenticated as an administrator.
func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.IsAdmin
}
