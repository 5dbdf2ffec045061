package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/sakif/modelshare/internal/model"
)

// ErrInvalidCredentials means no authenticator accepted the username and
// password. It is the expected failure and is not logged as an error.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// Authenticator turns a username and password into a user.
// Implementations return ErrInvalidCredentials when the pair does not match
// and any other error when they could not decide.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
}

// UserLookup is the part of repository.UserRepository the repository
// strategy needs.
type UserLookup interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

// PasswordVerifier checks a plaintext password against a stored hash.
// *PasswordService implements it.
type PasswordVerifier interface {
	Verify(hash, plaintext string) error
}

// =========================================================================
// STATIC CREDENTIALS
// =========================================================================

// Default administrator credentials, used when none are configured.
const (
	DefaultAdminUsername = "ad2989846"
	DefaultAdminPassword = "admin"
	DefaultAdminEmail    = "admin@modelshare.com"
)

// StaticAdminID is the id of the identity StaticCredentials produces. It is
// never a store id.
const StaticAdminID = "static-admin"

// StaticCredentials accepts one fixed administrator login without touching
// the user repository. It exists so a fresh store can be administered; drop
// it from the chain in a real deployment.
type StaticCredentials struct {
	username string
	password string
	email    string
}

// NewStaticCredentials returns a StaticCredentials for the given login.
// Empty values fall back to the defaults.
func NewStaticCredentials(username, password, email string) *StaticCredentials {
	if username == "" {
		username = DefaultAdminUsername
	}
	if password == "" {
		password = DefaultAdminPassword
	}
	if email == "" {
		email = DefaultAdminEmail
	}
	return &StaticCredentials{username: username, password: password, email: email}
}

func (s *StaticCredentials) Authenticate(_ context.Context, username, password string) (*model.User, error) {
	// Both comparisons always run.
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username))
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.password))
	if userOK&passOK != 1 {
		return nil, ErrInvalidCredentials
	}
	return &model.User{
		ID:       StaticAdminID,
		Username: s.username,
		Email:    s.email,
		IsAdmin:  true,
	}, nil
}

// =========================================================================
// REPOSITORY CREDENTIALS
// =========================================================================

// RepositoryCredentials authenticates against stored accounts.
type RepositoryCredentials struct {
	users     UserLookup
	passwords PasswordVerifier
}

func NewRepositoryCredentials(users UserLookup, passwords PasswordVerifier) *RepositoryCredentials {
	return &RepositoryCredentials{users: users, passwords: passwords}
}

func (r *RepositoryCredentials) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := r.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("auth: looking up user %q: %w", username, err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := r.passwords.Verify(user.PasswordHash, password); err != nil {
		if errors.Is(err, ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return user, nil
}

// =========================================================================
// CHAIN
// =========================================================================

// Chain tries each authenticator in order and returns the first user one of
// them accepts. When none accepts, the result is ErrInvalidCredentials if
// every authenticator simply refused, or the joined failures of those that
// could not decide.
type Chain []Authenticator

func (c Chain) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	var errs []error
	for _, a := range c {
		user, err := a.Authenticate(ctx, username, password)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, ErrInvalidCredentials) {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return nil, ErrInvalidCredentials
}
