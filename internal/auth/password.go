// Package auth holds the gallery's session state and the credential checks
// behind it.
//
// PASSWORDS:
// Accounts store a bcrypt hash, never the password itself. bcrypt salts every
// hash and embeds the salt and cost in its output:
//
//	$2a$12$<22-char salt><31-char hash>
//	 ^   ^
//	 |   cost (2^12 rounds)
//	 version
//
// so the stored string is all Verify needs.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/modelshare/internal/apperror"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 12

// maxPasswordBytes is bcrypt's input limit. Longer input would be truncated
// silently, so Hash rejects it.
const maxPasswordBytes = 72

// ErrPasswordMismatch is returned by Verify when the password is wrong.
var ErrPasswordMismatch = errors.New("auth: password does not match")

// PasswordService hashes and verifies passwords with bcrypt. It implements
// repository.PasswordHasher.
type PasswordService struct {
	cost int
}

// NewPasswordService returns a PasswordService with the given cost. A cost
// outside bcrypt's accepted range falls back to DefaultCost.
//
// Tests use bcrypt.MinCost (4) so hashing takes microseconds.
func NewPasswordService(cost int) *PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &PasswordService{cost: cost}
}

// Cost reports the work factor in use.
func (p *PasswordService) Cost() int {
	return p.cost
}

// Hash returns the bcrypt hash of plaintext. A password over 72 bytes fails
// with apperror.ErrValidation on field "password".
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > maxPasswordBytes {
		return "", apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}
	return string(hashed), nil
}

// Verify checks plaintext against a stored hash. It returns nil on a match,
// ErrPasswordMismatch on a wrong password, and a wrapped bcrypt error when
// hash is not a bcrypt hash at all.
//
// bcrypt.CompareHashAndPassword compares in constant time.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return fmt.Errorf("auth: comparing password hash: %w", err)
}
