package auth

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/modelshare/internal/apperror"
)

// =========================================================================
// HELPER
// =========================================================================

// newTestPasswordService uses the minimum bcrypt cost so tests stay fast.
func newTestPasswordService() *PasswordService {
	return NewPasswordService(bcrypt.MinCost)
}

// =========================================================================
// NewPasswordService TESTS
// =========================================================================

func TestNewPasswordService_Cost(t *testing.T) {
	cases := []struct {
		name string
		in   int
		want int
	}{
		{"min", bcrypt.MinCost, bcrypt.MinCost},
		{"typical", 10, 10},
		{"zero falls back", 0, DefaultCost},
		{"too high falls back", bcrypt.MaxCost + 1, DefaultCost},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NewPasswordService(tc.in).Cost(); got != tc.want {
				t.Errorf("Cost() = %d, want %d", got, tc.want)
			}
		})
	}
}

// =========================================================================
// Hash TESTS
// =========================================================================

func TestHash_OutputLooksBcrypt(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("password123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("Hash() does not look like a bcrypt hash: %q", hash)
	}
	if hash == "password123" {
		t.Error("Hash() returned the plaintext")
	}
}

func TestHash_SamePasswordProducesDifferentHashes(t *testing.T) {
	ps := newTestPasswordService()

	hash1, _ := ps.Hash("same-password")
	hash2, _ := ps.Hash("same-password")

	if hash1 == hash2 {
		t.Error("Hash() produced identical hashes for the same password (salt must be random)")
	}
}

func TestHash_RejectsPasswordOver72Bytes(t *testing.T) {
	ps := newTestPasswordService()

	_, err := ps.Hash(strings.Repeat("a", 73))
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("Hash() error = %v, want a validation error", err)
	}
	if got := apperror.FieldOf(err); got != "password" {
		t.Errorf("FieldOf() = %q, want %q", got, "password")
	}
}

func TestHash_AcceptsPasswordExactly72Bytes(t *testing.T) {
	ps := newTestPasswordService()

	if _, err := ps.Hash(strings.Repeat("a", 72)); err != nil {
		t.Fatalf("Hash() should accept a 72-byte password, got error: %v", err)
	}
}

// =========================================================================
// Verify TESTS
// =========================================================================

func TestVerify_WrongPassword(t *testing.T) {
	ps := newTestPasswordService()

	hash, _ := ps.Hash("the-real-password")

	if err := ps.Verify(hash, "the-wrong-password"); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("Verify() error = %v, want ErrPasswordMismatch", err)
	}
	if err := ps.Verify(hash, ""); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("Verify() with empty password error = %v, want ErrPasswordMismatch", err)
	}
}

func TestVerify_GarbageHash(t *testing.T) {
	ps := newTestPasswordService()

	err := ps.Verify("not-a-valid-bcrypt-hash", "password")
	if err == nil {
		t.Fatal("Verify() should return an error for a garbage hash")
	}
	if errors.Is(err, ErrPasswordMismatch) {
		t.Error("a malformed hash is not a mismatch")
	}
}

func TestHashVerify_RoundTrip(t *testing.T) {
	ps := newTestPasswordService()

	cases := []struct {
		name     string
		password string
	}{
		{"simple alphanumeric", "hello123"},
		{"special characters", "p@$$w0rd!#%"},
		{"unicode", "пароль-密码"},
		{"whitespace", "  leading and trailing  "},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hash, err := ps.Hash(tc.password)
			if err != nil {
				t.Fatalf("Hash(%q) error = %v", tc.password, err)
			}
			if err := ps.Verify(hash, tc.password); err != nil {
				t.Errorf("Verify() failed for %q: %v", tc.password, err)
			}
		})
	}
}
