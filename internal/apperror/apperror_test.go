package apperror

import (
	"errors"
	"fmt"
	"testing"
)

// Table-driven: one struct per case, one assertion loop.
func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("model", "abc123"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("name", "name is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Conflict wraps ErrConflict",
			err:       Conflict("users", "username", "alice"),
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "wrapped Conflict still matches",
			err:       fmt.Errorf("creating user: %w", Conflict("users", "email", "a@b.co")),
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("model", "abc123"),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "Conflict does NOT match ErrNotFound",
			err:       Conflict("users", "username", "alice"),
			target:    ErrNotFound,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound message includes resource and id",
			err:         NotFound("model", "abc123"),
			wantMessage: "model not found with id abc123",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("username", "username must be at least 3 characters"),
			wantMessage: "username must be at least 3 characters",
		},
		{
			name:        "Conflict message includes field and value",
			err:         Conflict("users", "username", "alice"),
			wantMessage: `users with username "alice" already exists`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	err := NotFound("model", "abc123")
	if unwrapped := err.Unwrap(); unwrapped != ErrNotFound {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, ErrNotFound)
	}
}

func TestFieldOf(t *testing.T) {
	if got := FieldOf(fmt.Errorf("outer: %w", ValidationFailed("email", "bad"))); got != "email" {
		t.Errorf("FieldOf(validation) = %q, want %q", got, "email")
	}
	if got := FieldOf(Conflict("users", "username", "x")); got != "username" {
		t.Errorf("FieldOf(conflict) = %q, want %q", got, "username")
	}
	if got := FieldOf(errors.New("plain")); got != "" {
		t.Errorf("FieldOf(plain) = %q, want empty", got)
	}
}
