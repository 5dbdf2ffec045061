// Package model defines the records persisted by the gallery.
//
// The json tags double as the persisted document field names: the record
// store indexes documents by these names (e.g. users are indexed on
// "username" and "email"), so renaming a tag is a schema change.
//
// The validate tags are the declarative rule set read by the
// validation package. A record type that needs defaults for omitted fields
// implements ApplyDefaults.
package model

import "time"

// User is a registered account.
//
// Passwords are never stored in clear text: PasswordHash holds the bcrypt
// output produced by auth.PasswordService when the user was created or last
// changed their password.
type User struct {
	ID           string    `json:"id"           validate:"required"`
	Username     string    `json:"username"     validate:"required,min=3,max=50"`
	Email        string    `json:"email"        validate:"required,email"`
	PasswordHash string    `json:"passwordHash" validate:"required"`
	AvatarURL    string    `json:"avatarUrl,omitempty"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
