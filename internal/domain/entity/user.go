// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the account holder. Email is the login identity and is stored normalized.
type User struct {
	ID           uuid.UUID // The Global Unique Identifier (GUID) for the user.
	Email        string    // Login identity, always stored through NormalizeEmail.
	Name         string    // The user's display name.
	PasswordHash string    // Opaque hash produced by the PasswordHasher; never empty for a persisted user.
	IsActive     bool      // Inactive users can neither obtain nor use tokens.
	CreatedAt    time.Time // Timestamp of when this user account was created.
	UpdatedAt    time.Time // Timestamp of the last modification to this user's data.
}

// NewUser builds an active user with a fresh ID.
func NewUser(email, name, passwordHash string) *User {
	now := time.Now().UTC()

	return &User{
		ID:           uuid.New(),
		Email:        NormalizeEmail(email),
		Name:         NormalizeName(name),
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Profile returns the public projection of the user.
func (u *User) Profile() *Profile {
	return &Profile{
		Email: u.Email,
		Name:  u.Name,
	}
}

// Profile is what an authenticated user may see about themselves.
type Profile struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// NormalizeName trims surrounding whitespace from a display name.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// NormalizeEmail trims surrounding whitespace and lowercases the address so
// that identities differing only in case collide.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
