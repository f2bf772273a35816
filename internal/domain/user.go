// Package domain contains the core business entities for Alexander IAM.
// These are pure Go structs with no external dependencies, representing
// the fundamental concepts of the identity and access-management system.
package domain

import (
	"net/mail"
	"strings"
	"time"
)

// Validation limits for user fields.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 255
	MinPasswordLength = 6
)

// User represents a registered account in the system.
type User struct {
	// ID is the unique identifier for the user (assigned by the repository).
	ID int64 `json:"id"`

	// Username is the unique username for login and display.
	// Constraints: 3-255 characters, surrounding whitespace trimmed.
	Username string `json:"username"`

	// Email is the unique, lower-cased email address for the user.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	// This is never exposed in API responses.
	PasswordHash string `json:"-"`

	// Role is the user's single authorization role.
	Role Role `json:"role"`

	// IsActive indicates whether the account may authenticate.
	IsActive bool `json:"is_active"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates a new User with default values.
// Username is trimmed and email is normalized to lower case.
func NewUser(username, email, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		Username:     strings.TrimSpace(username),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		Role:         RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// CanAuthenticate returns true if the user is allowed to log in.
func (u *User) CanAuthenticate() bool {
	return u.IsActive
}

// PublicUser is the externally visible view of a user.
// It never carries the password hash.
type PublicUser struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Public returns the external view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// NormalizeEmail trims surrounding whitespace and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateUsername checks the username length constraints.
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if len(username) < MinUsernameLength || len(username) > MaxUsernameLength {
		return ErrInvalidUsername
	}
	return nil
}

// ValidateEmail checks the email has a basic valid shape.
func ValidateEmail(email string) error {
	if _, err := mail.ParseAddress(NormalizeEmail(email)); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword checks the plaintext password length constraint.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrInvalidPassword
	}
	return nil
}
