package domain

import (
	"fmt"
	"strings"
)

// Role represents a user's authorization level.
// The set of roles is closed: every user holds exactly one role at a time,
// and a role change overwrites the previous value.
type Role string

const (
	// RoleUser is the default role assigned at signup.
	RoleUser Role = "user"

	// RoleAdmin grants full user-management privileges.
	RoleAdmin Role = "admin"

	// RoleModerator grants read-only access to moderation views.
	RoleModerator Role = "moderator"
)

// AllRoles lists every valid role. Used for validation and admin stats.
var AllRoles = []Role{RoleUser, RoleAdmin, RoleModerator}

// ParseRole converts a string to a Role. Input is trimmed and lowercased
// before matching. Returns ErrInvalidRole for any value outside the closed set.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleUser, RoleAdmin, RoleModerator:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

// Valid reports whether the role is a member of the closed set.
// Unlike ParseRole, no normalization is applied: a stored role must
// already be in canonical form.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleModerator:
		return true
	default:
		return false
	}
}

// String returns the role as a string.
func (r Role) String() string {
	return string(r)
}
