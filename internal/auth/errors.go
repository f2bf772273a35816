// Package auth provides bearer-token authentication and role-based
// authorization for Alexander IAM.
package auth

import "errors"

// Authentication and authorization errors.
var (
	// ErrNoToken indicates the Authorization header is absent or carries no token.
	ErrNoToken = errors.New("no token provided")

	// ErrTokenInvalid indicates a malformed, tampered, or wrong-secret token.
	ErrTokenInvalid = errors.New("invalid token")

	// ErrTokenExpired indicates the token's expiry has passed.
	ErrTokenExpired = errors.New("token has expired")

	// ErrNoIdentity indicates no authenticated identity is attached to the
	// request context. Policies check this independently so they are safe
	// to evaluate even when middleware ordering is wrong.
	ErrNoIdentity = errors.New("authentication required")

	// ErrRoleForbidden indicates the identity's role is not in the accepted set.
	ErrRoleForbidden = errors.New("access denied")
)
