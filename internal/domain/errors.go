// Package domain contains the core business entities for Alexander IAM.
package domain

import "errors"

// Domain errors - these represent business rule violations.
// They are distinct from infrastructure errors (database, network, etc.).

var (
	// ===========================================
	// User Errors
	// ===========================================

	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates a user with the same username/email exists.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrUserInactive indicates the user account is deactivated.
	ErrUserInactive = errors.New("account is deactivated")

	// ErrInvalidCredentials indicates authentication failed.
	// The message is deliberately identical for unknown email and wrong
	// password so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ===========================================
	// Validation Errors
	// ===========================================

	// ErrInvalidUsername indicates the username length is out of range.
	ErrInvalidUsername = errors.New("invalid username: must be 3-255 characters")

	// ErrInvalidEmail indicates the email does not have a valid shape.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidPassword indicates the password is too short.
	ErrInvalidPassword = errors.New("invalid password: must be at least 6 characters")

	// ErrInvalidRole indicates a role value outside the closed set.
	ErrInvalidRole = errors.New("invalid role")

	// ===========================================
	// Authorization Errors
	// ===========================================

	// ErrSelfAction indicates a privileged user targeted their own account
	// with an operation that is forbidden against oneself.
	ErrSelfAction = errors.New("operation cannot target your own account")

	// Per-operation self-action rejections. Each unwraps to ErrSelfAction so
	// handlers can classify them uniformly while responses name the action.
	ErrSelfRoleChange = &selfActionError{msg: "cannot change your own role"}
	ErrSelfDeactivate = &selfActionError{msg: "cannot deactivate your own account"}
	ErrSelfDelete     = &selfActionError{msg: "cannot delete yourself"}
)

// selfActionError carries an operation-specific message on top of the
// ErrSelfAction sentinel.
type selfActionError struct {
	msg string
}

func (e *selfActionError) Error() string { return e.msg }

func (e *selfActionError) Unwrap() error { return ErrSelfAction }
