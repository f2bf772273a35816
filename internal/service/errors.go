// Package service provides business logic services for Alexander IAM.
package service

import "errors"

// Common service errors.
var (
	// ErrRateLimited indicates too many attempts from one client.
	ErrRateLimited = errors.New("too many attempts, try again later")

	// ErrConcurrentUpdate indicates a conflicting mutation against the same
	// user is in flight and the per-user lock could not be acquired.
	ErrConcurrentUpdate = errors.New("user is being modified by another request")

	// ErrInternalError indicates an unexpected repository or crypto failure.
	ErrInternalError = errors.New("internal server error")
)
