// Package repository defines data access interfaces for Alexander IAM.
// These interfaces abstract database operations, allowing for different
// implementations (PostgreSQL, SQLite, in-memory for testing) while keeping
// the service layer clean.
package repository

import (
	"context"

	"github.com/prn-tf/alexander-iam/internal/domain"
)

// =============================================================================
// User Repository
// =============================================================================

// UserRepository defines the interface for user data access.
//
// Contract: Create and Update enforce username/email uniqueness atomically
// (a unique violation surfaces as domain.ErrUserAlreadyExists), and writes
// to a single user id are serialized by the backend so conflicting updates
// cannot interleave.
type UserRepository interface {
	// Create creates a new user and assigns its ID.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByUsername retrieves a user by username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetByEmail retrieves a user by normalized email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update updates an existing user.
	// Rejects a role outside the closed set with domain.ErrInvalidRole.
	Update(ctx context.Context, user *domain.User) error

	// Delete permanently removes a user by ID. No soft delete.
	Delete(ctx context.Context, id int64) error

	// List returns users with pagination, optionally filtered.
	List(ctx context.Context, opts ListOptions) (*ListResult[domain.User], error)

	// ExistsByUsername checks if a user with the given username exists.
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByEmail checks if a user with the given email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Stats returns aggregate user counts grouped by role and active status.
	Stats(ctx context.Context) (*domain.UserStats, error)
}

// =============================================================================
// Common Types
// =============================================================================

// ListOptions contains pagination and filter options for listing users.
type ListOptions struct {
	// Offset is the number of records to skip.
	Offset int

	// Limit is the maximum number of records to return.
	Limit int

	// Role filters by role when non-empty.
	Role domain.Role

	// ActiveOnly restricts the listing to active users.
	ActiveOnly bool
}

// ListResult is a generic paginated list result.
type ListResult[T any] struct {
	// Items is the list of items.
	Items []*T

	// Total is the total number of items (without pagination).
	Total int64

	// Offset is the current offset.
	Offset int

	// Limit is the current limit.
	Limit int
}
