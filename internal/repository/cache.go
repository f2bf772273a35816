// Package repository defines data access interfaces for Alexander IAM.
package repository

import (
	"context"
	"time"
)

// =============================================================================
// Cache Interface (Redis)
// =============================================================================

// Cache defines the interface for caching operations.
// Backed by Redis in multi-node deployments and by an in-memory
// implementation for single-node or test setups. Alexander IAM uses it for
// login rate limiting and for short-lived admin stats caching.
type Cache interface {
	// Get retrieves a value by key.
	// Returns ErrCacheMiss if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with an optional TTL.
	// If ttl is 0, the value doesn't expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// SetNX sets a value only if the key doesn't exist.
	// Returns true if the value was set, false if the key already exists.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists.
	Exists(ctx context.Context, key string) (bool, error)

	// Expire sets or updates the TTL for a key.
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// Increment atomically increments an integer value.
	Increment(ctx context.Context, key string, delta int64) (int64, error)
}

// =============================================================================
// Distributed Lock Interface (Redis)
// =============================================================================

// DistributedLock defines the interface for distributed locking.
// Used to serialize conflicting admin mutations against the same user id
// across multiple server instances.
type DistributedLock interface {
	// Acquire attempts to acquire a lock. On success it returns the owner
	// token stored under the key; an empty token means the lock is held by
	// another process. The lock automatically expires after the specified TTL.
	Acquire(ctx context.Context, key string, ttl time.Duration) (string, error)

	// AcquireWithRetry attempts to acquire a lock with retries.
	// Will retry up to maxRetries times with retryDelay between attempts.
	AcquireWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (string, error)

	// Release releases a lock if the token still owns it.
	// Returns true if the lock was released, false if it wasn't held.
	Release(ctx context.Context, key string, token string) (bool, error)
}
