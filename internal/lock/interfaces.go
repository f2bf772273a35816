// Package lock provides distributed and local locking abstractions.
// For single-node deployments, memory-based locks are used.
// For distributed deployments, Redis-based locks can be used.
package lock

import (
	"context"
	"strconv"
	"time"
)

// Locker defines the interface for distributed/local locking.
// This abstraction allows switching between in-memory locks (single-node)
// and Redis-based locks (distributed) without changing business logic.
// Alexander IAM serializes admin mutations against a single user id with it
// so a concurrent role change and delete cannot interleave.
type Locker interface {
	// Acquire attempts to acquire a lock. On success it returns an opaque
	// owner token; an empty token means the lock is held elsewhere. The lock
	// will automatically expire after the specified TTL.
	Acquire(ctx context.Context, key string, ttl time.Duration) (string, error)

	// AcquireWithRetry attempts to acquire a lock with retries.
	// Will retry up to maxRetries times with retryDelay between attempts.
	AcquireWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (string, error)

	// Release releases a lock. The token must be the one returned by the
	// Acquire call, so a holder whose lock already expired and was taken
	// over cannot free the new holder's lock.
	// Returns true if the lock was released, false if it wasn't held.
	Release(ctx context.Context, key string, token string) (bool, error)
}

// =============================================================================
// Common Lock Keys
// =============================================================================

// Keys provides lock key generation for common scenarios.
var Keys = lockKeys{}

type lockKeys struct{}

// User returns a lock key serializing mutations of a single user record.
func (lockKeys) User(userID int64) string {
	return "lock:user:" + strconv.FormatInt(userID, 10)
}
