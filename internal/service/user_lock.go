package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/alexander-iam/internal/lock"
)

// Lock parameters for serializing mutations on one user id.
const (
	userLockTTL        = 5 * time.Second
	userLockRetries    = 3
	userLockRetryDelay = 50 * time.Millisecond
)

// withUserLock runs fn while holding the per-user mutation lock. Every write
// path that does a read-modify-write of a user row goes through here, both
// the admin mutations and the self-service profile/password updates, so no
// pair of concurrent requests can silently revert each other's columns.
func withUserLock(ctx context.Context, locker lock.Locker, logger zerolog.Logger, userID int64, fn func(ctx context.Context) error) error {
	key := lock.Keys.User(userID)

	token, err := locker.AcquireWithRetry(ctx, key, userLockTTL, userLockRetries, userLockRetryDelay)
	if err != nil {
		logger.Error().Err(err).Str("key", key).Msg("failed to acquire user lock")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	if token == "" {
		return ErrConcurrentUpdate
	}
	defer func() {
		if _, err := locker.Release(ctx, key, token); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("failed to release user lock")
		}
	}()

	return fn(ctx)
}
