package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/alexander-iam/internal/auth"
	"github.com/prn-tf/alexander-iam/internal/domain"
	"github.com/prn-tf/alexander-iam/internal/lock"
	"github.com/prn-tf/alexander-iam/internal/repository"
)

const (
	// statsCacheKey holds the serialized domain.UserStats snapshot.
	statsCacheKey = "iam:stats:users"
	statsCacheTTL = 30 * time.Second
)

// AdminService handles admin and moderator operations on other accounts:
// listing, stats, role changes, activation toggles, and deletion.
//
// Mutations acquire a per-user lock so two admins changing the same account
// at the same time cannot interleave their read-modify-write cycles.
type AdminService struct {
	userRepo repository.UserRepository
	locker   lock.Locker
	cache    repository.Cache
	logger   zerolog.Logger
}

// NewAdminService creates a new AdminService. cache may be nil, in which
// case stats are computed on every call.
func NewAdminService(
	userRepo repository.UserRepository,
	locker lock.Locker,
	cache repository.Cache,
	logger zerolog.Logger,
) *AdminService {
	return &AdminService{
		userRepo: userRepo,
		locker:   locker,
		cache:    cache,
		logger:   logger.With().Str("service", "admin").Logger(),
	}
}

// ListUsersInput contains filters and paging for listing users.
type ListUsersInput struct {
	Offset     int
	Limit      int
	Role       domain.Role
	ActiveOnly bool
}

// ListUsersOutput contains a page of users, the total match count, and the
// aggregate counts by role and active state.
type ListUsersOutput struct {
	Users  []domain.PublicUser
	Total  int64
	Offset int
	Limit  int
	Stats  *domain.UserStats
}

// ListUsers returns a page of user records together with aggregate counts.
func (s *AdminService) ListUsers(ctx context.Context, input ListUsersInput) (*ListUsersOutput, error) {
	if input.Role != "" && !input.Role.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRole, input.Role)
	}

	result, err := s.userRepo.List(ctx, repository.ListOptions{
		Offset:     input.Offset,
		Limit:      input.Limit,
		Role:       input.Role,
		ActiveOnly: input.ActiveOnly,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list users")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	users := make([]domain.PublicUser, 0, len(result.Items))
	for _, u := range result.Items {
		users = append(users, u.Public())
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}

	return &ListUsersOutput{
		Users:  users,
		Total:  result.Total,
		Offset: result.Offset,
		Limit:  result.Limit,
		Stats:  stats,
	}, nil
}

// GetUser returns a single user record by id.
func (s *AdminService) GetUser(ctx context.Context, userID int64) (*domain.PublicUser, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	view := user.Public()
	return &view, nil
}

// Stats returns aggregate user counts, served from cache when fresh.
func (s *AdminService) Stats(ctx context.Context) (*domain.UserStats, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, statsCacheKey); err == nil {
			var stats domain.UserStats
			if jsonErr := json.Unmarshal(data, &stats); jsonErr == nil {
				return &stats, nil
			}
			// Corrupt entry, fall through to recompute.
			_ = s.cache.Delete(ctx, statsCacheKey)
		}
	}

	stats, err := s.userRepo.Stats(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to compute user stats")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(stats); err == nil {
			if cacheErr := s.cache.Set(ctx, statsCacheKey, data, statsCacheTTL); cacheErr != nil {
				s.logger.Debug().Err(cacheErr).Msg("failed to cache user stats")
			}
		}
	}

	return stats, nil
}

// ChangeRoleInput identifies who is acting and what role the target gets.
type ChangeRoleInput struct {
	Actor        *auth.Identity
	TargetUserID int64
	Role         string
}

// ChangeRole assigns a new role to the target user. Admins cannot change
// their own role.
func (s *AdminService) ChangeRole(ctx context.Context, input ChangeRoleInput) (*domain.PublicUser, error) {
	if err := auth.SelfActionGuard(input.Actor, input.TargetUserID); err != nil {
		if errors.Is(err, domain.ErrSelfAction) {
			return nil, domain.ErrSelfRoleChange
		}
		return nil, err
	}

	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, err
	}

	var updated *domain.User
	err = withUserLock(ctx, s.locker, s.logger, input.TargetUserID, func(ctx context.Context) error {
		user, err := s.userRepo.GetByID(ctx, input.TargetUserID)
		if err != nil {
			return err
		}
		user.Role = role
		if err := s.userRepo.Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, s.mapMutationError(err, "failed to change role", input.TargetUserID)
	}

	s.logger.Info().
		Int64("actor_id", input.Actor.UserID).
		Int64("user_id", updated.ID).
		Str("role", role.String()).
		Msg("user role changed")

	s.invalidateStats(ctx)
	view := updated.Public()
	return &view, nil
}

// SetActiveInput identifies who is acting and the desired active state.
type SetActiveInput struct {
	Actor        *auth.Identity
	TargetUserID int64
	IsActive     bool
}

// SetActive activates or deactivates the target account. Admins cannot
// deactivate themselves.
func (s *AdminService) SetActive(ctx context.Context, input SetActiveInput) (*domain.PublicUser, error) {
	if err := auth.SelfActionGuard(input.Actor, input.TargetUserID); err != nil {
		if errors.Is(err, domain.ErrSelfAction) {
			return nil, domain.ErrSelfDeactivate
		}
		return nil, err
	}

	var updated *domain.User
	err := withUserLock(ctx, s.locker, s.logger, input.TargetUserID, func(ctx context.Context) error {
		user, err := s.userRepo.GetByID(ctx, input.TargetUserID)
		if err != nil {
			return err
		}
		user.IsActive = input.IsActive
		if err := s.userRepo.Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, s.mapMutationError(err, "failed to update active status", input.TargetUserID)
	}

	s.logger.Info().
		Int64("actor_id", input.Actor.UserID).
		Int64("user_id", updated.ID).
		Bool("is_active", updated.IsActive).
		Msg("user active status changed")

	s.invalidateStats(ctx)
	view := updated.Public()
	return &view, nil
}

// DeleteUserInput identifies who is acting and which account to remove.
type DeleteUserInput struct {
	Actor        *auth.Identity
	TargetUserID int64
}

// DeleteUser permanently removes the target account. Admins cannot delete
// themselves.
func (s *AdminService) DeleteUser(ctx context.Context, input DeleteUserInput) error {
	if err := auth.SelfActionGuard(input.Actor, input.TargetUserID); err != nil {
		if errors.Is(err, domain.ErrSelfAction) {
			return domain.ErrSelfDelete
		}
		return err
	}

	err := withUserLock(ctx, s.locker, s.logger, input.TargetUserID, func(ctx context.Context) error {
		return s.userRepo.Delete(ctx, input.TargetUserID)
	})
	if err != nil {
		return s.mapMutationError(err, "failed to delete user", input.TargetUserID)
	}

	s.logger.Info().
		Int64("actor_id", input.Actor.UserID).
		Int64("user_id", input.TargetUserID).
		Msg("user deleted")

	s.invalidateStats(ctx)
	return nil
}

// ModeratorOverview contains the read-only view served to moderators.
type ModeratorOverview struct {
	Stats *domain.UserStats   `json:"stats"`
	Users []domain.PublicUser `json:"users"`
}

// Overview returns aggregate stats plus a recent-users page. Moderators get
// visibility without any mutation path.
func (s *AdminService) Overview(ctx context.Context, limit int) (*ModeratorOverview, error) {
	page, err := s.ListUsers(ctx, ListUsersInput{Limit: limit})
	if err != nil {
		return nil, err
	}

	return &ModeratorOverview{Stats: page.Stats, Users: page.Users}, nil
}

// ListActiveUsers returns a page of active accounts only.
func (s *AdminService) ListActiveUsers(ctx context.Context, offset, limit int) (*ListUsersOutput, error) {
	return s.ListUsers(ctx, ListUsersInput{Offset: offset, Limit: limit, ActiveOnly: true})
}

// mapMutationError passes domain errors through and wraps everything else.
func (s *AdminService) mapMutationError(err error, msg string, userID int64) error {
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, ErrConcurrentUpdate):
		return err
	default:
		s.logger.Error().Err(err).Int64("user_id", userID).Msg(msg)
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}
}

// invalidateStats drops the cached stats snapshot after a mutation.
func (s *AdminService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, statsCacheKey); err != nil {
		s.logger.Debug().Err(err).Msg("failed to invalidate stats cache")
	}
}
