// Package service provides business logic services for Alexander IAM.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/prn-tf/alexander-iam/internal/auth"
	"github.com/prn-tf/alexander-iam/internal/domain"
	"github.com/prn-tf/alexander-iam/internal/lock"
	"github.com/prn-tf/alexander-iam/internal/pkg/crypto"
	"github.com/prn-tf/alexander-iam/internal/repository"
)

// UserService handles the self-service account operations: signup, login,
// profile read/update, and password change.
//
// Profile and password updates take the same per-user lock the admin
// mutations use. Both paths persist the whole user row, so an unlocked
// read-modify-write here could silently revert a concurrent admin role
// change or deactivation.
type UserService struct {
	userRepo repository.UserRepository
	hasher   *crypto.PasswordHasher
	tokens   *auth.TokenService
	locker   lock.Locker
	logger   zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	userRepo repository.UserRepository,
	hasher *crypto.PasswordHasher,
	tokens *auth.TokenService,
	locker lock.Locker,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		locker:   locker,
		logger:   logger.With().Str("service", "user").Logger(),
	}
}

// SignupInput contains the data needed to register a new account.
type SignupInput struct {
	Username string
	Email    string
	Password string

	// Role is what the caller asked for. Anything other than "user" is
	// silently downgraded: privileged roles are only granted by an admin
	// after the account exists.
	Role string
}

// SignupOutput contains the result of a successful signup.
type SignupOutput struct {
	User  domain.PublicUser
	Token string
}

// Signup validates input, creates the user with role forced to "user",
// and issues a token for the fresh account.
func (s *UserService) Signup(ctx context.Context, input SignupInput) (*SignupOutput, error) {
	if err := validateSignup(input); err != nil {
		return nil, err
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("%w: failed to hash password", ErrInternalError)
	}

	user := domain.NewUser(input.Username, input.Email, passwordHash)
	if role := strings.TrimSpace(input.Role); role != "" && role != domain.RoleUser.String() {
		// Deliberate: attempted self-assignment of admin/moderator is
		// downgraded rather than rejected.
		s.logger.Warn().
			Str("username", user.Username).
			Str("requested_role", role).
			Msg("signup attempted privileged role, downgraded to user")
	}
	user.Role = domain.RoleUser

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("username", user.Username).Msg("failed to create user")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to issue token")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Msg("user signed up")

	return &SignupOutput{User: user.Public(), Token: token}, nil
}

// LoginInput contains login credentials.
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput contains the result of a successful login.
type LoginOutput struct {
	User  domain.PublicUser
	Token string
}

// Login verifies credentials and issues a fresh token reflecting the user's
// current role. Unknown email and wrong password both fail with
// domain.ErrInvalidCredentials so responses cannot enumerate accounts.
func (s *UserService) Login(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Same outcome as a wrong password.
			s.logger.Debug().Str("email", domain.NormalizeEmail(input.Email)).Msg("login for unknown email")
			return nil, domain.ErrInvalidCredentials
		}
		s.logger.Error().Err(err).Msg("failed to look up user for login")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		s.logger.Debug().Int64("user_id", user.ID).Msg("login with invalid password")
		return nil, domain.ErrInvalidCredentials
	}

	if !user.CanAuthenticate() {
		s.logger.Debug().Int64("user_id", user.ID).Msg("login for deactivated account")
		return nil, domain.ErrUserInactive
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to issue token")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Str("role", user.Role.String()).
		Msg("user logged in")

	return &LoginOutput{User: user.Public(), Token: token}, nil
}

// GetProfile returns the public view of the acting user's own record.
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*domain.PublicUser, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to get user")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	view := user.Public()
	return &view, nil
}

// UpdateProfileInput contains the self-service profile fields.
// Role and active status are not reachable through this path.
type UpdateProfileInput struct {
	UserID   int64
	Username *string
	Email    *string
}

// UpdateProfile updates the acting user's own username and/or email. The
// read-modify-write runs under the per-user lock so it cannot interleave
// with an admin mutation of the same record.
func (s *UserService) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*domain.PublicUser, error) {
	if input.Username != nil {
		if err := domain.ValidateUsername(*input.Username); err != nil {
			return nil, err
		}
	}
	if input.Email != nil {
		if err := domain.ValidateEmail(*input.Email); err != nil {
			return nil, err
		}
	}

	var updated *domain.User
	err := withUserLock(ctx, s.locker, s.logger, input.UserID, func(ctx context.Context) error {
		user, err := s.userRepo.GetByID(ctx, input.UserID)
		if err != nil {
			return err
		}

		if input.Username != nil {
			user.Username = strings.TrimSpace(*input.Username)
		}
		if input.Email != nil {
			user.Email = domain.NormalizeEmail(*input.Email)
		}

		if err := s.userRepo.Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound),
			errors.Is(err, domain.ErrUserAlreadyExists),
			errors.Is(err, ErrConcurrentUpdate),
			errors.Is(err, ErrInternalError):
			return nil, err
		default:
			s.logger.Error().Err(err).Int64("user_id", input.UserID).Msg("failed to update profile")
			return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
		}
	}

	s.logger.Info().Int64("user_id", updated.ID).Msg("profile updated")
	view := updated.Public()
	return &view, nil
}

// ChangePasswordInput contains the data needed to change a password.
type ChangePasswordInput struct {
	UserID          int64
	CurrentPassword string
	NewPassword     string
}

// ChangePassword verifies the current password before accepting a new one.
// Like UpdateProfile, the whole cycle runs under the per-user lock.
func (s *UserService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	err := withUserLock(ctx, s.locker, s.logger, input.UserID, func(ctx context.Context) error {
		user, err := s.userRepo.GetByID(ctx, input.UserID)
		if err != nil {
			return err
		}

		if !s.hasher.Verify(input.CurrentPassword, user.PasswordHash) {
			return domain.ErrInvalidCredentials
		}

		if err := domain.ValidatePassword(input.NewPassword); err != nil {
			return err
		}

		newHash, err := s.hasher.Hash(input.NewPassword)
		if err != nil {
			return fmt.Errorf("%w: failed to hash password", ErrInternalError)
		}

		user.PasswordHash = newHash
		return s.userRepo.Update(ctx, user)
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound),
			errors.Is(err, domain.ErrInvalidCredentials),
			errors.Is(err, domain.ErrInvalidPassword),
			errors.Is(err, ErrConcurrentUpdate),
			errors.Is(err, ErrInternalError):
			return err
		default:
			s.logger.Error().Err(err).Int64("user_id", input.UserID).Msg("failed to update password")
			return fmt.Errorf("%w: %v", ErrInternalError, err)
		}
	}

	s.logger.Info().Int64("user_id", input.UserID).Msg("password updated")
	return nil
}

// validateSignup validates the input for creating an account.
func validateSignup(input SignupInput) error {
	if err := domain.ValidateUsername(input.Username); err != nil {
		return err
	}
	if err := domain.ValidateEmail(input.Email); err != nil {
		return err
	}
	return domain.ValidatePassword(input.Password)
}
