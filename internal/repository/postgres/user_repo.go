package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/prn-tf/alexander-iam/internal/domain"
	"github.com/prn-tf/alexander-iam/internal/repository"
)

// PostgreSQL error codes.
const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// userRepository implements repository.UserRepository for PostgreSQL.
type userRepository struct {
	db *DB
}

// NewUserRepository creates a new PostgreSQL user repository.
func NewUserRepository(db *DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, username, email, password_hash, role, is_active, created_at, updated_at`

// Create creates a new user.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if !user.Role.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidRole, user.Role)
	}

	query := `
		INSERT INTO users (username, email, password_hash, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.db.Pool.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role.String(),
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)

	if err != nil {
		return mapWriteError(err, user.Role)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row, "get user by ID")
}

// GetByUsername retrieves a user by username.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row, "get user by username")
}

// GetByEmail retrieves a user by normalized email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, domain.NormalizeEmail(email))
	return scanUser(row, "get user by email")
}

// Update updates an existing user.
// The single UPDATE statement keeps the write atomic per row, so a concurrent
// role change and delete against the same id cannot interleave.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	if !user.Role.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidRole, user.Role)
	}

	user.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE users
		SET username = $1, email = $2, password_hash = $3, role = $4, is_active = $5, updated_at = $6
		WHERE id = $7
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role.String(),
		user.IsActive,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return mapWriteError(err, user.Role)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete permanently removes a user by ID.
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// List returns users with pagination and optional role/active filters.
func (r *userRepository) List(ctx context.Context, opts repository.ListOptions) (*repository.ListResult[domain.User], error) {
	where := ` WHERE TRUE`
	args := []any{}
	if opts.Role != "" {
		args = append(args, opts.Role.String())
		where += fmt.Sprintf(` AND role = $%d`, len(args))
	}
	if opts.ActiveOnly {
		where += ` AND is_active`
	}

	var total int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	args = append(args, opts.Limit, opts.Offset)
	query := fmt.Sprintf(`SELECT `+userColumns+` FROM users`+where+`
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user := &domain.User{}
		var role string
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.PasswordHash,
			&role,
			&user.IsActive,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		user.Role = domain.Role(role)
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return &repository.ListResult[domain.User]{
		Items:  users,
		Total:  total,
		Offset: opts.Offset,
		Limit:  opts.Limit,
	}, nil
}

// ExistsByUsername checks if a user with the given username exists.
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}
	return exists, nil
}

// ExistsByEmail checks if a user with the given email exists.
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, domain.NormalizeEmail(email)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// Stats returns aggregate user counts grouped by role and active status.
func (r *userRepository) Stats(ctx context.Context) (*domain.UserStats, error) {
	stats := domain.NewUserStats()

	rows, err := r.db.Pool.Query(ctx, `
		SELECT role, is_active, COUNT(*)
		FROM users
		GROUP BY role, is_active
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate user stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var role string
		var isActive bool
		var count int64
		if err := rows.Scan(&role, &isActive, &count); err != nil {
			return nil, fmt.Errorf("failed to scan user stats: %w", err)
		}

		stats.Total += count
		stats.ByRole[domain.Role(role)] += count
		if isActive {
			stats.Active += count
		} else {
			stats.Inactive += count
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user stats: %w", err)
	}

	return stats, nil
}

func scanUser(row pgx.Row, op string) (*domain.User, error) {
	user := &domain.User{}
	var role string
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&role,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	user.Role = domain.Role(role)
	return user, nil
}

// mapWriteError translates PostgreSQL constraint violations to domain errors.
func mapWriteError(err error, role domain.Role) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: username or email already exists", domain.ErrUserAlreadyExists)
		case pgCheckViolation:
			return fmt.Errorf("%w: %q", domain.ErrInvalidRole, role)
		}
	}
	return fmt.Errorf("failed to write user: %w", err)
}

// Ensure userRepository implements repository.UserRepository.
var _ repository.UserRepository = (*userRepository)(nil)
