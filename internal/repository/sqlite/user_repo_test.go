package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/alexander-iam/internal/domain"
	"github.com/prn-tf/alexander-iam/internal/repository"
)

func newTestRepo(t *testing.T) repository.UserRepository {
	t.Helper()

	ctx := context.Background()
	db, err := NewDB(ctx, DefaultConfig(":memory:"), zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return NewUserRepository(db)
}

func newStoredUser(t *testing.T, repo repository.UserRepository, username, email string, role domain.Role, active bool) *domain.User {
	t.Helper()

	user := domain.NewUser(username, email, "hash-"+username)
	user.Role = role
	user.IsActive = active
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user := newStoredUser(t, repo, "alice", "alice@example.com", domain.RoleUser, true)
	if user.ID == 0 {
		t.Fatal("expected assigned ID")
	}

	byID, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if byID.Username != "alice" || byID.Email != "alice@example.com" {
		t.Errorf("unexpected user: %+v", byID)
	}
	if byID.PasswordHash != "hash-alice" {
		t.Errorf("expected password hash to round-trip, got %q", byID.PasswordHash)
	}

	byUsername, err := repo.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if byUsername.ID != user.ID {
		t.Errorf("expected id %d, got %d", user.ID, byUsername.ID)
	}

	// Email lookup normalizes case.
	byEmail, err := repo.GetByEmail(ctx, "ALICE@Example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("expected id %d, got %d", user.ID, byEmail.ID)
	}
}

func TestUserRepository_GetNotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, 999); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := repo.GetByUsername(ctx, "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := repo.GetByEmail(ctx, "ghost@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepository_UniqueConstraints(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	newStoredUser(t, repo, "alice", "alice@example.com", domain.RoleUser, true)

	dupUsername := domain.NewUser("alice", "other@example.com", "hash")
	if err := repo.Create(ctx, dupUsername); !errors.Is(err, domain.ErrUserAlreadyExists) {
		t.Errorf("expected ErrUserAlreadyExists for duplicate username, got %v", err)
	}

	dupEmail := domain.NewUser("other", "alice@example.com", "hash")
	if err := repo.Create(ctx, dupEmail); !errors.Is(err, domain.ErrUserAlreadyExists) {
		t.Errorf("expected ErrUserAlreadyExists for duplicate email, got %v", err)
	}
}

func TestUserRepository_InvalidRole(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user := domain.NewUser("alice", "alice@example.com", "hash")
	user.Role = domain.Role("root")
	if err := repo.Create(ctx, user); !errors.Is(err, domain.ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}

	stored := newStoredUser(t, repo, "bob", "bob@example.com", domain.RoleUser, true)
	stored.Role = domain.Role("root")
	if err := repo.Update(ctx, stored); !errors.Is(err, domain.ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole on update, got %v", err)
	}
}

func TestUserRepository_Update(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user := newStoredUser(t, repo, "alice", "alice@example.com", domain.RoleUser, true)

	user.Role = domain.RoleModerator
	user.IsActive = false
	if err := repo.Update(ctx, user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Role != domain.RoleModerator {
		t.Errorf("expected role moderator, got %q", stored.Role)
	}
	if stored.IsActive {
		t.Error("expected user to be inactive")
	}

	missing := domain.NewUser("ghost", "ghost@example.com", "hash")
	missing.ID = 999
	if err := repo.Update(ctx, missing); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepository_UpdateDuplicate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	newStoredUser(t, repo, "alice", "alice@example.com", domain.RoleUser, true)
	bob := newStoredUser(t, repo, "bob", "bob@example.com", domain.RoleUser, true)

	bob.Email = "alice@example.com"
	if err := repo.Update(ctx, bob); !errors.Is(err, domain.ErrUserAlreadyExists) {
		t.Errorf("expected ErrUserAlreadyExists, got %v", err)
	}
}

func TestUserRepository_Delete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user := newStoredUser(t, repo, "alice", "alice@example.com", domain.RoleUser, true)

	if err := repo.Delete(ctx, user.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.GetByID(ctx, user.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, user.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound for second delete, got %v", err)
	}
}

func TestUserRepository_List(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	newStoredUser(t, repo, "alice", "alice@example.com", domain.RoleUser, true)
	newStoredUser(t, repo, "bob", "bob@example.com", domain.RoleModerator, true)
	newStoredUser(t, repo, "carol", "carol@example.com", domain.RoleUser, false)

	all, err := repo.List(ctx, repository.ListOptions{Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if all.Total != 3 || len(all.Items) != 3 {
		t.Errorf("expected 3 users, got total=%d items=%d", all.Total, len(all.Items))
	}

	mods, err := repo.List(ctx, repository.ListOptions{Limit: 10, Role: domain.RoleModerator})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mods.Total != 1 || mods.Items[0].Username != "bob" {
		t.Errorf("expected only bob, got total=%d", mods.Total)
	}

	active, err := repo.List(ctx, repository.ListOptions{Limit: 10, ActiveOnly: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if active.Total != 2 {
		t.Errorf("expected 2 active users, got %d", active.Total)
	}

	paged, err := repo.List(ctx, repository.ListOptions{Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if paged.Total != 3 || len(paged.Items) != 2 {
		t.Errorf("expected total=3 with 2 items, got total=%d items=%d", paged.Total, len(paged.Items))
	}
}

func TestUserRepository_ExistsAndStats(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	newStoredUser(t, repo, "alice", "alice@example.com", domain.RoleAdmin, true)
	newStoredUser(t, repo, "bob", "bob@example.com", domain.RoleUser, false)

	exists, err := repo.ExistsByUsername(ctx, "alice")
	if err != nil || !exists {
		t.Errorf("expected alice to exist, got exists=%t err=%v", exists, err)
	}
	exists, err = repo.ExistsByEmail(ctx, "ALICE@example.com")
	if err != nil || !exists {
		t.Errorf("expected alice's email to exist, got exists=%t err=%v", exists, err)
	}
	exists, err = repo.ExistsByUsername(ctx, "ghost")
	if err != nil || exists {
		t.Errorf("expected ghost to not exist, got exists=%t err=%v", exists, err)
	}

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Total != 2 {
		t.Errorf("expected total 2, got %d", stats.Total)
	}
	if stats.Active != 1 || stats.Inactive != 1 {
		t.Errorf("expected 1 active and 1 inactive, got %d/%d", stats.Active, stats.Inactive)
	}
	if stats.ByRole[domain.RoleAdmin] != 1 || stats.ByRole[domain.RoleUser] != 1 {
		t.Errorf("unexpected role counts: %+v", stats.ByRole)
	}
	if stats.ByRole[domain.RoleModerator] != 0 {
		t.Errorf("expected zero moderators, got %d", stats.ByRole[domain.RoleModerator])
	}
}

func TestUserRepository_TimestampsRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user := newStoredUser(t, repo, "alice", "alice@example.com", domain.RoleUser, true)

	stored, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.CreatedAt.IsZero() || stored.UpdatedAt.IsZero() {
		t.Error("expected non-zero timestamps")
	}
	if stored.CreatedAt.After(time.Now().UTC().Add(time.Minute)) {
		t.Error("created_at is in the future")
	}
}
