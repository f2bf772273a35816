package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prn-tf/alexander-iam/internal/domain"
)

func identityCtx(role domain.Role) context.Context {
	return WithIdentity(context.Background(), &Identity{
		UserID:   1,
		Username: "alice",
		Email:    "alice@example.com",
		Role:     role,
	})
}

func TestPolicy_Check(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		ctx     context.Context
		wantErr error
	}{
		{
			name:   "admin allowed",
			policy: RequireRole(domain.RoleAdmin),
			ctx:    identityCtx(domain.RoleAdmin),
		},
		{
			name:    "user forbidden from admin policy",
			policy:  RequireRole(domain.RoleAdmin),
			ctx:     identityCtx(domain.RoleUser),
			wantErr: ErrRoleForbidden,
		},
		{
			name:    "moderator forbidden from admin policy",
			policy:  RequireRole(domain.RoleAdmin),
			ctx:     identityCtx(domain.RoleModerator),
			wantErr: ErrRoleForbidden,
		},
		{
			name:   "moderator allowed by any-role policy",
			policy: RequireAnyRole(domain.RoleAdmin, domain.RoleModerator),
			ctx:    identityCtx(domain.RoleModerator),
		},
		{
			name:    "no identity",
			policy:  RequireRole(domain.RoleAdmin),
			ctx:     context.Background(),
			wantErr: ErrNoIdentity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := tt.policy.Check(tt.ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if identity == nil {
				t.Fatal("expected identity")
			}
		})
	}
}

func TestPolicy_Middleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	gate := RequireRole(domain.RoleAdmin).Middleware(next)

	tests := []struct {
		name       string
		ctx        context.Context
		wantStatus int
	}{
		{name: "admin passes", ctx: identityCtx(domain.RoleAdmin), wantStatus: http.StatusOK},
		{name: "user rejected", ctx: identityCtx(domain.RoleUser), wantStatus: http.StatusForbidden},
		{name: "anonymous rejected", ctx: context.Background(), wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil).WithContext(tt.ctx)
			rec := httptest.NewRecorder()

			gate.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestSelfActionGuard(t *testing.T) {
	identity := &Identity{UserID: 5, Role: domain.RoleAdmin}

	if err := SelfActionGuard(identity, 5); !errors.Is(err, domain.ErrSelfAction) {
		t.Errorf("expected ErrSelfAction, got %v", err)
	}
	if err := SelfActionGuard(identity, 6); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := SelfActionGuard(nil, 5); !errors.Is(err, ErrNoIdentity) {
		t.Errorf("expected ErrNoIdentity, got %v", err)
	}
}
