package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/prn-tf/alexander-iam/internal/domain"
)

// Policy is an authorization decision over the authenticated identity.
// A Policy is a value built from a fixed set of roles, not a variadic
// check invoked ad hoc, so the accepted set is visible at wiring time.
type Policy struct {
	roles []domain.Role
}

// RequireRole builds a policy accepting exactly one role.
func RequireRole(role domain.Role) Policy {
	return Policy{roles: []domain.Role{role}}
}

// RequireAnyRole builds a policy accepting any of the given roles.
func RequireAnyRole(roles ...domain.Role) Policy {
	return Policy{roles: roles}
}

// Check evaluates the policy against the identity in ctx.
// Returns ErrNoIdentity when no identity is attached (safe to call even if
// the authentication gate did not run) and ErrRoleForbidden when the
// identity's role is not in the accepted set.
func (p Policy) Check(ctx context.Context) (*Identity, error) {
	identity, err := RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	for _, role := range p.roles {
		if identity.Role == role {
			return identity, nil
		}
	}
	return nil, fmt.Errorf("%w. Required role: %s", ErrRoleForbidden, p.describeRoles())
}

// Middleware wraps a handler with the policy check.
// Rejections happen before the wrapped handler runs, so no repository call
// is ever made on behalf of an unauthorized request.
func (p Policy) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := p.Check(r.Context()); err != nil {
			status := http.StatusForbidden
			if err == ErrNoIdentity {
				status = http.StatusUnauthorized
			}
			writeAuthError(w, status, capitalize(err.Error()))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Roles returns the accepted role set.
func (p Policy) Roles() []domain.Role {
	return p.roles
}

func (p Policy) describeRoles() string {
	names := make([]string, len(p.roles))
	for i, r := range p.roles {
		names[i] = r.String()
	}
	return strings.Join(names, " or ")
}

// SelfActionGuard rejects privileged operations that target the acting
// identity's own account. This is a safety rule distinct from role checks:
// it applies even to admins, and it is evaluated before any mutation.
func SelfActionGuard(identity *Identity, targetUserID int64) error {
	if identity == nil {
		return ErrNoIdentity
	}
	if identity.UserID == targetUserID {
		return domain.ErrSelfAction
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
