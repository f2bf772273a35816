package auth

import "context"

// identityContextKey is the context key for the authenticated Identity.
// An unexported struct type prevents collisions with keys from other packages.
type identityContextKey struct{}

// WithIdentity returns a child context carrying the authenticated identity.
// Identities are attached per-request, never through shared state, so
// concurrent requests stay isolated.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// IdentityFromContext retrieves the authenticated identity, if any.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(*Identity)
	return identity, ok
}

// RequireIdentity retrieves the authenticated identity or returns ErrNoIdentity.
func RequireIdentity(ctx context.Context) (*Identity, error) {
	identity, ok := IdentityFromContext(ctx)
	if !ok || identity == nil {
		return nil, ErrNoIdentity
	}
	return identity, nil
}
