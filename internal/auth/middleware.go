package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// Header conventions for bearer-token authentication.
const (
	// AuthorizationHeader is the HTTP header carrying the bearer token.
	AuthorizationHeader = "Authorization"

	// BearerScheme is the expected authorization scheme.
	BearerScheme = "Bearer"
)

// Middleware creates the authentication gate. It extracts the bearer token
// from the Authorization header, verifies it, and attaches the decoded
// identity to the request context.
//
// A request with no token is rejected with 401 before the token service is
// ever consulted; a request with an invalid or expired token is rejected
// with 403. Paths listed in skipPaths bypass the gate entirely.
func Middleware(tokens *TokenService, skipPaths ...string) func(http.Handler) http.Handler {
	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			tokenString, err := BearerToken(r)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "No token provided")
				return
			}

			identity, err := tokens.Verify(tokenString)
			if err != nil {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("token verification failed")
				writeAuthError(w, http.StatusForbidden, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// BearerToken extracts the token from the Authorization header: the second
// whitespace-delimited part, following the Bearer convention.
func BearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get(AuthorizationHeader))
	if header == "" {
		return "", ErrNoToken
	}

	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], BearerScheme) {
		return "", ErrNoToken
	}
	return parts[1], nil
}

// writeAuthError writes a JSON error envelope for gate rejections.
func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   message,
	})
}
