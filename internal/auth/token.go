package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/prn-tf/alexander-iam/internal/domain"
)

// DefaultTokenTTL is the token lifetime used when no TTL is configured.
const DefaultTokenTTL = 24 * time.Hour

// Identity is the snapshot of a user embedded in a token at issuance time.
// The role is frozen until the holder re-authenticates: an admin changing a
// user's role does not invalidate tokens issued before the change.
type Identity struct {
	UserID   int64
	Username string
	Email    string
	Role     domain.Role
}

// Claims is the JWT payload carried by issued tokens.
type Claims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed, time-bound identity tokens.
// The signing secret is injected at construction and read-only thereafter,
// so a single instance is safe for unlimited concurrent use.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService with the given secret and token TTL.
// A non-positive TTL falls back to DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue serializes the user's identity snapshot into a signed HS256 token.
func (s *TokenService) Issue(user *domain.User) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of a token and returns the embedded
// identity snapshot. Expiry is reported as ErrTokenExpired; every other
// failure (malformed, tampered, wrong secret, bad claims) as ErrTokenInvalid.
func (s *TokenService) Verify(tokenString string) (*Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, fmt.Errorf("%w: bad subject", ErrTokenInvalid)
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: bad role claim", ErrTokenInvalid)
	}

	return &Identity{
		UserID:   userID,
		Username: claims.Username,
		Email:    claims.Email,
		Role:     role,
	}, nil
}

// TTL returns the configured token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}
