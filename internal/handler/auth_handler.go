package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/prn-tf/alexander-iam/internal/domain"
	"github.com/prn-tf/alexander-iam/internal/metrics"
	"github.com/prn-tf/alexander-iam/internal/ratelimit"
	"github.com/prn-tf/alexander-iam/internal/service"
)

// AuthHandler serves the public signup and login endpoints.
type AuthHandler struct {
	users   *service.UserService
	limiter *ratelimit.Limiter
	logger  zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler. limiter may be nil to disable
// login throttling.
func NewAuthHandler(users *service.UserService, limiter *ratelimit.Limiter, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		users:   users,
		limiter: limiter,
		logger:  logger.With().Str("handler", "auth").Logger(),
	}
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	out, err := h.users.Signup(r.Context(), service.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	metrics.SignupsTotal.Inc()
	metrics.TokensIssuedTotal.Inc()

	writeJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "User created successfully",
		User:    &out.User,
		Token:   out.Token,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeBadRequest(w, "Email and password are required")
		return
	}

	key := ratelimit.LoginKey(domain.NormalizeEmail(req.Email))
	if h.limiter != nil && !h.limiter.Allow(r.Context(), key) {
		metrics.LoginAttemptsTotal.WithLabelValues("rate_limited").Inc()
		writeError(w, service.ErrRateLimited)
		return
	}

	out, err := h.users.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues(loginOutcome(err)).Inc()
		writeError(w, err)
		return
	}

	if h.limiter != nil {
		h.limiter.Reset(r.Context(), key)
	}
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	metrics.TokensIssuedTotal.Inc()

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Login successful",
		User:    &out.User,
		Token:   out.Token,
	})
}

func loginOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrUserInactive):
		return "inactive"
	default:
		return "error"
	}
}
