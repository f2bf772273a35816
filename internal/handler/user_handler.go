package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/prn-tf/alexander-iam/internal/auth"
	"github.com/prn-tf/alexander-iam/internal/service"
)

// UserHandler serves the authenticated self-service profile endpoints.
type UserHandler struct {
	users  *service.UserService
	logger zerolog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger.With().Str("handler", "user").Logger(),
	}
}

// GetProfile handles GET /api/profile.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.RequireIdentity(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.GetProfile(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, User: user})
}

type updateProfileRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

// UpdateProfile handles PUT /api/profile.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.RequireIdentity(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}
	if req.Username == nil && req.Email == nil {
		writeBadRequest(w, "Nothing to update")
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), service.UpdateProfileInput{
		UserID:   identity.UserID,
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Profile updated successfully",
		User:    user,
	})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword handles PUT /api/profile/password.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.RequireIdentity(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		writeBadRequest(w, "Current and new password are required")
		return
	}

	err = h.users.ChangePassword(r.Context(), service.ChangePasswordInput{
		UserID:          identity.UserID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Password changed successfully",
	})
}
