package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/prn-tf/alexander-iam/internal/auth"
	"github.com/prn-tf/alexander-iam/internal/domain"
	"github.com/prn-tf/alexander-iam/internal/metrics"
	"github.com/prn-tf/alexander-iam/internal/service"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// AdminHandler serves the admin mutation endpoints and the moderator
// read-only views.
type AdminHandler struct {
	admin  *service.AdminService
	logger zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(admin *service.AdminService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		admin:  admin,
		logger: logger.With().Str("handler", "admin").Logger(),
	}
}

// ListUsers handles GET /api/admin/users.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	input := service.ListUsersInput{}
	input.Offset, input.Limit = pageParams(r)
	if role := r.URL.Query().Get("role"); role != "" {
		input.Role = domain.Role(role)
	}
	input.ActiveOnly = r.URL.Query().Get("active") == "true"

	out, err := h.admin.ListUsers(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Users:   &out.Users,
		Total:   &out.Total,
		Stats:   out.Stats,
	})
}

// GetUser handles GET /api/admin/users/{id}.
func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	targetID, ok := targetUserID(w, r)
	if !ok {
		return
	}

	user, err := h.admin.GetUser(r.Context(), targetID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, User: user})
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Stats: stats})
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

// ChangeRole handles PUT /api/admin/users/{id}/role.
func (h *AdminHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.RequireIdentity(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	targetID, ok := targetUserID(w, r)
	if !ok {
		return
	}

	var req changeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.admin.ChangeRole(r.Context(), service.ChangeRoleInput{
		Actor:        identity,
		TargetUserID: targetID,
		Role:         req.Role,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	metrics.AdminMutationsTotal.WithLabelValues("change_role").Inc()
	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "User role updated successfully",
		User:    user,
	})
}

type setActiveRequest struct {
	IsActive *bool `json:"isActive"`
}

// SetActive handles PUT /api/admin/users/{id}/status. When the body omits
// isActive the current state is flipped.
func (h *AdminHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.RequireIdentity(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	targetID, ok := targetUserID(w, r)
	if !ok {
		return
	}

	var req setActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeBadRequest(w, "Invalid request body")
		return
	}

	isActive := false
	if req.IsActive != nil {
		isActive = *req.IsActive
	} else {
		current, err := h.admin.GetUser(r.Context(), targetID)
		if err != nil {
			writeError(w, err)
			return
		}
		isActive = !current.IsActive
	}

	user, err := h.admin.SetActive(r.Context(), service.SetActiveInput{
		Actor:        identity,
		TargetUserID: targetID,
		IsActive:     isActive,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	message := "User deactivated successfully"
	if user.IsActive {
		message = "User activated successfully"
	}

	metrics.AdminMutationsTotal.WithLabelValues("set_active").Inc()
	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: message,
		User:    user,
	})
}

// DeleteUser handles DELETE /api/admin/users/{id}.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.RequireIdentity(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	targetID, ok := targetUserID(w, r)
	if !ok {
		return
	}

	err = h.admin.DeleteUser(r.Context(), service.DeleteUserInput{
		Actor:        identity,
		TargetUserID: targetID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	metrics.AdminMutationsTotal.WithLabelValues("delete").Inc()
	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "User deleted successfully",
	})
}

// Overview handles GET /api/moderator/overview.
func (h *AdminHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.admin.Overview(r.Context(), defaultPageLimit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Data: overview})
}

// ListActiveUsers handles GET /api/moderator/users/active.
func (h *AdminHandler) ListActiveUsers(w http.ResponseWriter, r *http.Request) {
	offset, limit := pageParams(r)

	out, err := h.admin.ListActiveUsers(r.Context(), offset, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Users:   &out.Users,
		Total:   &out.Total,
		Stats:   out.Stats,
	})
}

// targetUserID parses the {id} route parameter, writing a 400 on failure.
func targetUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeBadRequest(w, "Invalid user id")
		return 0, false
	}
	return id, true
}

// pageParams parses offset and limit query parameters with sane bounds.
func pageParams(r *http.Request) (offset, limit int) {
	limit = defaultPageLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return offset, limit
}
